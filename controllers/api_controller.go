package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"biblioteca_portal/app"
	"biblioteca_portal/gateway"
	"biblioteca_portal/models"
	"biblioteca_portal/views"
)

const msgConnectionAPI = "Error de conexión con el servidor"

// 开发用测试账号
var devUsers = []models.DevUser{
	{ID: 1, Username: "admin", FullName: "Administrador Principal", Role: "administrador"},
	{ID: 2, Username: "profesor1", FullName: "Dr. Carlos Rodríguez", Role: "profesor"},
	{ID: 3, Username: "profesor2", FullName: "Dra. María González", Role: "profesor"},
	{ID: 4, Username: "estudiante1", FullName: "Ana López", Role: "estudiante"},
	{ID: 5, Username: "estudiante2", FullName: "Juan Pérez", Role: "estudiante"},
	{ID: 6, Username: "estudiante3", FullName: "Laura Martínez", Role: "estudiante"},
	{ID: 7, Username: "estudiante4", FullName: "Pedro Sánchez", Role: "estudiante"},
	{ID: 8, Username: "estudiante5", FullName: "Sofía Ramírez", Role: "estudiante"},
	{ID: 9, Username: "bibliotecario", FullName: "Roberto Castro", Role: "bibliotecario"},
}

// APIController JSON 代理：会话里的 token 转发给网关，状态码和 detail 原样返回
type APIController struct{ *Srv }

func NewAPIController(s *Srv) *APIController { return &APIController{Srv: s} }

// fail 网关错误转成 JSON
func (ac *APIController) fail(c *gin.Context, err error) {
	if ac.expired(c, err) {
		return
	}
	var he *gateway.HTTPError
	switch {
	case gateway.IsConnection(err):
		c.JSON(http.StatusServiceUnavailable, app.H{"error": msgConnectionAPI})
	case errors.As(err, &he):
		msg := he.Detail
		if msg == "" {
			msg = http.StatusText(he.Status)
		}
		c.JSON(he.Status, app.H{"error": msg, "detail": msg})
	case errors.Is(err, views.ErrUnavailable):
		c.JSON(http.StatusConflict, app.H{"error": views.MsgUnavailable})
	default:
		ac.Log.Error("api proxy", zap.Error(err), zap.String("request_id", app.GetRequestID(c)))
		c.JSON(http.StatusInternalServerError, app.H{"error": views.MsgUnknownError})
	}
}

// POST /api/login：成功后同时建立浏览器会话
func (ac *APIController) Login(c *gin.Context) {
	var in models.LoginRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.Username == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "username y password son obligatorios"})
		return
	}
	res, err := ac.Gateway.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		ac.fail(c, err)
		return
	}
	if _, err := ac.issueSession(c.Request.Context(), c.Writer, res); err != nil {
		ac.Log.Error("save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, app.H{"error": "session error"})
		return
	}
	ac.record(c, res.User.ID, models.ActionLogin, res.User.Username, nil)
	c.JSON(http.StatusOK, res)
}

func (ac *APIController) Users(c *gin.Context) {
	c.JSON(http.StatusOK, devUsers)
}

func (ac *APIController) Books(c *gin.Context) {
	st := ac.state(c)
	books, err := ac.Gateway.ListBooks(c.Request.Context(), st.Session.Token)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// GET /api/loans 全部借阅，与仪表盘默认口径一致
func (ac *APIController) Loans(c *gin.Context) {
	st := ac.state(c)
	loans, err := ac.Gateway.ListAllLoans(c.Request.Context(), st.Session.Token)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, loans)
}

// POST /api/loans，usuario_id 取自会话
func (ac *APIController) CreateLoan(c *gin.Context) {
	var in models.LoanRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.LibroID <= 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "libro_id es obligatorio"})
		return
	}
	st := ac.state(c)
	in.UsuarioID = st.Session.User.ID
	if in.DiasPrestamo <= 0 {
		in.DiasPrestamo = views.DiasPrestamo
	}
	loan, err := ac.Gateway.CreateLoan(c.Request.Context(), st.Session.Token, in)
	ac.record(c, in.UsuarioID, models.ActionLoan, strconv.Itoa(in.LibroID), err)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

func (ac *APIController) ReturnLoan(c *gin.Context) {
	id, ok := intParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return
	}
	st := ac.state(c)
	res, err := ac.Gateway.ReturnLoan(c.Request.Context(), st.Session.Token, id)
	ac.record(c, st.Session.User.ID, models.ActionReturn, strconv.Itoa(id), err)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/reservations 当前用户的预约
func (ac *APIController) Reservations(c *gin.Context) {
	st := ac.state(c)
	list, err := ac.Gateway.ListUserReservations(c.Request.Context(), st.Session.Token, st.Session.User.ID)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/reservations 走共享的预约服务，仪表盘计数一并刷新
func (ac *APIController) CreateReservation(c *gin.Context) {
	var in models.ReservationRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.LibroID <= 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "libro_id es obligatorio"})
		return
	}
	st := ac.state(c)
	st, r, err := ac.Views.Reserver.Create(c.Request.Context(), st, in.LibroID, "")
	ac.record(c, st.Session.User.ID, models.ActionReserve, strconv.Itoa(in.LibroID), err)
	if err != nil {
		ac.fail(c, err)
		return
	}
	out := app.H{"reserva": r}
	if st.Counters != nil {
		out["contadores"] = app.H{
			"total_libros":      st.Counters.TotalBooks,
			"prestamos_activos": st.Counters.ActiveLoans,
			"reservas_activas":  st.Counters.ActiveReservations,
		}
	}
	c.JSON(http.StatusCreated, out)
}

func (ac *APIController) CancelReservation(c *gin.Context) {
	id := c.Param("id")
	st := ac.state(c)
	r, err := ac.Gateway.CancelReservation(c.Request.Context(), st.Session.Token, id)
	ac.record(c, st.Session.User.ID, models.ActionCancel, id, err)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
