package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"biblioteca_portal/app"
	"biblioteca_portal/models"
	"biblioteca_portal/session"
	"biblioteca_portal/views"
)

// 页面上的写操作。结果页直接用刷新后的 state 渲染，不再重新加载
type ActionController struct{ *PageController }

func NewActionController(s *Srv) *ActionController {
	return &ActionController{PageController: NewPageController(s)}
}

const msgInvalidID = "❌ Identificador inválido"

func intParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil && id > 0
}

// formConfirm 表单里 confirmar=si 才算确认
func formConfirm(c *gin.Context) views.Confirmer {
	return func(string) bool { return c.PostForm("confirmar") == "si" }
}

func errorFlash(msg string) session.Flash { return session.Flash{Kind: session.FlashError, Message: msg} }

// POST /catalogo/:id/reservar
func (ac *ActionController) Reserve(c *gin.Context) {
	ac.catalogAction(c, models.ActionReserve, ac.Views.Catalog.Reserve)
}

// POST /catalogo/:id/prestar
func (ac *ActionController) Loan(c *gin.Context) {
	ac.catalogAction(c, models.ActionLoan, ac.Views.Catalog.Loan)
}

type catalogOp func(ctx context.Context, st views.State, bookID int) (views.State, string, error)

func (ac *ActionController) catalogAction(c *gin.Context, accion string, op catalogOp) {
	ctx := c.Request.Context()
	st, loadErr := ac.Views.Catalog.Load(ctx, ac.state(c))
	if ac.expired(c, loadErr) {
		return
	}
	id, ok := intParam(c)
	if !ok {
		ac.page(c, http.StatusBadRequest, views.PageCatalog, st, views.CatalogView(st, catalogFilter(c), loadErr), errorFlash(msgInvalidID))
		return
	}

	st, msg, err := op(ctx, st, id)
	if ac.expired(c, err) {
		return
	}
	ac.record(c, st.Session.User.ID, accion, strconv.Itoa(id), err)
	if st.Books != nil {
		loadErr = nil
	}
	ac.page(c, http.StatusOK, views.PageCatalog, st, views.CatalogView(st, catalogFilter(c), loadErr), outcome(msg, err)...)
}

// POST /prestamos/:id/devolver
func (ac *ActionController) Return(c *gin.Context) {
	ctx := c.Request.Context()
	st, loadErr := ac.Views.Loans.Load(ctx, ac.state(c))
	if ac.expired(c, loadErr) {
		return
	}
	id, ok := intParam(c)
	if !ok {
		ac.page(c, http.StatusBadRequest, views.PageLoans, st, views.LoansView(st, 0, loadErr), errorFlash(msgInvalidID))
		return
	}

	st, msg, err := ac.Views.Loans.Return(ctx, st, id, formConfirm(c))
	if ac.expired(c, err) {
		return
	}
	if !errors.Is(err, views.ErrNotConfirmed) {
		ac.record(c, st.Session.User.ID, models.ActionReturn, strconv.Itoa(id), err)
	}
	if st.Loans != nil {
		loadErr = nil
	}
	ac.page(c, http.StatusOK, views.PageLoans, st, views.LoansView(st, 0, loadErr), outcome(msg, err)...)
}

// POST /reservas/:id/cancelar
func (ac *ActionController) Cancel(c *gin.Context) {
	st, ok, loadErr := ac.loadReservations(c)
	if !ok {
		return
	}
	id := strings.TrimSpace(c.Param("id"))

	st, msg, err := ac.Views.Reservations.Cancel(c.Request.Context(), st, id, formConfirm(c))
	if ac.expired(c, err) {
		return
	}
	if !errors.Is(err, views.ErrNotConfirmed) {
		ac.record(c, st.Session.User.ID, models.ActionCancel, id, err)
	}
	if st.Reservations != nil {
		loadErr = nil
	}
	ac.page(c, http.StatusOK, views.PageReservations, st, views.ReservationsView(st, c.PostForm("estado"), loadErr), outcome(msg, err)...)
}

// POST /notificaciones/:id/leer，失败不提示
func (ac *ActionController) MarkRead(c *gin.Context) {
	st, ok, loadErr := ac.loadReservations(c)
	if !ok {
		return
	}
	id := strings.TrimSpace(c.Param("id"))

	st, err := ac.Views.Reservations.MarkRead(c.Request.Context(), st, id)
	if ac.expired(c, err) {
		return
	}
	ac.record(c, st.Session.User.ID, models.ActionMarkRead, id, err)
	ac.page(c, http.StatusOK, views.PageReservations, st, views.ReservationsView(st, c.PostForm("estado"), loadErr))
}

// DuplicateSubmit 重复提交：提示后回到所在页面
func (ac *ActionController) DuplicateSubmit(c *gin.Context) {
	sid := app.SessionID(c)
	if err := ac.AppSess.PushFlash(c.Request.Context(), sid, session.Flash{Kind: session.FlashInfo, Message: app.MsgDuplicateSubmit}); err != nil {
		ac.Log.Warn("push flash", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, actionPage(c.Request.URL.Path).Path())
}

// actionPage 动作路径所属的页面
func actionPage(path string) views.Page {
	switch {
	case strings.HasPrefix(path, "/catalogo/"):
		return views.PageCatalog
	case strings.HasPrefix(path, "/prestamos/"):
		return views.PageLoans
	case strings.HasPrefix(path, "/reservas/"), strings.HasPrefix(path, "/notificaciones/"):
		return views.PageReservations
	}
	return views.PageDashboard
}
