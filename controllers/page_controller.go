package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"biblioteca_portal/views"
)

// PageController 渲染四个页面；进入页面即加载数据
type PageController struct{ *Srv }

func NewPageController(s *Srv) *PageController { return &PageController{Srv: s} }

const recentActivity = 5

func (pc *PageController) Dashboard(c *gin.Context) {
	st := pc.state(c)
	counters, err := pc.Views.Dashboard.Counters(c.Request.Context(), st)
	if pc.expired(c, err) {
		return
	}
	if err != nil {
		// 任一失败三个都显示 0
		pc.Log.Warn("dashboard counters", zap.Error(err))
		counters = views.Counters{}
	}
	st.Counters = &counters

	content := views.DashboardView(st)
	if list, err := pc.Activity.Recent(c.Request.Context(), st.Session.User.ID, recentActivity); err != nil {
		pc.Log.Warn("recent activity", zap.Error(err))
	} else {
		content.Activity = list
	}
	pc.page(c, http.StatusOK, views.PageDashboard, st, content)
}

// 筛选条件：GET 在 query，POST 动作表单里带着隐藏字段
func catalogFilter(c *gin.Context) views.Filter {
	return views.Filter{
		Search:   formOrQuery(c, "buscar"),
		Category: formOrQuery(c, "categoria"),
		Author:   formOrQuery(c, "autor"),
	}
}

func formOrQuery(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return c.Query(key)
}

func (pc *PageController) Catalog(c *gin.Context) {
	st, err := pc.Views.Catalog.Load(c.Request.Context(), pc.state(c))
	if pc.expired(c, err) {
		return
	}
	pc.page(c, http.StatusOK, views.PageCatalog, st, views.CatalogView(st, catalogFilter(c), err))
}

func (pc *PageController) Loans(c *gin.Context) {
	st, err := pc.Views.Loans.Load(c.Request.Context(), pc.state(c))
	if pc.expired(c, err) {
		return
	}
	detalle, _ := strconv.Atoi(c.Query("detalle"))
	pc.page(c, http.StatusOK, views.PageLoans, st, views.LoansView(st, detalle, err))
}

func (pc *PageController) Reservations(c *gin.Context) {
	st, ok, err := pc.loadReservations(c)
	if !ok {
		return
	}
	pc.page(c, http.StatusOK, views.PageReservations, st, views.ReservationsView(st, c.Query("estado"), err))
}

// loadReservations 列表和未读通知；ok 为 false 表示会话失效已响应
func (pc *PageController) loadReservations(c *gin.Context) (views.State, bool, error) {
	ctx := c.Request.Context()
	st, err := pc.Views.Reservations.Load(ctx, pc.state(c))
	if pc.expired(c, err) {
		return st, false, err
	}
	next, nerr := pc.Views.Reservations.LoadNotifications(ctx, st)
	if pc.expired(c, nerr) {
		return st, false, nerr
	}
	if nerr == nil {
		st = next
	}
	return st, true, err
}

// NoRoute 未知路径回到 /app；/api 下回 404 JSON
func (pc *PageController) NoRoute(c *gin.Context) {
	if isAPI(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	_, canonical, _ := views.Resolve(c.Request.URL.Path)
	c.Redirect(http.StatusFound, canonical)
}
