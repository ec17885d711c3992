package routes

import (
	"github.com/gin-gonic/gin"

	"biblioteca_portal/app"
	"biblioteca_portal/controllers"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	pageCtl := controllers.NewPageController(s)
	actionCtl := controllers.NewActionController(s)
	apiCtl := controllers.NewAPIController(s)
	healthCtl := controllers.NewHealthController(s)

	// 复用的中间件
	pageAuth := app.AuthRequired(a.AppSessions(), a.Log, false)
	apiAuth := app.AuthRequired(a.AppSessions(), a.Log, true)
	window := a.Config.Session.SubmitGuard
	pageGuard := app.SubmitGuard(a.RDB, window, a.Log, actionCtl.DuplicateSubmit)
	apiGuard := app.SubmitGuard(a.RDB, window, a.Log, nil)

	// 运维
	r.GET("/health", healthCtl.Health)
	r.GET("/healthz", healthCtl.Ready)
	r.GET("/metrics", controllers.Metrics(a.Metrics))

	// 登录 / 登出
	r.GET("/", authCtl.LoginPage)
	r.POST("/login", authCtl.Login)
	r.POST("/logout", authCtl.Logout)

	// 页面（需要会话）
	pages := r.Group("", pageAuth)
	{
		pages.GET("/app", pageCtl.Dashboard)
		pages.GET("/catalogo", pageCtl.Catalog)
		pages.GET("/prestamos", pageCtl.Loans)
		pages.GET("/reservas", pageCtl.Reservations)
	}

	actions := r.Group("", pageAuth, pageGuard)
	{
		actions.POST("/catalogo/:id/reservar", actionCtl.Reserve)
		actions.POST("/catalogo/:id/prestar", actionCtl.Loan)
		actions.POST("/prestamos/:id/devolver", actionCtl.Return)
		actions.POST("/reservas/:id/cancelar", actionCtl.Cancel)
		actions.POST("/notificaciones/:id/leer", actionCtl.MarkRead)
	}

	// JSON 代理
	api := r.Group("/api")
	{
		api.POST("/login", apiCtl.Login)
		api.GET("/users", apiCtl.Users)

		authed := api.Group("", apiAuth)
		authed.GET("/books", apiCtl.Books)
		authed.GET("/loans", apiCtl.Loans)
		authed.GET("/reservations", apiCtl.Reservations)

		writes := authed.Group("", apiGuard)
		writes.POST("/loans", apiCtl.CreateLoan)
		writes.POST("/loans/:id/return", apiCtl.ReturnLoan)
		writes.POST("/reservations", apiCtl.CreateReservation)
		writes.POST("/reservations/:id/cancel", apiCtl.CancelReservation)
	}

	r.NoRoute(pageCtl.NoRoute)
}
