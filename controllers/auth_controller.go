package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"biblioteca_portal/app"
	"biblioteca_portal/gateway"
	"biblioteca_portal/models"
	"biblioteca_portal/render"
	"biblioteca_portal/session"
	"biblioteca_portal/views"
)

const MsgSessionExpired = "Tu sesión ha expirado. Inicia sesión de nuevo."

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

type loginContent struct {
	Username string
	DevUsers []models.DevUser
}

func (ac *AuthController) loginPage(c *gin.Context, status int, username string, flashes []session.Flash) {
	content := loginContent{Username: username}
	if ac.Cfg.App.Debug {
		content.DevUsers = devUsers
	}
	c.HTML(status, render.Login, render.Page{Title: "Iniciar sesión", Flashes: flashes, Content: content})
}

// GET / 已登录直接进 /app
func (ac *AuthController) LoginPage(c *gin.Context) {
	sid, _ := c.Cookie(app.AppSessionCookie)
	if _, err := ac.AppSess.Load(c.Request.Context(), sid); err == nil {
		c.Redirect(http.StatusFound, views.DashboardPath)
		return
	}
	var flashes []session.Flash
	if c.Query("expirada") != "" {
		flashes = append(flashes, session.Flash{Kind: session.FlashInfo, Message: MsgSessionExpired})
	}
	ac.loginPage(c, http.StatusOK, "", flashes)
}

// POST /login
func (ac *AuthController) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		ac.loginPage(c, http.StatusBadRequest, username, []session.Flash{{Kind: session.FlashError, Message: "Error: usuario y contraseña son obligatorios"}})
		return
	}

	res, err := ac.Gateway.Login(c.Request.Context(), username, password)
	if err != nil {
		ac.Log.Info("login failed", zap.String("username", username), zap.Error(err))
		msg := views.MsgInvalidLogin
		switch {
		case gateway.IsConnection(err):
			msg = views.MsgConnection
		case gateway.Detail(err) != "":
			msg = "Error: " + gateway.Detail(err)
		}
		ac.loginPage(c, http.StatusOK, username, []session.Flash{{Kind: session.FlashError, Message: msg}})
		return
	}
	if res.AccessToken == "" || res.User.ID == 0 {
		ac.Log.Warn("login response without token or user", zap.String("username", username))
		ac.loginPage(c, http.StatusOK, username, []session.Flash{{Kind: session.FlashError, Message: views.MsgInvalidLogin}})
		return
	}

	if _, err := ac.issueSession(c.Request.Context(), c.Writer, res); err != nil {
		ac.Log.Error("save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, app.H{"error": "session error"})
		return
	}
	ac.record(c, res.User.ID, models.ActionLogin, res.User.Username, nil)
	c.Redirect(http.StatusSeeOther, views.DashboardPath)
}

// POST /logout：删 Redis，会话 Cookie 置空
func (ac *AuthController) Logout(c *gin.Context) {
	sid, _ := c.Cookie(app.AppSessionCookie)
	if as, err := ac.AppSess.Load(c.Request.Context(), sid); err == nil {
		ac.record(c, as.User.ID, models.ActionLogout, "", nil)
	}
	if sid != "" {
		if err := ac.AppSess.Clear(c.Request.Context(), sid); err != nil {
			ac.Log.Warn("clear session", zap.Error(err))
		}
	}
	ac.clearAppCookie(c.Writer)
	c.Redirect(http.StatusSeeOther, "/")
}
