package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"biblioteca_portal/app"
	"biblioteca_portal/config"
	"biblioteca_portal/db"
	"biblioteca_portal/gateway"
	"biblioteca_portal/models"
	"biblioteca_portal/render"
	"biblioteca_portal/session"
	"biblioteca_portal/views"
)

type Srv struct {
	Gateway  *gateway.Client
	Views    *views.Views
	AppSess  *session.AppSessionStore
	Activity db.ActivityRecorder
	Log      *zap.Logger
	Cfg      config.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Gateway:  a.Gateway,
		Views:    a.Views,
		AppSess:  a.AppSessions(),
		Activity: a.Activity,
		Log:      a.Log,
		Cfg:      a.Config,
	}
}

// --- helpers ---

// 统一设置业务会话 Cookie
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.Cfg.Server.SecureCookies(),
		MaxAge:   int(maxAge / time.Second),
	})
}

func (s *Srv) clearAppCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // 删除
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.Cfg.Server.SecureCookies(),
	})
}

// 登录成功：创建会话 + 写 cookie
func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, res *models.LoginResult) (string, error) {
	id := uuid.NewString()
	if err := s.AppSess.Save(ctx, id, models.Session{Token: res.AccessToken, User: res.User}); err != nil {
		return "", err
	}
	s.setAppCookie(w, id, s.AppSess.TTL())
	return id, nil
}

// state 由 AuthRequired 放进 Context 的会话构造
func (s *Srv) state(c *gin.Context) views.State {
	as, ok := app.CurrentSession(c)
	if !ok {
		return views.State{}
	}
	return views.NewState(as.Session())
}

// expired 处理网关 401：清会话、回登录页。返回 true 表示已经响应
func (s *Srv) expired(c *gin.Context, err error) bool {
	if !gateway.IsUnauthenticated(err) && !errors.Is(err, views.ErrNoSession) {
		return false
	}
	sid := app.SessionID(c)
	if err := s.AppSess.Clear(c.Request.Context(), sid); err != nil {
		s.Log.Warn("clear expired session", zap.Error(err))
	}
	s.clearAppCookie(c.Writer)
	if isAPI(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, app.H{"error": "Sesión expirada"})
		return true
	}
	c.Redirect(http.StatusSeeOther, "/?expirada=1")
	c.Abort()
	return true
}

func isAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// page 渲染带导航的页面，先取出排队的 flash
func (s *Srv) page(c *gin.Context, status int, active views.Page, st views.State, content any, flashes ...session.Flash) {
	queued, err := s.AppSess.PopFlashes(c.Request.Context(), app.SessionID(c))
	if err != nil {
		s.Log.Warn("pop flashes", zap.Error(err))
	}
	user := st.Session.User
	c.HTML(status, string(active), render.Page{
		Title:    active.Title(),
		Active:   active,
		Nav:      views.Nav(active),
		User:     &user,
		Flashes:  append(queued, flashes...),
		Counters: st.Counters,
		Content:  content,
	})
}

// outcome 操作结果转成页面提示
func outcome(msg string, err error) []session.Flash {
	switch {
	case msg == "":
		return nil
	case err != nil:
		return []session.Flash{{Kind: session.FlashError, Message: msg}}
	}
	return []session.Flash{{Kind: session.FlashSuccess, Message: msg}}
}

// record 写审计日志，失败只记日志
func (s *Srv) record(c *gin.Context, userID int, accion, recurso string, err error) {
	e := &models.ActivityEntry{
		UsuarioID: userID,
		Accion:    accion,
		RecursoID: recurso,
		OK:        err == nil,
		RequestID: app.GetRequestID(c),
	}
	if err != nil {
		e.Detalle = clip(views.Reason(err, err.Error()), 255)
	}
	if rerr := s.Activity.Record(c.Request.Context(), e); rerr != nil {
		s.Log.Warn("record activity", zap.String("accion", accion), zap.Error(rerr))
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
