package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"biblioteca_portal/session"
)

const AppSessionCookie = "app_session"

const (
	sessionIDKey = "sessionID"
	sessionKey   = "session"
	userIDKey    = "usuario_id"
)

// SessionLoader 由 *session.AppSessionStore 实现
type SessionLoader interface {
	Load(ctx context.Context, id string) (*session.AppSession, error)
}

// AuthRequired 页面请求没有会话时跳回登录页；api 为 true 时回 401 JSON
func AuthRequired(store SessionLoader, log *zap.Logger, api bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, _ := c.Cookie(AppSessionCookie)
		as, err := store.Load(c.Request.Context(), sid)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				log.Warn("load session", zap.Error(err), zap.String("request_id", GetRequestID(c)))
			}
			if api {
				c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "No autenticado"})
				return
			}
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		// 后续 handler 从 Context 取
		c.Set(sessionIDKey, sid)
		c.Set(sessionKey, as)
		c.Set(userIDKey, as.User.ID)
		c.Next()
	}
}

// CurrentSession 只在 AuthRequired 之后可用
func CurrentSession(c *gin.Context) (*session.AppSession, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	as, ok := v.(*session.AppSession)
	return as, ok && as != nil
}

func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
