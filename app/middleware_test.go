package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"biblioteca_portal/models"
	"biblioteca_portal/session"
)

func init() { gin.SetMode(gin.TestMode) }

func newStore(t *testing.T) (*session.AppSessionStore, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return session.NewAppSessionStore(rdb, time.Hour), rdb, mr
}

func get(r *gin.Engine, method, path, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: AppSessionCookie, Value: sid})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	store, _, _ := newStore(t)
	require.NoError(t, store.Save(context.Background(), "sid-1", models.Session{Token: "tok", User: models.User{ID: 4, FullName: "Ana"}}))

	r := gin.New()
	r.GET("/page", AuthRequired(store, zap.NewNop(), false), func(c *gin.Context) {
		as, ok := CurrentSession(c)
		require.True(t, ok)
		c.String(http.StatusOK, "%d %s", as.User.ID, SessionID(c))
	})
	r.GET("/api/x", AuthRequired(store, zap.NewNop(), true), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(r, http.MethodGet, "/page", "sid-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4 sid-1", w.Body.String())

	w = get(r, http.MethodGet, "/page", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = get(r, http.MethodGet, "/page", "unknown")
	assert.Equal(t, http.StatusFound, w.Code)

	w = get(r, http.MethodGet, "/api/x", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"No autenticado"}`, w.Body.String())
}

func TestSubmitGuard(t *testing.T) {
	store, rdb, mr := newStore(t)
	require.NoError(t, store.Save(context.Background(), "sid-1", models.Session{Token: "tok", User: models.User{ID: 4}}))

	calls := 0
	r := gin.New()
	r.POST("/do", AuthRequired(store, zap.NewNop(), true), SubmitGuard(rdb, 2*time.Second, zap.NewNop(), nil), func(c *gin.Context) {
		calls++
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, get(r, http.MethodPost, "/do", "sid-1").Code)
	assert.Equal(t, http.StatusConflict, get(r, http.MethodPost, "/do", "sid-1").Code)
	assert.Equal(t, 1, calls)

	mr.FastForward(3 * time.Second)
	assert.Equal(t, http.StatusNoContent, get(r, http.MethodPost, "/do", "sid-1").Code)
	assert.Equal(t, 2, calls)
}

func TestSubmitGuard_Disabled(t *testing.T) {
	store, rdb, _ := newStore(t)
	require.NoError(t, store.Save(context.Background(), "sid-1", models.Session{Token: "tok", User: models.User{ID: 4}}))

	r := gin.New()
	r.POST("/do", AuthRequired(store, zap.NewNop(), true), SubmitGuard(rdb, 0, zap.NewNop(), nil), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, get(r, http.MethodPost, "/do", "sid-1").Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := get(r, http.MethodGet, "/", "")
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
