package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"biblioteca_portal/app"
	"biblioteca_portal/gateway"
)

type HealthController struct{ *Srv }

func NewHealthController(s *Srv) *HealthController { return &HealthController{Srv: s} }

// GET /health 只表示本进程存活
func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, app.H{"status": "healthy", "service": "frontend"})
}

// GET /healthz 探测网关
func (hc *HealthController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status, err := hc.Gateway.Health(ctx)
	if err != nil {
		msg := gateway.Detail(err)
		if msg == "" {
			msg = err.Error()
		}
		c.JSON(http.StatusServiceUnavailable, app.H{"ok": false, "gateway": hc.Gateway.BaseURL(), "error": msg})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "gateway": hc.Gateway.BaseURL(), "services": status})
}

func Metrics(reg *prometheus.Registry) gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
}
