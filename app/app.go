package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"biblioteca_portal/config"
	"biblioteca_portal/db"
	"biblioteca_portal/gateway"
	"biblioteca_portal/render"
	"biblioteca_portal/session"
	"biblioteca_portal/views"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router   *gin.Engine
	RDB      *redis.Client
	DB       *gorm.DB // 可为 nil：未配置 DATABASE_URL 时不记审计
	Log      *zap.Logger
	Config   config.Config
	Gateway  *gateway.Client
	Views    *views.Views
	Renderer *render.Renderer
	Activity db.ActivityRecorder
	Metrics  *prometheus.Registry

	appSess *session.AppSessionStore
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

// New 连接 Redis（必需）和 Postgres（可选），组装 gin
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	// --- Postgres（审计日志）---
	var gdb *gorm.DB
	activity := db.ActivityRecorder(db.NopActivity{})
	if cfg.Database.Enabled() {
		var err error
		gdb, err = db.ConnectDB(cfg.Database.URL)
		if err != nil {
			_ = rdb.Close()
			return nil, err
		}
		activity = db.NewRepo(gdb)
	} else {
		log.Info("DATABASE_URL not set, activity log disabled")
	}

	a := Build(cfg, log, rdb, activity)
	a.DB = gdb
	return a, nil
}

// Build 用现成的连接组装 App，测试里直接用 miniredis
func Build(cfg *config.Config, log *zap.Logger, rdb *redis.Client, activity db.ActivityRecorder) *App {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	reg := prometheus.NewRegistry()
	gw := gateway.New(cfg.Gateway.BaseURL,
		gateway.WithLogger(log.Named("gateway")),
		gateway.WithMetrics(gateway.NewMetrics(reg)),
	)

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(log))
	useCORS(r, cfg.Server.WebOrigin)

	renderer := render.MustNew()
	r.HTMLRender = renderer

	return &App{
		Router:   r,
		RDB:      rdb,
		Log:      log,
		Config:   *cfg,
		Gateway:  gw,
		Views:    views.New(gw, log.Named("views"), views.Options{ScopedLoans: cfg.Gateway.ScopedLoans}),
		Renderer: renderer,
		Activity: activity,
		Metrics:  reg,
		appSess:  session.NewAppSessionStore(rdb, cfg.Session.TTL),
	}
}

// Run 启动 HTTP 服务，ctx 结束时优雅退出
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Server.Addr(),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("listening", zap.String("addr", srv.Addr), zap.String("gateway", a.Gateway.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() {
	_ = a.RDB.Close()
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.Log.Sync()
}
