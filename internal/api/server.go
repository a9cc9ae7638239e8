// Package api serves the loopback JSON API the UI layer talks to.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/hayati/internal/app"
	"github.com/julianstephens/hayati/internal/config"
	"github.com/julianstephens/hayati/internal/logger"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	app    *app.App
	cfg    config.APIConfig
	engine *gin.Engine
}

func NewServer(a *app.App, cfg config.APIConfig) *Server {
	s := &Server{app: a, cfg: cfg}
	s.engine = s.router()
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) router() *gin.Engine {
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(recovery(), requestLogger(), metricsMiddleware(s.app.Metrics))
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(corsConfig(s.cfg.AllowedOrigins)))
	}

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(s.app.Metrics.Handler()))

	api := r.Group("/api")

	taskGroup := api.Group("/tasks")
	taskGroup.POST("", s.createTask)
	taskGroup.GET("", s.listTasks)
	taskGroup.GET("/:id", s.getTask)
	taskGroup.PATCH("/:id", s.updateTask)
	taskGroup.DELETE("/:id", s.deleteTask)
	taskGroup.POST("/:id/toggle", s.toggleTask)

	habitGroup := api.Group("/habits")
	habitGroup.POST("", s.createHabit)
	habitGroup.GET("", s.listHabits)
	habitGroup.GET("/stats", s.habitStats)
	habitGroup.GET("/:id", s.getHabit)
	habitGroup.PATCH("/:id", s.updateHabit)
	habitGroup.DELETE("/:id", s.deleteHabit)
	habitGroup.POST("/:id/logs", s.logHabit)
	habitGroup.GET("/:id/calendar", s.habitCalendar)

	prayerGroup := api.Group("/prayers")
	prayerGroup.GET("/times", s.prayerTimes)
	prayerGroup.GET("/next", s.nextPrayer)
	prayerGroup.GET("/methods", s.prayerMethods)
	prayerGroup.POST("/logs", s.logPrayer)
	prayerGroup.GET("/logs", s.prayerLogs)

	api.GET("/settings", s.getSettings)
	api.PATCH("/settings", s.updateSettings)

	notifyGroup := api.Group("/notifications")
	notifyGroup.POST("", s.showNotification)
	notifyGroup.GET("/permission", s.notificationPermission)
	notifyGroup.POST("/actions", s.notificationAction)

	goalGroup := api.Group("/goals")
	goalGroup.POST("", s.createGoal)
	goalGroup.GET("", s.listGoals)
	goalGroup.GET("/:id", s.getGoal)
	goalGroup.PATCH("/:id", s.updateGoal)
	goalGroup.POST("/:id/progress", s.updateGoalProgress)
	goalGroup.DELETE("/:id", s.deleteGoal)

	pomodoroGroup := api.Group("/pomodoro")
	pomodoroGroup.POST("/sessions", s.recordPomodoro)
	pomodoroGroup.GET("/sessions", s.pomodoroHistory)
	pomodoroGroup.GET("/stats", s.pomodoroStats)

	dataGroup := api.Group("/data")
	dataGroup.GET("/export", s.exportJSON)
	dataGroup.GET("/export.csv", s.exportCSV)
	dataGroup.POST("/import", s.importJSON)

	return r
}

func (s *Server) health(c *gin.Context) {
	success(c, gin.H{"status": "ok", "permission": s.app.Notifier.CheckPermission()})
}

// Run listens on the configured address until ctx is cancelled, then shuts
// the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API listening", "addr", s.cfg.Addr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
