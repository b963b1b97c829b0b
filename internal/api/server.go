// Package api wires the HTTP surface together.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/pristinarr/pristinarr/internal/config"
	"github.com/pristinarr/pristinarr/internal/history"
	"github.com/pristinarr/pristinarr/internal/logger"
	"github.com/pristinarr/pristinarr/internal/runner"
	"github.com/pristinarr/pristinarr/internal/scheduler"
	"github.com/pristinarr/pristinarr/internal/settings"
)

// Server handles HTTP requests for the Pristinarr API.
type Server struct {
	echo      *echo.Echo
	cfg       *config.Config
	log       *logger.Logger
	logger    zerolog.Logger
	startTime time.Time

	store     *settings.Store
	runner    *runner.Service
	history   *history.Service
	scheduler *scheduler.Service
}

// NewServer creates a new API server instance.
func NewServer(cfg *config.Config, log *logger.Logger, store *settings.Store, run *runner.Service, hist *history.Service, sched *scheduler.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		cfg:       cfg,
		log:       log,
		logger:    log.With().Str("component", "api").Logger(),
		startTime: time.Now(),
		store:     store,
		runner:    run,
		history:   hist,
		scheduler: sched,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Debug().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")
	api.GET("/health", s.healthCheck)
	api.GET("/status", s.getStatus)

	runner.NewHandlers(s.runner).RegisterRoutes(api)

	settings.NewHandlers(s.store, s.scheduler).RegisterRoutes(api.Group("/config"))

	history.NewHandlers(s.history).RegisterRoutes(api.Group("/history"))

	scheduler.NewHandlers(s.scheduler).RegisterRoutes(api.Group("/scheduler"))

	NewLogsHandlers(s.log).RegisterRoutes(api.Group("/logs"))
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"version":      config.Version,
		"startTime":    s.startTime.Format(time.RFC3339),
		"applications": s.store.ApplicationNames(),
		"scheduler":    s.scheduler.Status(),
	})
}
