package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/config"
	"github.com/medbook/medbook/internal/domain/appointment"
	"github.com/medbook/medbook/internal/domain/doctor"
	"github.com/medbook/medbook/internal/domain/support"
	"github.com/medbook/medbook/internal/domain/user"
	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/db"
	"github.com/medbook/medbook/internal/platform/docstore"
	"github.com/medbook/medbook/internal/platform/middleware"
	"github.com/medbook/medbook/internal/platform/websocket"
)

const Version = "1.0.0"

const supportFeedPath = "/api/support/ws"

// Server is the HTTP API over a document store.
type Server struct {
	Echo *echo.Echo
	Hub  *websocket.Hub

	limiter *middleware.RateLimiter
	stop    chan struct{}
	logger  zerolog.Logger
}

// New wires every route and middleware. Call Shutdown to stop background
// work.
func New(cfg *config.Config, store *docstore.Store, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.ErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders(cfg.TLSEnabled))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout, supportFeedPath))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": Version,
		})
	})
	e.GET("/health/store", db.HealthHandler(store.Backend()))

	rlCfg := middleware.DefaultRateLimitConfig()
	if cfg.RateLimitRPS > 0 {
		rlCfg.RequestsPerSecond = cfg.RateLimitRPS
	}
	if cfg.RateLimitBurst > 0 {
		rlCfg.BurstSize = cfg.RateLimitBurst
	}
	limiter := middleware.NewRateLimiter(rlCfg)

	hub := websocket.NewHub(logger.With().Str("component", "support-feed").Logger())

	api := e.Group("/api")

	appointment.NewHandler(appointment.NewService(appointment.NewDocRepo(store), logger)).RegisterRoutes(api)
	doctor.NewHandler(doctor.NewService(doctor.NewDocRepo(store), logger)).RegisterRoutes(api)
	user.NewHandler(user.NewService(user.NewDocRepo(store), logger)).RegisterRoutes(api, limiter.Middleware())
	support.NewHandler(support.NewService(support.NewDocRepo(store), hub, logger)).RegisterRoutes(api)
	websocket.NewWebSocketHandler(hub, cfg.CORSOrigins).RegisterRoutes(api.Group("/support"))

	s := &Server{
		Echo:    e,
		Hub:     hub,
		limiter: limiter,
		stop:    make(chan struct{}),
		logger:  logger,
	}
	go limiter.RunJanitor(time.Minute, s.stop)
	return s
}

func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("starting server")
	return s.Echo.Start(addr)
}

func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	s.logger.Info().Str("addr", addr).Msg("starting server with TLS")
	return s.Echo.StartTLS(addr, certFile, keyFile)
}

func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stop)
	return s.Echo.Shutdown(ctx)
}
