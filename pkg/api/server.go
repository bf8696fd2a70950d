// Package api exposes the risk engine over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ws "github.com/quantrisk/var-engine/internal/websocket"
	"github.com/quantrisk/var-engine/pkg/metrics"
	"github.com/quantrisk/var-engine/pkg/utils/logger"
)

// Config holds the configuration for the API server.
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Environment  string
}

// Server is the HTTP server for the risk API.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	handlers   *Handlers
	hub        *ws.Hub
	recorder   *metrics.Recorder
	log        *logger.Logger
}

// NewServer creates the API server and wires its routes.
func NewServer(config Config, handlers *Handlers, hub *ws.Hub, recorder *metrics.Recorder) *Server {
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = 10 * time.Second
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 10 * time.Second
	}

	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		config:   config,
		router:   gin.New(),
		handlers: handlers,
		hub:      hub,
		recorder: recorder,
		log:      logger.GetLogger("api.server"),
	}
	server.setupRoutes()
	return server
}

// Router returns the underlying gin engine, for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the server until it fails or is shut down.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.log.Infof("starting API server on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		s.log.Info("stopping API server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	if s.recorder != nil {
		s.router.Use(s.metricsMiddleware())
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if s.hub != nil {
		s.router.GET("/ws", func(c *gin.Context) {
			s.hub.HandleWebSocket(c.Writer, c.Request)
		})
	}

	api := s.router.Group("/api/v1")
	api.GET("/health", s.handlers.Health)

	portfolios := api.Group("/portfolios")
	portfolios.GET("", s.handlers.ListPortfolios)
	portfolios.POST("", s.handlers.SavePortfolio)
	portfolios.GET("/:id", s.handlers.GetPortfolio)
	portfolios.DELETE("/:id", s.handlers.DeletePortfolio)
	portfolios.GET("/:id/risk", s.handlers.GetPortfolioRisk)
	portfolios.GET("/:id/rolling", s.handlers.GetPortfolioRolling)

	api.POST("/risk/evaluate", s.handlers.Evaluate)
}
