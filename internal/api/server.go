// Package api exposes the classifier and incident store over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/triage/internal/core/config"
)

// Deps are the services behind the HTTP routes.
type Deps struct {
	Predictor Predictor
	Incidents Incidents
	Monitor   HealthChecker
}

// Server serves the HTTP API.
type Server struct {
	router *gin.Engine
	server *http.Server
	addr   net.Addr
	mu     sync.Mutex
}

// NewServer builds the router. Debug enables gin's debug mode.
func NewServer(cfg config.ServerConfig, deps Deps, debug bool) *Server {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(), instrument())

	h := &handlers{
		predictor: deps.Predictor,
		incidents: deps.Incidents,
		monitor:   deps.Monitor,
	}

	// POST /predict
	// POST /ingest
	// GET /incidents?limit=50&severity=high
	// GET /stats
	group := router.Group("/")
	group.Use(rateLimit(cfg.RateLimit))
	group.POST("/predict", h.predict)
	group.POST("/ingest", h.ingest)
	group.GET("/incidents", h.listIncidents)
	group.GET("/stats", h.stats)

	router.GET("/health", h.health)
	router.GET("/health/detailed", h.healthDetailed)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		router: router,
		server: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listener and serves in the background. Bind errors are
// returned synchronously.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	slog.Info("HTTP server listening", "addr", ln.Addr().String())
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address once Start succeeded.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
