// Package server exposes the pricing core over an HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"quantpricer/internal/config"
	"quantpricer/internal/logging"
	"quantpricer/internal/pricing"
	"quantpricer/internal/store"
)

// Server wraps the gin engine and its lifecycle.
type Server struct {
	engine *gin.Engine
	logger zerolog.Logger
	addr   string
}

// New creates the API server, wiring routes to the pricing core. The
// scenario store is optional; without it the logging endpoints are disabled.
func New(cfg *config.Config, logger zerolog.Logger, scenarios store.ScenarioStore) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	if cfg.Server.CORSEnabled {
		engine.Use(corsMiddleware())
	}

	solver := pricing.Solver{
		Tolerance: cfg.Solver.Tolerance,
		MaxIter:   cfg.Solver.MaxIter,
	}

	h := &Handler{
		logger:    logger,
		solver:    solver,
		scenarios: scenarios,
	}
	h.RegisterRoutes(engine)

	return &Server{
		engine: engine,
		logger: logger,
		addr:   cfg.Addr(),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info().Msg("API server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs each handled request at debug level.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.LogRequest(logger, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware allows cross-origin requests from dashboard frontends.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
