// Package server exposes restore-graph computation over HTTP for tooling
// that prefers a long-lived endpoint to a one-shot CLI run.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/danmuck/restorectl/internal/observability"
	"github.com/danmuck/restorectl/internal/restore"
)

// GraphDriver is the slice of the restore driver the service needs.
type GraphDriver interface {
	RestoreGraph(ctx context.Context, req restore.Request) (restore.Result, error)
}

type Config struct {
	Addr string
}

// Service hosts the restore-graph HTTP API. Every request runs its own
// invocation; request-scoped cancellation propagates to the engine process.
type Service struct {
	cfg    Config
	driver GraphDriver
	log    zerolog.Logger
	router *gin.Engine
}

func New(cfg Config, driver GraphDriver, log zerolog.Logger) *Service {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		observability.RequestLogger(log),
		observability.RequestMetricsMiddleware(),
	)

	s := &Service{
		cfg:    cfg,
		driver: driver,
		log:    log,
		router: router,
	}
	s.registerRoutes()
	return s
}

// Router exposes the handler for tests and embedding.
func (s *Service) Router() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info().Str("addr", s.cfg.Addr).Msg("restore graph service listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-errCh:
		return err
	}
}
