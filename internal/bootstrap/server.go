package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/letservice/config"
	"github.com/Domenick1991/letservice/internal/logger"
)

// Drainer is anything that must finish in-flight work before exit.
type Drainer interface {
	Shutdown(ctx context.Context) error
}

type Server struct {
	httpServer *http.Server
	drainers   []Drainer
	timeout    time.Duration
	logger     logger.Logger
}

func NewServer(cfg *config.Config, handler http.Handler, log logger.Logger, drainers ...Drainer) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		drainers: drainers,
		timeout:  time.Duration(cfg.Worker.ShutdownSeconds) * time.Second,
		logger:   log,
	}
}

// Run serves HTTP and blocks until ctx is canceled or the server fails. On
// cancellation the listener is closed first, then every drainer in order.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", logger.F("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.shutdownDrainers()
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var errs []error
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	for _, d := range s.drainers {
		if err := d.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Server) shutdownDrainers() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	for _, d := range s.drainers {
		if err := d.Shutdown(ctx); err != nil {
			s.logger.Warn("drain failed", logger.F("error", err))
		}
	}
}
