package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/skurlov/identsvc/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Server runs the HTTP API until the context is cancelled.
type Server struct {
	address string
	handler *Handler
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, svc AuthAPI) *Server {
	logger := l.With("module", "http_server")
	return &Server{
		address: address,
		handler: NewHandler(svc, logger),
		logger:  logger,
	}
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.handler.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
