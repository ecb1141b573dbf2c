package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// DefaultShutdownTimeout bounds Shutdown when ctx carries no deadline.
const DefaultShutdownTimeout = 30 * time.Second

// Server wraps an http.Server around a handler.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithTimeouts sets the read and write timeouts. Zero keeps the default.
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(s *Server) {
		if read > 0 {
			s.srv.ReadTimeout = read
		}
		if write > 0 {
			s.srv.WriteTimeout = write
		}
	}
}

// WithServerLogger sets the logger for lifecycle messages.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Server listening on addr.
func New(addr string, h http.Handler, optFns ...ServerOption) *Server {
	s := &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Handler returns the served handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start blocks serving requests. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", slog.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultShutdownTimeout)
		defer cancel()
	}

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
