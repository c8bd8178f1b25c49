package server

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

var (
	// ErrAlreadyRunning is returned by Start on a server that is serving.
	ErrAlreadyRunning = errors.New("server already running")

	// ErrMissingAddress is returned by NewFromConfig when the config
	// carries no listen address.
	ErrMissingAddress = errors.New("server address is required")
)

// Defaults keep slow or stalled clients from pinning connections while
// leaving keep-alives useful for clients that poll their quota.
const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20
)

// timeouts groups the knobs that go straight onto the http.Server.
type timeouts struct {
	read      time.Duration
	write     time.Duration
	idle      time.Duration
	maxHeader int
}

// Server runs an http.Server with a managed lifecycle: Start blocks until
// the context ends or the listener fails, Stop drains in-flight requests
// within the shutdown grace period. Safe for concurrent use.
type Server struct {
	mu      sync.Mutex
	addr    string
	logger  *slog.Logger
	tlsConf *tls.Config
	grace   time.Duration
	tmo     timeouts
	srv     *http.Server
	running bool
}

// Option configures a Server at construction.
type Option func(*Server)

// WithLogger sets the logger for lifecycle events. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTLS makes the server listen for HTTPS with the given config.
func WithTLS(conf *tls.Config) Option {
	return func(s *Server) { s.tlsConf = conf }
}

// WithShutdownTimeout bounds how long Stop waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.grace = d }
}

// WithReadTimeout bounds reading the full request, header and body.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) { s.tmo.read = d }
}

// WithWriteTimeout bounds writing the response.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) { s.tmo.write = d }
}

// WithIdleTimeout bounds how long a keep-alive connection may sit idle.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.tmo.idle = d }
}

// WithMaxHeaderBytes caps the request header size.
func WithMaxHeaderBytes(n int) Option {
	return func(s *Server) { s.tmo.maxHeader = n }
}

// New builds a Server listening on addr once started.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:   addr,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		grace:  DefaultShutdownTimeout,
		tmo: timeouts{
			read:      DefaultReadTimeout,
			write:     DefaultWriteTimeout,
			idle:      DefaultIdleTimeout,
			maxHeader: DefaultMaxHeaderBytes,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start serves h and blocks until ctx ends or the listener fails. It
// returns ctx.Err() on cancellation; pair it with Stop to drain. Starting
// a server that is already serving returns ErrAlreadyRunning.
func (s *Server) Start(ctx context.Context, h http.Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.srv = &http.Server{
		Addr:           s.addr,
		Handler:        h,
		ReadTimeout:    s.tmo.read,
		WriteTimeout:   s.tmo.write,
		IdleTimeout:    s.tmo.idle,
		MaxHeaderBytes: s.tmo.maxHeader,
		TLSConfig:      s.tlsConf,
	}
	srv, useTLS := s.srv, s.tlsConf != nil
	s.mu.Unlock()

	failed := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "http server listening", "addr", s.addr, "tls", useTLS)

		var err error
		if useTLS {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop drains in-flight requests within the shutdown grace period. It is a
// no-op on a server that never started.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.srv == nil {
		return nil
	}
	s.running = false

	s.logger.Info("http server draining", "grace", s.grace)

	ctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("http server shutdown failed", "error", err)
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}

// Run adapts the server to errgroup.Go: the returned function serves h
// until ctx ends, then stops gracefully. Cancellation is a clean exit, not
// an error.
func (s *Server) Run(ctx context.Context, h http.Handler) func() error {
	return func() error {
		done := make(chan error, 1)
		go func() {
			done <- s.Start(ctx, h)
		}()

		select {
		case <-ctx.Done():
			if err := s.Stop(); err != nil {
				s.logger.Error("http server stop failed", "error", err)
			}
			<-done
			return nil
		case err := <-done:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Run serves h on addr with default settings until ctx ends.
func Run(ctx context.Context, addr string, h http.Handler) error {
	return New(addr).Start(ctx, h)
}
