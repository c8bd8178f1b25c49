package server

import (
	"crypto/tls"
	"fmt"
	"time"
)

// Config is the environment-driven shape of a Server, loaded with
// config.Load. Zero timeouts fall back to the package defaults; TLS is
// enabled when both certificate and key files are set.
type Config struct {
	Addr string `env:"SERVER_ADDR" envDefault:":8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	MaxHeaderBytes int `env:"SERVER_MAX_HEADER_BYTES" envDefault:"1048576"`

	TLSCertFile string `env:"SERVER_TLS_CERT_FILE" envDefault:""`
	TLSKeyFile  string `env:"SERVER_TLS_KEY_FILE" envDefault:""`
}

// DefaultConfig mirrors the package defaults on :8080, for callers that
// want a Config without touching the environment.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxHeaderBytes:  DefaultMaxHeaderBytes,
	}
}

// NewFromConfig builds a Server from cfg. Options run after the config is
// applied, so they win on conflict.
func NewFromConfig(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Addr == "" {
		return nil, ErrMissingAddress
	}

	s := New(cfg.Addr)
	if cfg.ReadTimeout > 0 {
		s.tmo.read = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		s.tmo.write = cfg.WriteTimeout
	}
	if cfg.IdleTimeout > 0 {
		s.tmo.idle = cfg.IdleTimeout
	}
	if cfg.ShutdownTimeout > 0 {
		s.grace = cfg.ShutdownTimeout
	}
	if cfg.MaxHeaderBytes > 0 {
		s.tmo.maxHeader = cfg.MaxHeaderBytes
	}

	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load tls key pair (%s, %s): %w", cfg.TLSCertFile, cfg.TLSKeyFile, err)
		}
		s.tlsConf = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}
