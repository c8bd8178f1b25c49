package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/turnstilehq/turnstile/core/handler"
	"github.com/turnstilehq/turnstile/core/logger"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip suppresses logging for matching requests.
	Skip func(ctx handler.Context) bool

	// Logger receives the log lines (default: slog.Default()).
	Logger *slog.Logger

	// Level is the level for ordinary requests (default: info). Failures
	// and slow requests escalate regardless.
	Level slog.Level

	// SlowThreshold marks requests slower than this as slow and logs them
	// at warning level (default: 5s).
	SlowThreshold time.Duration

	// Component tags every line (default: "http").
	Component string
}

// Logging logs one line per served request at info level.
func Logging[C handler.Context]() handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{})
}

// LoggingWithLogger is Logging writing to the given logger.
func LoggingWithLogger[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

// LoggingWithConfig logs one line per served request: method, path, status,
// response size, and duration, plus the request ID and client IP when the
// corresponding middleware ran earlier in the chain. Server errors log at
// error level, client errors and slow requests at warning.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Level == 0 {
		cfg.Level = slog.LevelInfo
	}
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				ww := &loggingWriter{ResponseWriter: w}
				err := resp(ww, r)
				elapsed := time.Since(start)

				attrs := []slog.Attr{
					logger.Component(cfg.Component),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.StatusCode(ww.status),
					logger.BytesOut(int64(ww.bytes)),
					logger.Duration(elapsed),
					logger.Query(r.URL.RawQuery),
				}
				if id, ok := GetRequestID(ctx); ok {
					attrs = append(attrs, logger.RequestID(id))
				}
				if ip, ok := GetClientIP(ctx); ok {
					attrs = append(attrs, logger.ClientIP(ip))
				}

				level := cfg.Level
				switch {
				case err != nil || ww.status >= http.StatusInternalServerError:
					level = slog.LevelError
					attrs = append(attrs, logger.Error(err))
				case ww.status >= http.StatusBadRequest:
					level = slog.LevelWarn
				case elapsed > cfg.SlowThreshold:
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("slow", true))
				}

				cfg.Logger.LogAttrs(r.Context(), level, "request served", attrs...)
				return err
			}
		}
	}
}

// loggingWriter observes the status and body size flowing to the client.
type loggingWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *loggingWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *loggingWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
