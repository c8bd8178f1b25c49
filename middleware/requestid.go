package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/turnstilehq/turnstile/core/handler"
)

type requestIDContextKey struct{}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip bypasses ID assignment for matching requests.
	Skip func(ctx handler.Context) bool

	// Generator mints new IDs (default: UUID v4).
	Generator func() string

	// HeaderName carries the ID on responses and, with UseExisting, is
	// read from requests (default: "X-Request-ID").
	HeaderName string

	// UseExisting adopts an ID the client already sent instead of minting
	// a fresh one. Off by default: inbound IDs are caller-controlled.
	UseExisting bool
}

// RequestID assigns each request a UUID, stores it in the request context,
// and echoes it on the response.
func RequestID[C handler.Context]() handler.Middleware[C] {
	return RequestIDWithConfig[C](RequestIDConfig{})
}

// RequestIDWithConfig is RequestID with explicit configuration.
func RequestIDWithConfig[C handler.Context](cfg RequestIDConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	gen := cfg.Generator
	if gen == nil {
		gen = uuid.NewString
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			var id string
			if cfg.UseExisting {
				id = ctx.Request().Header.Get(cfg.HeaderName)
			}
			if id == "" {
				id = gen()
			}
			ctx.SetValue(requestIDContextKey{}, id)

			resp := next(ctx)
			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(cfg.HeaderName, id)
				return resp(w, r)
			}
		}
	}
}

// GetRequestID returns the ID assigned to this request, and whether the
// RequestID middleware ran at all.
func GetRequestID(ctx handler.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok
}
