package middleware

import (
	"net/http"

	"github.com/turnstilehq/turnstile/core/handler"
	"github.com/turnstilehq/turnstile/pkg/clientip"
)

type clientIPContextKey struct{}

// ClientIPConfig configures the client IP middleware.
type ClientIPConfig struct {
	// Skip bypasses IP resolution for matching requests.
	Skip func(ctx handler.Context) bool

	// SetHeader echoes the resolved IP on the response, under HeaderName.
	SetHeader bool

	// HeaderName is the response header for SetHeader (default: "X-Client-IP").
	HeaderName string
}

// ClientIP resolves the caller's IP from forwarding headers and stores it
// in the request context, where the throttle key functions read it.
func ClientIP[C handler.Context]() handler.Middleware[C] {
	return ClientIPWithConfig[C](ClientIPConfig{})
}

// ClientIPWithConfig is ClientIP with explicit configuration.
func ClientIPWithConfig[C handler.Context](cfg ClientIPConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Client-IP"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			ip := clientip.GetIP(ctx.Request())
			ctx.SetValue(clientIPContextKey{}, ip)

			resp := next(ctx)
			if !cfg.SetHeader {
				return resp
			}
			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(cfg.HeaderName, ip)
				return resp(w, r)
			}
		}
	}
}

// GetClientIP returns the IP the ClientIP middleware resolved for this
// request, and whether the middleware ran at all.
func GetClientIP(ctx handler.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok
}
