package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/turnstilehq/turnstile/core/handler"
	"github.com/turnstilehq/turnstile/core/response"
	"github.com/turnstilehq/turnstile/pkg/throttle"
)

// throttleDrainContextKey is used as a key for storing the pending drain handle
// in request context when ManualDrain is enabled.
type throttleDrainContextKey struct{}

// ThrottleConfig configures the request throttling middleware.
type ThrottleConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Rate is the limit expression, e.g. "100/minute" or "10/s:fixed".
	// Ignored when Limiter is set.
	Rate string
	// Burst overrides the bucket capacity (defaults to the rate amount).
	// Ignored when Limiter is set.
	Burst float64
	// Limiter is a pre-built limiter to use instead of constructing one
	// from Rate, Burst and Store
	Limiter *throttle.Limiter
	// Store holds bucket state (default: in-memory LRU store).
	// Ignored when Limiter is set.
	Store throttle.Store
	// StoreSize caps the default in-memory store; 0 means the store default.
	// Ignored when Store or Limiter is set.
	StoreSize int
	// KeyFunc extracts the client identity (default: client IP, falling back
	// to the request remote address)
	KeyFunc func(ctx handler.Context) string
	// CostFunc returns the token cost of a request (default: constant 1)
	CostFunc func(ctx handler.Context) float64
	// OnAllowed runs after an admitted decision; a non-nil response
	// short-circuits the handler chain
	OnAllowed func(ctx handler.Context, res throttle.Result) handler.Response
	// OnThrottled runs after a rejected decision; a nil response falls back
	// to the default 429
	OnThrottled func(ctx handler.Context, res throttle.Result) handler.Response
	// ManualDrain admits requests without consuming tokens and stores a drain
	// handle in context for the handler to settle via GetDrain
	ManualDrain bool
	// SetHeaders enables X-RateLimit-* response headers
	SetHeaders bool
}

// Throttle creates a request throttling middleware with the given rate and
// default configuration: per-IP keys, cost 1 per request, in-memory storage.
//
// Example:
//
//	r.Use(middleware.Throttle[handler.Context]("100/minute"))
func Throttle[C handler.Context](rate string) handler.Middleware[C] {
	return ThrottleWithConfig[C](ThrottleConfig{Rate: rate})
}

// ThrottleWithConfig creates a request throttling middleware with custom
// configuration. It panics on invalid configuration because middleware is
// wired at startup where a misconfigured limiter must not boot silently.
//
// Example:
//
//	r.Use(middleware.ThrottleWithConfig[handler.Context](middleware.ThrottleConfig{
//		Rate:       "10/s",
//		Burst:      20,
//		SetHeaders: true,
//		KeyFunc: func(ctx handler.Context) string {
//			return ctx.Request().Header.Get("X-API-Key")
//		},
//	}))
func ThrottleWithConfig[C handler.Context](cfg ThrottleConfig) handler.Middleware[C] {
	limiter := cfg.Limiter
	if limiter == nil {
		if cfg.StoreSize < 0 {
			panic(fmt.Errorf("throttle middleware: %w: %d", throttle.ErrInvalidStoreSize, cfg.StoreSize))
		}

		store := cfg.Store
		if store == nil {
			var opts []throttle.MemoryStoreOption
			if cfg.StoreSize > 0 {
				opts = append(opts, throttle.WithStoreSize(cfg.StoreSize))
			}
			store = throttle.NewMemoryStore(opts...)
		}

		var err error
		limiter, err = throttle.New(store, throttle.Config{Rate: cfg.Rate, Burst: cfg.Burst})
		if err != nil {
			panic(fmt.Errorf("throttle middleware: %w", err))
		}
	}

	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(ctx handler.Context) string {
			if ip, ok := GetClientIP(ctx); ok {
				return ip
			}
			return ctx.Request().RemoteAddr
		}
	}

	if cfg.CostFunc == nil {
		cfg.CostFunc = func(ctx handler.Context) float64 { return 1 }
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			key := cfg.KeyFunc(ctx)
			cost := cfg.CostFunc(ctx)

			var (
				res   throttle.Result
				drain *throttle.Drain
				err   error
			)
			if cfg.ManualDrain {
				res, drain, err = limiter.Hold(ctx.Request().Context(), key, cost)
			} else {
				res, err = limiter.AllowN(ctx.Request().Context(), key, cost)
			}
			if err != nil {
				return response.Error(response.ErrInternalServerError.WithError(err))
			}

			if !res.Allowed() {
				var resp handler.Response
				if cfg.OnThrottled != nil {
					resp = cfg.OnThrottled(ctx, res)
				}
				if resp == nil {
					resp = throttledResponse(res)
				}
				if cfg.SetHeaders {
					return wrapWithThrottleHeaders(resp, res)
				}
				return resp
			}

			if drain != nil {
				ctx.SetValue(throttleDrainContextKey{}, drain)
			}

			if cfg.OnAllowed != nil {
				if resp := cfg.OnAllowed(ctx, res); resp != nil {
					if cfg.SetHeaders {
						return wrapWithThrottleHeaders(resp, res)
					}
					return resp
				}
			}

			resp := next(ctx)
			if cfg.SetHeaders {
				return wrapWithThrottleHeaders(resp, res)
			}
			return resp
		}
	}
}

// GetDrain retrieves the pending drain handle stored by a ManualDrain
// middleware. Returns the handle and a boolean indicating whether one exists;
// a handle that is never drained charges nothing.
func GetDrain(ctx handler.Context) (*throttle.Drain, bool) {
	drain, ok := ctx.Value(throttleDrainContextKey{}).(*throttle.Drain)
	return drain, ok
}

// throttledResponse builds the default 429 response for a rejected request.
func throttledResponse(res throttle.Result) handler.Response {
	httpErr := response.ErrTooManyRequests
	if res.RetryAfter() > 0 {
		httpErr = httpErr.WithDetails(map[string]any{
			"retry_after": fmt.Sprintf("%.0f", res.RetryAfter().Seconds()),
		})
	}
	return response.Error(httpErr)
}

// wrapWithThrottleHeaders decorates a response with standard rate limit headers.
func wrapWithThrottleHeaders(resp handler.Response, res throttle.Result) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(int(res.Limit)))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, int(res.Remaining))))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed() && res.RetryAfter() > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter().Seconds())))
		}

		return resp(w, r)
	}
}
