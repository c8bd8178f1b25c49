package healthcheck

import (
	"context"
	"log/slog"

	"github.com/turnstilehq/turnstile/core/handler"
	"github.com/turnstilehq/turnstile/core/logger"
	"github.com/turnstilehq/turnstile/core/response"
)

// Check verifies one dependency. Store and database integrations expose
// their Healthcheck methods in this shape.
type Check = func(context.Context) error

// Handler builds a health endpoint. With no checks it is a liveness probe
// and always answers "ALIVE". With checks it is a readiness probe: every
// check must pass for a "READY" answer, and the first failure is logged
// and reported as 503.
//
//	r.Get("/health/live", healthcheck.Handler[*app.Context](log))
//	r.Get("/health/ready", healthcheck.Handler[*app.Context](log, store.Healthcheck))
func Handler[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		if len(checks) == 0 {
			return response.String("ALIVE")
		}
		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
				return response.Error(response.ErrServiceUnavailable)
			}
		}
		return response.String("READY")
	}
}
