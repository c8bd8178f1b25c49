package simple

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/turnstilehq/turnstile/core/config"
	"github.com/turnstilehq/turnstile/core/handler"
	"github.com/turnstilehq/turnstile/core/healthcheck"
	"github.com/turnstilehq/turnstile/core/logger"
	"github.com/turnstilehq/turnstile/core/response"
	"github.com/turnstilehq/turnstile/core/router"
	"github.com/turnstilehq/turnstile/core/server"
	"github.com/turnstilehq/turnstile/middleware"
	"github.com/turnstilehq/turnstile/pkg/throttle"
)

// App assembles the quickstart service: a memory-backed limiter wired
// through the middleware chain, a health endpoint reporting store health,
// a quota endpoint probing the caller's balance, and a server with
// graceful shutdown.
type App struct {
	config  Config
	router  router.Router[*Context]
	server  *server.Server
	store   *throttle.MemoryStore
	limiter *throttle.Limiter
	logger  *slog.Logger
}

// AppOption overrides one of the assembled defaults.
type AppOption func(*App) error

// NewApp loads configuration from the environment and assembles the
// service. Options replace individual parts; anything not overridden is
// built from config.
func NewApp(opts ...AppOption) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	app := &App{config: cfg, logger: logger.New()}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	if err := app.build(); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *App) build() error {
	if app.store == nil {
		app.store = throttle.NewMemoryStore(
			throttle.WithStoreSize(app.config.ThrottleStoreSize),
			throttle.WithBucketTTL(app.config.ThrottleBucketTTL),
			throttle.WithMemoryStoreLogger(app.logger),
		)
	}

	limiter, err := throttle.New(app.store, throttle.Config{
		Rate:  app.config.ThrottleRate,
		Burst: app.config.ThrottleBurst,
	})
	if err != nil {
		return err
	}
	app.limiter = limiter

	if app.router == nil {
		app.router = router.New(
			router.WithContextFactory(newContext),
			router.WithLogger[*Context](app.logger),
			router.WithMiddleware(app.chain()...),
		)
	}
	app.routes()

	if app.server == nil {
		srv, err := server.NewFromConfig(app.config.Server, server.WithLogger(app.logger))
		if err != nil {
			return err
		}
		app.server = srv
	}
	return nil
}

// chain is the default middleware stack: request identity first, then
// logging, then admission control. The health endpoint bypasses the
// limiter so probes stay unthrottled.
func (app *App) chain() []handler.Middleware[*Context] {
	return []handler.Middleware[*Context]{
		middleware.RequestID[*Context](),
		middleware.ClientIP[*Context](),
		middleware.LoggingWithLogger[*Context](app.logger),
		middleware.ThrottleWithConfig[*Context](middleware.ThrottleConfig{
			Limiter:    app.limiter,
			SetHeaders: true,
			Skip: func(ctx handler.Context) bool {
				return ctx.Request().URL.Path == "/health"
			},
		}),
	}
}

func (app *App) routes() {
	app.router.Get("/health", healthcheck.Handler[*Context](app.logger, app.store.Healthcheck))

	// Cost-0 probe: reports the caller's budget without spending it.
	app.router.Get("/quota", func(ctx *Context) handler.Response {
		res, err := app.limiter.Status(ctx, ctx.ClientKey())
		if err != nil {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}
		return response.JSON(map[string]any{
			"limit":     res.Limit,
			"remaining": res.Remaining,
			"reset_at":  res.ResetAt,
		})
	})
}

// Router exposes the app's router for registering additional routes
// before Run.
func (app *App) Router() router.Router[*Context] { return app.router }

// Limiter exposes the app's limiter for manual admission decisions.
func (app *App) Limiter() *throttle.Limiter { return app.limiter }

// Run starts the bucket janitor and the HTTP server and blocks until ctx
// is cancelled or either fails. Shutdown is graceful on cancellation.
func (app *App) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(app.store.Run(ctx))
	eg.Go(app.server.Run(ctx, app.router))
	return eg.Wait()
}

// WithLogger replaces the default stdout logger.
func WithLogger(log *slog.Logger) AppOption {
	return func(app *App) error {
		if log == nil {
			return errors.New("app: nil logger")
		}
		app.logger = log
		return nil
	}
}

// WithRouter replaces the default router and its middleware chain.
func WithRouter(r router.Router[*Context]) AppOption {
	return func(app *App) error {
		if r == nil {
			return errors.New("app: nil router")
		}
		app.router = r
		return nil
	}
}

// WithServer replaces the config-built server.
func WithServer(srv *server.Server) AppOption {
	return func(app *App) error {
		if srv == nil {
			return errors.New("app: nil server")
		}
		app.server = srv
		return nil
	}
}

// WithMemoryStore replaces the config-built bucket store.
func WithMemoryStore(store *throttle.MemoryStore) AppOption {
	return func(app *App) error {
		if store == nil {
			return errors.New("app: nil store")
		}
		app.store = store
		return nil
	}
}
