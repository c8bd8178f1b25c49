package router

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/turnstilehq/turnstile/core/handler"
)

// Router dispatches requests to handlers typed to the context C. Patterns
// are rooted paths whose segments are literals, {name} parameters, or a
// trailing * that swallows the rest of the path.
type Router[C handler.Context] interface {
	http.Handler

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Head(pattern string, h handler.HandlerFunc[C])
	Options(pattern string, h handler.HandlerFunc[C])

	// Handle registers h for every HTTP method; Method for the listed ones.
	Handle(pattern string, h handler.HandlerFunc[C])
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	// Use appends middleware that wraps every route. Register middleware
	// before routes; Use panics once a route exists.
	Use(mw ...handler.Middleware[C])

	// With returns a registration scope whose routes additionally run mw.
	// The scope shares this router's routing table.
	With(mw ...handler.Middleware[C]) Router[C]

	// Group calls fn with a fresh scope, so middleware added inside stays
	// inside.
	Group(fn func(r Router[C]))

	// Route calls fn with a scope that prefixes every pattern with prefix.
	Route(prefix string, fn func(r Router[C]))

	// Routes lists everything registered, for diagnostics.
	Routes() []Route
}

// Route is one registered method/pattern pair.
type Route struct {
	Method  string
	Pattern string
}

// New builds a Router. With no options it serves *Context and renders
// errors as plain text.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	m := &mux[C]{
		root:   &tree[C]{},
		errh:   defaultErrorHandler[C],
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.factory == nil {
		m.factory = defaultFactory[C]
	}
	return m
}

// Option configures a Router at construction.
type Option[C handler.Context] func(*mux[C])

// WithErrorHandler replaces the plain-text error renderer.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) Option[C] {
	return func(m *mux[C]) {
		if h != nil {
			m.errh = h
		}
	}
}

// WithMiddleware pre-registers router-wide middleware.
func WithMiddleware[C handler.Context](mw ...handler.Middleware[C]) Option[C] {
	return func(m *mux[C]) {
		m.mws = append(m.mws, mw...)
	}
}

// WithContextFactory supplies the constructor for custom context types.
// Routers serving anything but *Context require one.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request, map[string]string) C) Option[C] {
	return func(m *mux[C]) {
		m.factory = f
	}
}

// WithLogger sets the logger used for panics that arrive after the
// response already started.
func WithLogger[C handler.Context](logger *slog.Logger) Option[C] {
	return func(m *mux[C]) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// defaultFactory serves the built-in *Context and rejects anything else:
// the router cannot invent a constructor for a type it knows nothing about.
func defaultFactory[C handler.Context](w http.ResponseWriter, r *http.Request, params map[string]string) C {
	var zero C
	if _, ok := any(zero).(*Context); ok {
		return any(NewContext(w, r, params)).(C)
	}
	panic(ErrNoContextFactory)
}
