package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/turnstilehq/turnstile/core/handler"
)

// mux implements Router. The value returned by New is the base router
// owning the routing table; With, Group, and Route hand out registration
// scopes that share it but carry their own prefix and middleware.
type mux[C handler.Context] struct {
	root    *tree[C]
	mws     []handler.Middleware[C]
	errh    handler.ErrorHandler[C]
	factory func(http.ResponseWriter, *http.Request, map[string]string) C
	logger  *slog.Logger
	sealed  bool

	// scope state; zero on the base router
	parent *mux[C]
	prefix string
	scoped []handler.Middleware[C]
}

var knownMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

// base returns the router that owns the routing table.
func (m *mux[C]) base() *mux[C] {
	b := m
	for b.parent != nil {
		b = b.parent
	}
	return b
}

func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b := m.base()
	ww := newResponseWriter(w)

	// RawPath preserves encoded segments when the URL carries any.
	path := r.URL.Path
	if r.URL.RawPath != "" {
		path = r.URL.RawPath
	}
	if path == "" {
		path = "/"
	}

	leaf, values := b.root.lookup(path)

	var params map[string]string
	if leaf != nil && len(leaf.paramKeys) > 0 {
		params = make(map[string]string, len(leaf.paramKeys))
		for i, key := range leaf.paramKeys {
			if i < len(values) {
				params[key] = values[i]
			}
		}
	}

	ctx := b.factory(ww, r, params)

	defer func() {
		if v := recover(); v != nil {
			perr := &panicError{value: v, stack: debug.Stack()}
			if ww.Written() {
				// Too late for an error response.
				b.logger.Error("panic after response written",
					"value", perr.value,
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"stack", string(perr.stack),
				)
				return
			}
			b.errh(ctx, perr)
		}
	}()

	if leaf == nil {
		b.errh(ctx, ErrNotFound)
		return
	}

	h, allowed := leaf.resolve(r.Method)
	if h == nil {
		if len(allowed) == 0 {
			b.errh(ctx, ErrNotFound)
			return
		}
		if !ww.Written() {
			ww.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		b.errh(ctx, ErrMethodNotAllowed)
		return
	}

	for i := len(b.mws) - 1; i >= 0; i-- {
		h = b.mws[i](h)
	}

	resp := h(ctx)
	if resp == nil {
		b.errh(ctx, ErrNilResponse)
		return
	}
	if err := resp(ww, r); err != nil {
		b.errh(ctx, err)
	}
}

// register inserts one route, wrapped in this scope's middleware, under
// this scope's prefix.
func (m *mux[C]) register(method, pattern string, h handler.HandlerFunc[C]) {
	b := m.base()
	b.sealed = true

	for i := len(m.scoped) - 1; i >= 0; i-- {
		h = m.scoped[i](h)
	}
	b.root.insert(method, m.prefix+pattern, h)
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.register(http.MethodGet, pattern, h)
}

func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.register(http.MethodPost, pattern, h)
}

func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.register(http.MethodPut, pattern, h)
}

func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.register(http.MethodPatch, pattern, h)
}

func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.register(http.MethodDelete, pattern, h)
}

func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C]) {
	m.register(http.MethodHead, pattern, h)
}

func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C]) {
	m.register(http.MethodOptions, pattern, h)
}

func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.register(methodAny, pattern, h)
}

func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: none given", ErrInvalidMethod))
	}
	for _, method := range methods {
		method = strings.ToUpper(method)
		if _, ok := knownMethods[method]; !ok {
			panic(fmt.Errorf("%w: %q", ErrInvalidMethod, method))
		}
		m.register(method, pattern, h)
	}
}

func (m *mux[C]) Use(mw ...handler.Middleware[C]) {
	if m.parent != nil {
		// Scopes apply middleware at registration, so later routes in
		// the same scope pick it up.
		m.scoped = append(m.scoped, mw...)
		return
	}
	if m.sealed {
		panic("turnstile: router middleware must be registered before routes")
	}
	m.mws = append(m.mws, mw...)
}

func (m *mux[C]) With(mw ...handler.Middleware[C]) Router[C] {
	scope := &mux[C]{parent: m.base(), prefix: m.prefix}
	scope.scoped = append(scope.scoped, m.scoped...)
	scope.scoped = append(scope.scoped, mw...)
	return scope
}

func (m *mux[C]) Group(fn func(r Router[C])) {
	if fn != nil {
		fn(m.With())
	}
}

func (m *mux[C]) Route(prefix string, fn func(r Router[C])) {
	if fn == nil {
		panic(fmt.Errorf("%w: %q", ErrNilSubrouter, prefix))
	}
	if prefix == "" || prefix[0] != '/' || strings.HasSuffix(prefix, "/") {
		panic(fmt.Errorf("%w: %q", ErrInvalidPattern, prefix))
	}
	scope := &mux[C]{parent: m.base(), prefix: m.prefix + prefix}
	scope.scoped = append(scope.scoped, m.scoped...)
	fn(scope)
}

func (m *mux[C]) Routes() []Route {
	return m.base().root.routes()
}
