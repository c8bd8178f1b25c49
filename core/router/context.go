package router

import (
	"context"
	"net/http"
	"time"
)

// Context is the default request context used when no custom context
// factory is configured. It carries the request, the wrapped response
// writer, and route parameters, and delegates context.Context calls to
// the request's context.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string
}

// NewContext builds the default context. Custom context types embed
// *Context and call this from their factory.
func NewContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{w: w, r: r, params: params}
}

// Deadline implements context.Context.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done implements context.Context.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err implements context.Context.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value implements context.Context.
func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// Request returns the underlying HTTP request.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the response writer for this request.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the route parameter for the given key, or an empty
// string when the route has no such parameter.
func (c *Context) Param(key string) string {
	return c.params[key]
}

// SetValue stores a value in the request context, making it visible to
// downstream middleware and handlers through Value.
func (c *Context) SetValue(key, val any) {
	ctx := context.WithValue(c.r.Context(), key, val)
	c.r = c.r.WithContext(ctx)
}
