package handler

import (
	"context"
	"net/http"
)

// Context is what every handler in this module receives: a context.Context
// carrying the request's deadlines and values, plus the HTTP surface of the
// request being served. Routers construct one per request; applications may
// supply their own implementation to carry extra state.
type Context interface {
	context.Context

	// Request returns the inbound request.
	Request() *http.Request

	// ResponseWriter returns the writer the response will be rendered to.
	ResponseWriter() http.ResponseWriter

	// Param returns the named route parameter, or "" when the matched
	// route has no such parameter.
	Param(key string) string

	// SetValue makes val retrievable through Value(key) for the rest of
	// the request. Middleware uses it to hand request-scoped state
	// (request IDs, client IPs, drain handles) downstream.
	SetValue(key, val any)
}

// Response renders a computed result to the wire: headers, status, body.
// Returning an error hands control to the router's error handler, which
// owns the final status and body.
//
// Handlers compute, Responses render. The split is what lets middleware
// decorate a response (extra headers, captured status) without touching
// the handler that produced it.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc is a request handler typed to a concrete Context
// implementation.
type HandlerFunc[C Context] func(ctx C) Response

// Middleware wraps a handler with behavior that runs before or after it.
// Stacks compose outermost-first.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]

// ErrorHandler renders errors surfaced by handlers, responses, and
// recovered panics.
type ErrorHandler[C Context] func(ctx C, err error)
