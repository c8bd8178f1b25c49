// Package handler defines the request-processing contract the rest of the
// module builds on: type-safe handlers over a custom context, composable
// middleware, and a clean split between producing a response and rendering it.
//
// # Core Types
//
//	import "github.com/turnstilehq/turnstile/core/handler"
//
//	// Response renders an HTTP response.
//	type Response func(w http.ResponseWriter, r *http.Request) error
//
//	// HandlerFunc is a type-safe handler over a custom context.
//	type HandlerFunc[C Context] func(ctx C) Response
//
//	// ErrorHandler processes errors surfaced by handlers and responses.
//	type ErrorHandler[C Context] func(ctx C, err error)
//
//	// Middleware wraps handlers with cross-cutting behavior.
//	type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
//
// A handler computes; the Response it returns renders. Anything the Response
// returns as an error flows to the router's error handler, which decides the
// final status and body. Middleware such as throttling relies on that: a
// failed store read becomes an error response through one path instead of a
// half-written body.
//
// # Context
//
// Context extends context.Context with the HTTP request surface:
//
//	type Context interface {
//		context.Context
//		Request() *http.Request
//		ResponseWriter() http.ResponseWriter
//		Param(key string) string
//		SetValue(key, val any)
//	}
//
// Routers provide a default implementation; applications can substitute their
// own carrying application state, and handlers stay typed to it:
//
//	func profile(ctx *app.Context) handler.Response {
//		return response.JSON(ctx.CurrentUser())
//	}
//
// # Middleware
//
// Middleware composes around handlers outermost-first:
//
//	func WithRecovered[C handler.Context]() handler.Middleware[C] {
//		return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//			return func(ctx C) handler.Response {
//				// before
//				resp := next(ctx)
//				// after
//				return resp
//			}
//		}
//	}
//
// SetValue stores request-scoped values middleware wants to hand downstream
// (request IDs, client IPs, drain handles); retrieval goes through
// ctx.Value with the same key.
//
// # Testing
//
// Handlers test without a router: build a context around httptest values,
// invoke the handler, then execute the returned Response.
package handler
