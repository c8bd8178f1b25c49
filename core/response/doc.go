// Package response provides constructors for handler.Response values: plain
// text, JSON, status-only replies, error propagation, and the
// HTTPError taxonomy routers render when a handler fails.
//
// # Responses
//
//	import "github.com/turnstilehq/turnstile/core/response"
//
//	response.String("READY")                     // 200 text/plain
//	response.JSON(payload)                       // 200 application/json
//	response.JSONWithStatus(payload, 201)
//	response.Status(http.StatusAccepted)         // empty body
//	response.NoContent()                         // 204
//
// # Error Propagation
//
// Error defers to the router's error handler rather than writing anything:
//
//	func handler(ctx handler.Context) handler.Response {
//		result, err := svc.Do(ctx)
//		if err != nil {
//			return response.Error(err)
//		}
//		return response.JSON(result)
//	}
//
// # HTTP Errors
//
// HTTPError is a structured error carrying status, machine-readable code, and
// optional details. Predefined values cover the common statuses:
//
//	return response.Error(response.ErrTooManyRequests)
//	return response.Error(response.ErrNotFound.WithMessage("no such bucket"))
//
// ErrorHandler and JSONErrorHandler convert arbitrary errors into HTTPError
// renderings; errors implementing StatusCode() int keep their status.
//
// # Decorators
//
// WithHeaders wraps any response with headers set before it renders:
//
//	return response.WithHeaders(response.NoContent(), map[string]string{
//		"X-RateLimit-Remaining": "3",
//	})
package response
