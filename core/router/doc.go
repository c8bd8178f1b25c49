// Package router routes HTTP requests to handlers typed to a custom
// context, with middleware composition, scoped registration, and panic
// recovery. It carries exactly the surface the throttled middleware
// pipeline needs; it is not a general-purpose web framework.
//
// Patterns are rooted paths built from literal segments, {name}
// parameters, and an optional trailing * that captures the rest of the
// path (available as Param("*")):
//
//	r := router.New[*router.Context]()
//
//	r.Get("/quota", quotaHandler)
//	r.Get("/buckets/{key}", bucketHandler)
//	r.Get("/static/*", fileHandler)
//
// Literal segments win over parameters, parameters over the wildcard. A
// path that matches a route registered only for other methods yields a 405
// with an Allow header; an unmatched path yields a 404.
//
// # Middleware
//
// Use registers router-wide middleware and must come before any route.
// With and Group scope middleware to some routes without affecting the
// rest, and Route scopes a path prefix:
//
//	r.Use(middleware.RequestID[*router.Context]())
//
//	r.With(throttle).Get("/expensive", expensiveHandler)
//
//	r.Route("/admin", func(ar router.Router[*router.Context]) {
//		ar.Use(authMiddleware)
//		ar.Get("/stats", statsHandler)
//	})
//
// # Custom contexts
//
// A router serving anything but the built-in *Context needs a factory:
//
//	r := router.New[*app.Context](router.WithContextFactory(app.NewContext))
//
// Handler errors, rendering errors, and recovered panics all land in the
// error handler (WithErrorHandler); the default writes plain text with the
// error's status, or 500. Recovered panics implement PanicError so a
// custom handler can get at the stack.
package router
