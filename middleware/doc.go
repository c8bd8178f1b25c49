// Package middleware provides HTTP middleware for the cross-cutting concerns of a
// throttled service: request admission, client IP extraction, request ID
// generation, and structured request/response logging.
//
// All middleware follow the same pattern: a generic constructor parameterized by
// the handler.Context implementation, a zero-config default constructor, a
// WithConfig variant for customization, and context helpers for retrieving stored
// values downstream.
//
// # Throttle
//
// The Throttle middleware applies token bucket admission control to incoming
// requests, keyed by client identity:
//
//	// 100 requests per minute per client IP
//	r.Use(middleware.Throttle[*router.Context]("100/minute"))
//
//	// Weighted costs, API key identity, rate limit headers
//	r.Use(middleware.ThrottleWithConfig[*router.Context](middleware.ThrottleConfig{
//		Rate:       "1000/hour",
//		Burst:      50,
//		SetHeaders: true,
//		KeyFunc: func(ctx handler.Context) string {
//			return ctx.Request().Header.Get("X-API-Key")
//		},
//		CostFunc: func(ctx handler.Context) float64 {
//			if ctx.Request().Method == http.MethodPost {
//				return 5
//			}
//			return 1
//		},
//	}))
//
// Buckets live in an in-process store by default; pass a Redis, Postgres or Mongo
// backed store (or a pre-built throttle.Limiter) to share budgets across
// replicas:
//
//	store := throttle.NewRedisStore(redisClient)
//	r.Use(middleware.ThrottleWithConfig[*router.Context](middleware.ThrottleConfig{
//		Rate:  "10/s",
//		Store: store,
//	}))
//
// When client IPs are too coarse (shared NAT) or too volatile (mobile
// networks), key buckets by request fingerprint instead:
//
//	r.Use(middleware.ThrottleWithConfig[*router.Context](middleware.ThrottleConfig{
//		Rate: "100/minute",
//		KeyFunc: func(ctx handler.Context) string {
//			return fingerprint.Strict(ctx.Request())
//		},
//	}))
//
// With ManualDrain the middleware reserves capacity without spending it; the
// handler settles the charge only when the request did billable work:
//
//	r.Use(middleware.ThrottleWithConfig[*router.Context](middleware.ThrottleConfig{
//		Rate:        "100/hour",
//		ManualDrain: true,
//	}))
//
//	r.Post("/convert", func(ctx *router.Context) handler.Response {
//		out, err := convert(ctx.Request())
//		if err != nil {
//			return response.Error(err) // failed work stays free
//		}
//		if drain, ok := middleware.GetDrain(ctx); ok {
//			_ = drain.Drain(ctx.Request().Context())
//		}
//		return response.JSON(out)
//	})
//
// # Client IP
//
// The ClientIP middleware resolves the real client address behind proxies and
// load balancers and stores it in context, where the Throttle middleware picks it
// up as the default bucket key:
//
//	r.Use(middleware.ClientIP[*router.Context]())
//
//	func handler(ctx *router.Context) handler.Response {
//		if ip, ok := middleware.GetClientIP(ctx); ok {
//			// use the client IP
//		}
//		return response.JSON(map[string]any{"status": "ok"})
//	}
//
// # Request ID
//
// The RequestID middleware assigns a unique identifier to each request for
// tracing, stores it in context and echoes it in the response headers:
//
//	r.Use(middleware.RequestID[*router.Context]())
//
// # Logging
//
// The Logging middleware emits structured request/response logs with duration,
// status and size, escalating to warn for slow requests and error for 5xx:
//
//	r.Use(middleware.LoggingWithLogger[*router.Context](log))
//
// Chain them so throttle decisions are attributable in logs:
//
//	r.Use(middleware.RequestID[*router.Context]())
//	r.Use(middleware.ClientIP[*router.Context]())
//	r.Use(middleware.LoggingWithLogger[*router.Context](log))
//	r.Use(middleware.Throttle[*router.Context]("100/minute"))
package middleware
