// Package logger configures slog for this project: environment presets,
// context-aware attribute extraction, and the attr constructors the rest
// of the codebase logs with.
//
// New builds a *slog.Logger from options. The two presets cover the common
// cases; individual options compose for anything else:
//
//	log := logger.New(logger.WithDevelopment("turnstile")) // text, debug
//	log := logger.New(logger.WithProduction("turnstile"))  // JSON, info
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithOutput(os.Stderr),
//		logger.WithAttr(slog.String("service", "gateway")),
//	)
//
// # Context extraction
//
// Extractors pull attributes out of context values on every *Context call,
// so request-scoped facts like the request ID appear on every line without
// threading them through call sites:
//
//	log := logger.New(
//		logger.WithProduction("turnstile"),
//		logger.WithContextValue("request_id", ctxkey.RequestID{}),
//	)
//
//	log.InfoContext(ctx, "request throttled")
//	// {"level":"INFO","msg":"request throttled","request_id":"req-12345"}
//
// Arbitrary extraction logic plugs in through WithContextExtractors:
//
//	logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//		if id, ok := ctx.Value(userKey{}).(string); ok {
//			return logger.ID("user_id", id), true
//		}
//		return slog.Attr{}, false
//	})
//
// # Attr constructors
//
// The constructors in attr.go keep keys consistent across the codebase and
// return the zero Attr for absent values, so they can be passed without
// guards:
//
//	log.Error("store write failed",
//		logger.Error(err),
//		logger.Component("throttle"),
//		logger.Key("key", clientKey),
//		logger.Duration(time.Since(start)),
//	)
//
// SetAsDefault installs a logger as the process-wide slog default. In tests,
// point WithOutput at a bytes.Buffer and assert on the serialized lines.
package logger
