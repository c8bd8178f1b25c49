// Package server runs an http.Server with a managed lifecycle: context-
// driven startup, graceful drain on shutdown, and defaults tuned for a
// service that fronts throttled APIs.
//
// The one-liner serves until the context ends:
//
//	err := server.Run(ctx, ":8080", mux)
//
// For anything beyond defaults, build the server explicitly:
//
//	srv := server.New(":8443",
//		server.WithTLS(tlsConf),
//		server.WithLogger(log),
//		server.WithShutdownTimeout(10*time.Second),
//	)
//
// or from the environment:
//
//	var cfg server.Config
//	if err := config.Load(&cfg); err != nil { ... }
//	srv, err := server.NewFromConfig(cfg)
//
// # Lifecycle
//
// Start blocks until the context ends (returning ctx.Err()) or the
// listener fails. Stop drains in-flight requests within the shutdown grace
// period. The Run method packages both for errgroup, treating context
// cancellation as a clean exit:
//
//	eg, ctx := errgroup.WithContext(ctx)
//	eg.Go(srv.Run(ctx, mux))
//	return eg.Wait()
package server
