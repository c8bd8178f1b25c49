// Package pg builds and verifies the pgx connection pool used by the
// Postgres-backed throttle store, which keeps rate limit buckets durable
// and shared across replicas.
//
// Connect parses the connection string, applies the pool settings, and
// retries transient failures so a service starting alongside its database
// does not crash-loop:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal("postgres:", err)
//	}
//	defer pool.Close()
//
//	store := throttle.NewPostgresStore(pool)
//	if err := store.Migrate(ctx); err != nil {
//		log.Fatal("migrate:", err)
//	}
//
// Schema migrations live with the stores that own the tables (embedded
// goose migrations), not here.
//
// Config maps entirely from the environment: PG_CONN_URL (required),
// PG_MAX_OPEN_CONNS (10), PG_MAX_IDLE_CONNS (5), PG_HEALTHCHECK_PERIOD
// (1m), PG_MAX_CONN_IDLE_TIME (10m), PG_MAX_CONN_LIFETIME (30m),
// PG_RETRY_ATTEMPTS (3), PG_RETRY_INTERVAL (5s). The lifetime caps exist
// for failovers and load balancers that silently drop idle connections;
// raise PG_MAX_OPEN_CONNS for high-traffic deployments.
//
// Healthcheck adapts the pool's ping into the shape the healthcheck
// handler consumes:
//
//	r.Get("/health", healthcheck.Handler[*router.Context](log,
//		pg.Healthcheck(pool),
//	))
//
// Failures surface as the package's sentinel errors
// (ErrFailedToOpenDBConnection, ErrEmptyConnectionString,
// ErrFailedToParseDBConfig, ErrHealthcheckFailed) wrapping the pgx cause,
// so callers can branch with errors.Is.
package pg
