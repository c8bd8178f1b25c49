// Package mongo connects and verifies the MongoDB client used by the
// Mongo-backed throttle store, which shares rate limit buckets across
// service replicas.
//
// New retries the initial connect and pings before returning, because
// managed deployments (Atlas in particular) can take several seconds to
// wake and would otherwise fail service startup:
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "throttling")
//	if err != nil {
//		log.Fatal("mongo:", err)
//	}
//
//	store := throttle.NewMongoStore(db.Collection("throttle_buckets"))
//	if err := store.EnsureIndexes(ctx, time.Hour); err != nil {
//		log.Fatal("indexes:", err)
//	}
//
// New returns the bare client when no database handle is needed; pair it
// with client.Disconnect on shutdown.
//
// Config maps entirely from the environment: MONGODB_URL (required),
// MONGODB_CONNECT_TIMEOUT (10s), MONGODB_MAX_POOL_SIZE (100),
// MONGODB_MIN_POOL_SIZE (1), MONGODB_MAX_CONN_IDLE_TIME (300s),
// MONGODB_RETRY_WRITES/READS (true), MONGODB_RETRY_ATTEMPTS (3),
// MONGODB_RETRY_INTERVAL (5s).
//
// Healthcheck adapts the client's ping into the shape the healthcheck
// handler consumes; exhausted retries and failed pings surface as
// ErrFailedToConnectToMongo and ErrHealthcheckFailed respectively.
package mongo
