package throttle

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore persists buckets in the throttle_buckets table, one row per
// key, rewritten whole on every decision.
//
// Like RedisStore it is a plain Store: the upsert is atomic per statement but
// the get-compute-set cycle is not, so concurrent processes can lose updates
// to the same key. Rows never expire on their own; call Purge periodically or
// from a scheduled job.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given connection pool. Call
// Migrate once at startup to create the schema.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate applies the embedded schema migrations. It is idempotent and safe
// to run on every startup.
func (ps *PostgresStore) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	// goose speaks database/sql; borrow connections from the pgx pool.
	// Closing the adapter returns them without closing the pool.
	db := stdlib.OpenDBFromPool(ps.pool)
	defer db.Close()

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply throttle migrations: %w", err)
	}
	return nil
}

// Get returns the bucket stored for key, or (nil, nil) when no row exists.
func (ps *PostgresStore) Get(ctx context.Context, key string) (*Bucket, error) {
	var b Bucket
	err := ps.pool.QueryRow(ctx,
		`SELECT tokens, updated_at, window_start, reset_at FROM throttle_buckets WHERE key = $1`,
		key,
	).Scan(&b.Tokens, &b.UpdatedAt, &b.WindowStart, &b.ResetAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Set upserts the whole row for key.
func (ps *PostgresStore) Set(ctx context.Context, key string, bucket *Bucket) error {
	_, err := ps.pool.Exec(ctx,
		`INSERT INTO throttle_buckets (key, tokens, updated_at, window_start, reset_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (key) DO UPDATE SET
		 	tokens = EXCLUDED.tokens,
		 	updated_at = EXCLUDED.updated_at,
		 	window_start = EXCLUDED.window_start,
		 	reset_at = EXCLUDED.reset_at`,
		key, bucket.Tokens, bucket.UpdatedAt, bucket.WindowStart, bucket.ResetAt,
	)
	return err
}

// Reset deletes the row for key. Absent keys are a no-op.
func (ps *PostgresStore) Reset(ctx context.Context, key string) error {
	_, err := ps.pool.Exec(ctx, `DELETE FROM throttle_buckets WHERE key = $1`, key)
	return err
}

// Purge deletes buckets untouched for longer than ttl and reports how many
// rows went away. Postgres has no TTL of its own, so something has to call
// this, typically a scheduled job.
func (ps *PostgresStore) Purge(ctx context.Context, ttl time.Duration) (int64, error) {
	tag, err := ps.pool.Exec(ctx,
		`DELETE FROM throttle_buckets WHERE updated_at < $1`,
		time.Now().Add(-ttl),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Healthcheck verifies database connectivity. Suitable for readiness probes.
func (ps *PostgresStore) Healthcheck(ctx context.Context) error {
	if err := ps.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}
