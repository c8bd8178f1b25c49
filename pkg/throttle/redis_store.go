package throttle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisKeyPrefix = "throttle:"
	defaultRedisBucketTTL = time.Hour
)

// RedisStore persists buckets in Redis as JSON values under a namespaced key
// with a TTL. The TTL refreshes on every write, so only idle buckets expire;
// an expired key behaves like one that was never seen.
//
// RedisStore is a plain Store, not an AtomicStore: concurrent requests for
// the same key from multiple processes can interleave and lose updates. That
// keeps the hot path at one GET and one SET, the accepted trade for shared
// stores.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKeyPrefix sets the namespace prepended to every bucket key.
func WithRedisKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		rs.prefix = prefix
	}
}

// WithRedisBucketTTL sets how long an untouched bucket survives in Redis.
func WithRedisBucketTTL(ttl time.Duration) RedisStoreOption {
	return func(rs *RedisStore) {
		if ttl > 0 {
			rs.ttl = ttl
		}
	}
}

// NewRedisStore creates a store backed by the given client. Cmdable accepts
// *redis.Client, *redis.ClusterClient, and sentinel-backed clients alike.
func NewRedisStore(client redis.Cmdable, opts ...RedisStoreOption) *RedisStore {
	rs := &RedisStore{
		client: client,
		prefix: defaultRedisKeyPrefix,
		ttl:    defaultRedisBucketTTL,
	}

	for _, opt := range opts {
		opt(rs)
	}

	return rs
}

// Get returns the bucket stored for key, or (nil, nil) when the key is absent
// or its TTL has lapsed.
func (rs *RedisStore) Get(ctx context.Context, key string) (*Bucket, error) {
	data, err := rs.client.Get(ctx, rs.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var b Bucket
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("unmarshal bucket for key %q: %w", key, err)
	}
	return &b, nil
}

// Set stores the bucket for key and refreshes its TTL.
func (rs *RedisStore) Set(ctx context.Context, key string, bucket *Bucket) error {
	data, err := json.Marshal(bucket)
	if err != nil {
		return fmt.Errorf("marshal bucket for key %q: %w", key, err)
	}
	return rs.client.Set(ctx, rs.prefix+key, data, rs.ttl).Err()
}

// Reset deletes the bucket for key. Absent keys are a no-op.
func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	return rs.client.Del(ctx, rs.prefix+key).Err()
}

// Healthcheck verifies Redis connectivity with a ping. Suitable for readiness
// probes.
func (rs *RedisStore) Healthcheck(ctx context.Context) error {
	if err := rs.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
