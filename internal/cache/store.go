package cache

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

// Store is a msgpack-encoded Redis response cache. A nil Store (or one
// without a Redis connection) degrades to a no-op so handlers never have to
// branch on cache availability.
type Store struct {
	redis *redis.Redis
	TTL   TTLSet
}

// NewStore wires a response cache. Returns a usable no-op store when rds is nil.
func NewStore(rds *redis.Redis, ttl TTLSet) *Store {
	return &Store{redis: rds, TTL: ttl}
}

// Get loads and decodes a cached payload. A miss, decode failure, or Redis
// error all report false; decode failures are logged since they indicate a
// stale encoding.
func (s *Store) Get(ctx context.Context, key string, v interface{}) bool {
	if s == nil || s.redis == nil {
		return false
	}
	raw, err := s.redis.GetCtx(ctx, key)
	if err != nil {
		logx.WithContext(ctx).Errorf("cache: get %s: %v", key, err)
		return false
	}
	if raw == "" {
		return false
	}
	if err := msgpack.Unmarshal([]byte(raw), v); err != nil {
		logx.WithContext(ctx).Errorf("cache: decode %s: %v", key, err)
		return false
	}
	return true
}

// Set encodes and stores a payload with the given TTL. Failures are logged,
// never surfaced: the cache is an optimization, not a dependency.
func (s *Store) Set(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if s == nil || s.redis == nil || ttl <= 0 {
		return
	}
	raw, err := msgpack.Marshal(v)
	if err != nil {
		logx.WithContext(ctx).Errorf("cache: encode %s: %v", key, err)
		return
	}
	seconds := int(ttl / time.Second)
	if seconds <= 0 {
		seconds = 1
	}
	if err := s.redis.SetexCtx(ctx, key, string(raw), seconds); err != nil {
		logx.WithContext(ctx).Errorf("cache: set %s: %v", key, err)
	}
}
