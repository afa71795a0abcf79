// Package querycache is a small read-through cache keyed by query
// identity. Session queries share four scopes (all, suspicious, stats,
// per-user); mutations invalidate exactly those scopes, never the whole
// store.
package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgredis "github.com/opencampus/lms-core/internal/pkg/redis"
)

const (
	keyPrefix = "lms:qc:"

	// DefaultTTL bounds how stale a cached list/stats view can get even
	// if an invalidation is missed.
	DefaultTTL = 30 * time.Second
)

// Query-identity keys for the session scopes.
const (
	KeyAllSessions        = "sessions:all"
	KeySuspiciousSessions = "sessions:suspicious"
	KeySessionStats       = "sessions:stats"
)

// KeyUserSessions returns the per-user session list key.
func KeyUserSessions(userID uint) string {
	return fmt.Sprintf("sessions:user:%d", userID)
}

// Store is the cache backend. Redis in production, an in-memory map in
// tests.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Cache wraps a Store with JSON serialization and scoped invalidation.
type Cache struct {
	store Store
	ttl   time.Duration
}

// New creates a Cache over the given store.
func New(store Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, ttl: ttl}
}

// GetJSON loads a cached value into dest. The second return is false on
// a miss. Backend errors are returned so callers can fall through to
// the database.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok, err := c.store.Get(ctx, keyPrefix+key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		// Corrupt entry: drop it and report a miss.
		_ = c.store.Del(ctx, keyPrefix+key)
		return false, nil
	}
	return true, nil
}

// SetJSON stores a value under the given query key.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, keyPrefix+key, string(raw), c.ttl)
}

// InvalidateSessions drops the list/stats scopes affected by a session
// mutation: all, suspicious, stats, and the owning user's list when
// userID is non-zero.
func (c *Cache) InvalidateSessions(ctx context.Context, userID uint) error {
	keys := []string{
		keyPrefix + KeyAllSessions,
		keyPrefix + KeySuspiciousSessions,
		keyPrefix + KeySessionStats,
	}
	if userID != 0 {
		keys = append(keys, keyPrefix+KeyUserSessions(userID))
	}
	return c.store.Del(ctx, keys...)
}

// RedisStore backs the cache with Redis.
type RedisStore struct {
	rc *pkgredis.Client
}

// NewRedisStore wraps the application Redis client.
func NewRedisStore(rc *pkgredis.Client) *RedisStore {
	return &RedisStore{rc: rc}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rc.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if val == "" {
		return "", false, nil
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rc.Set(ctx, key, value, ttl)
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	return s.rc.Del(ctx, keys...)
}
