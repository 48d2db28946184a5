// Package cache is a Redis-backed read-through cache. A Store degrades to a
// no-op when Redis is unreachable so the API keeps serving from the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nikhilrana/saman/config"
	"github.com/nikhilrana/saman/pkg/metrics"
)

// Store wraps a Redis client. The zero value (or a Store from a failed
// Connect) is safe to use and behaves as an always-miss cache.
type Store struct {
	rdb *redis.Client
}

// Connect builds a Store and verifies the connection with a ping.
// On error the returned Store is still usable as a no-op.
func Connect() (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return &Store{}, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

// Nop returns a Store with no backing Redis. Every Get misses.
func Nop() *Store { return &Store{} }

// Get unmarshals the cached value under key into dest.
// Returns true on a hit, false on miss or error.
func (s *Store) Get(key string, dest interface{}) bool {
	if s == nil || s.rdb == nil {
		return false
	}

	val, err := s.rdb.Get(context.Background(), key).Result()
	if err != nil {
		metrics.CacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		metrics.CacheMisses.Inc()
		return false
	}

	metrics.CacheHits.Inc()
	return true
}

// Set stores value under key for ttl.
func (s *Store) Set(key string, value interface{}, ttl time.Duration) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(context.Background(), key, data, ttl).Err()
}

// Del removes one or more keys.
func (s *Store) Del(keys ...string) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Del(context.Background(), keys...).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
