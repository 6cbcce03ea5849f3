// internal/entitlement/store.go
package entitlement

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// GrantStore is the expiring key-value capability the gate persists grants
// in. Implementations must treat a missing key as (value="", ok=false), not
// as an error.
type GrantStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// RedisGrantStore backs the gate with Redis. The TTL acts as a safety net;
// the gate still performs its own lazy expiry cleanup on read.
type RedisGrantStore struct {
	client *redis.Client
}

func NewRedisGrantStore(client *redis.Client) *RedisGrantStore {
	return &RedisGrantStore{client: client}
}

func (s *RedisGrantStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisGrantStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisGrantStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// MemoryGrantStore is an in-process GrantStore for tests and local runs.
type MemoryGrantStore struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMemoryGrantStore() *MemoryGrantStore {
	return &MemoryGrantStore{entries: make(map[string]string)}
}

func (s *MemoryGrantStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.entries[key]
	return val, ok, nil
}

func (s *MemoryGrantStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *MemoryGrantStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
