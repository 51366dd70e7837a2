package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist invalidates session tokens before their natural expiry,
// e.g. on logout.
type TokenBlacklist interface {
	// Add blacklists a token's JTI for the given TTL. The TTL should be
	// the remaining time until token expiration.
	Add(ctx context.Context, jti string, ttl time.Duration) error

	// Contains checks if a token's JTI is blacklisted.
	Contains(ctx context.Context, jti string) (bool, error)
}

// RedisTokenBlacklist implements TokenBlacklist using Redis, allowing
// revocations to be shared across instances.
type RedisTokenBlacklist struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenBlacklist creates a Redis-backed token blacklist.
func NewRedisTokenBlacklist(addr, password string, db int) (*RedisTokenBlacklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for token blacklist: %w", err)
	}

	return &RedisTokenBlacklist{client: client, keyPrefix: "token:blacklist:"}, nil
}

func (b *RedisTokenBlacklist) key(jti string) string {
	return b.keyPrefix + jti
}

// Add blacklists a token's JTI for the given TTL.
func (b *RedisTokenBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	if err := b.client.Set(ctx, b.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// Contains checks if a token's JTI is blacklisted.
func (b *RedisTokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	exists, err := b.client.Exists(ctx, b.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists > 0, nil
}

// Close releases the underlying Redis connection.
func (b *RedisTokenBlacklist) Close() error {
	return b.client.Close()
}

// MemoryTokenBlacklist implements TokenBlacklist in process memory. It
// serves single-instance deployments where Redis is disabled.
type MemoryTokenBlacklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemoryTokenBlacklist creates an in-memory token blacklist.
func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{entries: make(map[string]time.Time)}
}

// Add blacklists a token's JTI until its expiry.
func (b *MemoryTokenBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[jti] = time.Now().Add(ttl)
	b.pruneLocked()
	return nil
}

// Contains checks if a token's JTI is blacklisted and not yet expired.
func (b *MemoryTokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	expiry, ok := b.entries[jti]
	return ok && time.Now().Before(expiry), nil
}

// pruneLocked drops expired entries. Caller must hold the write lock.
func (b *MemoryTokenBlacklist) pruneLocked() {
	now := time.Now()
	for jti, expiry := range b.entries {
		if now.After(expiry) {
			delete(b.entries, jti)
		}
	}
}
