package utils

import (
	"context"       // Context for cache operations
	"encoding/json" // JSON encoding/decoding
	"sync"          // Mutex for the in-memory cache
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache is the key/value store backing the statistic cache and the
// refresh-token blacklist. Redis in production, in-memory in tests.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error) // Fetch and unmarshal, false when missing
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisCache stores JSON-encoded values in Redis
type RedisCache struct {
	rdb *redis.Client // Underlying Redis client
}

// NewRedisCache wraps a Redis client in the Cache interface
func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// Set sets a value in Redis with a specified TTL
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return c.rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// Delete deletes a key from Redis
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err() // Delete key from Redis
}

// memoryEntry is a cached value with its expiration time
type memoryEntry struct {
	data    []byte    // JSON-encoded value
	expires time.Time // Zero means no expiration
}

// MemoryCache is a process-local Cache used in tests
type MemoryCache struct {
	mu      sync.Mutex             // Guards entries
	entries map[string]memoryEntry // Stored values
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get retrieves a value and unmarshals it into dest
func (c *MemoryCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	// Drop entries past their TTL
	if ok && !entry.expires.IsZero() && time.Now().After(entry.expires) {
		delete(c.entries, key)
		ok = false
	}
	if !ok {
		return false, nil // Key does not exist
	}
	return true, json.Unmarshal(entry.data, dest) // Unmarshal JSON into dest
}

// Set stores a value with a TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl) // Compute the expiration time
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{data: b, expires: expires}
	return nil
}

// Delete removes a key
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
