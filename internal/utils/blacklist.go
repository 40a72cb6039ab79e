package utils

import (
	"context" // Context for cache operations
	"strconv" // Cache key formatting
	"time"    // TTL for revoked tokens
)

// Cache key prefixes
const (
	blacklistPrefix = "blacklist:jwt:" // Revoked refresh-token jtis
	statisticPrefix = "statistic:user:" // Cached statistic payloads
)

// RevokeToken blacklists a refresh token id until the token would have
// expired anyway, after which the entry is free to lapse.
func RevokeToken(ctx context.Context, cache Cache, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Already expired, nothing to revoke
	}
	return cache.Set(ctx, blacklistPrefix+jti, true, ttl)
}

// TokenRevoked reports whether a refresh token id has been blacklisted
func TokenRevoked(ctx context.Context, cache Cache, jti string) (bool, error) {
	var revoked bool
	found, err := cache.Get(ctx, blacklistPrefix+jti, &revoked) // Look up the jti
	if err != nil {
		return false, err // Return error on cache failure
	}
	return found && revoked, nil
}

// StatisticCacheKey builds the per-user statistic cache key
func StatisticCacheKey(userID uint) string {
	return statisticPrefix + strconv.Itoa(int(userID))
}
