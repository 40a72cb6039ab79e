package api

import (
	"autoledger/internal/stats" // Aggregation layer
	"autoledger/internal/utils" // Utility functions
	"context"                   // Context for cache operations
	"net/http"                  // HTTP status codes
	"time"                      // Cache TTL

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// How long a computed statistic payload stays cached
const statisticCacheTTL = 60 * time.Second

// StatisticHandler returns the caller's aggregated figures, cached per
// user and invalidated by vehicle and expense writes.
func StatisticHandler(db *gorm.DB, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()                         // Context for cache operations
		cacheKey := utils.StatisticCacheKey(userID.(uint))  // Per-user cache key
		var report stats.Report                             // Payload to return
		found, err := cache.Get(ctx, cacheKey, &report)     // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, report)
			return
		}
		// If not in cache, compute from the store
		report, err = stats.BuildReport(db, userID.(uint))
		if err != nil {
			// If the computation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
			return
		}
		_ = cache.Set(ctx, cacheKey, report, statisticCacheTTL) // Cache the payload
		c.JSON(http.StatusOK, report)                           // Return the statistics
	}
}
