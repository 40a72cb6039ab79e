package main

import (
	"autoledger/internal/api"    // Custom package for API handlers
	"autoledger/internal/config" // Custom package for configuration
	"autoledger/internal/utils"  // Custom package for cache helpers
	"context"                    // context package is needed for Redis operations
	"log"                        // log package is needed for logging
	"time"                       // Time durations for token lifetimes

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Redis backs the statistic cache and the refresh-token blacklist
	cache := utils.NewRedisCache(redisClient)

	// Token settings from configuration
	ts := api.TokenSettings{
		Secret:     cfg.JWTSecret,                                      // JWT signing secret
		AccessTTL:  time.Duration(cfg.AccessTTLDays) * 24 * time.Hour,  // Access token lifetime
		RefreshTTL: time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour, // Refresh token lifetime
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin with all routes registered
	r := api.SetupRouter(db, cache, ts)

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
