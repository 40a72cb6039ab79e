package api

import (
	"autoledger/internal/domain" // Importing domain models
	"autoledger/internal/utils"  // Utility functions
	"context"                    // Context for cache operations
	"net/http"                   // HTTP status codes
	"strings"                    // String manipulation
	"time"                       // Token lifetimes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// TokenSettings carries what the auth handlers need to issue tokens
type TokenSettings struct {
	Secret     string        // JWT signing secret
	AccessTTL  time.Duration // Access token lifetime
	RefreshTTL time.Duration // Refresh token lifetime
}

// Request struct for registration
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`         // Username must be provided
	Email           string `json:"email" binding:"required,email"`      // Email must be provided and well-formed
	Password        string `json:"password" binding:"required"`         // Password must be provided
	ConfirmPassword string `json:"confirm_password" binding:"required"` // Confirmation must be provided
}

// Request struct for login; the username field accepts a username or an email
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username or email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for token refresh
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"` // Refresh token must be provided
}

// RegisterHandler creates a user account and returns an initial token pair
func RegisterHandler(db *gorm.DB, ts TokenSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Passwords must match before anything is written
		if req.Password != req.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{"password": "Passwords must match."})
			return
		}
		// Surface duplicate usernames as a field-level error
		var count int64
		db.Model(&domain.User{}).Where("username = ?", req.Username).Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"username": "A user with that username already exists."})
			return
		}
		// Same for duplicate emails
		db.Model(&domain.User{}).Where("email = ?", strings.ToLower(req.Email)).Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"email": "A user with that email already exists."})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// Create user with normalized email
		user := domain.User{
			Username: req.Username,                // Unique username
			Email:    strings.ToLower(req.Email),  // Normalized email
			Password: string(hash),                // Bcrypt hash
			IsActive: true,                        // Accounts start active
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// Unique indexes are the last line of defense against races
			c.JSON(http.StatusBadRequest, gin.H{"error": "Registration failed"})
			return
		}
		// Issue tokens for the new user
		pair, err := utils.GenerateTokenPair(user.ID, ts.Secret, ts.AccessTTL, ts.RefreshTTL)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Log the registration
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // New username
		}).Info("User registered") // Log registration
		// Return success response with both tokens
		c.JSON(http.StatusCreated, gin.H{
			"detail":  "User registered successfully.", // Human-readable detail
			"access":  pair.Access,                     // Access token
			"refresh": pair.Refresh,                    // Refresh token
		})
	}
}

// LoginHandler authenticates by username or email and returns a token pair
func LoginHandler(db *gorm.DB, ts TokenSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		// Try the identifier as a username first
		err := db.Where("username = ?", req.Username).First(&user).Error
		if err != nil {
			// Fall back to treating it as an email
			err = db.Where("email = ?", strings.ToLower(req.Username)).First(&user).Error
		}
		// Check the user exists and is active
		if err != nil || !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Issue tokens for the user
		pair, err := utils.GenerateTokenPair(user.ID, ts.Secret, ts.AccessTTL, ts.RefreshTTL)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Stamp the login time
		now := time.Now()
		db.Model(&user).Update("last_login", &now)
		// Return both tokens in the response
		c.JSON(http.StatusOK, pair)
	}
}

// RefreshHandler exchanges a valid refresh token for a new pair, rotating
// and blacklisting the presented token so it cannot be replayed.
func RefreshHandler(cache utils.Cache, ts TokenSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Parse and validate the presented token
		claims, err := utils.ParseJWT(req.Refresh, ts.Secret)
		if err != nil || claims.TokenType != utils.TokenRefresh {
			// Access tokens are not accepted here
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}
		ctx := context.Background() // Context for cache operations
		// Reject tokens already used for a refresh
		revoked, err := utils.TokenRevoked(ctx, cache, claims.ID)
		if err != nil {
			// If the blacklist is unreachable, fail closed
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify token"})
			return
		}
		if revoked {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}
		// Issue the replacement pair
		pair, err := utils.GenerateTokenPair(claims.UserID, ts.Secret, ts.AccessTTL, ts.RefreshTTL)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Blacklist the old token for its remaining lifetime
		if err := utils.RevokeToken(ctx, cache, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": claims.UserID, // Token owner
				"error":   err.Error(),   // Error message
			}).Error("Failed to blacklist refresh token") // Log blacklist failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate token"})
			return
		}
		// Return the new pair
		c.JSON(http.StatusOK, pair)
	}
}
