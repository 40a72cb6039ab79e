package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Unique token ids for the blacklist
)

// Token type claim values
const (
	TokenAccess  = "access"  // Presented on authenticated requests
	TokenRefresh = "refresh" // Exchanged for a new pair, single use
)

// JWT Claims
type Claims struct {
	UserID               uint   `json:"user_id"`    // Custom claim for user ID
	TokenType            string `json:"token_type"` // access or refresh
	jwt.RegisteredClaims        // Standard JWT claims
}

// TokenPair bundles the two credentials issued on login/registration
type TokenPair struct {
	Access  string `json:"access"`  // Long-lived access token
	Refresh string `json:"refresh"` // Rotating refresh token
}

// GenerateToken creates a signed JWT of the given type for a user ID
func GenerateToken(userID uint, tokenType, secret string, ttl time.Duration) (string, error) {
	// Set token claims
	claims := Claims{
		UserID:    userID,    // Custom claim for user ID
		TokenType: tokenType, // access or refresh
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),                          // Unique token id (jti)
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),   // Expiration per configured TTL
			IssuedAt:  jwt.NewNumericDate(time.Now()),            // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// GenerateTokenPair issues an access and a refresh token for a user ID
func GenerateTokenPair(userID uint, secret string, accessTTL, refreshTTL time.Duration) (TokenPair, error) {
	access, err := GenerateToken(userID, TokenAccess, secret, accessTTL) // Issue the access token
	if err != nil {
		return TokenPair{}, err // Return error if signing fails
	}
	refresh, err := GenerateToken(userID, TokenRefresh, secret, refreshTTL) // Issue the refresh token
	if err != nil {
		return TokenPair{}, err // Return error if signing fails
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	})
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil // Return claims if valid
	}
	// Return error if token is invalid
	return nil, jwt.ErrSignatureInvalid
}
