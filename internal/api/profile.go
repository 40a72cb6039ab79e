package api

import (
	"autoledger/internal/domain" // Importing domain models
	"net/http"                   // HTTP status codes
	"strings"                    // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// ProfileResponse is the user subset exposed on the profile endpoints
type ProfileResponse struct {
	ID         uint    `json:"id"`         // User ID, read-only
	Username   string  `json:"username"`   // Username, read-only
	Email      string  `json:"email"`      // Email address
	FirstName  *string `json:"first_name"` // Optional first name
	LastName   *string `json:"last_name"`  // Optional last name
	Patronymic *string `json:"patronymic"` // Optional patronymic
	Photo      *string `json:"photo"`      // Profile photo reference
}

// Request struct for partial profile updates. Nil fields are not touched.
type ProfileUpdateRequest struct {
	Email      *string `json:"email"`      // New email, optional
	FirstName  *string `json:"first_name"` // New first name, optional
	LastName   *string `json:"last_name"`  // New last name, optional
	Patronymic *string `json:"patronymic"` // New patronymic, optional
	Photo      *string `json:"photo"`      // New photo reference, optional
}

// profileResponse shapes a user row into the profile subset
func profileResponse(user domain.User) ProfileResponse {
	return ProfileResponse{
		ID:         user.ID,         // User ID
		Username:   user.Username,   // Username
		Email:      user.Email,      // Email address
		FirstName:  user.FirstName,  // First name
		LastName:   user.LastName,   // Last name
		Patronymic: user.Patronymic, // Patronymic
		Photo:      user.Photo,      // Photo reference
	}
}

// GetProfileHandler returns the authenticated user's profile
func GetProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			// If user not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found."})
			return
		}
		// Return the profile subset
		c.JSON(http.StatusOK, profileResponse(user))
	}
}

// UpdateProfileHandler partially updates the authenticated user's profile.
// Absent and null-valued fields are skipped; username and id are read-only.
func UpdateProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ProfileUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			// If user not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found."})
			return
		}
		// Collect only the provided fields
		updates := map[string]any{}
		if req.Email != nil {
			email := strings.ToLower(*req.Email) // Normalized email
			// Surface duplicate emails as a field-level error
			var count int64
			db.Model(&domain.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count)
			if count > 0 {
				c.JSON(http.StatusBadRequest, gin.H{"email": "A user with that email already exists."})
				return
			}
			updates["email"] = email // Queue the email change
		}
		if req.FirstName != nil {
			updates["first_name"] = *req.FirstName // Queue the first name change
		}
		if req.LastName != nil {
			updates["last_name"] = *req.LastName // Queue the last name change
		}
		if req.Patronymic != nil {
			updates["patronymic"] = *req.Patronymic // Queue the patronymic change
		}
		if req.Photo != nil {
			updates["photo"] = *req.Photo // Queue the photo change
		}
		// Apply the changes, if any
		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				// If the update fails, return internal server error
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
				return
			}
		}
		// Return the refreshed profile subset
		c.JSON(http.StatusOK, profileResponse(user))
	}
}
