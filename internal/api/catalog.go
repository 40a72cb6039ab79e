package api

import (
	"autoledger/internal/domain" // Importing domain models
	"net/http"                   // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// ListBrandsHandler returns all car brands
func ListBrandsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var brands []domain.CarBrand // Slice to hold brands
		if err := db.Order("id").Find(&brands).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch brands"})
			return
		}
		c.JSON(http.StatusOK, brands) // Return the brand list
	}
}

// ListModelsHandler returns all car models
func ListModelsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var models []domain.CarModel // Slice to hold models
		if err := db.Order("id").Find(&models).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch models"})
			return
		}
		c.JSON(http.StatusOK, models) // Return the model list
	}
}
