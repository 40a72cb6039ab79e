package api

import (
	"autoledger/internal/domain" // Importing domain models
	"autoledger/internal/utils"  // Utility functions
	"context"                    // Context for cache operations
	"net/http"                   // HTTP status codes
	"strconv"                    // Path parameter parsing

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for expense creation; the vehicle field carries the ID
type ExpenseCreateRequest struct {
	Vehicle     uint        `json:"vehicle" binding:"required"`      // Vehicle ID
	ExpenseType string      `json:"expense_type"`                    // Defaults to other
	Amount      *float64    `json:"amount" binding:"required"`       // Monetary amount, pointer so zero passes validation
	Date        domain.Date `json:"date" binding:"required"`         // Date the expense occurred
	Description string      `json:"description"`                     // Free-form description
}

// ListExpensesHandler returns a vehicle's expenses, latest date first
func ListExpensesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID := c.Param("vehicle_id") // Vehicle ID from the URL
		var expenses []domain.Expense      // Slice to hold expenses
		// Fetch the vehicle's expenses ordered by date descending
		if err := db.Where("vehicle_id = ?", vehicleID).Order("date desc").Find(&expenses).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
			return
		}
		c.JSON(http.StatusOK, expenses) // Return the expense list
	}
}

// CreateExpenseHandler records an expense against an existing vehicle
func CreateExpenseHandler(db *gorm.DB, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExpenseCreateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Default and validate the expense type
		expenseType := req.ExpenseType
		if expenseType == "" {
			expenseType = domain.ExpenseOther // Uncategorized expenses land in other
		}
		if !domain.ValidExpenseType(expenseType) {
			c.JSON(http.StatusBadRequest, gin.H{"expense_type": "Invalid expense type."})
			return
		}
		var vehicle domain.Vehicle // The expense must attach to a real vehicle
		if err := db.First(&vehicle, req.Vehicle).Error; err != nil {
			// If the vehicle does not exist, return not found
			c.JSON(http.StatusNotFound, gin.H{"detail": "No Vehicle matches the given query."})
			return
		}
		// Build the expense record
		expense := domain.Expense{
			VehicleID:   vehicle.ID,      // Vehicle reference
			ExpenseType: expenseType,     // Expense category
			Amount:      *req.Amount,     // Monetary amount
			Date:        req.Date,        // Date of the expense
			Description: req.Description, // Description
		}
		// Attempt to create the expense in the database
		if err := db.Create(&expense).Error; err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"vehicle_id": vehicle.ID,  // Vehicle ID
				"amount":     *req.Amount, // Expense amount
				"error":      err.Error(), // Error message
			}).Error("Failed to create expense") // Log creation failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
			return
		}
		// Invalidate the owner's statistic cache
		_ = cache.Delete(context.Background(), utils.StatisticCacheKey(vehicle.OwnerID))
		c.JSON(http.StatusCreated, expense) // Return the created expense
	}
}

// DeleteExpenseHandler removes an expense by id
func DeleteExpenseHandler(db *gorm.DB, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A non-numeric id cannot match any row; never hand it to the store raw
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "No Expense matches the given query."})
			return
		}
		var expense domain.Expense // Fetch expense from database
		if err := db.First(&expense, id).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"detail": "No Expense matches the given query."})
			return
		}
		var vehicle domain.Vehicle // Resolve the owner for cache invalidation
		_ = db.First(&vehicle, expense.VehicleID).Error
		// Attempt to delete the expense
		if err := db.Delete(&expense).Error; err != nil {
			// If the delete fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
			return
		}
		// Invalidate the owner's statistic cache
		_ = cache.Delete(context.Background(), utils.StatisticCacheKey(vehicle.OwnerID))
		// Return success response
		c.JSON(http.StatusNoContent, gin.H{"detail": "Expense deleted successfully."})
	}
}
