package api

import (
	"autoledger/internal/middleware" // JWT middleware
	"autoledger/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// SetupRouter registers every route on a fresh gin engine. The same
// wiring serves production and the handler tests.
func SetupRouter(db *gorm.DB, cache utils.Cache, ts TokenSettings) *gin.Engine {
	r := gin.Default() // Gin router instance

	// Auth routes (no bearer token)
	authGroup := r.Group("/users/auth")
	authGroup.POST("/register/", RegisterHandler(db, ts))  // Registration endpoint
	authGroup.POST("/login/", LoginHandler(db, ts))        // Login endpoint
	authGroup.POST("/refresh/", RefreshHandler(cache, ts)) // Token refresh endpoint

	// Everything below requires a valid access token
	protected := r.Group("")
	protected.Use(middleware.JWTAuthMiddleware(ts.Secret))

	// Profile routes
	protected.GET("/users/profile/", GetProfileHandler(db))      // Profile read endpoint
	protected.PATCH("/users/profile/", UpdateProfileHandler(db)) // Profile update endpoint

	// Catalog routes
	protected.GET("/brands/list/", ListBrandsHandler(db)) // Brand listing endpoint
	protected.GET("/models/list/", ListModelsHandler(db)) // Model listing endpoint

	// Fleet routes
	protected.GET("/vehicles/list/", ListVehiclesHandler(db))                  // Vehicle listing endpoint
	protected.GET("/vehicles/retrieve/:id/", RetrieveVehicleHandler(db))       // Vehicle detail endpoint
	protected.POST("/vehicles/create/", CreateVehicleHandler(db, cache))       // Vehicle creation endpoint
	protected.PATCH("/vehicles/update/:id/", UpdateVehicleHandler(db, cache))  // Vehicle update endpoint
	protected.DELETE("/vehicles/delete/:id/", DeleteVehicleHandler(db, cache)) // Vehicle deletion endpoint

	// Expense routes
	protected.GET("/expenses/list/:vehicle_id/", ListExpensesHandler(db))      // Expense listing endpoint
	protected.POST("/expenses/create/", CreateExpenseHandler(db, cache))       // Expense creation endpoint
	protected.DELETE("/expenses/delete/:id/", DeleteExpenseHandler(db, cache)) // Expense deletion endpoint

	// Statistics route
	protected.GET("/statistic/", StatisticHandler(db, cache)) // Aggregated figures endpoint

	return r
}
