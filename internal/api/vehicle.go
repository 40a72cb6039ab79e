package api

import (
	"autoledger/internal/domain" // Importing domain models
	"autoledger/internal/utils"  // Utility functions
	"context"                    // Context for cache operations
	"net/http"                   // HTTP status codes
	"strconv"                    // String conversion

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for vehicle creation
type VehicleCreateRequest struct {
	VIN           string       `json:"vin" binding:"required"`     // 17-character VIN
	Brand         uint         `json:"brand" binding:"required"`   // CarBrand ID
	Model         uint         `json:"model" binding:"required"`   // CarModel ID
	Year          uint         `json:"year" binding:"required"`    // Year of manufacture
	Mileage       *uint        `json:"mileage" binding:"required"` // Mileage, pointer so zero passes validation
	PurchasePrice *float64     `json:"purchase_price"`             // Acquisition price, optional
	Status        string       `json:"status"`                     // Defaults to for_sale
	PurchaseDate  *domain.Date `json:"purchase_date"`              // Acquisition date, optional
	Description   string       `json:"description"`                // Free-form description
	SellerInfo    *string      `json:"seller_info"`                // Seller details, optional
	BuyerInfo     *string      `json:"buyer_info"`                 // Buyer details, optional
}

// Request struct for partial vehicle updates. Nil fields are not touched.
type VehicleUpdateRequest struct {
	VIN           *string      `json:"vin"`            // New VIN, optional
	Brand         *uint        `json:"brand"`          // New CarBrand ID, optional
	Model         *uint        `json:"model"`          // New CarModel ID, optional
	Year          *uint        `json:"year"`           // New year, optional
	Mileage       *uint        `json:"mileage"`        // New mileage, optional
	PurchasePrice *float64     `json:"purchase_price"` // New purchase price, optional
	Status        *string      `json:"status"`         // New status, optional
	PurchaseDate  *domain.Date `json:"purchase_date"`  // New purchase date, optional
	Description   *string      `json:"description"`    // New description, optional
	SalePrice     *float64     `json:"sale_price"`     // New sale price, optional
	SaleDate      *domain.Date `json:"sale_date"`      // New sale date, optional
	SellerInfo    *string      `json:"seller_info"`    // New seller details, optional
	BuyerInfo     *string      `json:"buyer_info"`     // New buyer details, optional
}

// VehicleListItem is one row of the owner's vehicle listing
type VehicleListItem struct {
	ID             uint     `json:"id"`              // Vehicle ID
	VIN            string   `json:"vin"`             // 17-character VIN
	Brand          string   `json:"brand"`           // Brand name
	Model          string   `json:"model"`           // Model name
	Year           uint     `json:"year"`            // Year of manufacture
	Mileage        uint     `json:"mileage"`         // Mileage
	PurchasePrice  *float64 `json:"purchase_price"`  // Acquisition price
	SalePrice      *float64 `json:"sale_price"`      // Sale price
	Status         string   `json:"status"`          // Lifecycle status
	ExpensesAmount float64  `json:"expenses_amount"` // Sum of recorded expenses
	Benefit        float64  `json:"benefit"`         // Derived profit
}

// VehicleDetail is the retrieve payload with nested brand, model and photos
type VehicleDetail struct {
	VIN           string                `json:"vin"`            // 17-character VIN
	Brand         domain.CarBrand       `json:"brand"`          // Nested brand object
	Model         domain.CarModel       `json:"model"`          // Nested model object
	Year          uint                  `json:"year"`           // Year of manufacture
	Mileage       uint                  `json:"mileage"`        // Mileage
	PurchasePrice *float64              `json:"purchase_price"` // Acquisition price
	Status        string                `json:"status"`         // Lifecycle status
	PurchaseDate  *domain.Date          `json:"purchase_date"`  // Acquisition date
	SalePrice     *float64              `json:"sale_price"`     // Sale price
	SaleDate      *domain.Date          `json:"sale_date"`      // Sale date
	Description   string                `json:"description"`    // Free-form description
	SellerInfo    *string               `json:"seller_info"`    // Seller details
	BuyerInfo     *string               `json:"buyer_info"`     // Buyer details
	Photos        []domain.VehiclePhoto `json:"photos"`         // Uploaded photo references
}

// validateBrandModel checks that the model exists and belongs to the brand.
// It writes the field-keyed error response itself and reports success.
func validateBrandModel(c *gin.Context, db *gorm.DB, brandID, modelID uint) bool {
	var brand domain.CarBrand // Fetch brand from database
	if err := db.First(&brand, brandID).Error; err != nil {
		// If the brand does not exist, return a field-level error
		c.JSON(http.StatusBadRequest, gin.H{"brand": "The specified brand does not exist."})
		return false
	}
	var model domain.CarModel // Fetch model from database
	if err := db.First(&model, modelID).Error; err != nil {
		// If the model does not exist, return a field-level error
		c.JSON(http.StatusBadRequest, gin.H{"model": "The specified model does not exist."})
		return false
	}
	// The model must belong to the given brand
	if model.BrandID != brand.ID {
		c.JSON(http.StatusBadRequest, gin.H{"model": "The specified model does not belong to the specified brand."})
		return false
	}
	return true
}

// ListVehiclesHandler returns the caller's vehicles with optional filters.
// Present filters AND together; omitted ones are no-ops.
func ListVehiclesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Scope the query to the caller's own vehicles
		q := db.Model(&domain.Vehicle{}).
			Where("vehicles.owner_id = ?", userID).
			Preload("Brand").    // Brand name for the row
			Preload("Model").    // Model name for the row
			Preload("Expenses"). // Expenses for the derived figures
			Order("vehicles.id") // Creation order
		// Filter by brand name
		if brand := c.Query("brand"); brand != "" {
			q = q.Joins("JOIN car_brands ON car_brands.id = vehicles.brand_id").
				Where("car_brands.name = ?", brand)
		}
		// Filter by model name
		if model := c.Query("model"); model != "" {
			q = q.Joins("JOIN car_models ON car_models.id = vehicles.model_id").
				Where("car_models.name = ?", model)
		}
		// Filter by status
		if status := c.Query("status"); status != "" {
			q = q.Where("vehicles.status = ?", status)
		}
		// Inclusive year range; unparsable values are field-level errors
		if from := c.Query("year_from"); from != "" {
			v, err := strconv.Atoi(from)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"year_from": "A valid integer is required."})
				return
			}
			q = q.Where("vehicles.year >= ?", v)
		}
		if to := c.Query("year_to"); to != "" {
			v, err := strconv.Atoi(to)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"year_to": "A valid integer is required."})
				return
			}
			q = q.Where("vehicles.year <= ?", v)
		}
		// Inclusive mileage range
		if from := c.Query("mileage_from"); from != "" {
			v, err := strconv.Atoi(from)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"mileage_from": "A valid integer is required."})
				return
			}
			q = q.Where("vehicles.mileage >= ?", v)
		}
		if to := c.Query("mileage_to"); to != "" {
			v, err := strconv.Atoi(to)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"mileage_to": "A valid integer is required."})
				return
			}
			q = q.Where("vehicles.mileage <= ?", v)
		}
		// Inclusive purchase price range
		if from := c.Query("purchase_price_from"); from != "" {
			v, err := strconv.ParseFloat(from, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"purchase_price_from": "A valid number is required."})
				return
			}
			q = q.Where("vehicles.purchase_price >= ?", v)
		}
		if to := c.Query("purchase_price_to"); to != "" {
			v, err := strconv.ParseFloat(to, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"purchase_price_to": "A valid number is required."})
				return
			}
			q = q.Where("vehicles.purchase_price <= ?", v)
		}
		var vehicles []domain.Vehicle // Slice to hold vehicles
		if err := q.Find(&vehicles).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicles"})
			return
		}
		// Shape each row with its derived figures
		items := make([]VehicleListItem, 0, len(vehicles))
		for _, v := range vehicles {
			items = append(items, VehicleListItem{
				ID:             v.ID,               // Vehicle ID
				VIN:            v.VIN,              // VIN
				Brand:          v.Brand.Name,       // Brand name
				Model:          v.Model.Name,       // Model name
				Year:           v.Year,             // Year
				Mileage:        v.Mileage,          // Mileage
				PurchasePrice:  v.PurchasePrice,    // Purchase price
				SalePrice:      v.SalePrice,        // Sale price
				Status:         v.Status,           // Status
				ExpensesAmount: v.ExpensesAmount(), // Sum of expenses
				Benefit:        v.Benefit(),        // Derived profit
			})
		}
		c.JSON(http.StatusOK, items) // Return the vehicle list
	}
}

// RetrieveVehicleHandler returns one vehicle with nested brand, model and
// photos. Retrieval by id is not owner-scoped: any authenticated caller
// may view any vehicle.
func RetrieveVehicleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A non-numeric id cannot match any row; never hand it to the store raw
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Vehicle not found."})
			return
		}
		var vehicle domain.Vehicle
		// Fetch the vehicle with its relations
		if err := db.Preload("Brand").Preload("Model").Preload("Photos").First(&vehicle, id).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"detail": "Vehicle not found."})
			return
		}
		// Shape the detail payload
		photos := vehicle.Photos
		if photos == nil {
			photos = []domain.VehiclePhoto{} // Serialize as an empty array
		}
		c.JSON(http.StatusOK, VehicleDetail{
			VIN:           vehicle.VIN,           // VIN
			Brand:         vehicle.Brand,         // Nested brand
			Model:         vehicle.Model,         // Nested model
			Year:          vehicle.Year,          // Year
			Mileage:       vehicle.Mileage,       // Mileage
			PurchasePrice: vehicle.PurchasePrice, // Purchase price
			Status:        vehicle.Status,        // Status
			PurchaseDate:  vehicle.PurchaseDate,  // Purchase date
			SalePrice:     vehicle.SalePrice,     // Sale price
			SaleDate:      vehicle.SaleDate,      // Sale date
			Description:   vehicle.Description,   // Description
			SellerInfo:    vehicle.SellerInfo,    // Seller details
			BuyerInfo:     vehicle.BuyerInfo,     // Buyer details
			Photos:        photos,                // Photo references
		})
	}
}

// CreateVehicleHandler registers a vehicle owned by the caller
func CreateVehicleHandler(db *gorm.DB, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req VehicleCreateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// A VIN is exactly 17 characters
		if len(req.VIN) != 17 {
			c.JSON(http.StatusBadRequest, gin.H{"vin": "VIN must be 17 characters."})
			return
		}
		// Default and validate the status
		status := req.Status
		if status == "" {
			status = domain.StatusForSale // New vehicles default to for_sale
		}
		if !domain.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "Invalid status."})
			return
		}
		// The model must belong to the given brand
		if !validateBrandModel(c, db, req.Brand, req.Model) {
			return
		}
		// Surface duplicate VINs as a field-level error
		var count int64
		db.Model(&domain.Vehicle{}).Where("vin = ?", req.VIN).Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"vin": "A vehicle with that VIN already exists."})
			return
		}
		// Build the vehicle owned by the caller
		vehicle := domain.Vehicle{
			OwnerID:       userID.(uint),     // Owner is the authenticated user
			VIN:           req.VIN,           // VIN
			BrandID:       req.Brand,         // Brand reference
			ModelID:       req.Model,         // Model reference
			Year:          req.Year,          // Year
			Mileage:       *req.Mileage,      // Mileage
			Description:   req.Description,   // Description
			Status:        status,            // Lifecycle status
			PurchasePrice: req.PurchasePrice, // Purchase price
			PurchaseDate:  req.PurchaseDate,  // Purchase date
			SellerInfo:    req.SellerInfo,    // Seller details
			BuyerInfo:     req.BuyerInfo,     // Buyer details
		}
		// Attempt to create the vehicle in the database
		if err := db.Create(&vehicle).Error; err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"owner_id": userID,      // Owner user ID
				"vin":      req.VIN,     // VIN
				"error":    err.Error(), // Error message
			}).Error("Failed to create vehicle") // Log creation failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle"})
			return
		}
		// Invalidate the owner's statistic cache
		_ = cache.Delete(context.Background(), utils.StatisticCacheKey(userID.(uint)))
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"detail": "Vehicle successfully added.", "id": vehicle.ID})
	}
}

// UpdateVehicleHandler partially updates the caller's own vehicle. Absent
// and null-valued fields are skipped rather than cleared.
func UpdateVehicleHandler(db *gorm.DB, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// A non-numeric id cannot match any row; never hand it to the store raw
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Vehicle not found or you are not the owner."})
			return
		}
		var vehicle domain.Vehicle // Fetch the caller's vehicle
		// A missing row and someone else's row are indistinguishable here
		if err := db.Where("owner_id = ?", userID).First(&vehicle, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Vehicle not found or you are not the owner."})
			return
		}
		var req VehicleUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Revalidate the brand/model pair when either side changes
		if req.Brand != nil || req.Model != nil {
			brandID := vehicle.BrandID // Effective brand after the update
			if req.Brand != nil {
				brandID = *req.Brand
			}
			modelID := vehicle.ModelID // Effective model after the update
			if req.Model != nil {
				modelID = *req.Model
			}
			if !validateBrandModel(c, db, brandID, modelID) {
				return
			}
		}
		// Collect only the provided fields
		updates := map[string]any{}
		if req.VIN != nil {
			// A VIN is exactly 17 characters
			if len(*req.VIN) != 17 {
				c.JSON(http.StatusBadRequest, gin.H{"vin": "VIN must be 17 characters."})
				return
			}
			// Surface duplicate VINs as a field-level error
			var count int64
			db.Model(&domain.Vehicle{}).Where("vin = ? AND id <> ?", *req.VIN, vehicle.ID).Count(&count)
			if count > 0 {
				c.JSON(http.StatusBadRequest, gin.H{"vin": "A vehicle with that VIN already exists."})
				return
			}
			updates["vin"] = *req.VIN // Queue the VIN change
		}
		if req.Brand != nil {
			updates["brand_id"] = *req.Brand // Queue the brand change
		}
		if req.Model != nil {
			updates["model_id"] = *req.Model // Queue the model change
		}
		if req.Year != nil {
			updates["year"] = *req.Year // Queue the year change
		}
		if req.Mileage != nil {
			updates["mileage"] = *req.Mileage // Queue the mileage change
		}
		if req.PurchasePrice != nil {
			updates["purchase_price"] = *req.PurchasePrice // Queue the purchase price change
		}
		if req.Status != nil {
			// Validate the new status
			if !domain.ValidStatus(*req.Status) {
				c.JSON(http.StatusBadRequest, gin.H{"status": "Invalid status."})
				return
			}
			updates["status"] = *req.Status // Queue the status change
		}
		if req.PurchaseDate != nil {
			updates["purchase_date"] = *req.PurchaseDate // Queue the purchase date change
		}
		if req.Description != nil {
			updates["description"] = *req.Description // Queue the description change
		}
		if req.SalePrice != nil {
			updates["sale_price"] = *req.SalePrice // Queue the sale price change
		}
		if req.SaleDate != nil {
			updates["sale_date"] = *req.SaleDate // Queue the sale date change
		}
		if req.SellerInfo != nil {
			updates["seller_info"] = *req.SellerInfo // Queue the seller info change
		}
		if req.BuyerInfo != nil {
			updates["buyer_info"] = *req.BuyerInfo // Queue the buyer info change
		}
		// Apply the changes, if any
		if len(updates) > 0 {
			if err := db.Model(&vehicle).Updates(updates).Error; err != nil {
				// Log the error with context
				logrus.WithFields(logrus.Fields{
					"owner_id":   userID,      // Owner user ID
					"vehicle_id": vehicle.ID,  // Vehicle ID
					"error":      err.Error(), // Error message
				}).Error("Failed to update vehicle") // Log update failure
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle"})
				return
			}
			// Invalidate the owner's statistic cache
			_ = cache.Delete(context.Background(), utils.StatisticCacheKey(userID.(uint)))
			// Reload the row so the response reflects the stored state
			db.First(&vehicle, vehicle.ID)
		}
		c.JSON(http.StatusOK, vehicle) // Return the updated vehicle
	}
}

// DeleteVehicleHandler deletes the caller's own vehicle together with its
// expenses and photos in one transaction.
func DeleteVehicleHandler(db *gorm.DB, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// A non-numeric id cannot match any row; never hand it to the store raw
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Vehicle not found or you are not the owner."})
			return
		}
		var vehicle domain.Vehicle // Fetch the caller's vehicle
		// A missing row and someone else's row are indistinguishable here
		if err := db.Where("owner_id = ?", userID).First(&vehicle, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Vehicle not found or you are not the owner."})
			return
		}
		// Atomic cascade delete
		err = db.Transaction(func(tx *gorm.DB) error {
			// Remove the vehicle's expenses
			if err := tx.Where("vehicle_id = ?", vehicle.ID).Delete(&domain.Expense{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Remove the vehicle's photos
			if err := tx.Where("vehicle_id = ?", vehicle.ID).Delete(&domain.VehiclePhoto{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Remove the vehicle itself
			if err := tx.Delete(&vehicle).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"owner_id":   userID,      // Owner user ID
				"vehicle_id": vehicle.ID,  // Vehicle ID
				"error":      err.Error(), // Error message
			}).Error("Failed to delete vehicle") // Log deletion failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle"})
			return
		}
		// Invalidate the owner's statistic cache
		_ = cache.Delete(context.Background(), utils.StatisticCacheKey(userID.(uint)))
		// Return success response
		c.JSON(http.StatusNoContent, gin.H{"detail": "Vehicle successfully deleted."})
	}
}
