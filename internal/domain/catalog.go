package domain

// CarBrand Model (static reference data)
type CarBrand struct {
	ID      uint       `gorm:"primaryKey" json:"id"`            // Primary key
	Name    string     `gorm:"size:50;unique;not null" json:"name"` // Unique brand name
	Country *string    `gorm:"size:50" json:"country"`          // Optional country of origin
	Models  []CarModel `gorm:"foreignKey:BrandID" json:"-"`     // Models of this brand
}

// CarModel Model, unique per (brand, name) pair
type CarModel struct {
	ID      uint     `gorm:"primaryKey" json:"id"`                                 // Primary key
	BrandID uint     `gorm:"not null;uniqueIndex:idx_brand_model" json:"brand"`    // Foreign key to CarBrand
	Name    string   `gorm:"size:50;not null;uniqueIndex:idx_brand_model" json:"name"` // Model name, unique within the brand
	Brand   CarBrand `gorm:"constraint:OnDelete:CASCADE" json:"-"`                 // Owning brand
}
