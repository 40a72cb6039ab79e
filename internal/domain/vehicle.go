package domain

import "time"

// Vehicle status values
const (
	StatusForSale    = "for_sale"    // Listed for sale
	StatusInProgress = "in_progress" // Being prepared
	StatusSold       = "sold"        // Sold to a buyer
)

// ValidStatus reports whether s is one of the known vehicle statuses
func ValidStatus(s string) bool {
	return s == StatusForSale || s == StatusInProgress || s == StatusSold
}

// Vehicle Model
type Vehicle struct {
	ID            uint           `gorm:"primaryKey" json:"id"`                              // Primary key
	OwnerID       uint           `gorm:"not null;index" json:"-"`                           // Foreign key to User
	Owner         User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`              // Owning user
	VIN           string         `gorm:"column:vin;size:17;unique;not null" json:"vin"`     // Unique 17-character VIN
	BrandID       uint           `gorm:"not null" json:"brand"`                             // Foreign key to CarBrand
	Brand         CarBrand       `gorm:"constraint:OnDelete:RESTRICT" json:"-"`             // Brand is protected while referenced
	ModelID       uint           `gorm:"not null" json:"model"`                             // Foreign key to CarModel
	Model         CarModel       `gorm:"constraint:OnDelete:RESTRICT" json:"-"`             // Model is protected while referenced
	Year          uint           `gorm:"not null" json:"year"`                              // Year of manufacture
	Mileage       uint           `gorm:"not null" json:"mileage"`                           // Mileage in kilometers
	Description   string         `gorm:"type:text" json:"description"`                      // Free-form description
	Status        string         `gorm:"size:20;not null;default:for_sale" json:"status"`   // for_sale, in_progress or sold
	PurchasePrice *float64       `json:"purchase_price"`                                    // Acquisition price, nullable
	PurchaseDate  *Date          `json:"purchase_date"`                                     // Acquisition date, nullable
	SellerInfo    *string        `gorm:"type:text" json:"seller_info"`                      // Seller details, nullable
	SalePrice     *float64       `json:"sale_price"`                                        // Sale price, nullable
	SaleDate      *Date          `json:"sale_date"`                                         // Sale date, nullable
	BuyerInfo     *string        `gorm:"type:text" json:"buyer_info"`                       // Buyer details, nullable
	Expenses      []Expense      `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"` // Expenses cascade with the vehicle
	Photos        []VehiclePhoto `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"` // Photos cascade with the vehicle
	CreatedAt     time.Time      `json:"created_at"`                                        // Timestamp of creation
	UpdatedAt     time.Time      `json:"updated_at"`                                        // Timestamp of last update
}

// ExpensesAmount sums the amounts of the preloaded expenses
func (v Vehicle) ExpensesAmount() float64 {
	var total float64
	for _, e := range v.Expenses {
		total += e.Amount // Tally each expense
	}
	return total
}

// Benefit is the vehicle's profit: sale price minus purchase price minus
// all recorded expenses, with a missing price treated as zero.
func (v Vehicle) Benefit() float64 {
	var sale, purchase float64
	if v.SalePrice != nil {
		sale = *v.SalePrice // Use the sale price if set
	}
	if v.PurchasePrice != nil {
		purchase = *v.PurchasePrice // Use the purchase price if set
	}
	return sale - purchase - v.ExpensesAmount()
}

// VehiclePhoto Model
type VehiclePhoto struct {
	ID        uint   `gorm:"primaryKey" json:"id"`         // Primary key
	VehicleID uint   `gorm:"not null;index" json:"-"`      // Foreign key to Vehicle
	Image     string `gorm:"size:255;not null" json:"image"` // Reference to the stored image
}
