package domain

// Expense type values
const (
	ExpenseRepaid    = "repaid"    // Repair work
	ExpenseDocuments = "documents" // Paperwork fees
	ExpenseDelivery  = "delivery"  // Transport costs
	ExpenseOther     = "other"     // Anything else
)

// ValidExpenseType reports whether t is one of the known expense types
func ValidExpenseType(t string) bool {
	return t == ExpenseRepaid || t == ExpenseDocuments || t == ExpenseDelivery || t == ExpenseOther
}

// Expense Model
type Expense struct {
	ID          uint    `gorm:"primaryKey" json:"id"`                        // Primary key
	VehicleID   uint    `gorm:"not null;index" json:"vehicle"`               // Foreign key to Vehicle
	ExpenseType string  `gorm:"size:20;not null;default:other" json:"expense_type"` // repaid, documents, delivery or other
	Amount      float64 `gorm:"not null" json:"amount"`                      // Monetary amount
	Date        Date    `gorm:"not null" json:"date"`                        // Date the expense occurred
	Description string  `gorm:"type:text" json:"description"`                // Free-form description
}
