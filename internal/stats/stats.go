// Package stats computes the derived financial figures behind the
// statistic endpoint: per-status tallies, expense totals, deal summaries
// and the date-bucketed graph datasets.
package stats

import (
	"autoledger/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// DealsData summarizes the user's purchases and sales
type DealsData struct {
	PurchaseTotalAmount           float64 `json:"purchase_total_amount"`              // Sum of purchase prices where set
	SoldTotalAmount               float64 `json:"sold_total_amount"`                  // Sum of sale prices where set
	PurchaseAvgPrice              float64 `json:"purchase_avg_price"`                 // Average purchase price, 0 when no data
	SoldAvgPrice                  float64 `json:"sold_avg_price"`                     // Average sale price, 0 when no data
	Benefit                       float64 `json:"benefit"`                            // Sum of per-vehicle profits
	AvgDaysBetweenPurchaseAndSale float64 `json:"avg_days_between_purchase_and_sale"` // Day gaps divided by the full vehicle count
	VehicleWithBenefits           int     `json:"vehicle_with_benefits"`              // Vehicles with positive profit
	VehicleWithLosses             int     `json:"vehicle_with_losses"`                // Vehicles with negative profit
}

// CountPoint is one date bucket of the count series
type CountPoint struct {
	Date  domain.Date `json:"date"`  // Bucket date
	Count int64       `json:"count"` // Vehicles on that date
}

// AmountPoint is one date bucket of the financial series
type AmountPoint struct {
	Date   domain.Date `json:"date"`   // Bucket date
	Amount float64     `json:"amount"` // Summed prices on that date
}

// CountDataset holds the count series by purchase and sale date
type CountDataset struct {
	PurchaseDates []CountPoint `json:"purchase_dates"` // Bucketed by purchase date
	SaleDates     []CountPoint `json:"sale_dates"`     // Bucketed by sale date
}

// FinancialDataset holds the money series by purchase and sale date
type FinancialDataset struct {
	PurchaseDates []AmountPoint `json:"purchase_dates"` // Bucketed by purchase date
	SaleDates     []AmountPoint `json:"sale_dates"`     // Bucketed by sale date
}

// GraphData bundles both graph datasets
type GraphData struct {
	CountDataset     CountDataset     `json:"count_dataset"`     // Per-date vehicle counts
	FinancialDataset FinancialDataset `json:"financial_dataset"` // Per-date summed prices
}

// Report is the full statistic payload for one user
type Report struct {
	VehicleByStatus  map[string]int     `json:"vehicle_by_status"`  // Status -> vehicle count
	ExpensesByStatus map[string]float64 `json:"expenses_by_status"` // Expense type -> summed amount
	VehicleCount     int                `json:"vehicle_count"`      // Total vehicles owned
	DealsData        DealsData          `json:"deals_data"`         // Deal summary
	GraphDatasets    GraphData          `json:"graph_datasets"`     // Time-bucketed series
}

// VehiclesByStatus tallies vehicles by lifecycle status in a single pass
func VehiclesByStatus(vehicles []domain.Vehicle) map[string]int {
	data := map[string]int{}
	for _, v := range vehicles {
		data[v.Status]++ // Tally per status
	}
	return data
}

// ExpensesByType flattens all expenses and sums their amounts per type
func ExpensesByType(vehicles []domain.Vehicle) map[string]float64 {
	data := map[string]float64{}
	for _, v := range vehicles {
		for _, e := range v.Expenses {
			data[e.ExpenseType] += e.Amount // Tally per expense type
		}
	}
	return data
}

// Deals reduces the vehicle set into the deal summary. Averages fall back
// to a denominator of 1 when no data exists, and the day-gap average is
// divided by the full vehicle count, not the subset with both dates.
func Deals(vehicles []domain.Vehicle) DealsData {
	var data DealsData
	var purchased, sold int // Vehicles with a purchase resp. sale price
	var dayGaps int         // Summed purchase-to-sale day gaps
	for _, v := range vehicles {
		if v.PurchasePrice != nil {
			data.PurchaseTotalAmount += *v.PurchasePrice // Tally the purchase side
			purchased++
		}
		if v.SalePrice != nil {
			data.SoldTotalAmount += *v.SalePrice // Tally the sale side
			sold++
		}
		// Day gap only where both dates are set
		if v.PurchaseDate != nil && v.SaleDate != nil {
			dayGaps += v.PurchaseDate.DaysUntil(*v.SaleDate)
		}
		benefit := v.Benefit() // Derived per-vehicle profit
		data.Benefit += benefit
		if benefit > 0 {
			data.VehicleWithBenefits++ // Profitable vehicle
		} else if benefit < 0 {
			data.VehicleWithLosses++ // Loss-making vehicle
		}
	}
	// Averages use "count or 1" to avoid division by zero
	data.PurchaseAvgPrice = data.PurchaseTotalAmount / float64(max(purchased, 1))
	data.SoldAvgPrice = data.SoldTotalAmount / float64(max(sold, 1))
	// Denominator is the full vehicle count, guarded against zero
	data.AvgDaysBetweenPurchaseAndSale = float64(dayGaps) / float64(max(len(vehicles), 1))
	return data
}

// GraphDatasets groups vehicles by purchase and sale date across ALL
// vehicles in the system, not just the given user's.
func GraphDatasets(db *gorm.DB) (GraphData, error) {
	var data GraphData
	// Vehicle counts per purchase date
	if err := db.Model(&domain.Vehicle{}).
		Select("purchase_date AS date, COUNT(id) AS count").
		Where("purchase_date IS NOT NULL").
		Group("purchase_date").
		Order("purchase_date").
		Scan(&data.CountDataset.PurchaseDates).Error; err != nil {
		return data, err
	}
	// Vehicle counts per sale date
	if err := db.Model(&domain.Vehicle{}).
		Select("sale_date AS date, COUNT(id) AS count").
		Where("sale_date IS NOT NULL").
		Group("sale_date").
		Order("sale_date").
		Scan(&data.CountDataset.SaleDates).Error; err != nil {
		return data, err
	}
	// Summed purchase prices per purchase date
	if err := db.Model(&domain.Vehicle{}).
		Select("purchase_date AS date, COALESCE(SUM(purchase_price), 0) AS amount").
		Where("purchase_date IS NOT NULL").
		Group("purchase_date").
		Order("purchase_date").
		Scan(&data.FinancialDataset.PurchaseDates).Error; err != nil {
		return data, err
	}
	// Summed sale prices per sale date
	if err := db.Model(&domain.Vehicle{}).
		Select("sale_date AS date, COALESCE(SUM(sale_price), 0) AS amount").
		Where("sale_date IS NOT NULL").
		Group("sale_date").
		Order("sale_date").
		Scan(&data.FinancialDataset.SaleDates).Error; err != nil {
		return data, err
	}
	return data, nil
}

// BuildReport loads the user's fleet and assembles the full payload
func BuildReport(db *gorm.DB, userID uint) (Report, error) {
	var vehicles []domain.Vehicle // The user's full vehicle set
	if err := db.Where("owner_id = ?", userID).Preload("Expenses").Find(&vehicles).Error; err != nil {
		return Report{}, err
	}
	graphs, err := GraphDatasets(db) // Global graph series
	if err != nil {
		return Report{}, err
	}
	return Report{
		VehicleByStatus:  VehiclesByStatus(vehicles), // Status tallies
		ExpensesByStatus: ExpensesByType(vehicles),   // Expense tallies
		VehicleCount:     len(vehicles),              // Fleet size
		DealsData:        Deals(vehicles),            // Deal summary
		GraphDatasets:    graphs,                     // Graph series
	}, nil
}
