package db

import (
	"autoledger/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// SeedCatalog creates the core brand/model reference data. The catalog
// has no end-user write surface, so it is populated during migration.
func SeedCatalog(db *gorm.DB) error {
	// Brand name -> country and model names
	catalog := []struct {
		Brand   string
		Country string
		Models  []string
	}{
		{"Toyota", "Japan", []string{"Camry", "Corolla", "Land Cruiser", "RAV4"}},
		{"Honda", "Japan", []string{"Accord", "Civic", "CR-V"}},
		{"BMW", "Germany", []string{"3 Series", "5 Series", "X5"}},
		{"Mercedes-Benz", "Germany", []string{"C-Class", "E-Class", "GLE"}},
		{"Volkswagen", "Germany", []string{"Golf", "Passat", "Tiguan"}},
		{"Lada", "Russia", []string{"Vesta", "Granta", "Niva"}},
		{"Kia", "South Korea", []string{"Rio", "Sportage", "Optima"}},
		{"Hyundai", "South Korea", []string{"Solaris", "Creta", "Tucson"}},
	}

	for _, entry := range catalog {
		country := entry.Country // Copy for a stable pointer
		brand := domain.CarBrand{Name: entry.Brand, Country: &country}
		// Use FirstOrCreate to keep seeding idempotent
		if err := db.Where("name = ?", entry.Brand).FirstOrCreate(&brand).Error; err != nil {
			return err
		}
		for _, name := range entry.Models {
			model := domain.CarModel{BrandID: brand.ID, Name: name}
			// Same idempotent pattern per (brand, name) pair
			if err := db.Where("brand_id = ? AND name = ?", brand.ID, name).FirstOrCreate(&model).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
