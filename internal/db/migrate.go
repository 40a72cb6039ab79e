package db

import (
	"autoledger/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err = AutoMigrate(db)
	if err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	// Seed the static brand/model catalog
	if err := SeedCatalog(db); err != nil {
		logrus.Fatalf("catalog seeding failed: %v", err) // Log fatal error if seeding fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}

// AutoMigrate creates the schema for all domain models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},         // Identity store
		&domain.CarBrand{},     // Catalog: brands
		&domain.CarModel{},     // Catalog: models
		&domain.Vehicle{},      // Fleet ledger
		&domain.VehiclePhoto{}, // Vehicle photos
		&domain.Expense{},      // Expense ledger
	)
}
