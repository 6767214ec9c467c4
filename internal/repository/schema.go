package repository

import "gorm.io/gorm"

// AutoMigrate creates the schema from the gorm models. It backs SQLite
// development databases and tests; PostgreSQL uses the goose migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&vehicleModel{},
		&catalogModel{},
		&bookingModel{},
		&favoriteModel{},
		&reviewModel{},
	)
}
