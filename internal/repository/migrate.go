package repository

import "gorm.io/gorm"

// AutoMigrate creates the core tables. The no-double-booking index is added
// separately by database.Migrate because gorm cannot express partial indexes
// portably across postgres and sqlite.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&providerModel{},
		&serviceModel{},
		&providerScheduleModel{},
		&bookingModel{},
	)
}
