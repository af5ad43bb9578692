package entities

import "gorm.io/gorm"

// AutoMigrate migrates every marketplace core entity.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Business{},
		&ProviderProfile{},
		&Subscription{},
		&ServiceRequest{},
		&Lead{},
		&Proposal{},
		&WorkOrder{},
		&Review{},
	)
}
