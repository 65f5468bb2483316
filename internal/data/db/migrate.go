package db

import (
	"gorm.io/gorm"

	types "github.com/ironvale/inventory-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Reference data
		&types.OrganisationUnit{},
		&types.Person{},
		&types.AssetType{},
		&types.AssetModel{},

		// Inventory core
		&types.Asset{},
		&types.Assignment{},
		&types.AssetRelationship{},
		&types.AssetEvent{},
	)
}
