// Package repos re-exports the repository interfaces and bundles their
// constructors so the app layer wires one value instead of eight.
package repos

import (
	"gorm.io/gorm"

	"github.com/ironvale/inventory-backend/internal/data/repos/catalog"
	"github.com/ironvale/inventory-backend/internal/data/repos/inventory"
	"github.com/ironvale/inventory-backend/internal/data/repos/org"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

type (
	AssetRepo        = inventory.AssetRepo
	AssetListFilter  = inventory.AssetListFilter
	AssignmentRepo   = inventory.AssignmentRepo
	RelationshipRepo = inventory.RelationshipRepo
	EventRepo        = inventory.EventRepo

	PersonRepo       = org.PersonRepo
	PersonListFilter = org.PersonListFilter
	OrgUnitRepo      = org.OrgUnitRepo

	AssetTypeRepo  = catalog.AssetTypeRepo
	AssetModelRepo = catalog.AssetModelRepo
)

type Repos struct {
	Asset        AssetRepo
	Assignment   AssignmentRepo
	Relationship RelationshipRepo
	Event        EventRepo

	Person  PersonRepo
	OrgUnit OrgUnitRepo

	AssetType  AssetTypeRepo
	AssetModel AssetModelRepo
}

func New(db *gorm.DB, baseLog *logger.Logger) *Repos {
	return &Repos{
		Asset:        inventory.NewAssetRepo(db, baseLog),
		Assignment:   inventory.NewAssignmentRepo(db, baseLog),
		Relationship: inventory.NewRelationshipRepo(db, baseLog),
		Event:        inventory.NewEventRepo(db, baseLog),

		Person:  org.NewPersonRepo(db, baseLog),
		OrgUnit: org.NewOrgUnitRepo(db, baseLog),

		AssetType:  catalog.NewAssetTypeRepo(db, baseLog),
		AssetModel: catalog.NewAssetModelRepo(db, baseLog),
	}
}
