package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset is a tracked physical item. Status, location and custody change only
// through the transition engine; notes are append-only free text.
type Asset struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AssetTag       *string        `gorm:"uniqueIndex" json:"asset_tag"`
	SerialNumber   *string        `gorm:"uniqueIndex" json:"serial_number"`
	AssetModelID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"asset_model_id"`
	Status         AssetStatus    `gorm:"type:varchar(16);not null;default:'spare';index:ix_assets_status_location" json:"status"`
	OperationState OperationState `gorm:"type:varchar(16);not null;default:'normal'" json:"operation_state"`
	PurchaseDate   *time.Time     `json:"purchase_date"`
	Supplier       *string        `json:"supplier"`
	Description    *string        `json:"description"`
	LocationID     *uuid.UUID     `gorm:"type:uuid;index:ix_assets_status_location" json:"location_id"`
	Notes          string         `json:"notes"`

	AssetModel    *AssetModel         `gorm:"foreignKey:AssetModelID;constraint:OnDelete:RESTRICT" json:"asset_model,omitempty"`
	Location      *OrganisationUnit   `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"location,omitempty"`
	Assignments   []Assignment        `gorm:"foreignKey:AssetID" json:"assignments"`
	Relationships []AssetRelationship `gorm:"foreignKey:ParentAssetID" json:"relationships"`
	Events        []AssetEvent        `gorm:"foreignKey:AssetID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Asset) TableName() string { return "assets" }

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// OpenAssignments returns the assignments with no end date, i.e. current
// custody records.
func (a *Asset) OpenAssignments() []*Assignment {
	var open []*Assignment
	for i := range a.Assignments {
		if a.Assignments[i].EndDate == nil {
			open = append(open, &a.Assignments[i])
		}
	}
	return open
}

// SortKey orders assets the way listings display them: tag, then serial.
func (a *Asset) SortKey() string {
	tag := ""
	if a.AssetTag != nil {
		tag = *a.AssetTag
	}
	serial := ""
	if a.SerialNumber != nil {
		serial = *a.SerialNumber
	}
	return tag + "\x00" + serial
}
