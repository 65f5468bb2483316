package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssetEvent is one append-only audit record. Events are never updated or
// deleted; within one transition call insertion order matches CreatedAt
// order, which is what event listings sort by.
type AssetEvent struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"asset_id"`
	Action       EventAction  `gorm:"type:varchar(32);not null;index:ix_asset_events_action" json:"action"`
	Actor        *string      `json:"actor"`
	FromStatus   *AssetStatus `gorm:"type:varchar(16)" json:"from_status"`
	ToStatus     *AssetStatus `gorm:"type:varchar(16)" json:"to_status"`
	FromLocation *uuid.UUID   `gorm:"type:uuid" json:"from_location"`
	ToLocation   *uuid.UUID   `gorm:"type:uuid" json:"to_location"`
	Notes        string       `json:"notes"`
	CreatedAt    time.Time    `gorm:"not null;index" json:"created_at"`
}

func (AssetEvent) TableName() string { return "asset_events" }

func (e *AssetEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
