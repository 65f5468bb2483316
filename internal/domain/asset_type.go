package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssetType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Category    string    `gorm:"not null;index" json:"category"`
	Description *string   `json:"description"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (AssetType) TableName() string { return "asset_types" }

func (t *AssetType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
