package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssetModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Manufacturer       *string   `gorm:"uniqueIndex:uq_model_unique" json:"manufacturer"`
	ModelNumber        string    `gorm:"uniqueIndex:uq_model_unique;not null;index" json:"model_number"`
	AssetTypeID        uuid.UUID `gorm:"type:uuid;not null;index" json:"asset_type_id"`
	DefaultDescription *string   `json:"default_description"`

	AssetType *AssetType `gorm:"foreignKey:AssetTypeID;constraint:OnDelete:CASCADE" json:"asset_type,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (AssetModel) TableName() string { return "asset_models" }

func (m *AssetModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
