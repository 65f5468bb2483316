package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganisationUnit struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string               `gorm:"not null;index" json:"name"`
	Category    OrganisationCategory `gorm:"type:varchar(16);not null" json:"category"`
	Description *string              `json:"description"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (OrganisationUnit) TableName() string { return "organisation_units" }

func (u *OrganisationUnit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
