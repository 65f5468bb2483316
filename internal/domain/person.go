package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Person is someone assets can be assigned to. ReportsToID is a back
// reference into the same table and is deliberately a bare identifier, not an
// owned nested object.
type Person struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string     `gorm:"not null;index" json:"full_name"`
	Username     *string    `gorm:"uniqueIndex" json:"username"`
	Email        *string    `gorm:"uniqueIndex" json:"email"`
	Company      *string    `json:"company"`
	DepartmentID *uuid.UUID `gorm:"type:uuid" json:"department_id"`
	ReportsToID  *uuid.UUID `gorm:"type:uuid" json:"reports_to_id"`

	Department *OrganisationUnit `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL" json:"department,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Person) TableName() string { return "people" }

func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
