package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assignment links an asset to a person for a period of custody. A nil
// EndDate means the assignment is open. Assignments are closed, never
// deleted.
type Assignment struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"asset_id"`
	PersonID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"person_id"`
	StartDate          time.Time  `gorm:"not null" json:"start_date"`
	EndDate            *time.Time `gorm:"check:chk_assignment_dates,(end_date IS NULL) OR (end_date >= start_date)" json:"end_date"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
	PrimaryDevice      bool       `gorm:"not null;default:true" json:"primary_device"`
	Notes              string     `json:"notes"`

	Person *Person `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"person,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Assignment) TableName() string { return "assignments" }

func (s *Assignment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
