package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssetRelationship is a directed edge from a primary asset to a dependent
// one (a monitor attached to a computer). Unique per (parent, child, type);
// attach operations are idempotent against that constraint.
type AssetRelationship struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ParentAssetID uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:uq_relationship_unique;check:chk_self_relationship,parent_asset_id <> child_asset_id" json:"parent_asset_id"`
	ChildAssetID  uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:uq_relationship_unique" json:"child_asset_id"`
	RelationType  RelationType `gorm:"type:varchar(16);not null;uniqueIndex:uq_relationship_unique" json:"relation_type"`

	Child *Asset `gorm:"foreignKey:ChildAssetID;constraint:OnDelete:CASCADE" json:"child,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (AssetRelationship) TableName() string { return "asset_relationships" }

func (r *AssetRelationship) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
