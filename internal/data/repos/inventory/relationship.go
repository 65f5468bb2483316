package inventory

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

type RelationshipRepo interface {
	Create(dbc dbctx.Context, row *types.AssetRelationship) error
	Delete(dbc dbctx.Context, id uuid.UUID) error

	// GetByParentID returns the outgoing edges of the parent, each with its
	// child asset loaded.
	GetByParentID(dbc dbctx.Context, parentID uuid.UUID) ([]*types.AssetRelationship, error)

	// Exists reports whether the exact (parent, child, type) edge is present.
	Exists(dbc dbctx.Context, parentID, childID uuid.UUID, relationType types.RelationType) (bool, error)
}

type relationshipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRelationshipRepo(db *gorm.DB, baseLog *logger.Logger) RelationshipRepo {
	return &relationshipRepo{db: db, log: baseLog.With("repo", "RelationshipRepo")}
}

func (r *relationshipRepo) conn(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *relationshipRepo) Create(dbc dbctx.Context, row *types.AssetRelationship) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Omit("Child").Create(row).Error
}

func (r *relationshipRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.conn(dbc).Where("id = ?", id).Delete(&types.AssetRelationship{}).Error
}

func (r *relationshipRepo) GetByParentID(dbc dbctx.Context, parentID uuid.UUID) ([]*types.AssetRelationship, error) {
	var out []*types.AssetRelationship
	if parentID == uuid.Nil {
		return out, nil
	}
	if err := r.conn(dbc).
		Preload("Child").
		Where("parent_asset_id = ?", parentID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *relationshipRepo) Exists(dbc dbctx.Context, parentID, childID uuid.UUID, relationType types.RelationType) (bool, error) {
	var n int64
	if err := r.conn(dbc).Model(&types.AssetRelationship{}).
		Where("parent_asset_id = ? AND child_asset_id = ? AND relation_type = ?", parentID, childID, relationType).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
