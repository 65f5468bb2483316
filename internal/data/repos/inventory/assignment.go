package inventory

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

type AssignmentRepo interface {
	Create(dbc dbctx.Context, row *types.Assignment) error
	Update(dbc dbctx.Context, row *types.Assignment) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assignment, error)

	// GetOpenByAssetID returns the assignments of the asset with no end date.
	GetOpenByAssetID(dbc dbctx.Context, assetID uuid.UUID) ([]*types.Assignment, error)

	// GetByPersonID returns the person's full assignment history, newest
	// first, with each asset loaded.
	GetByPersonID(dbc dbctx.Context, personID uuid.UUID) ([]*types.Assignment, error)

	CountOpen(dbc dbctx.Context) (int64, error)
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	return &assignmentRepo{db: db, log: baseLog.With("repo", "AssignmentRepo")}
}

func (r *assignmentRepo) conn(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *assignmentRepo) Create(dbc dbctx.Context, row *types.Assignment) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Create(row).Error
}

func (r *assignmentRepo) Update(dbc dbctx.Context, row *types.Assignment) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Omit("Asset", "Person").Save(row).Error
}

func (r *assignmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assignment, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Assignment
	err := r.conn(dbc).Where("id = ?", id).First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *assignmentRepo) GetOpenByAssetID(dbc dbctx.Context, assetID uuid.UUID) ([]*types.Assignment, error) {
	var out []*types.Assignment
	if assetID == uuid.Nil {
		return out, nil
	}
	if err := r.conn(dbc).
		Where("asset_id = ? AND end_date IS NULL", assetID).
		Order("start_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentRepo) GetByPersonID(dbc dbctx.Context, personID uuid.UUID) ([]*types.Assignment, error) {
	var out []*types.Assignment
	if personID == uuid.Nil {
		return out, nil
	}
	if err := r.conn(dbc).
		Preload("Asset").
		Preload("Asset.AssetModel").
		Preload("Asset.AssetModel.AssetType").
		Where("person_id = ?", personID).
		Order("start_date DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentRepo) CountOpen(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.conn(dbc).Model(&types.Assignment{}).
		Where("end_date IS NULL").
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
