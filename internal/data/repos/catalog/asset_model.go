package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

type AssetModelRepo interface {
	Create(dbc dbctx.Context, row *types.AssetModel) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AssetModel, error)

	// GetByModelNumber matches on model number alone; the importer treats the
	// model number as the identifying column within a sheet.
	GetByModelNumber(dbc dbctx.Context, modelNumber string) (*types.AssetModel, error)

	List(dbc dbctx.Context, assetTypeID uuid.UUID) ([]*types.AssetModel, error)
	Update(dbc dbctx.Context, row *types.AssetModel) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type assetModelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssetModelRepo(db *gorm.DB, baseLog *logger.Logger) AssetModelRepo {
	return &assetModelRepo{db: db, log: baseLog.With("repo", "AssetModelRepo")}
}

func (r *assetModelRepo) conn(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *assetModelRepo) Create(dbc dbctx.Context, row *types.AssetModel) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Omit("AssetType").Create(row).Error
}

func (r *assetModelRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AssetModel, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.AssetModel
	err := r.conn(dbc).Preload("AssetType").Where("id = ?", id).First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *assetModelRepo) GetByModelNumber(dbc dbctx.Context, modelNumber string) (*types.AssetModel, error) {
	var out types.AssetModel
	err := r.conn(dbc).Where("model_number = ?", modelNumber).First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *assetModelRepo) List(dbc dbctx.Context, assetTypeID uuid.UUID) ([]*types.AssetModel, error) {
	q := r.conn(dbc).Model(&types.AssetModel{})
	if assetTypeID != uuid.Nil {
		q = q.Where("asset_type_id = ?", assetTypeID)
	}
	var out []*types.AssetModel
	if err := q.
		Preload("AssetType").
		Order("manufacturer ASC, model_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assetModelRepo) Update(dbc dbctx.Context, row *types.AssetModel) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Omit("AssetType").Save(row).Error
}

func (r *assetModelRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.conn(dbc).Where("id = ?", id).Delete(&types.AssetModel{}).Error
}
