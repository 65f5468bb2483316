package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

type AssetTypeRepo interface {
	Create(dbc dbctx.Context, row *types.AssetType) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AssetType, error)
	GetByName(dbc dbctx.Context, name string) (*types.AssetType, error)
	List(dbc dbctx.Context) ([]*types.AssetType, error)
	Update(dbc dbctx.Context, row *types.AssetType) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type assetTypeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssetTypeRepo(db *gorm.DB, baseLog *logger.Logger) AssetTypeRepo {
	return &assetTypeRepo{db: db, log: baseLog.With("repo", "AssetTypeRepo")}
}

func (r *assetTypeRepo) conn(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *assetTypeRepo) Create(dbc dbctx.Context, row *types.AssetType) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Create(row).Error
}

func (r *assetTypeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AssetType, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.AssetType
	err := r.conn(dbc).Where("id = ?", id).First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *assetTypeRepo) GetByName(dbc dbctx.Context, name string) (*types.AssetType, error) {
	var out types.AssetType
	err := r.conn(dbc).Where("name = ?", name).First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *assetTypeRepo) List(dbc dbctx.Context) ([]*types.AssetType, error) {
	var out []*types.AssetType
	if err := r.conn(dbc).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assetTypeRepo) Update(dbc dbctx.Context, row *types.AssetType) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Save(row).Error
}

func (r *assetTypeRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.conn(dbc).Where("id = ?", id).Delete(&types.AssetType{}).Error
}
