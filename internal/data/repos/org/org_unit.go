package org

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

type OrgUnitRepo interface {
	Create(dbc dbctx.Context, row *types.OrganisationUnit) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.OrganisationUnit, error)
	GetByName(dbc dbctx.Context, name string) (*types.OrganisationUnit, error)
	List(dbc dbctx.Context, category types.OrganisationCategory) ([]*types.OrganisationUnit, error)
	Update(dbc dbctx.Context, row *types.OrganisationUnit) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type orgUnitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrgUnitRepo(db *gorm.DB, baseLog *logger.Logger) OrgUnitRepo {
	return &orgUnitRepo{db: db, log: baseLog.With("repo", "OrgUnitRepo")}
}

func (r *orgUnitRepo) conn(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *orgUnitRepo) Create(dbc dbctx.Context, row *types.OrganisationUnit) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Create(row).Error
}

func (r *orgUnitRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.OrganisationUnit, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.OrganisationUnit
	err := r.conn(dbc).Where("id = ?", id).First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *orgUnitRepo) GetByName(dbc dbctx.Context, name string) (*types.OrganisationUnit, error) {
	var out types.OrganisationUnit
	err := r.conn(dbc).Where("name = ?", name).First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *orgUnitRepo) List(dbc dbctx.Context, category types.OrganisationCategory) ([]*types.OrganisationUnit, error) {
	q := r.conn(dbc).Model(&types.OrganisationUnit{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var out []*types.OrganisationUnit
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orgUnitRepo) Update(dbc dbctx.Context, row *types.OrganisationUnit) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Save(row).Error
}

func (r *orgUnitRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.conn(dbc).Where("id = ?", id).Delete(&types.OrganisationUnit{}).Error
}
