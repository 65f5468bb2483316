package org

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

type PersonListFilter struct {
	DepartmentID uuid.UUID
	Search       string
	Page         int
	Size         int
}

type PersonRepo interface {
	Create(dbc dbctx.Context, row *types.Person) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Person, error)
	GetByUsername(dbc dbctx.Context, username string) (*types.Person, error)
	List(dbc dbctx.Context, filter PersonListFilter) ([]*types.Person, int64, error)
	Update(dbc dbctx.Context, row *types.Person) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type personRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonRepo(db *gorm.DB, baseLog *logger.Logger) PersonRepo {
	return &personRepo{db: db, log: baseLog.With("repo", "PersonRepo")}
}

func (r *personRepo) conn(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *personRepo) Create(dbc dbctx.Context, row *types.Person) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Create(row).Error
}

func (r *personRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Person, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Person
	err := r.conn(dbc).Preload("Department").Where("id = ?", id).First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *personRepo) GetByUsername(dbc dbctx.Context, username string) (*types.Person, error) {
	var out types.Person
	err := r.conn(dbc).Where("username = ?", username).First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *personRepo) List(dbc dbctx.Context, filter PersonListFilter) ([]*types.Person, int64, error) {
	q := r.conn(dbc).Model(&types.Person{})
	if filter.DepartmentID != uuid.Nil {
		q = q.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(full_name) LIKE ? OR LOWER(username) LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.Size
	if size < 1 {
		size = 25
	}

	var out []*types.Person
	if err := q.
		Preload("Department").
		Order("full_name ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *personRepo) Update(dbc dbctx.Context, row *types.Person) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Omit("Department").Save(row).Error
}

func (r *personRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.conn(dbc).Where("id = ?", id).Delete(&types.Person{}).Error
}
