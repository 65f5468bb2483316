package inventory

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

// AssetListFilter narrows List. Zero values mean "no filter". PersonID
// matches assets with an open assignment to that person.
type AssetListFilter struct {
	Status      types.AssetStatus
	AssetTypeID uuid.UUID
	LocationID  uuid.UUID
	PersonID    uuid.UUID
	Search      string
	Page        int
	Size        int
}

type AssetRepo interface {
	Create(dbc dbctx.Context, row *types.Asset) error

	// GetByID loads one asset with its model, location, assignments (newest
	// first, with person) and outgoing relationships (with child).
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Asset, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Asset, error)

	// GetBare loads the row alone, without relations.
	GetBare(dbc dbctx.Context, id uuid.UUID) (*types.Asset, error)
	GetBareByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Asset, error)

	GetByTag(dbc dbctx.Context, tag string) (*types.Asset, error)
	GetBySerial(dbc dbctx.Context, serial string) (*types.Asset, error)

	// GetAssignedToPerson returns the assets under an open assignment to the
	// person, ordered by tag then serial, fully loaded.
	GetAssignedToPerson(dbc dbctx.Context, personID uuid.UUID) ([]*types.Asset, error)

	List(dbc dbctx.Context, filter AssetListFilter) ([]*types.Asset, int64, error)

	Update(dbc dbctx.Context, row *types.Asset) error
	Delete(dbc dbctx.Context, id uuid.UUID) error

	CountByStatus(dbc dbctx.Context) (map[types.AssetStatus]int64, error)
	CountByTypeName(dbc dbctx.Context) (map[string]int64, error)
	CountByDepartment(dbc dbctx.Context) (map[string]int64, error)
}

type assetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssetRepo(db *gorm.DB, baseLog *logger.Logger) AssetRepo {
	return &assetRepo{db: db, log: baseLog.With("repo", "AssetRepo")}
}

func (r *assetRepo) conn(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func withRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("AssetModel").
		Preload("AssetModel.AssetType").
		Preload("Location").
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_date DESC")
		}).
		Preload("Assignments.Person").
		Preload("Relationships").
		Preload("Relationships.Child")
}

func (r *assetRepo) Create(dbc dbctx.Context, row *types.Asset) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Create(row).Error
}

func (r *assetRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Asset, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Asset
	err := withRelations(r.conn(dbc)).Where("id = ?", id).First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *assetRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Asset, error) {
	var out []*types.Asset
	if len(ids) == 0 {
		return out, nil
	}
	if err := withRelations(r.conn(dbc)).
		Where("id IN ?", ids).
		Order("asset_tag ASC, serial_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assetRepo) GetBare(dbc dbctx.Context, id uuid.UUID) (*types.Asset, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetBareByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *assetRepo) GetBareByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Asset, error) {
	var out []*types.Asset
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.conn(dbc).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assetRepo) GetByTag(dbc dbctx.Context, tag string) (*types.Asset, error) {
	var out types.Asset
	err := r.conn(dbc).Where("asset_tag = ?", tag).First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *assetRepo) GetBySerial(dbc dbctx.Context, serial string) (*types.Asset, error) {
	var out types.Asset
	err := r.conn(dbc).Where("serial_number = ?", serial).First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *assetRepo) GetAssignedToPerson(dbc dbctx.Context, personID uuid.UUID) ([]*types.Asset, error) {
	var out []*types.Asset
	if personID == uuid.Nil {
		return out, nil
	}
	if err := withRelations(r.conn(dbc)).
		Joins("JOIN assignments ON assignments.asset_id = assets.id").
		Where("assignments.person_id = ? AND assignments.end_date IS NULL", personID).
		Order("assets.asset_tag ASC, assets.serial_number ASC").
		Distinct("assets.*").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assetRepo) List(dbc dbctx.Context, filter AssetListFilter) ([]*types.Asset, int64, error) {
	q := r.conn(dbc).Model(&types.Asset{})

	if filter.Status != "" {
		q = q.Where("assets.status = ?", filter.Status)
	}
	if filter.AssetTypeID != uuid.Nil {
		q = q.Joins("JOIN asset_models ON asset_models.id = assets.asset_model_id").
			Where("asset_models.asset_type_id = ?", filter.AssetTypeID)
	}
	if filter.LocationID != uuid.Nil {
		q = q.Where("assets.location_id = ?", filter.LocationID)
	}
	if filter.PersonID != uuid.Nil {
		q = q.Joins("JOIN assignments ON assignments.asset_id = assets.id").
			Where("assignments.person_id = ? AND assignments.end_date IS NULL", filter.PersonID)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(assets.asset_tag) LIKE ? OR LOWER(assets.serial_number) LIKE ? OR LOWER(assets.description) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Distinct("assets.id").Count(&total).Error; err != nil {
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

	var out []*types.Asset
	if err := withRelations(q).
		Distinct("assets.*").
		Order("assets.asset_tag ASC, assets.serial_number ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *assetRepo) Update(dbc dbctx.Context, row *types.Asset) error {
	if row == nil {
		return nil
	}
	// Save without touching associations; related rows are written through
	// their own repos.
	return r.conn(dbc).Omit("Assignments", "Relationships", "Events", "AssetModel", "Location").Save(row).Error
}

func (r *assetRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.conn(dbc).Where("id = ?", id).Delete(&types.Asset{}).Error
}

func (r *assetRepo) CountByStatus(dbc dbctx.Context) (map[types.AssetStatus]int64, error) {
	var rows []struct {
		Status types.AssetStatus
		N      int64
	}
	if err := r.conn(dbc).Model(&types.Asset{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[types.AssetStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *assetRepo) CountByTypeName(dbc dbctx.Context) (map[string]int64, error) {
	var rows []struct {
		Name string
		N    int64
	}
	if err := r.conn(dbc).Model(&types.Asset{}).
		Select("asset_types.name AS name, COUNT(assets.id) AS n").
		Joins("JOIN asset_models ON asset_models.id = assets.asset_model_id").
		Joins("JOIN asset_types ON asset_types.id = asset_models.asset_type_id").
		Group("asset_types.name").
		Order("asset_types.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Name] = row.N
	}
	return out, nil
}

func (r *assetRepo) CountByDepartment(dbc dbctx.Context) (map[string]int64, error) {
	var rows []struct {
		Name string
		N    int64
	}
	if err := r.conn(dbc).Model(&types.Asset{}).
		Select("organisation_units.name AS name, COUNT(assets.id) AS n").
		Joins("JOIN organisation_units ON organisation_units.id = assets.location_id").
		Where("organisation_units.category = ?", types.OrgCategoryDepartment).
		Group("organisation_units.name").
		Order("organisation_units.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Name] = row.N
	}
	return out, nil
}
