package inventory

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

// EventRepo is append-only. There is deliberately no update or delete.
type EventRepo interface {
	Create(dbc dbctx.Context, row *types.AssetEvent) error

	// ListByAssetID returns the asset's trail newest first.
	ListByAssetID(dbc dbctx.Context, assetID uuid.UUID, limit int) ([]*types.AssetEvent, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "EventRepo")}
}

func (r *eventRepo) conn(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *eventRepo) Create(dbc dbctx.Context, row *types.AssetEvent) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Create(row).Error
}

func (r *eventRepo) ListByAssetID(dbc dbctx.Context, assetID uuid.UUID, limit int) ([]*types.AssetEvent, error) {
	var out []*types.AssetEvent
	if assetID == uuid.Nil {
		return out, nil
	}
	q := r.conn(dbc).
		Where("asset_id = ?", assetID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
