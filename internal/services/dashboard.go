package services

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/apierr"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

const dashboardCacheKey = "dashboard:summary"

type DashboardSummary struct {
	TotalAssets        int64            `json:"total_assets"`
	ActiveAssets       int64            `json:"active_assets"`
	SpareAssets        int64            `json:"spare_assets"`
	RepairAssets       int64            `json:"repair_assets"`
	RetiredAssets      int64            `json:"retired_assets"`
	AssetsByType       map[string]int64 `json:"assets_by_type"`
	AssetsByDepartment map[string]int64 `json:"assets_by_department"`
}

// DashboardService aggregates inventory counts. Summaries are served from
// Redis when a client is configured; concurrent cache misses collapse into a
// single recomputation.
type DashboardService struct {
	repos    *repos.Repos
	redis    *goredis.Client
	cacheTTL time.Duration
	group    singleflight.Group
	log      *logger.Logger
}

func NewDashboardService(r *repos.Repos, redisClient *goredis.Client, cacheTTL time.Duration, baseLog *logger.Logger) *DashboardService {
	return &DashboardService{
		repos:    r,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		log:      baseLog.With("service", "DashboardService"),
	}
}

func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, dashboardCacheKey).Bytes()
		if err == nil {
			var summary DashboardSummary
			if jsonErr := json.Unmarshal(cached, &summary); jsonErr == nil {
				return &summary, nil
			}
		} else if err != goredis.Nil {
			s.log.Warn("dashboard cache read failed", "error", err)
		}
	}

	result, err, _ := s.group.Do(dashboardCacheKey, func() (interface{}, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return nil, err
	}
	summary := result.(*DashboardSummary)

	if s.redis != nil {
		payload, err := json.Marshal(summary)
		if err == nil {
			if err := s.redis.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.log.Warn("dashboard cache write failed", "error", err)
			}
		}
	}
	return summary, nil
}

// Invalidate drops the cached summary. Called after bulk imports.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, dashboardCacheKey).Err(); err != nil {
		s.log.Warn("dashboard cache invalidation failed", "error", err)
	}
}

func (s *DashboardService) compute(ctx context.Context) (*DashboardSummary, error) {
	dbc := dbctx.New(ctx, nil)

	byStatus, err := s.repos.Asset.CountByStatus(dbc)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	byType, err := s.repos.Asset.CountByTypeName(dbc)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	byDepartment, err := s.repos.Asset.CountByDepartment(dbc)
	if err != nil {
		return nil, apierr.Internal(err)
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}

	return &DashboardSummary{
		TotalAssets:        total,
		ActiveAssets:       byStatus[types.StatusActive],
		SpareAssets:        byStatus[types.StatusSpare],
		RepairAssets:       byStatus[types.StatusRepair],
		RetiredAssets:      byStatus[types.StatusRetired],
		AssetsByType:       byType,
		AssetsByDepartment: byDepartment,
	}, nil
}
