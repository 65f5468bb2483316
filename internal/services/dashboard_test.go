package services

import (
	"testing"
	"time"

	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

func TestDashboardSummaryCountsWithoutCache(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	office := f.seedUnit(t, "Engineering", types.OrgCategoryDepartment)
	person := f.seedPerson(t, "P1")

	deployed := f.seedAsset(t, types.StatusSpare, nil)
	if _, err := f.assets.Transition(ctx, deployed.ID, TransitionRequest{
		Action:           ActionDeploy,
		PersonID:         &person.ID,
		TargetLocationID: &office.ID,
	}); err != nil {
		t.Fatalf("deploy: %v", err)
	}
	f.seedAsset(t, types.StatusSpare, nil)
	f.seedAsset(t, types.StatusRepair, nil)
	f.seedAsset(t, types.StatusRetired, nil)

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	dashboard := NewDashboardService(f.repos, nil, 30*time.Second, log)

	summary, err := dashboard.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalAssets != 4 {
		t.Fatalf("total: want=4 got=%d", summary.TotalAssets)
	}
	if summary.ActiveAssets != 1 || summary.SpareAssets != 1 || summary.RepairAssets != 1 || summary.RetiredAssets != 1 {
		t.Fatalf("status counts: active=%d spare=%d repair=%d retired=%d",
			summary.ActiveAssets, summary.SpareAssets, summary.RepairAssets, summary.RetiredAssets)
	}
	if summary.AssetsByType["Computer"] != 4 {
		t.Fatalf("by type: want Computer=4 got=%v", summary.AssetsByType)
	}
	if summary.AssetsByDepartment["Engineering"] != 1 {
		t.Fatalf("by department: want Engineering=1 got=%v", summary.AssetsByDepartment)
	}

	// Invalidate is a no-op without a cache client.
	dashboard.Invalidate(ctx)
}
