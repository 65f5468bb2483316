package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/apierr"
)

func TestOffboardAppliesDefaultAndOverrideDispositions(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	office := f.seedUnit(t, "Office", types.OrgCategoryDepartment)
	warehouse := f.seedUnit(t, "Warehouse", types.OrgCategoryWarehouse)
	person := f.seedPerson(t, "Leaver")

	a1 := f.seedAsset(t, types.StatusSpare, nil)
	a2 := f.seedAsset(t, types.StatusSpare, nil)
	a3 := f.seedAsset(t, types.StatusSpare, nil)
	for _, asset := range []*types.Asset{a1, a2, a3} {
		if _, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
			Action:           ActionDeploy,
			PersonID:         &person.ID,
			TargetLocationID: &office.ID,
		}); err != nil {
			t.Fatalf("deploy %s: %v", asset.ID, err)
		}
	}

	retired := DispositionRetired
	processed, err := f.offboarding.Offboard(ctx, person.ID, OffboardRequest{
		Disposition:      DispositionSpare,
		TargetLocationID: &warehouse.ID,
		Notes:            "Employee left",
		Overrides: []OffboardOverride{
			{AssetID: a2.ID, Disposition: &retired, Notes: "Water damage"},
		},
	})
	if err != nil {
		t.Fatalf("offboard: %v", err)
	}
	if len(processed) != 3 {
		t.Fatalf("processed: want=3 got=%d", len(processed))
	}

	byID := make(map[uuid.UUID]*types.Asset, len(processed))
	for _, asset := range processed {
		byID[asset.ID] = asset
	}
	for _, id := range []uuid.UUID{a1.ID, a3.ID} {
		asset := byID[id]
		if asset == nil {
			t.Fatalf("asset %s missing from processed set", id)
		}
		if asset.Status != types.StatusSpare {
			t.Fatalf("asset %s status: want=spare got=%q", id, asset.Status)
		}
		if asset.LocationID == nil || *asset.LocationID != warehouse.ID {
			t.Fatalf("asset %s location: want=%s got=%v", id, warehouse.ID, asset.LocationID)
		}
	}
	overridden := byID[a2.ID]
	if overridden == nil {
		t.Fatalf("overridden asset missing from processed set")
	}
	if overridden.Status != types.StatusRetired {
		t.Fatalf("overridden status: want=retired got=%q", overridden.Status)
	}
	if overridden.OperationState != types.OperationDecommissioned {
		t.Fatalf("overridden operation state: want=decommissioned got=%q", overridden.OperationState)
	}
	if !strings.Contains(overridden.Notes, "Employee left") || !strings.Contains(overridden.Notes, "Water damage") {
		t.Fatalf("overridden notes: got=%q", overridden.Notes)
	}

	for _, asset := range processed {
		if open := asset.OpenAssignments(); len(open) != 0 {
			t.Fatalf("asset %s still has %d open assignments", asset.ID, len(open))
		}
	}
}

func TestOffboardRejectsOverrideForUnassignedAsset(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	office := f.seedUnit(t, "Office", types.OrgCategoryDepartment)
	warehouse := f.seedUnit(t, "Warehouse", types.OrgCategoryWarehouse)
	person := f.seedPerson(t, "Leaver")
	asset := f.seedAsset(t, types.StatusSpare, nil)
	stranger := f.seedAsset(t, types.StatusSpare, nil)

	if _, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action:           ActionDeploy,
		PersonID:         &person.ID,
		TargetLocationID: &office.ID,
	}); err != nil {
		t.Fatalf("deploy: %v", err)
	}

	_, err := f.offboarding.Offboard(ctx, person.ID, OffboardRequest{
		Disposition:      DispositionSpare,
		TargetLocationID: &warehouse.ID,
		Overrides:        []OffboardOverride{{AssetID: stranger.ID}},
	})
	if err == nil {
		t.Fatalf("offboard with unassigned override: expected error")
	}
	if !apierr.IsValidation(err) {
		t.Fatalf("error kind: got=%v", err)
	}
	if !strings.Contains(err.Error(), stranger.ID.String()) {
		t.Fatalf("error must name the unassigned asset: %v", err)
	}

	// Nothing moved because the batch aborted before any transition ran.
	reloaded := f.reload(t, asset.ID)
	if reloaded.Status != types.StatusActive {
		t.Fatalf("assigned asset status: want=active got=%q", reloaded.Status)
	}
	if len(reloaded.OpenAssignments()) != 1 {
		t.Fatalf("assigned asset open assignments: want=1 got=%d", len(reloaded.OpenAssignments()))
	}
}

func TestOffboardUnknownPerson(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.offboarding.Offboard(t.Context(), uuid.New(), OffboardRequest{Disposition: DispositionSpare})
	if err == nil {
		t.Fatalf("offboard unknown person: expected error")
	}
	if !apierr.IsNotFound(err) {
		t.Fatalf("error kind: got=%v", err)
	}
}

func TestOffboardWithNoAssignedAssets(t *testing.T) {
	f := newEngineFixture(t)
	person := f.seedPerson(t, "Empty")

	processed, err := f.offboarding.Offboard(t.Context(), person.ID, OffboardRequest{Disposition: DispositionSpare})
	if err != nil {
		t.Fatalf("offboard: %v", err)
	}
	if len(processed) != 0 {
		t.Fatalf("processed: want=0 got=%d", len(processed))
	}
}

func TestOffboardOverrideTargetFallsBackToRequestDefault(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	office := f.seedUnit(t, "Office", types.OrgCategoryDepartment)
	warehouse := f.seedUnit(t, "Warehouse", types.OrgCategoryWarehouse)
	person := f.seedPerson(t, "Leaver")
	asset := f.seedAsset(t, types.StatusSpare, nil)

	if _, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action:           ActionDeploy,
		PersonID:         &person.ID,
		TargetLocationID: &office.ID,
	}); err != nil {
		t.Fatalf("deploy: %v", err)
	}

	spare := DispositionSpare
	processed, err := f.offboarding.Offboard(ctx, person.ID, OffboardRequest{
		Disposition:      DispositionSpare,
		TargetLocationID: &warehouse.ID,
		Overrides:        []OffboardOverride{{AssetID: asset.ID, Disposition: &spare}},
	})
	if err != nil {
		t.Fatalf("offboard: %v", err)
	}
	if len(processed) != 1 {
		t.Fatalf("processed: want=1 got=%d", len(processed))
	}
	if processed[0].LocationID == nil || *processed[0].LocationID != warehouse.ID {
		t.Fatalf("location: want=%s got=%v", warehouse.ID, processed[0].LocationID)
	}
}
