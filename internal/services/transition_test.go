package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/apierr"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
)

func TestDeployFreshSpareAsset(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	l1 := f.seedUnit(t, "L1", types.OrgCategoryDepartment)
	p1 := f.seedPerson(t, "P1")
	asset := f.seedAsset(t, types.StatusSpare, nil)

	updated, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action:           ActionDeploy,
		PersonID:         &p1.ID,
		TargetLocationID: &l1.ID,
	})
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}

	if updated.Status != types.StatusActive {
		t.Fatalf("status: want=%q got=%q", types.StatusActive, updated.Status)
	}
	if updated.LocationID == nil || *updated.LocationID != l1.ID {
		t.Fatalf("location: want=%s got=%v", l1.ID, updated.LocationID)
	}
	open := updated.OpenAssignments()
	if len(open) != 1 {
		t.Fatalf("open assignments: want=1 got=%d", len(open))
	}
	if open[0].PersonID != p1.ID {
		t.Fatalf("assignment person: want=%s got=%s", p1.ID, open[0].PersonID)
	}

	events := f.eventsAsc(t, asset.ID)
	if !sameActions(actionsOf(events), types.EventAssignmentStarted, types.EventStatusChanged, types.EventLocationChanged) {
		t.Fatalf("event order: got=%v", actionsOf(events))
	}
	statusEvent := events[1]
	if statusEvent.FromStatus == nil || *statusEvent.FromStatus != types.StatusSpare {
		t.Fatalf("status event from: want=spare got=%v", statusEvent.FromStatus)
	}
	if statusEvent.ToStatus == nil || *statusEvent.ToStatus != types.StatusActive {
		t.Fatalf("status event to: want=active got=%v", statusEvent.ToStatus)
	}
	locationEvent := events[2]
	if locationEvent.FromLocation != nil {
		t.Fatalf("location event from: want=nil got=%v", locationEvent.FromLocation)
	}
	if locationEvent.ToLocation == nil || *locationEvent.ToLocation != l1.ID {
		t.Fatalf("location event to: want=%s got=%v", l1.ID, locationEvent.ToLocation)
	}
}

func TestDeployReassignmentClosesPriorAssignment(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	l1 := f.seedUnit(t, "L1", types.OrgCategoryDepartment)
	p1 := f.seedPerson(t, "P1")
	p2 := f.seedPerson(t, "P2")
	asset := f.seedAsset(t, types.StatusSpare, nil)

	if _, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action:           ActionDeploy,
		PersonID:         &p1.ID,
		TargetLocationID: &l1.ID,
	}); err != nil {
		t.Fatalf("first deploy: %v", err)
	}
	firstEventCount := len(f.eventsAsc(t, asset.ID))

	updated, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action:   ActionDeploy,
		PersonID: &p2.ID,
	})
	if err != nil {
		t.Fatalf("second deploy: %v", err)
	}

	open := updated.OpenAssignments()
	if len(open) != 1 {
		t.Fatalf("open assignments: want=1 got=%d", len(open))
	}
	if open[0].PersonID != p2.ID {
		t.Fatalf("open assignment person: want=%s got=%s", p2.ID, open[0].PersonID)
	}
	for _, assignment := range updated.Assignments {
		if assignment.PersonID != p1.ID {
			continue
		}
		if assignment.EndDate == nil {
			t.Fatalf("prior assignment still open")
		}
		if assignment.EndDate.Before(assignment.StartDate) {
			t.Fatalf("prior assignment end %v before start %v", assignment.EndDate, assignment.StartDate)
		}
		if !strings.Contains(assignment.Notes, "Auto-closed before new deployment.") {
			t.Fatalf("prior assignment notes: got=%q", assignment.Notes)
		}
	}

	events := f.eventsAsc(t, asset.ID)[firstEventCount:]
	if !sameActions(actionsOf(events), types.EventAssignmentEnded, types.EventAssignmentStarted, types.EventStatusChanged) {
		t.Fatalf("event order: got=%v", actionsOf(events))
	}
	// Status did not change but the event is still emitted, active to active.
	statusEvent := events[2]
	if statusEvent.FromStatus == nil || *statusEvent.FromStatus != types.StatusActive {
		t.Fatalf("status event from: want=active got=%v", statusEvent.FromStatus)
	}
	if statusEvent.ToStatus == nil || *statusEvent.ToStatus != types.StatusActive {
		t.Fatalf("status event to: want=active got=%v", statusEvent.ToStatus)
	}
}

func TestReturnSparesPeripheralsAndDetaches(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	l1 := f.seedUnit(t, "L1", types.OrgCategoryDepartment)
	l2 := f.seedUnit(t, "L2", types.OrgCategoryWarehouse)
	p1 := f.seedPerson(t, "P1")
	asset := f.seedAsset(t, types.StatusSpare, nil)
	m1 := f.seedAsset(t, types.StatusSpare, nil)
	m2 := f.seedAsset(t, types.StatusSpare, nil)

	if _, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action:           ActionDeploy,
		PersonID:         &p1.ID,
		TargetLocationID: &l1.ID,
		Peripherals:      []uuid.UUID{m1.ID, m2.ID},
	}); err != nil {
		t.Fatalf("deploy: %v", err)
	}

	updated, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action:           ActionReturn,
		TargetLocationID: &l2.ID,
	})
	if err != nil {
		t.Fatalf("return: %v", err)
	}

	if updated.Status != types.StatusSpare {
		t.Fatalf("status: want=%q got=%q", types.StatusSpare, updated.Status)
	}
	if updated.LocationID == nil || *updated.LocationID != l2.ID {
		t.Fatalf("location: want=%s got=%v", l2.ID, updated.LocationID)
	}
	if len(updated.OpenAssignments()) != 0 {
		t.Fatalf("open assignments: want=0 got=%d", len(updated.OpenAssignments()))
	}
	if len(updated.Relationships) != 0 {
		t.Fatalf("relationships: want=0 got=%d", len(updated.Relationships))
	}

	for _, childID := range []uuid.UUID{m1.ID, m2.ID} {
		child := f.reload(t, childID)
		if child.Status != types.StatusSpare {
			t.Fatalf("child %s status: want=spare got=%q", childID, child.Status)
		}
		if child.LocationID == nil || *child.LocationID != l2.ID {
			t.Fatalf("child %s location: want=%s got=%v", childID, l2.ID, child.LocationID)
		}
		events := f.eventsAsc(t, childID)
		last := events[len(events)-1]
		if last.Action != types.EventStatusChanged || last.Notes != "Peripheral returned with primary asset." {
			t.Fatalf("child %s last event: action=%q notes=%q", childID, last.Action, last.Notes)
		}
	}
}

func TestMoveRequiresTargetLocation(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	l1 := f.seedUnit(t, "L1", types.OrgCategoryDepartment)
	asset := f.seedAsset(t, types.StatusSpare, &l1.ID)

	_, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{Action: ActionMove})
	if err == nil {
		t.Fatalf("move without target_location_id: expected error")
	}
	if !apierr.IsValidation(err) {
		t.Fatalf("move error kind: got=%v", err)
	}

	reloaded := f.reload(t, asset.ID)
	if reloaded.Status != types.StatusSpare || reloaded.LocationID == nil || *reloaded.LocationID != l1.ID {
		t.Fatalf("asset mutated by failed move: status=%q location=%v", reloaded.Status, reloaded.LocationID)
	}
	if events := f.eventsAsc(t, asset.ID); len(events) != 0 {
		t.Fatalf("events after failed move: want=0 got=%d", len(events))
	}
}

func TestMoveEmitsLocationChangedUnconditionally(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	l1 := f.seedUnit(t, "L1", types.OrgCategoryDepartment)
	asset := f.seedAsset(t, types.StatusSpare, &l1.ID)

	if _, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action:           ActionMove,
		TargetLocationID: &l1.ID,
	}); err != nil {
		t.Fatalf("move: %v", err)
	}

	events := f.eventsAsc(t, asset.ID)
	if !sameActions(actionsOf(events), types.EventLocationChanged) {
		t.Fatalf("events: got=%v", actionsOf(events))
	}
	if events[0].FromLocation == nil || *events[0].FromLocation != l1.ID {
		t.Fatalf("from location: want=%s got=%v", l1.ID, events[0].FromLocation)
	}
	if events[0].ToLocation == nil || *events[0].ToLocation != l1.ID {
		t.Fatalf("to location: want=%s got=%v", l1.ID, events[0].ToLocation)
	}
}

func TestDeployWithMissingPeripheralRollsBackEverything(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	l1 := f.seedUnit(t, "L1", types.OrgCategoryDepartment)
	p1 := f.seedPerson(t, "P1")
	asset := f.seedAsset(t, types.StatusSpare, nil)
	ghost := uuid.New()

	_, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action:           ActionDeploy,
		PersonID:         &p1.ID,
		TargetLocationID: &l1.ID,
		Peripherals:      []uuid.UUID{ghost},
	})
	if err == nil {
		t.Fatalf("deploy with missing peripheral: expected error")
	}
	if !apierr.IsNotFound(err) {
		t.Fatalf("error kind: got=%v", err)
	}
	if !strings.Contains(err.Error(), ghost.String()) {
		t.Fatalf("error does not name missing id: %v", err)
	}

	reloaded := f.reload(t, asset.ID)
	if reloaded.Status != types.StatusSpare {
		t.Fatalf("status after rollback: want=spare got=%q", reloaded.Status)
	}
	if reloaded.LocationID != nil {
		t.Fatalf("location after rollback: want=nil got=%v", reloaded.LocationID)
	}
	if len(reloaded.Assignments) != 0 {
		t.Fatalf("assignments after rollback: want=0 got=%d", len(reloaded.Assignments))
	}
	if events := f.eventsAsc(t, asset.ID); len(events) != 0 {
		t.Fatalf("events after rollback: want=0 got=%d", len(events))
	}
}

func TestDeployNamesEveryMissingPeripheral(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	p1 := f.seedPerson(t, "P1")
	asset := f.seedAsset(t, types.StatusSpare, nil)
	ghost1 := uuid.New()
	ghost2 := uuid.New()

	_, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action:      ActionDeploy,
		PersonID:    &p1.ID,
		Peripherals: []uuid.UUID{ghost1, ghost2},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), ghost1.String()) || !strings.Contains(err.Error(), ghost2.String()) {
		t.Fatalf("error must name every missing id: %v", err)
	}
}

func TestPeripheralAttachIsIdempotent(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	l1 := f.seedUnit(t, "L1", types.OrgCategoryDepartment)
	p1 := f.seedPerson(t, "P1")
	asset := f.seedAsset(t, types.StatusSpare, nil)
	monitor := f.seedAsset(t, types.StatusSpare, nil)

	for i := 0; i < 2; i++ {
		if _, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
			Action:           ActionDeploy,
			PersonID:         &p1.ID,
			TargetLocationID: &l1.ID,
			Peripherals:      []uuid.UUID{monitor.ID},
		}); err != nil {
			t.Fatalf("deploy %d: %v", i+1, err)
		}
	}

	edges, err := f.repos.Relationship.GetByParentID(dbctx.New(ctx, nil), asset.ID)
	if err != nil {
		t.Fatalf("list relationships: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("edges: want=1 got=%d", len(edges))
	}
	if edges[0].ChildAssetID != monitor.ID || edges[0].RelationType != types.RelationPeripheralOf {
		t.Fatalf("edge: child=%s type=%q", edges[0].ChildAssetID, edges[0].RelationType)
	}
}

func TestRepairSetsStatusAndAppendsNotes(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	asset := f.seedAsset(t, types.StatusActive, nil)

	updated, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action: ActionRepair,
		Notes:  "Screen flickers",
	})
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if updated.Status != types.StatusRepair {
		t.Fatalf("status: want=repair got=%q", updated.Status)
	}
	if !strings.Contains(updated.Notes, "Screen flickers") {
		t.Fatalf("notes not appended: %q", updated.Notes)
	}

	events := f.eventsAsc(t, asset.ID)
	if !sameActions(actionsOf(events), types.EventStatusChanged) {
		t.Fatalf("events: got=%v", actionsOf(events))
	}
}

func TestRetireDecommissionsButKeepsPeripherals(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	l1 := f.seedUnit(t, "L1", types.OrgCategoryDepartment)
	p1 := f.seedPerson(t, "P1")
	asset := f.seedAsset(t, types.StatusSpare, nil)
	monitor := f.seedAsset(t, types.StatusSpare, nil)

	if _, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action:           ActionDeploy,
		PersonID:         &p1.ID,
		TargetLocationID: &l1.ID,
		Peripherals:      []uuid.UUID{monitor.ID},
	}); err != nil {
		t.Fatalf("deploy: %v", err)
	}

	updated, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{Action: ActionRetire})
	if err != nil {
		t.Fatalf("retire: %v", err)
	}
	if updated.Status != types.StatusRetired {
		t.Fatalf("status: want=retired got=%q", updated.Status)
	}
	if updated.OperationState != types.OperationDecommissioned {
		t.Fatalf("operation state: want=decommissioned got=%q", updated.OperationState)
	}
	// Peripherals stay attached on retire; only return detaches.
	if len(updated.Relationships) != 1 {
		t.Fatalf("relationships: want=1 got=%d", len(updated.Relationships))
	}
}

func TestRetiredAssetCanBeRedeployed(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	l1 := f.seedUnit(t, "L1", types.OrgCategoryDepartment)
	p1 := f.seedPerson(t, "P1")
	asset := f.seedAsset(t, types.StatusSpare, nil)

	if _, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{Action: ActionRetire}); err != nil {
		t.Fatalf("retire: %v", err)
	}
	updated, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action:           ActionDeploy,
		PersonID:         &p1.ID,
		TargetLocationID: &l1.ID,
	})
	if err != nil {
		t.Fatalf("redeploy after retire: %v", err)
	}
	if updated.Status != types.StatusActive {
		t.Fatalf("status: want=active got=%q", updated.Status)
	}
}

func TestUnknownActionFailsValidation(t *testing.T) {
	f := newEngineFixture(t)
	asset := f.seedAsset(t, types.StatusSpare, nil)

	_, err := f.assets.Transition(t.Context(), asset.ID, TransitionRequest{Action: "recycle"})
	if err == nil {
		t.Fatalf("unknown action: expected error")
	}
	if !apierr.IsValidation(err) {
		t.Fatalf("error kind: got=%v", err)
	}
	if !strings.Contains(err.Error(), "recycle") {
		t.Fatalf("error must name the action: %v", err)
	}
}

func TestDeployRequiresPerson(t *testing.T) {
	f := newEngineFixture(t)
	asset := f.seedAsset(t, types.StatusSpare, nil)

	_, err := f.assets.Transition(t.Context(), asset.ID, TransitionRequest{Action: ActionDeploy})
	if err == nil {
		t.Fatalf("deploy without person: expected error")
	}
	if !apierr.IsValidation(err) {
		t.Fatalf("error kind: got=%v", err)
	}
}

func TestNotesAppendNeverReplaces(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	asset := f.seedAsset(t, types.StatusActive, nil)

	if _, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{Action: ActionRepair, Notes: "first"}); err != nil {
		t.Fatalf("repair: %v", err)
	}
	updated, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{Action: ActionRetire, Notes: "second"})
	if err != nil {
		t.Fatalf("retire: %v", err)
	}
	if updated.Notes != "\nfirst\nsecond" {
		t.Fatalf("notes: want=%q got=%q", "\nfirst\nsecond", updated.Notes)
	}
}

func TestEventTimestampsFollowInsertionOrder(t *testing.T) {
	f := newEngineFixture(t)
	ctx := t.Context()
	l1 := f.seedUnit(t, "L1", types.OrgCategoryDepartment)
	p1 := f.seedPerson(t, "P1")
	asset := f.seedAsset(t, types.StatusSpare, nil)

	if _, err := f.assets.Transition(ctx, asset.ID, TransitionRequest{
		Action:           ActionDeploy,
		PersonID:         &p1.ID,
		TargetLocationID: &l1.ID,
	}); err != nil {
		t.Fatalf("deploy: %v", err)
	}

	events := f.eventsAsc(t, asset.ID)
	for i := 1; i < len(events); i++ {
		if !events[i].CreatedAt.After(events[i-1].CreatedAt) {
			t.Fatalf("timestamps not strictly increasing at %d: %v then %v", i, events[i-1].CreatedAt, events[i].CreatedAt)
		}
	}
}
