package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	"github.com/ironvale/inventory-backend/internal/data/repos/testutil"
	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
)

type engineFixture struct {
	db          *gorm.DB
	repos       *repos.Repos
	recorder    *EventRecorder
	transitions *TransitionService
	assets      *AssetService
	offboarding *OffboardingService

	model *types.AssetModel
	seq   int
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	conn, r, log := testutil.OpenRepos(t)

	recorder := NewEventRecorder(r.Event, log)
	ledger := NewAssignmentLedger(r.Assignment, recorder, log)
	graph := NewRelationshipGraph(r.Asset, r.Relationship, recorder, log)
	transitions := NewTransitionService(r.Asset, ledger, graph, recorder, log)

	f := &engineFixture{
		db:          conn,
		repos:       r,
		recorder:    recorder,
		transitions: transitions,
		assets:      NewAssetService(conn, r, transitions, recorder, log),
		offboarding: NewOffboardingService(conn, r.Asset, r.Person, transitions, log),
	}

	dbc := dbctx.New(t.Context(), nil)
	assetType := &types.AssetType{Name: "Computer", Category: "Computer"}
	if err := r.AssetType.Create(dbc, assetType); err != nil {
		t.Fatalf("seed asset type: %v", err)
	}
	model := &types.AssetModel{ModelNumber: "Latitude 5440", AssetTypeID: assetType.ID}
	if err := r.AssetModel.Create(dbc, model); err != nil {
		t.Fatalf("seed asset model: %v", err)
	}
	f.model = model
	return f
}

func (f *engineFixture) seedUnit(t *testing.T, name string, category types.OrganisationCategory) *types.OrganisationUnit {
	t.Helper()
	unit := &types.OrganisationUnit{Name: name, Category: category}
	if err := f.repos.OrgUnit.Create(dbctx.New(t.Context(), nil), unit); err != nil {
		t.Fatalf("seed unit %q: %v", name, err)
	}
	return unit
}

func (f *engineFixture) seedPerson(t *testing.T, name string) *types.Person {
	t.Helper()
	person := &types.Person{FullName: name}
	if err := f.repos.Person.Create(dbctx.New(t.Context(), nil), person); err != nil {
		t.Fatalf("seed person %q: %v", name, err)
	}
	return person
}

func (f *engineFixture) seedAsset(t *testing.T, status types.AssetStatus, locationID *uuid.UUID) *types.Asset {
	t.Helper()
	f.seq++
	tag := fmt.Sprintf("A%03d", f.seq)
	serial := fmt.Sprintf("SN-%04d", f.seq)
	asset := &types.Asset{
		AssetTag:     &tag,
		SerialNumber: &serial,
		AssetModelID: f.model.ID,
		Status:       status,
		LocationID:   locationID,
	}
	if err := f.repos.Asset.Create(dbctx.New(t.Context(), nil), asset); err != nil {
		t.Fatalf("seed asset: %v", err)
	}
	return asset
}

// eventsAsc returns the asset's events oldest first.
func (f *engineFixture) eventsAsc(t *testing.T, assetID uuid.UUID) []*types.AssetEvent {
	t.Helper()
	events, err := f.repos.Event.ListByAssetID(dbctx.New(t.Context(), nil), assetID, 0)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	out := make([]*types.AssetEvent, len(events))
	for i, e := range events {
		out[len(events)-1-i] = e
	}
	return out
}

func (f *engineFixture) reload(t *testing.T, assetID uuid.UUID) *types.Asset {
	t.Helper()
	asset, err := f.repos.Asset.GetByID(dbctx.New(t.Context(), nil), assetID)
	if err != nil {
		t.Fatalf("reload asset: %v", err)
	}
	if asset == nil {
		t.Fatalf("reload asset: %s not found", assetID)
	}
	return asset
}

func actionsOf(events []*types.AssetEvent) []types.EventAction {
	out := make([]types.EventAction, len(events))
	for i, e := range events {
		out[i] = e.Action
	}
	return out
}

func sameActions(got []types.EventAction, want ...types.EventAction) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
