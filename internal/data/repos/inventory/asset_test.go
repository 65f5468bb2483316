package inventory_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	"github.com/ironvale/inventory-backend/internal/data/repos/inventory"
	"github.com/ironvale/inventory-backend/internal/data/repos/testutil"
	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
)

type repoFixture struct {
	repos *repos.Repos
	model *types.AssetModel
	seq   int
}

func newRepoFixture(t *testing.T) *repoFixture {
	t.Helper()
	_, r, _ := testutil.OpenRepos(t)

	dbc := dbctx.New(t.Context(), nil)
	assetType := &types.AssetType{Name: "Laptop", Category: "Computer"}
	if err := r.AssetType.Create(dbc, assetType); err != nil {
		t.Fatalf("seed asset type: %v", err)
	}
	model := &types.AssetModel{ModelNumber: "ThinkPad T14", AssetTypeID: assetType.ID}
	if err := r.AssetModel.Create(dbc, model); err != nil {
		t.Fatalf("seed asset model: %v", err)
	}
	return &repoFixture{repos: r, model: model}
}

func (f *repoFixture) addAsset(t *testing.T, tag string, status types.AssetStatus) *types.Asset {
	t.Helper()
	f.seq++
	serial := tag + "-SER"
	asset := &types.Asset{
		AssetTag:     &tag,
		SerialNumber: &serial,
		AssetModelID: f.model.ID,
		Status:       status,
	}
	if err := f.repos.Asset.Create(dbctx.New(t.Context(), nil), asset); err != nil {
		t.Fatalf("create asset %q: %v", tag, err)
	}
	return asset
}

func (f *repoFixture) addPerson(t *testing.T, name string) *types.Person {
	t.Helper()
	person := &types.Person{FullName: name}
	if err := f.repos.Person.Create(dbctx.New(t.Context(), nil), person); err != nil {
		t.Fatalf("create person %q: %v", name, err)
	}
	return person
}

func (f *repoFixture) assign(t *testing.T, asset *types.Asset, person *types.Person, end *time.Time) *types.Assignment {
	t.Helper()
	assignment := &types.Assignment{
		AssetID:   asset.ID,
		PersonID:  person.ID,
		StartDate: time.Now().UTC().Add(-time.Hour),
		EndDate:   end,
	}
	if err := f.repos.Assignment.Create(dbctx.New(t.Context(), nil), assignment); err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	return assignment
}

func TestAssetGetByTagAndSerial(t *testing.T) {
	f := newRepoFixture(t)
	dbc := dbctx.New(t.Context(), nil)
	asset := f.addAsset(t, "LT-001", types.StatusSpare)

	byTag, err := f.repos.Asset.GetByTag(dbc, "LT-001")
	if err != nil {
		t.Fatalf("get by tag: %v", err)
	}
	if byTag == nil || byTag.ID != asset.ID {
		t.Fatalf("get by tag: want=%s got=%v", asset.ID, byTag)
	}

	bySerial, err := f.repos.Asset.GetBySerial(dbc, "LT-001-SER")
	if err != nil {
		t.Fatalf("get by serial: %v", err)
	}
	if bySerial == nil || bySerial.ID != asset.ID {
		t.Fatalf("get by serial: want=%s got=%v", asset.ID, bySerial)
	}

	missing, err := f.repos.Asset.GetByTag(dbc, "LT-404")
	if err != nil {
		t.Fatalf("get missing tag: %v", err)
	}
	if missing != nil {
		t.Fatalf("get missing tag: want=nil got=%v", missing)
	}
}

func TestAssetListFilters(t *testing.T) {
	f := newRepoFixture(t)
	dbc := dbctx.New(t.Context(), nil)
	f.addAsset(t, "LT-001", types.StatusActive)
	f.addAsset(t, "LT-002", types.StatusSpare)
	f.addAsset(t, "LT-003", types.StatusSpare)

	_, total, err := f.repos.Asset.List(dbc, inventory.AssetListFilter{Status: types.StatusSpare})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if total != 2 {
		t.Fatalf("list by status total: want=2 got=%d", total)
	}

	items, total, err := f.repos.Asset.List(dbc, inventory.AssetListFilter{Search: "lt-003"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if total != 1 {
		t.Fatalf("search total: want=1 got=%d", total)
	}
	if got := *items[0].AssetTag; got != "LT-003" {
		t.Fatalf("search hit: want=LT-003 got=%q", got)
	}
}

func TestAssetListPagination(t *testing.T) {
	f := newRepoFixture(t)
	dbc := dbctx.New(t.Context(), nil)
	f.addAsset(t, "LT-001", types.StatusSpare)
	f.addAsset(t, "LT-002", types.StatusSpare)
	f.addAsset(t, "LT-003", types.StatusSpare)

	items, total, err := f.repos.Asset.List(dbc, inventory.AssetListFilter{Page: 2, Size: 2})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if total != 3 {
		t.Fatalf("total: want=3 got=%d", total)
	}
	if len(items) != 1 {
		t.Fatalf("page 2 items: want=1 got=%d", len(items))
	}
}

func TestAssetGetAssignedToPerson(t *testing.T) {
	f := newRepoFixture(t)
	dbc := dbctx.New(t.Context(), nil)
	person := f.addPerson(t, "Holder")
	other := f.addPerson(t, "Other")

	open1 := f.addAsset(t, "LT-002", types.StatusActive)
	open2 := f.addAsset(t, "LT-001", types.StatusActive)
	closed := f.addAsset(t, "LT-003", types.StatusSpare)
	foreign := f.addAsset(t, "LT-004", types.StatusActive)

	f.assign(t, open1, person, nil)
	f.assign(t, open2, person, nil)
	ended := time.Now().UTC()
	f.assign(t, closed, person, &ended)
	f.assign(t, foreign, other, nil)

	assets, err := f.repos.Asset.GetAssignedToPerson(dbc, person.ID)
	if err != nil {
		t.Fatalf("get assigned: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("assigned count: want=2 got=%d", len(assets))
	}
	// Ordered by tag regardless of assignment order.
	if *assets[0].AssetTag != "LT-001" || *assets[1].AssetTag != "LT-002" {
		t.Fatalf("assigned order: got=%q,%q", *assets[0].AssetTag, *assets[1].AssetTag)
	}
}

func TestAssetGetByIDsKeepsTagOrder(t *testing.T) {
	f := newRepoFixture(t)
	dbc := dbctx.New(t.Context(), nil)
	b := f.addAsset(t, "LT-B", types.StatusSpare)
	a := f.addAsset(t, "LT-A", types.StatusSpare)

	assets, err := f.repos.Asset.GetByIDs(dbc, []uuid.UUID{b.ID, a.ID})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("count: want=2 got=%d", len(assets))
	}
	if *assets[0].AssetTag != "LT-A" {
		t.Fatalf("order: want LT-A first got=%q", *assets[0].AssetTag)
	}
}

func TestAssignmentGetOpenByAssetID(t *testing.T) {
	f := newRepoFixture(t)
	dbc := dbctx.New(t.Context(), nil)
	person := f.addPerson(t, "Holder")
	asset := f.addAsset(t, "LT-001", types.StatusActive)

	ended := time.Now().UTC()
	f.assign(t, asset, person, &ended)
	open := f.assign(t, asset, person, nil)

	got, err := f.repos.Assignment.GetOpenByAssetID(dbc, asset.ID)
	if err != nil {
		t.Fatalf("get open: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("open count: want=1 got=%d", len(got))
	}
	if got[0].ID != open.ID {
		t.Fatalf("open assignment: want=%s got=%s", open.ID, got[0].ID)
	}
}

func TestRelationshipExists(t *testing.T) {
	f := newRepoFixture(t)
	dbc := dbctx.New(t.Context(), nil)
	parent := f.addAsset(t, "LT-001", types.StatusActive)
	child := f.addAsset(t, "MN-001", types.StatusActive)

	exists, err := f.repos.Relationship.Exists(dbc, parent.ID, child.ID, types.RelationPeripheralOf)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("exists before create: want=false")
	}

	edge := &types.AssetRelationship{
		ParentAssetID: parent.ID,
		ChildAssetID:  child.ID,
		RelationType:  types.RelationPeripheralOf,
	}
	if err := f.repos.Relationship.Create(dbc, edge); err != nil {
		t.Fatalf("create edge: %v", err)
	}

	exists, err = f.repos.Relationship.Exists(dbc, parent.ID, child.ID, types.RelationPeripheralOf)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatalf("exists after create: want=true")
	}

	edges, err := f.repos.Relationship.GetByParentID(dbc, parent.ID)
	if err != nil {
		t.Fatalf("get by parent: %v", err)
	}
	if len(edges) != 1 || edges[0].Child == nil || edges[0].Child.ID != child.ID {
		t.Fatalf("edges: got=%+v", edges)
	}
}

func TestEventListNewestFirst(t *testing.T) {
	f := newRepoFixture(t)
	dbc := dbctx.New(t.Context(), nil)
	asset := f.addAsset(t, "LT-001", types.StatusSpare)

	base := time.Now().UTC()
	for i, action := range []types.EventAction{types.EventCreated, types.EventStatusChanged, types.EventLocationChanged} {
		event := &types.AssetEvent{
			AssetID:   asset.ID,
			Action:    action,
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		if err := f.repos.Event.Create(dbc, event); err != nil {
			t.Fatalf("create event: %v", err)
		}
	}

	events, err := f.repos.Event.ListByAssetID(dbc, asset.ID, 0)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("count: want=3 got=%d", len(events))
	}
	if events[0].Action != types.EventLocationChanged {
		t.Fatalf("newest first: want=location_changed got=%q", events[0].Action)
	}

	limited, err := f.repos.Event.ListByAssetID(dbc, asset.ID, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limited count: want=2 got=%d", len(limited))
	}
}

func TestAssetCountByStatus(t *testing.T) {
	f := newRepoFixture(t)
	dbc := dbctx.New(t.Context(), nil)
	f.addAsset(t, "LT-001", types.StatusActive)
	f.addAsset(t, "LT-002", types.StatusSpare)
	f.addAsset(t, "LT-003", types.StatusSpare)

	counts, err := f.repos.Asset.CountByStatus(dbc)
	if err != nil {
		t.Fatalf("count by status: %v", err)
	}
	if counts[types.StatusActive] != 1 || counts[types.StatusSpare] != 2 {
		t.Fatalf("counts: got=%v", counts)
	}
}
