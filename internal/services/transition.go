package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/apierr"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

// Transition actions.
const (
	ActionDeploy = "deploy"
	ActionReturn = "return"
	ActionRepair = "repair"
	ActionRetire = "retire"
	ActionMove   = "move"
)

// TransitionRequest is one lifecycle action against one asset. Action decides
// which other fields are required.
type TransitionRequest struct {
	Action             string              `json:"action" binding:"required"`
	TargetStatus       *types.AssetStatus  `json:"target_status"`
	TargetLocationID   *uuid.UUID          `json:"target_location_id"`
	PersonID           *uuid.UUID          `json:"person_id"`
	ExpectedReturnDate *time.Time          `json:"expected_return_date"`
	Notes              string              `json:"notes"`
	Peripherals        []uuid.UUID         `json:"peripherals"`
}

// assetLocks hands out one mutex per asset id so concurrent transitions
// against the same asset serialize instead of interleaving.
type assetLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newAssetLocks() *assetLocks {
	return &assetLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (a *assetLocks) get(id uuid.UUID) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	lock, ok := a.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[id] = lock
	}
	return lock
}

// TransitionService is the state machine over the five lifecycle actions. It
// stages every mutation on the caller's transaction and never commits; the
// caller rolls the whole request back on any returned error.
type TransitionService struct {
	assets   repos.AssetRepo
	ledger   *AssignmentLedger
	graph    *RelationshipGraph
	recorder *EventRecorder
	locks    *assetLocks
	log      *logger.Logger
}

func NewTransitionService(
	assets repos.AssetRepo,
	ledger *AssignmentLedger,
	graph *RelationshipGraph,
	recorder *EventRecorder,
	baseLog *logger.Logger,
) *TransitionService {
	return &TransitionService{
		assets:   assets,
		ledger:   ledger,
		graph:    graph,
		recorder: recorder,
		locks:    newAssetLocks(),
		log:      baseLog.With("service", "TransitionService"),
	}
}

// Run applies one action to the asset and returns it refreshed with its
// current assignments and relationships.
func (s *TransitionService) Run(dbc dbctx.Context, asset *types.Asset, req TransitionRequest) (*types.Asset, error) {
	lock := s.locks.get(asset.ID)
	lock.Lock()
	defer lock.Unlock()

	action := strings.ToLower(req.Action)
	s.log.Debug("running transition", "asset_id", asset.ID, "action", action)

	var err error
	switch action {
	case ActionDeploy:
		if req.PersonID == nil {
			return nil, apierr.Validation("person_id required for deploy")
		}
		err = s.deploy(dbc, asset, req)
	case ActionReturn:
		err = s.returnToStore(dbc, asset, req.TargetLocationID, req.Notes)
	case ActionRepair:
		err = s.markRepair(dbc, asset, req.Notes)
	case ActionRetire:
		err = s.retire(dbc, asset, req.Notes)
	case ActionMove:
		if req.TargetLocationID == nil {
			return nil, apierr.Validation("target_location_id required")
		}
		err = s.move(dbc, asset, *req.TargetLocationID, req.Notes)
	default:
		return nil, apierr.Validation("Unknown transition '%s'", req.Action)
	}
	if err != nil {
		return nil, err
	}

	refreshed, err := s.assets.GetByID(dbc, asset.ID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return refreshed, nil
}

func (s *TransitionService) deploy(dbc dbctx.Context, asset *types.Asset, req TransitionRequest) error {
	previousStatus := asset.Status
	previousLocation := asset.LocationID

	if _, err := s.ledger.CloseOpen(dbc, asset, CloseForDeploy); err != nil {
		return apierr.From(err)
	}
	if _, err := s.ledger.Open(dbc, asset, *req.PersonID, req.ExpectedReturnDate, true, req.Notes); err != nil {
		return apierr.From(err)
	}

	asset.Status = types.StatusActive
	if req.TargetLocationID != nil {
		asset.LocationID = req.TargetLocationID
	}
	appendNotes(asset, req.Notes)

	if len(req.Peripherals) > 0 {
		if err := s.graph.Attach(dbc, asset, req.Peripherals, types.RelationPeripheralOf); err != nil {
			return err
		}
	}

	if err := s.assets.Update(dbc, asset); err != nil {
		return apierr.Internal(err)
	}

	to := types.StatusActive
	if err := s.recorder.Record(dbc, asset.ID, types.EventStatusChanged, EventParams{
		FromStatus: &previousStatus,
		ToStatus:   &to,
	}); err != nil {
		return apierr.Internal(err)
	}
	if locationChanged(previousLocation, asset.LocationID) && asset.LocationID != nil {
		if err := s.recorder.Record(dbc, asset.ID, types.EventLocationChanged, EventParams{
			FromLocation: previousLocation,
			ToLocation:   asset.LocationID,
		}); err != nil {
			return apierr.Internal(err)
		}
	}
	return nil
}

func (s *TransitionService) returnToStore(dbc dbctx.Context, asset *types.Asset, targetLocationID *uuid.UUID, notes string) error {
	previousStatus := asset.Status
	previousLocation := asset.LocationID

	if _, err := s.ledger.CloseOpen(dbc, asset, CloseForReturn); err != nil {
		return apierr.From(err)
	}

	asset.Status = types.StatusSpare
	if targetLocationID != nil {
		asset.LocationID = targetLocationID
	}
	appendNotes(asset, notes)

	if err := s.graph.DetachAll(dbc, asset, targetLocationID); err != nil {
		return err
	}

	if err := s.assets.Update(dbc, asset); err != nil {
		return apierr.Internal(err)
	}

	to := types.StatusSpare
	if err := s.recorder.Record(dbc, asset.ID, types.EventStatusChanged, EventParams{
		FromStatus: &previousStatus,
		ToStatus:   &to,
	}); err != nil {
		return apierr.Internal(err)
	}
	if locationChanged(previousLocation, asset.LocationID) {
		if err := s.recorder.Record(dbc, asset.ID, types.EventLocationChanged, EventParams{
			FromLocation: previousLocation,
			ToLocation:   asset.LocationID,
		}); err != nil {
			return apierr.Internal(err)
		}
	}
	return nil
}

func (s *TransitionService) markRepair(dbc dbctx.Context, asset *types.Asset, notes string) error {
	previousStatus := asset.Status
	asset.Status = types.StatusRepair
	appendNotes(asset, notes)

	if err := s.assets.Update(dbc, asset); err != nil {
		return apierr.Internal(err)
	}

	to := types.StatusRepair
	if err := s.recorder.Record(dbc, asset.ID, types.EventStatusChanged, EventParams{
		FromStatus: &previousStatus,
		ToStatus:   &to,
	}); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

func (s *TransitionService) retire(dbc dbctx.Context, asset *types.Asset, notes string) error {
	previousStatus := asset.Status
	asset.Status = types.StatusRetired
	asset.OperationState = types.OperationDecommissioned
	appendNotes(asset, notes)

	if err := s.assets.Update(dbc, asset); err != nil {
		return apierr.Internal(err)
	}

	to := types.StatusRetired
	if err := s.recorder.Record(dbc, asset.ID, types.EventStatusChanged, EventParams{
		FromStatus: &previousStatus,
		ToStatus:   &to,
	}); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

func (s *TransitionService) move(dbc dbctx.Context, asset *types.Asset, locationID uuid.UUID, notes string) error {
	previousLocation := asset.LocationID
	asset.LocationID = &locationID
	appendNotes(asset, notes)

	if err := s.assets.Update(dbc, asset); err != nil {
		return apierr.Internal(err)
	}

	if err := s.recorder.Record(dbc, asset.ID, types.EventLocationChanged, EventParams{
		FromLocation: previousLocation,
		ToLocation:   asset.LocationID,
	}); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// appendNotes concatenates non-empty notes onto the asset with a line break.
// Existing notes are never replaced.
func appendNotes(asset *types.Asset, notes string) {
	if notes == "" {
		return
	}
	asset.Notes = asset.Notes + "\n" + notes
}

func locationChanged(before, after *uuid.UUID) bool {
	if before == nil && after == nil {
		return false
	}
	if before == nil || after == nil {
		return true
	}
	return *before != *after
}
