package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

// CloseCause selects the note text written onto auto-closed assignments.
type CloseCause int

const (
	CloseForDeploy CloseCause = iota
	CloseForReturn
)

// AssignmentLedger opens and closes custody records. Assignments are closed
// by setting EndDate, never deleted; at most one open assignment per asset is
// maintained here by auto-closing before every open.
type AssignmentLedger struct {
	assignments repos.AssignmentRepo
	recorder    *EventRecorder
	log         *logger.Logger
}

func NewAssignmentLedger(assignments repos.AssignmentRepo, recorder *EventRecorder, baseLog *logger.Logger) *AssignmentLedger {
	return &AssignmentLedger{
		assignments: assignments,
		recorder:    recorder,
		log:         baseLog.With("service", "AssignmentLedger"),
	}
}

// CloseOpen ends every open assignment on the asset, stamps the auto-close
// note and records one assignment_ended event per closure.
func (l *AssignmentLedger) CloseOpen(dbc dbctx.Context, asset *types.Asset, cause CloseCause) ([]*types.Assignment, error) {
	open, err := l.assignments.GetOpenByAssetID(dbc, asset.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, assignment := range open {
		end := now
		assignment.EndDate = &end
		switch cause {
		case CloseForReturn:
			assignment.Notes = assignment.Notes + "\nAuto-closed on return."
		default:
			assignment.Notes = assignment.Notes + "\nAuto-closed before new deployment."
		}
		if err := l.assignments.Update(dbc, assignment); err != nil {
			return nil, err
		}

		var eventNote string
		switch cause {
		case CloseForReturn:
			eventNote = fmt.Sprintf("Assignment %s closed on return.", assignment.ID)
		default:
			eventNote = fmt.Sprintf("Closed assignment %s", assignment.ID)
		}
		if err := l.recorder.Record(dbc, asset.ID, types.EventAssignmentEnded, EventParams{Notes: eventNote}); err != nil {
			return nil, err
		}
	}
	return open, nil
}

// Open creates a new open assignment and records assignment_started.
func (l *AssignmentLedger) Open(
	dbc dbctx.Context,
	asset *types.Asset,
	personID uuid.UUID,
	expectedReturn *time.Time,
	primaryDevice bool,
	notes string,
) (*types.Assignment, error) {
	assignment := &types.Assignment{
		AssetID:            asset.ID,
		PersonID:           personID,
		StartDate:          time.Now().UTC(),
		ExpectedReturnDate: expectedReturn,
		PrimaryDevice:      primaryDevice,
		Notes:              notes,
	}
	if err := l.assignments.Create(dbc, assignment); err != nil {
		return nil, err
	}
	if err := l.recorder.Record(dbc, asset.ID, types.EventAssignmentStarted, EventParams{
		Notes: fmt.Sprintf("Assigned to person %s", personID),
	}); err != nil {
		return nil, err
	}
	return assignment, nil
}
