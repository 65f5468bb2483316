package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

// EventParams carries the optional fields of one audit record.
type EventParams struct {
	Actor        *string
	FromStatus   *types.AssetStatus
	ToStatus     *types.AssetStatus
	FromLocation *uuid.UUID
	ToLocation   *uuid.UUID
	Notes        string
}

// EventRecorder appends immutable audit records. Consumers list events newest
// first by CreatedAt, so timestamps handed out here are strictly increasing
// within the process; two events recorded back to back in one transition
// never share a timestamp.
type EventRecorder struct {
	events repos.EventRepo
	log    *logger.Logger

	mu     sync.Mutex
	lastTS time.Time
}

func NewEventRecorder(events repos.EventRepo, baseLog *logger.Logger) *EventRecorder {
	return &EventRecorder{
		events: events,
		log:    baseLog.With("service", "EventRecorder"),
	}
}

func (r *EventRecorder) nextTimestamp() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(r.lastTS) {
		now = r.lastTS.Add(time.Microsecond)
	}
	r.lastTS = now
	return now
}

func (r *EventRecorder) Record(dbc dbctx.Context, assetID uuid.UUID, action types.EventAction, p EventParams) error {
	event := &types.AssetEvent{
		AssetID:      assetID,
		Action:       action,
		Actor:        p.Actor,
		FromStatus:   p.FromStatus,
		ToStatus:     p.ToStatus,
		FromLocation: p.FromLocation,
		ToLocation:   p.ToLocation,
		Notes:        p.Notes,
		CreatedAt:    r.nextTimestamp(),
	}
	if err := r.events.Create(dbc, event); err != nil {
		r.log.Error("failed to record event", "asset_id", assetID, "action", action, "error", err)
		return err
	}
	return nil
}
