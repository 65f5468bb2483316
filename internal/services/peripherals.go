package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/apierr"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

// RelationshipGraph maintains parent to child peripheral edges. Attach is
// idempotent per (parent, child, relation type); detach removes every
// outgoing edge of the parent.
type RelationshipGraph struct {
	assets        repos.AssetRepo
	relationships repos.RelationshipRepo
	recorder      *EventRecorder
	log           *logger.Logger
}

func NewRelationshipGraph(
	assets repos.AssetRepo,
	relationships repos.RelationshipRepo,
	recorder *EventRecorder,
	baseLog *logger.Logger,
) *RelationshipGraph {
	return &RelationshipGraph{
		assets:        assets,
		relationships: relationships,
		recorder:      recorder,
		log:           baseLog.With("service", "RelationshipGraph"),
	}
}

// Attach links every child id to the parent. Any unresolvable id fails the
// whole call with an error naming all missing ids; the caller aborts its
// transaction, so partially staged attaches never commit. Each newly attached
// child goes active at the parent's location.
func (g *RelationshipGraph) Attach(
	dbc dbctx.Context,
	parent *types.Asset,
	childIDs []uuid.UUID,
	relationType types.RelationType,
) error {
	if len(childIDs) == 0 {
		return nil
	}

	children, err := g.assets.GetBareByIDs(dbc, childIDs)
	if err != nil {
		return apierr.Internal(err)
	}
	byID := make(map[uuid.UUID]*types.Asset, len(children))
	for _, child := range children {
		byID[child.ID] = child
	}

	var missing []string
	for _, id := range childIDs {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return apierr.NotFound("Peripheral asset(s) not found: %s", strings.Join(missing, ", "))
	}

	for _, id := range childIDs {
		child := byID[id]

		exists, err := g.relationships.Exists(dbc, parent.ID, child.ID, relationType)
		if err != nil {
			return apierr.Internal(err)
		}
		if exists {
			continue
		}

		edge := &types.AssetRelationship{
			ParentAssetID: parent.ID,
			ChildAssetID:  child.ID,
			RelationType:  relationType,
		}
		if err := g.relationships.Create(dbc, edge); err != nil {
			return apierr.Internal(err)
		}

		child.Status = types.StatusActive
		child.LocationID = parent.LocationID
		if err := g.assets.Update(dbc, child); err != nil {
			return apierr.Internal(err)
		}

		// The attach event always reads spare -> active regardless of the
		// child's prior status; this mirrors the recorded transition history
		// of existing deployments.
		from := types.StatusSpare
		to := types.StatusActive
		if err := g.recorder.Record(dbc, child.ID, types.EventStatusChanged, EventParams{
			FromStatus: &from,
			ToStatus:   &to,
		}); err != nil {
			return apierr.Internal(err)
		}
	}
	return nil
}

// DetachAll spares every child of the parent, moves it to targetLocation when
// one is given, and removes the edge. Children keep their location when no
// target is supplied.
func (g *RelationshipGraph) DetachAll(dbc dbctx.Context, parent *types.Asset, targetLocation *uuid.UUID) error {
	edges, err := g.relationships.GetByParentID(dbc, parent.ID)
	if err != nil {
		return apierr.Internal(err)
	}

	for _, edge := range edges {
		if child := edge.Child; child != nil {
			previous := child.Status
			child.Status = types.StatusSpare
			if targetLocation != nil {
				child.LocationID = targetLocation
			}
			if err := g.assets.Update(dbc, child); err != nil {
				return apierr.Internal(err)
			}

			to := types.StatusSpare
			if err := g.recorder.Record(dbc, child.ID, types.EventStatusChanged, EventParams{
				FromStatus: &previous,
				ToStatus:   &to,
				Notes:      "Peripheral returned with primary asset.",
			}); err != nil {
				return apierr.Internal(err)
			}
		}
		if err := g.relationships.Delete(dbc, edge.ID); err != nil {
			return apierr.Internal(err)
		}
	}
	return nil
}
