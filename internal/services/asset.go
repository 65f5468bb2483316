package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/apierr"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

type AssetCreate struct {
	AssetTag       *string              `json:"asset_tag"`
	SerialNumber   *string              `json:"serial_number"`
	AssetModelID   uuid.UUID            `json:"asset_model_id" binding:"required"`
	Status         types.AssetStatus    `json:"status"`
	OperationState types.OperationState `json:"operation_state"`
	PurchaseDate   *time.Time           `json:"purchase_date"`
	Supplier       *string              `json:"supplier"`
	Description    *string              `json:"description"`
	LocationID     *uuid.UUID           `json:"location_id"`
	Notes          string               `json:"notes"`
}

// AssetUpdate lists the mutable asset fields explicitly; only non-nil fields
// are applied. Status and location edits through here bypass the transition
// engine and record no events, matching the plain CRUD contract.
type AssetUpdate struct {
	AssetTag       *string               `json:"asset_tag"`
	SerialNumber   *string               `json:"serial_number"`
	AssetModelID   *uuid.UUID            `json:"asset_model_id"`
	Status         *types.AssetStatus    `json:"status"`
	OperationState *types.OperationState `json:"operation_state"`
	PurchaseDate   *time.Time            `json:"purchase_date"`
	Supplier       *string               `json:"supplier"`
	Description    *string               `json:"description"`
	LocationID     *uuid.UUID            `json:"location_id"`
	Notes          *string               `json:"notes"`
}

type AssetService struct {
	db          *gorm.DB
	repos       *repos.Repos
	transitions *TransitionService
	recorder    *EventRecorder
	log         *logger.Logger
}

func NewAssetService(
	db *gorm.DB,
	r *repos.Repos,
	transitions *TransitionService,
	recorder *EventRecorder,
	baseLog *logger.Logger,
) *AssetService {
	return &AssetService{
		db:          db,
		repos:       r,
		transitions: transitions,
		recorder:    recorder,
		log:         baseLog.With("service", "AssetService"),
	}
}

func (s *AssetService) List(ctx context.Context, filter repos.AssetListFilter) ([]*types.Asset, int64, error) {
	dbc := dbctx.New(ctx, nil)
	items, total, err := s.repos.Asset.List(dbc, filter)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return items, total, nil
}

func (s *AssetService) Get(ctx context.Context, id uuid.UUID) (*types.Asset, error) {
	dbc := dbctx.New(ctx, nil)
	asset, err := s.repos.Asset.GetByID(dbc, id)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if asset == nil {
		return nil, apierr.NotFound("Asset not found")
	}
	return asset, nil
}

func (s *AssetService) Create(ctx context.Context, in AssetCreate) (*types.Asset, error) {
	status := in.Status
	if status == "" {
		status = types.StatusSpare
	}
	operationState := in.OperationState
	if operationState == "" {
		operationState = types.OperationNormal
	}

	var created *types.Asset
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx, tx)

		model, err := s.repos.AssetModel.GetByID(dbc, in.AssetModelID)
		if err != nil {
			return apierr.Internal(err)
		}
		if model == nil {
			return apierr.NotFound("Asset model not found")
		}

		asset := &types.Asset{
			AssetTag:       in.AssetTag,
			SerialNumber:   in.SerialNumber,
			AssetModelID:   in.AssetModelID,
			Status:         status,
			OperationState: operationState,
			PurchaseDate:   in.PurchaseDate,
			Supplier:       in.Supplier,
			Description:    in.Description,
			LocationID:     in.LocationID,
			Notes:          in.Notes,
		}
		if err := s.repos.Asset.Create(dbc, asset); err != nil {
			return apierr.Internal(err)
		}
		if err := s.recorder.Record(dbc, asset.ID, types.EventCreated, EventParams{
			Notes: "Asset created via API",
		}); err != nil {
			return apierr.Internal(err)
		}

		created, err = s.repos.Asset.GetByID(dbc, asset.ID)
		if err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AssetService) Update(ctx context.Context, id uuid.UUID, in AssetUpdate) (*types.Asset, error) {
	var updated *types.Asset
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx, tx)

		asset, err := s.repos.Asset.GetBare(dbc, id)
		if err != nil {
			return apierr.Internal(err)
		}
		if asset == nil {
			return apierr.NotFound("Asset not found")
		}

		if in.AssetTag != nil {
			asset.AssetTag = in.AssetTag
		}
		if in.SerialNumber != nil {
			asset.SerialNumber = in.SerialNumber
		}
		if in.AssetModelID != nil {
			asset.AssetModelID = *in.AssetModelID
		}
		if in.Status != nil {
			asset.Status = *in.Status
		}
		if in.OperationState != nil {
			asset.OperationState = *in.OperationState
		}
		if in.PurchaseDate != nil {
			asset.PurchaseDate = in.PurchaseDate
		}
		if in.Supplier != nil {
			asset.Supplier = in.Supplier
		}
		if in.Description != nil {
			asset.Description = in.Description
		}
		if in.LocationID != nil {
			asset.LocationID = in.LocationID
		}
		if in.Notes != nil {
			asset.Notes = *in.Notes
		}

		if err := s.repos.Asset.Update(dbc, asset); err != nil {
			return apierr.Internal(err)
		}
		updated, err = s.repos.Asset.GetByID(dbc, id)
		if err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *AssetService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx, tx)
		asset, err := s.repos.Asset.GetBare(dbc, id)
		if err != nil {
			return apierr.Internal(err)
		}
		if asset == nil {
			return apierr.NotFound("Asset not found")
		}
		if err := s.repos.Asset.Delete(dbc, id); err != nil {
			return apierr.Internal(err)
		}
		return nil
	})
}

// Transition loads the asset, runs the requested action inside one
// transaction and returns the refreshed asset. Any engine error rolls back
// every staged mutation.
func (s *AssetService) Transition(ctx context.Context, id uuid.UUID, req TransitionRequest) (*types.Asset, error) {
	var result *types.Asset
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx, tx)

		asset, err := s.repos.Asset.GetByID(dbc, id)
		if err != nil {
			return apierr.Internal(err)
		}
		if asset == nil {
			return apierr.NotFound("Asset not found")
		}

		result, err = s.transitions.Run(dbc, asset, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AssetService) ListEvents(ctx context.Context, id uuid.UUID) ([]*types.AssetEvent, error) {
	dbc := dbctx.New(ctx, nil)
	asset, err := s.repos.Asset.GetBare(dbc, id)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if asset == nil {
		return nil, apierr.NotFound("Asset not found")
	}
	events, err := s.repos.Event.ListByAssetID(dbc, id, 0)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return events, nil
}
