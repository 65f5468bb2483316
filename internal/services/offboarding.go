package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/apierr"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

// Disposition is the intended end state for an asset during offboarding.
type Disposition string

const (
	DispositionSpare   Disposition = "spare"
	DispositionRepair  Disposition = "repair"
	DispositionRetired Disposition = "retired"
)

// action maps a disposition onto a transition. Anything that is not spare or
// repair retires the asset.
func (d Disposition) action() string {
	switch d {
	case DispositionSpare:
		return ActionReturn
	case DispositionRepair:
		return ActionRepair
	default:
		return ActionRetire
	}
}

type OffboardOverride struct {
	AssetID          uuid.UUID    `json:"asset_id" binding:"required"`
	Disposition      *Disposition `json:"disposition"`
	TargetLocationID *uuid.UUID   `json:"target_location_id"`
	Notes            string       `json:"notes"`
}

type OffboardRequest struct {
	Disposition      Disposition        `json:"disposition" binding:"required"`
	TargetLocationID *uuid.UUID         `json:"target_location_id"`
	Notes            string             `json:"notes"`
	Overrides        []OffboardOverride `json:"overrides"`
}

// OffboardingService resolves every asset under an open assignment to a
// person into one transition each and drives them inside a single
// transaction, so one failing asset aborts the whole batch.
type OffboardingService struct {
	db          *gorm.DB
	assets      repos.AssetRepo
	people      repos.PersonRepo
	transitions *TransitionService
	log         *logger.Logger
}

func NewOffboardingService(
	db *gorm.DB,
	assets repos.AssetRepo,
	people repos.PersonRepo,
	transitions *TransitionService,
	baseLog *logger.Logger,
) *OffboardingService {
	return &OffboardingService{
		db:          db,
		assets:      assets,
		people:      people,
		transitions: transitions,
		log:         baseLog.With("service", "OffboardingService"),
	}
}

// Offboard processes every asset currently assigned to the person, ordered by
// tag then serial, and returns the refreshed set.
func (s *OffboardingService) Offboard(ctx context.Context, personID uuid.UUID, req OffboardRequest) ([]*types.Asset, error) {
	var processed []*types.Asset

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx, tx)

		person, err := s.people.GetByID(dbc, personID)
		if err != nil {
			return apierr.Internal(err)
		}
		if person == nil {
			return apierr.NotFound("Person not found")
		}

		assets, err := s.assets.GetAssignedToPerson(dbc, personID)
		if err != nil {
			return apierr.Internal(err)
		}
		if len(assets) == 0 {
			processed = []*types.Asset{}
			return nil
		}

		assigned := make(map[uuid.UUID]bool, len(assets))
		for _, asset := range assets {
			assigned[asset.ID] = true
		}

		overrides := make(map[uuid.UUID]*OffboardOverride, len(req.Overrides))
		var unknown []string
		for i := range req.Overrides {
			override := &req.Overrides[i]
			overrides[override.AssetID] = override
			if !assigned[override.AssetID] {
				unknown = append(unknown, override.AssetID.String())
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return apierr.Validation(
				"Asset override references asset(s) not assigned to this person: %s",
				strings.Join(unknown, ", "),
			)
		}

		processedIDs := make([]uuid.UUID, 0, len(assets))
		for _, asset := range assets {
			override := overrides[asset.ID]

			disposition := req.Disposition
			if override != nil && override.Disposition != nil {
				disposition = *override.Disposition
			}

			target := req.TargetLocationID
			if override != nil && override.TargetLocationID != nil {
				target = override.TargetLocationID
			}

			var parts []string
			if req.Notes != "" {
				parts = append(parts, req.Notes)
			}
			if override != nil && override.Notes != "" {
				parts = append(parts, override.Notes)
			}

			transition := TransitionRequest{
				Action:           disposition.action(),
				TargetLocationID: target,
				Notes:            strings.Join(parts, "\n"),
			}
			if _, err := s.transitions.Run(dbc, asset, transition); err != nil {
				return err
			}
			processedIDs = append(processedIDs, asset.ID)
		}

		refreshed, err := s.assets.GetByIDs(dbc, processedIDs)
		if err != nil {
			return apierr.Internal(err)
		}
		processed = refreshed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("offboarding complete", "person_id", personID, "assets", len(processed))
	return processed, nil
}
