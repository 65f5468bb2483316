package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/apierr"
	"github.com/ironvale/inventory-backend/internal/platform/dbctx"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

type OrgUnitCreate struct {
	Name        string                     `json:"name" binding:"required"`
	Category    types.OrganisationCategory `json:"category" binding:"required"`
	Description *string                    `json:"description"`
}

type OrgUnitUpdate struct {
	Name        *string                     `json:"name"`
	Category    *types.OrganisationCategory `json:"category"`
	Description *string                     `json:"description"`
}

type AssetTypeCreate struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Description *string `json:"description"`
}

type AssetTypeUpdate struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

type AssetModelCreate struct {
	Manufacturer       *string   `json:"manufacturer"`
	ModelNumber        string    `json:"model_number" binding:"required"`
	AssetTypeID        uuid.UUID `json:"asset_type_id" binding:"required"`
	DefaultDescription *string   `json:"default_description"`
}

type AssetModelUpdate struct {
	Manufacturer       *string    `json:"manufacturer"`
	ModelNumber        *string    `json:"model_number"`
	AssetTypeID        *uuid.UUID `json:"asset_type_id"`
	DefaultDescription *string    `json:"default_description"`
}

// CatalogService is plain CRUD over the reference entities: organisation
// units, asset types and asset models.
type CatalogService struct {
	db    *gorm.DB
	repos *repos.Repos
	log   *logger.Logger
}

func NewCatalogService(db *gorm.DB, r *repos.Repos, baseLog *logger.Logger) *CatalogService {
	return &CatalogService{db: db, repos: r, log: baseLog.With("service", "CatalogService")}
}

func (s *CatalogService) ListOrgUnits(ctx context.Context, category types.OrganisationCategory) ([]*types.OrganisationUnit, error) {
	units, err := s.repos.OrgUnit.List(dbctx.New(ctx, nil), category)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return units, nil
}

func (s *CatalogService) CreateOrgUnit(ctx context.Context, in OrgUnitCreate) (*types.OrganisationUnit, error) {
	unit := &types.OrganisationUnit{
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
	}
	if err := s.repos.OrgUnit.Create(dbctx.New(ctx, nil), unit); err != nil {
		return nil, apierr.Internal(err)
	}
	return unit, nil
}

func (s *CatalogService) UpdateOrgUnit(ctx context.Context, id uuid.UUID, in OrgUnitUpdate) (*types.OrganisationUnit, error) {
	var updated *types.OrganisationUnit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx, tx)

		unit, err := s.repos.OrgUnit.GetByID(dbc, id)
		if err != nil {
			return apierr.Internal(err)
		}
		if unit == nil {
			return apierr.NotFound("Organisation unit not found")
		}

		if in.Name != nil {
			unit.Name = *in.Name
		}
		if in.Category != nil {
			unit.Category = *in.Category
		}
		if in.Description != nil {
			unit.Description = in.Description
		}

		if err := s.repos.OrgUnit.Update(dbc, unit); err != nil {
			return apierr.Internal(err)
		}
		updated = unit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteOrgUnit(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.New(ctx, nil)
	unit, err := s.repos.OrgUnit.GetByID(dbc, id)
	if err != nil {
		return apierr.Internal(err)
	}
	if unit == nil {
		return apierr.NotFound("Organisation unit not found")
	}
	if err := s.repos.OrgUnit.Delete(dbc, id); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

func (s *CatalogService) ListAssetTypes(ctx context.Context) ([]*types.AssetType, error) {
	assetTypes, err := s.repos.AssetType.List(dbctx.New(ctx, nil))
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return assetTypes, nil
}

func (s *CatalogService) CreateAssetType(ctx context.Context, in AssetTypeCreate) (*types.AssetType, error) {
	assetType := &types.AssetType{
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
	}
	if err := s.repos.AssetType.Create(dbctx.New(ctx, nil), assetType); err != nil {
		return nil, apierr.Internal(err)
	}
	return assetType, nil
}

func (s *CatalogService) UpdateAssetType(ctx context.Context, id uuid.UUID, in AssetTypeUpdate) (*types.AssetType, error) {
	var updated *types.AssetType
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx, tx)

		assetType, err := s.repos.AssetType.GetByID(dbc, id)
		if err != nil {
			return apierr.Internal(err)
		}
		if assetType == nil {
			return apierr.NotFound("Asset type not found")
		}

		if in.Name != nil {
			assetType.Name = *in.Name
		}
		if in.Category != nil {
			assetType.Category = *in.Category
		}
		if in.Description != nil {
			assetType.Description = in.Description
		}

		if err := s.repos.AssetType.Update(dbc, assetType); err != nil {
			return apierr.Internal(err)
		}
		updated = assetType
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteAssetType(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.New(ctx, nil)
	assetType, err := s.repos.AssetType.GetByID(dbc, id)
	if err != nil {
		return apierr.Internal(err)
	}
	if assetType == nil {
		return apierr.NotFound("Asset type not found")
	}
	if err := s.repos.AssetType.Delete(dbc, id); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

func (s *CatalogService) ListAssetModels(ctx context.Context, assetTypeID uuid.UUID) ([]*types.AssetModel, error) {
	models, err := s.repos.AssetModel.List(dbctx.New(ctx, nil), assetTypeID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return models, nil
}

func (s *CatalogService) CreateAssetModel(ctx context.Context, in AssetModelCreate) (*types.AssetModel, error) {
	dbc := dbctx.New(ctx, nil)

	assetType, err := s.repos.AssetType.GetByID(dbc, in.AssetTypeID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if assetType == nil {
		return nil, apierr.NotFound("Asset type not found")
	}

	model := &types.AssetModel{
		Manufacturer:       in.Manufacturer,
		ModelNumber:        in.ModelNumber,
		AssetTypeID:        in.AssetTypeID,
		DefaultDescription: in.DefaultDescription,
	}
	if err := s.repos.AssetModel.Create(dbc, model); err != nil {
		return nil, apierr.Internal(err)
	}
	return model, nil
}

func (s *CatalogService) UpdateAssetModel(ctx context.Context, id uuid.UUID, in AssetModelUpdate) (*types.AssetModel, error) {
	var updated *types.AssetModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx, tx)

		model, err := s.repos.AssetModel.GetByID(dbc, id)
		if err != nil {
			return apierr.Internal(err)
		}
		if model == nil {
			return apierr.NotFound("Asset model not found")
		}

		if in.Manufacturer != nil {
			model.Manufacturer = in.Manufacturer
		}
		if in.ModelNumber != nil {
			model.ModelNumber = *in.ModelNumber
		}
		if in.AssetTypeID != nil {
			model.AssetTypeID = *in.AssetTypeID
		}
		if in.DefaultDescription != nil {
			model.DefaultDescription = in.DefaultDescription
		}

		if err := s.repos.AssetModel.Update(dbc, model); err != nil {
			return apierr.Internal(err)
		}
		updated = model
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteAssetModel(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.New(ctx, nil)
	model, err := s.repos.AssetModel.GetByID(dbc, id)
	if err != nil {
		return apierr.Internal(err)
	}
	if model == nil {
		return apierr.NotFound("Asset model not found")
	}
	if err := s.repos.AssetModel.Delete(dbc, id); err != nil {
		return apierr.Internal(err)
	}
	return nil
}
