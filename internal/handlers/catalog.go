package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/apierr"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
	"github.com/ironvale/inventory-backend/internal/services"
)

// CatalogHandler serves the reference entities under /metadata.
type CatalogHandler struct {
	log            *logger.Logger
	catalogService *services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		log:            log.With("handler", "CatalogHandler"),
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListOrgUnits(c *gin.Context) {
	units, err := h.catalogService.ListOrgUnits(
		c.Request.Context(),
		types.OrganisationCategory(c.Query("category")),
	)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, units)
}

func (h *CatalogHandler) CreateOrgUnit(c *gin.Context) {
	var in services.OrgUnitCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondAppError(c, apierr.Validation("invalid organisation unit payload: %v", err))
		return
	}
	unit, err := h.catalogService.CreateOrgUnit(c.Request.Context(), in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, unit)
}

func (h *CatalogHandler) UpdateOrgUnit(c *gin.Context) {
	id, err := pathID(c, "unit_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var in services.OrgUnitUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondAppError(c, apierr.Validation("invalid organisation unit payload: %v", err))
		return
	}
	unit, err := h.catalogService.UpdateOrgUnit(c.Request.Context(), id, in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, unit)
}

func (h *CatalogHandler) DeleteOrgUnit(c *gin.Context) {
	id, err := pathID(c, "unit_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if err := h.catalogService.DeleteOrgUnit(c.Request.Context(), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *CatalogHandler) ListAssetTypes(c *gin.Context) {
	assetTypes, err := h.catalogService.ListAssetTypes(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, assetTypes)
}

func (h *CatalogHandler) CreateAssetType(c *gin.Context) {
	var in services.AssetTypeCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondAppError(c, apierr.Validation("invalid asset type payload: %v", err))
		return
	}
	assetType, err := h.catalogService.CreateAssetType(c.Request.Context(), in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, assetType)
}

func (h *CatalogHandler) UpdateAssetType(c *gin.Context) {
	id, err := pathID(c, "type_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var in services.AssetTypeUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondAppError(c, apierr.Validation("invalid asset type payload: %v", err))
		return
	}
	assetType, err := h.catalogService.UpdateAssetType(c.Request.Context(), id, in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, assetType)
}

func (h *CatalogHandler) DeleteAssetType(c *gin.Context) {
	id, err := pathID(c, "type_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if err := h.catalogService.DeleteAssetType(c.Request.Context(), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *CatalogHandler) ListAssetModels(c *gin.Context) {
	assetTypeID, err := queryID(c, "asset_type_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	models, err := h.catalogService.ListAssetModels(c.Request.Context(), assetTypeID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, models)
}

func (h *CatalogHandler) CreateAssetModel(c *gin.Context) {
	var in services.AssetModelCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondAppError(c, apierr.Validation("invalid asset model payload: %v", err))
		return
	}
	model, err := h.catalogService.CreateAssetModel(c.Request.Context(), in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, model)
}

func (h *CatalogHandler) UpdateAssetModel(c *gin.Context) {
	id, err := pathID(c, "model_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var in services.AssetModelUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondAppError(c, apierr.Validation("invalid asset model payload: %v", err))
		return
	}
	model, err := h.catalogService.UpdateAssetModel(c.Request.Context(), id, in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, model)
}

func (h *CatalogHandler) DeleteAssetModel(c *gin.Context) {
	id, err := pathID(c, "model_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if err := h.catalogService.DeleteAssetModel(c.Request.Context(), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondNoContent(c)
}
