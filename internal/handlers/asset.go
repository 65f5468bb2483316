package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	types "github.com/ironvale/inventory-backend/internal/domain"
	"github.com/ironvale/inventory-backend/internal/platform/apierr"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
	"github.com/ironvale/inventory-backend/internal/services"
)

type AssetHandler struct {
	log          *logger.Logger
	assetService *services.AssetService
}

func NewAssetHandler(log *logger.Logger, assetService *services.AssetService) *AssetHandler {
	return &AssetHandler{
		log:          log.With("handler", "AssetHandler"),
		assetService: assetService,
	}
}

type assetListResponse struct {
	Items []*types.Asset `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

func (h *AssetHandler) List(c *gin.Context) {
	filter := repos.AssetListFilter{
		Status: types.AssetStatus(c.Query("status")),
		Search: c.Query("search"),
		Page:   queryInt(c, "page", 1),
		Size:   queryInt(c, "size", 25),
	}

	var err error
	if filter.AssetTypeID, err = queryID(c, "asset_type_id"); err != nil {
		RespondAppError(c, err)
		return
	}
	if filter.LocationID, err = queryID(c, "location_id"); err != nil {
		RespondAppError(c, err)
		return
	}
	if filter.PersonID, err = queryID(c, "person_id"); err != nil {
		RespondAppError(c, err)
		return
	}

	items, total, err := h.assetService.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("List failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, assetListResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
	})
}

func (h *AssetHandler) Get(c *gin.Context) {
	id, err := pathID(c, "asset_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	asset, err := h.assetService.Get(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, asset)
}

func (h *AssetHandler) Create(c *gin.Context) {
	var in services.AssetCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondAppError(c, apierr.Validation("invalid asset payload: %v", err))
		return
	}
	asset, err := h.assetService.Create(c.Request.Context(), in)
	if err != nil {
		h.log.Error("Create failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, asset)
}

func (h *AssetHandler) Update(c *gin.Context) {
	id, err := pathID(c, "asset_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var in services.AssetUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondAppError(c, apierr.Validation("invalid asset payload: %v", err))
		return
	}
	asset, err := h.assetService.Update(c.Request.Context(), id, in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, asset)
}

func (h *AssetHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "asset_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if err := h.assetService.Delete(c.Request.Context(), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *AssetHandler) Transition(c *gin.Context) {
	id, err := pathID(c, "asset_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var req services.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondAppError(c, apierr.Validation("invalid transition payload: %v", err))
		return
	}
	asset, err := h.assetService.Transition(c.Request.Context(), id, req)
	if err != nil {
		h.log.Error("Transition failed", "asset_id", id, "action", req.Action, "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, asset)
}

func (h *AssetHandler) ListEvents(c *gin.Context) {
	id, err := pathID(c, "asset_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	events, err := h.assetService.ListEvents(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, events)
}
