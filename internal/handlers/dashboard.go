package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ironvale/inventory-backend/internal/platform/logger"
	"github.com/ironvale/inventory-backend/internal/services"
)

type DashboardHandler struct {
	log              *logger.Logger
	dashboardService *services.DashboardService
}

func NewDashboardHandler(log *logger.Logger, dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		log:              log.With("handler", "DashboardHandler"),
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		h.log.Error("Summary failed", "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, summary)
}
