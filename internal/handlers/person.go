package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ironvale/inventory-backend/internal/data/repos"
	"github.com/ironvale/inventory-backend/internal/platform/apierr"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
	"github.com/ironvale/inventory-backend/internal/services"
)

type PersonHandler struct {
	log                *logger.Logger
	personService      *services.PersonService
	offboardingService *services.OffboardingService
}

func NewPersonHandler(
	log *logger.Logger,
	personService *services.PersonService,
	offboardingService *services.OffboardingService,
) *PersonHandler {
	return &PersonHandler{
		log:                log.With("handler", "PersonHandler"),
		personService:      personService,
		offboardingService: offboardingService,
	}
}

func (h *PersonHandler) List(c *gin.Context) {
	filter := repos.PersonListFilter{
		Search: c.Query("search"),
		Page:   queryInt(c, "page", 1),
		Size:   queryInt(c, "size", 100),
	}
	var err error
	if filter.DepartmentID, err = queryID(c, "department_id"); err != nil {
		RespondAppError(c, err)
		return
	}

	people, _, err := h.personService.List(c.Request.Context(), filter)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, people)
}

func (h *PersonHandler) Get(c *gin.Context) {
	id, err := pathID(c, "person_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	person, err := h.personService.Get(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, person)
}

func (h *PersonHandler) Create(c *gin.Context) {
	var in services.PersonCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondAppError(c, apierr.Validation("invalid person payload: %v", err))
		return
	}
	person, err := h.personService.Create(c.Request.Context(), in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, person)
}

func (h *PersonHandler) Update(c *gin.Context) {
	id, err := pathID(c, "person_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var in services.PersonUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondAppError(c, apierr.Validation("invalid person payload: %v", err))
		return
	}
	person, err := h.personService.Update(c.Request.Context(), id, in)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, person)
}

func (h *PersonHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "person_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if err := h.personService.Delete(c.Request.Context(), id); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondNoContent(c)
}

func (h *PersonHandler) ListAssignments(c *gin.Context) {
	id, err := pathID(c, "person_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	history, err := h.personService.AssignmentHistory(c.Request.Context(), id)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, history)
}

func (h *PersonHandler) Offboard(c *gin.Context) {
	id, err := pathID(c, "person_id")
	if err != nil {
		RespondAppError(c, err)
		return
	}
	var req services.OffboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondAppError(c, apierr.Validation("invalid offboarding payload: %v", err))
		return
	}
	processed, err := h.offboardingService.Offboard(c.Request.Context(), id, req)
	if err != nil {
		h.log.Error("Offboard failed", "person_id", id, "error", err)
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"processed_assets": processed})
}
