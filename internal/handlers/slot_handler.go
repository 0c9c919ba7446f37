package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/services"
	"github.com/mentorloop/mentorship-service/internal/utils"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

type SlotHandler struct {
	BaseHandler
	slotService services.SlotService
	validator   *validator.Validator
}

func NewSlotHandler(
	slotService services.SlotService,
	validator *validator.Validator,
	logger utils.Logger,
) *SlotHandler {
	return &SlotHandler{
		BaseHandler: NewBaseHandler(logger),
		slotService: slotService,
		validator:   validator,
	}
}

// CreateSlot declares a new availability slot for the calling mentor
// @Summary Create availability slot
// @Description Declares a non-overlapping availability interval for the caller
// @Tags slots
// @Accept json
// @Produce json
// @Param slot body validator.SlotCreateRequest true "Slot data"
// @Success 201 {object} services.SlotResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /slots [post]
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	h.LogRequest(c, "Creating availability slot")

	var req validator.SlotCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	slot, err := h.slotService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// DeleteSlot removes an unconsumed slot owned by the caller
// @Summary Delete availability slot
// @Description Removes an unconsumed slot owned by the caller
// @Tags slots
// @Accept json
// @Produce json
// @Param id path uint true "Slot ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /slots/{id} [delete]
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting availability slot", "slot_id", id)

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.slotService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Slot deleted successfully",
	})
}

// GetSlot retrieves a slot by ID
// @Summary Get availability slot
// @Tags slots
// @Accept json
// @Produce json
// @Param id path uint true "Slot ID"
// @Success 200 {object} services.SlotResponse
// @Failure 404 {object} ErrorResponse
// @Router /slots/{id} [get]
func (h *SlotHandler) GetSlot(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	slot, err := h.slotService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, slot)
}

// ListMySlots lists the calling mentor's slots
// @Summary List own slots
// @Description Lists the caller's availability slots, consumed or not
// @Tags slots
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param consumed query bool false "Filter by consumed state"
// @Success 200 {object} services.SlotListResponse
// @Router /slots [get]
func (h *SlotHandler) ListMySlots(c *gin.Context) {
	h.LogRequest(c, "Listing own slots")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filters := h.parseSlotFilters(c)
	slots, err := h.slotService.ListByMentor(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

// ListMentorFreeSlots lists the free slots of a given mentor
// @Summary List a mentor's free slots
// @Description Lists the unconsumed slots of a mentor, earliest first
// @Tags slots
// @Accept json
// @Produce json
// @Param mentor_id path string true "Mentor ID"
// @Success 200 {object} SuccessResponse{data=[]services.SlotResponse}
// @Failure 400 {object} ErrorResponse
// @Router /slots/mentor/{mentor_id}/free [get]
func (h *SlotHandler) ListMentorFreeSlots(c *gin.Context) {
	mentorID := ParseStringIDParam(c, "mentor_id")
	if mentorID == "" {
		return
	}

	h.LogRequest(c, "Listing free slots", "mentor_id", mentorID)

	slots, err := h.slotService.ListFree(c.Request.Context(), mentorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Free slots retrieved successfully",
		Data:    slots,
	})
}

// ===== HELPER METHODS =====

func (h *SlotHandler) parseSlotFilters(c *gin.Context) repositories.SlotFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 10)

	filters := repositories.SlotFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if consumedStr := c.Query("consumed"); consumedStr != "" {
		consumed := consumedStr == "true"
		filters.Consumed = &consumed
	}

	if from := c.Query("start_from"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			filters.StartFrom = &parsed
		}
	}
	if to := c.Query("start_to"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			filters.StartTo = &parsed
		}
	}

	return filters
}
