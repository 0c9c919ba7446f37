package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/services"
	"github.com/mentorloop/mentorship-service/internal/utils"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

type SessionHandler struct {
	BaseHandler
	sessionService   services.SessionService
	schedulerService services.SchedulerService
	validator        *validator.Validator
}

func NewSessionHandler(
	sessionService services.SessionService,
	schedulerService services.SchedulerService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:      NewBaseHandler(logger),
		sessionService:   sessionService,
		schedulerService: schedulerService,
		validator:        validator,
	}
}

// GetSession retrieves a session by ID
// @Summary Get session
// @Description Retrieves a session visible to its participants and admins
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting session", "session_id", id)

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ListMySessions lists the caller's sessions on either side of the match
// @Summary List own sessions
// @Tags sessions
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param rated query bool false "Filter by rated state"
// @Success 200 {object} services.SessionListResponse
// @Router /sessions [get]
func (h *SessionHandler) ListMySessions(c *gin.Context) {
	h.LogRequest(c, "Listing own sessions")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filters := h.parseSessionFilters(c)
	sessions, err := h.sessionService.ListByUser(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// SubmitFeedback records the one-shot post-session rating and feedback
// @Summary Submit session feedback
// @Description Records rating and feedback once the session has ended
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path uint true "Session ID"
// @Param feedback body validator.SessionFeedbackRequest true "Feedback data"
// @Success 200 {object} services.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/feedback [post]
func (h *SessionHandler) SubmitFeedback(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Submitting session feedback", "session_id", id)

	var req validator.SessionFeedbackRequest
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

	session, err := h.sessionService.SubmitFeedback(c.Request.Context(), id, userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// BookSession books a session for an already-accepted request
// @Summary Book session for accepted request
// @Description Binds a slot to an accepted request; idempotent for already-booked requests
// @Tags sessions
// @Accept json
// @Produce json
// @Param request_id path uint true "Request ID"
// @Param body body validator.AcceptRequestRequest false "Optional slot pin"
// @Success 200 {object} services.SessionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/book/{request_id} [post]
func (h *SessionHandler) BookSession(c *gin.Context) {
	requestID := h.parseIDParam(c, "request_id")
	if requestID == 0 {
		return
	}

	h.LogRequest(c, "Booking session", "request_id", requestID)

	var req validator.AcceptRequestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid request payload",
				Details: err.Error(),
			})
			return
		}
	}

	session, err := h.schedulerService.BindAndBook(c.Request.Context(), requestID, req.SlotID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ===== HELPER METHODS =====

func (h *SessionHandler) parseSessionFilters(c *gin.Context) repositories.SessionFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 10)

	filters := repositories.SessionFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if ratedStr := c.Query("rated"); ratedStr != "" {
		rated := ratedStr == "true"
		filters.Rated = &rated
	}

	return filters
}
