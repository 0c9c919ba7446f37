package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/services"
	"github.com/mentorloop/mentorship-service/internal/utils"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

type RequestHandler struct {
	BaseHandler
	requestService services.RequestService
	validator      *validator.Validator
}

func NewRequestHandler(
	requestService services.RequestService,
	validator *validator.Validator,
	logger utils.Logger,
) *RequestHandler {
	return &RequestHandler{
		BaseHandler:    NewBaseHandler(logger),
		requestService: requestService,
		validator:      validator,
	}
}

// SubmitRequest opens a mentorship request toward a mentor
// @Summary Submit mentorship request
// @Description Opens a PENDING request from the caller toward a mentor
// @Tags requests
// @Accept json
// @Produce json
// @Param request body validator.SubmitRequestRequest true "Request data"
// @Success 201 {object} services.RequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /requests [post]
func (h *RequestHandler) SubmitRequest(c *gin.Context) {
	h.LogRequest(c, "Submitting mentorship request")

	var req validator.SubmitRequestRequest
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

	request, err := h.requestService.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// AcceptRequest accepts a pending request and books a session
// @Summary Accept mentorship request
// @Description Accepts a PENDING request addressed to the caller and books a session atomically
// @Tags requests
// @Accept json
// @Produce json
// @Param id path uint true "Request ID"
// @Param body body validator.AcceptRequestRequest false "Optional slot pin"
// @Success 200 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /requests/{id}/accept [post]
func (h *RequestHandler) AcceptRequest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Accepting mentorship request", "request_id", id)

	// Body is optional; without one the earliest free slot is booked
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

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	session, err := h.requestService.Accept(c.Request.Context(), id, userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// RejectRequest rejects a pending request
// @Summary Reject mentorship request
// @Description Rejects a PENDING request addressed to the caller
// @Tags requests
// @Accept json
// @Produce json
// @Param id path uint true "Request ID"
// @Success 200 {object} services.RequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /requests/{id}/reject [post]
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Rejecting mentorship request", "request_id", id)

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	request, err := h.requestService.Reject(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// GetRequest retrieves a request by ID
// @Summary Get mentorship request
// @Description Retrieves a request visible to its participants and admins
// @Tags requests
// @Accept json
// @Produce json
// @Param id path uint true "Request ID"
// @Success 200 {object} services.RequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /requests/{id} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting mentorship request", "request_id", id)

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	request, err := h.requestService.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// ListSentRequests lists requests the caller submitted as a mentee
// @Summary List sent requests
// @Description Lists the caller's outgoing mentorship requests
// @Tags requests
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param status query string false "Request status"
// @Success 200 {object} services.RequestListResponse
// @Router /requests/sent [get]
func (h *RequestHandler) ListSentRequests(c *gin.Context) {
	h.LogRequest(c, "Listing sent requests")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filters := h.parseRequestFilters(c)
	requests, err := h.requestService.ListByMentee(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// ListReceivedRequests lists requests addressed to the caller as a mentor
// @Summary List received requests
// @Description Lists the caller's incoming mentorship requests
// @Tags requests
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Param status query string false "Request status"
// @Success 200 {object} services.RequestListResponse
// @Router /requests/received [get]
func (h *RequestHandler) ListReceivedRequests(c *gin.Context) {
	h.LogRequest(c, "Listing received requests")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filters := h.parseRequestFilters(c)
	requests, err := h.requestService.ListByMentor(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// ===== HELPER METHODS =====

func (h *RequestHandler) parseRequestFilters(c *gin.Context) repositories.RequestFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 10)

	filters := repositories.RequestFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		requestStatus := models.RequestStatus(status)
		filters.Status = &requestStatus
	}

	if from := c.Query("date_from"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			filters.DateFrom = &parsed
		}
	}
	if to := c.Query("date_to"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			filters.DateTo = &parsed
		}
	}

	return filters
}
