package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorship-service/internal/services"
	"github.com/mentorloop/mentorship-service/internal/utils"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

// SuccessResponse is the envelope for simple success payloads.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope for all error payloads.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries the shared handler plumbing: logging and the
// service-error to HTTP status mapping.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

// LogError logs an unexpected failure with the request-scoped logger.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromContext(c.Request.Context(), h.logger).Error(msg, args...)
}

// parseIDParam parses a numeric path parameter. On failure it writes a 400
// response and returns 0; callers must bail out on 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
		})
		return 0
	}
	return uint(id)
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// ParseStringIDParam parses a string path parameter. On failure it writes a
// 400 response and returns ""; callers must bail out on "".
func ParseStringIDParam(c *gin.Context, param string) string {
	id := c.Param(param)
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: param + " is required",
		})
	}
	return id
}

// currentUserID returns the authenticated user id, writing a 401 when the
// auth middleware did not run.
func (h *BaseHandler) currentUserID(c *gin.Context) (string, bool) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	return userID, true
}

// handleServiceError maps service-layer errors onto HTTP responses. Every
// handler funnels its service failures through here.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, services.ErrDuplicateActiveRequest) {
			status = http.StatusConflict
		}
		c.JSON(status, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule": businessRuleError.Rule,
			},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	// Not found
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
	case errors.Is(err, services.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Profile not found",
		})
	case errors.Is(err, services.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Availability slot not found",
		})
	case errors.Is(err, services.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Mentorship request not found",
		})
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Session not found",
		})

	// Request lifecycle
	case errors.Is(err, services.ErrDuplicateActiveRequest):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "An active request already exists for this mentor",
		})
	case errors.Is(err, services.ErrSelfMatchNotAllowed):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Mentee and mentor must be different users",
		})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Request is not in a state that allows this transition",
		})
	case errors.Is(err, services.ErrMentorNotActive):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Mentor is not an active user",
		})

	// Booking
	case errors.Is(err, services.ErrNoAvailability):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Mentor has no free availability slot",
			Details: map[string]interface{}{"retryable": true},
		})
	case errors.Is(err, services.ErrConcurrentBookingLost):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Slot was booked by a concurrent request",
			Details: map[string]interface{}{"retryable": true},
		})
	case errors.Is(err, services.ErrSlotConsumed):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Availability slot is already consumed",
		})
	case errors.Is(err, services.ErrSlotOverlap):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Slot overlaps an existing slot",
		})
	case errors.Is(err, services.ErrSlotNotOwned):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Availability slot does not belong to this mentor",
		})

	// Feedback
	case errors.Is(err, services.ErrSessionNotEnded):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Session has not ended yet",
		})
	case errors.Is(err, services.ErrFeedbackAlreadySet):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Rating and feedback can only be submitted once",
		})
	case errors.Is(err, services.ErrFeedbackNotProvided):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "At least one of rating or feedback is required",
		})

	case errors.Is(err, services.ErrNotificationFailed):
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Notification dispatch failed",
		})

	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
