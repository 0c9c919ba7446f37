package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/services"
	"github.com/mentorloop/mentorship-service/internal/utils"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

// AdminHandler groups the operator-only surface: direct matchmaking,
// reporting and bulk notifications.
type AdminHandler struct {
	BaseHandler
	requestService services.RequestService
	exportService  services.ExportService
	notifier       services.NotificationEventService
	repo           repositories.Repository
	validator      *validator.Validator
}

func NewAdminHandler(
	requestService services.RequestService,
	exportService services.ExportService,
	notifier services.NotificationEventService,
	repo repositories.Repository,
	validator *validator.Validator,
	logger utils.Logger,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    NewBaseHandler(logger),
		requestService: requestService,
		exportService:  exportService,
		notifier:       notifier,
		repo:           repo,
		validator:      validator,
	}
}

// AdminMatch creates and immediately accepts a request for a pair
// @Summary Admin matchmaking
// @Description Creates a request for a (mentee, mentor) pair and books the mentor's earliest free slot
// @Tags admin
// @Accept json
// @Produce json
// @Param match body validator.AdminMatchRequest true "Match data"
// @Success 201 {object} services.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/matches [post]
func (h *AdminHandler) AdminMatch(c *gin.Context) {
	h.LogRequest(c, "Admin matchmaking")

	var req validator.AdminMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	adminID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	session, err := h.requestService.AdminMatch(c.Request.Context(), adminID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetMentorStats returns workload and rating statistics for one mentor
// @Summary Mentor statistics
// @Tags admin
// @Accept json
// @Produce json
// @Param mentor_id path string true "Mentor ID"
// @Success 200 {object} SuccessResponse{data=repositories.MentorStats}
// @Failure 400 {object} ErrorResponse
// @Router /admin/mentors/{mentor_id}/stats [get]
func (h *AdminHandler) GetMentorStats(c *gin.Context) {
	mentorID := ParseStringIDParam(c, "mentor_id")
	if mentorID == "" {
		return
	}

	h.LogRequest(c, "Getting mentor stats", "mentor_id", mentorID)

	stats, err := h.repo.Session().GetMentorStats(c.Request.Context(), nil, mentorID)
	if err != nil {
		h.LogError(c, err, "Failed to get mentor stats")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to get mentor stats",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Mentor stats retrieved successfully",
		Data:    stats,
	})
}

// GetRequestStats returns the request funnel for one mentor
// @Summary Request statistics
// @Tags admin
// @Accept json
// @Produce json
// @Param mentor_id path string true "Mentor ID"
// @Success 200 {object} SuccessResponse{data=repositories.RequestStats}
// @Failure 400 {object} ErrorResponse
// @Router /admin/mentors/{mentor_id}/request-stats [get]
func (h *AdminHandler) GetRequestStats(c *gin.Context) {
	mentorID := ParseStringIDParam(c, "mentor_id")
	if mentorID == "" {
		return
	}

	h.LogRequest(c, "Getting request stats", "mentor_id", mentorID)

	stats, err := h.repo.Request().GetStats(c.Request.Context(), nil, mentorID)
	if err != nil {
		h.LogError(c, err, "Failed to get request stats")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to get request stats",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Request stats retrieved successfully",
		Data:    stats,
	})
}

// ExportSessions streams all matching sessions as an xlsx workbook
// @Summary Export sessions
// @Description Renders sessions matching the filters into a spreadsheet
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param mentor_id query string false "Mentor ID"
// @Param mentee_id query string false "Mentee ID"
// @Param rated query bool false "Filter by rated state"
// @Success 200 {file} binary
// @Router /admin/sessions/export [get]
func (h *AdminHandler) ExportSessions(c *gin.Context) {
	h.LogRequest(c, "Exporting sessions")

	filters := repositories.SessionFilters{}
	if mentorID := c.Query("mentor_id"); mentorID != "" {
		filters.MentorID = &mentorID
	}
	if menteeID := c.Query("mentee_id"); menteeID != "" {
		filters.MenteeID = &menteeID
	}
	if ratedStr := c.Query("rated"); ratedStr != "" {
		rated := ratedStr == "true"
		filters.Rated = &rated
	}

	data, err := h.exportService.ExportSessions(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("sessions-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// BulkNotificationRequest is the admin fan-out payload.
type BulkNotificationRequest struct {
	UserIDs      []string                      `json:"user_ids" validate:"required,min=1,max=1000"`
	Notification *services.NotificationRequest `json:"notification" validate:"required"`
}

// SendBulkNotification fans a notification out to a list of users
// @Summary Send bulk notification
// @Tags admin
// @Accept json
// @Produce json
// @Param notification body BulkNotificationRequest true "Notification data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /admin/notifications [post]
func (h *AdminHandler) SendBulkNotification(c *gin.Context) {
	h.LogRequest(c, "Sending bulk notification")

	var req BulkNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	if err := h.notifier.SendBulkNotification(c.Request.Context(), req.UserIDs, req.Notification); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Notification queued successfully",
	})
}
