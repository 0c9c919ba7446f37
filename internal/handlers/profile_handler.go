package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorship-service/internal/services"
	"github.com/mentorloop/mentorship-service/internal/utils"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

type ProfileHandler struct {
	BaseHandler
	profileService services.ProfileService
	validator      *validator.Validator
}

func NewProfileHandler(
	profileService services.ProfileService,
	validator *validator.Validator,
	logger utils.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
		validator:      validator,
	}
}

// GetMyProfile retrieves the caller's matching profile
// @Summary Get own profile
// @Tags profiles
// @Accept json
// @Produce json
// @Success 200 {object} services.ProfileResponse
// @Failure 404 {object} ErrorResponse
// @Router /profiles/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateMyProfile creates or updates the caller's matching profile
// @Summary Update own profile
// @Description Upserts bio, goals and skills used by the matcher
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body validator.ProfileUpdateRequest true "Profile data"
// @Success 200 {object} services.ProfileResponse
// @Failure 400 {object} ErrorResponse
// @Router /profiles/me [put]
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	h.LogRequest(c, "Updating profile")

	var req validator.ProfileUpdateRequest
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

	profile, err := h.profileService.Update(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfile retrieves another user's profile
// @Summary Get a user's profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} services.ProfileResponse
// @Failure 404 {object} ErrorResponse
// @Router /profiles/{user_id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := ParseStringIDParam(c, "user_id")
	if userID == "" {
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
