package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorship-service/internal/services"
	"github.com/mentorloop/mentorship-service/internal/utils"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

type MatchHandler struct {
	BaseHandler
	matcherService services.MatcherService
	validator      *validator.Validator
}

func NewMatchHandler(
	matcherService services.MatcherService,
	validator *validator.Validator,
	logger utils.Logger,
) *MatchHandler {
	return &MatchHandler{
		BaseHandler:    NewBaseHandler(logger),
		matcherService: matcherService,
		validator:      validator,
	}
}

// Recommend returns ranked mentor candidates for the caller
// @Summary Recommend mentors
// @Description Ranks active mentors against the caller's profile
// @Tags matches
// @Accept json
// @Produce json
// @Param top_n query int false "Number of candidates" default(5)
// @Success 200 {object} SuccessResponse{data=[]services.Candidate}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/recommendations [get]
func (h *MatchHandler) Recommend(c *gin.Context) {
	h.LogRequest(c, "Recommending mentors")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	req := &validator.RecommendRequest{
		TopN: h.parseIntQuery(c, "top_n", 0),
	}

	candidates, err := h.matcherService.Recommend(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Recommendations computed",
		Data:    candidates,
	})
}
