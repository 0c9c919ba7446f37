package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mentorloop/mentorship-service/internal/config"
	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/services"
	"github.com/mentorloop/mentorship-service/internal/utils"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

type HandlerManager struct {
	profileHandler *ProfileHandler
	matchHandler   *MatchHandler
	requestHandler *RequestHandler
	slotHandler    *SlotHandler
	sessionHandler *SessionHandler
	userHandler    *UserHandler
	adminHandler   *AdminHandler
	authMiddleware *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	repo repositories.Repository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, repo.User())

	return &HandlerManager{
		profileHandler: NewProfileHandler(serviceManager.Profile(), validator, logger),
		matchHandler:   NewMatchHandler(serviceManager.Matcher(), validator, logger),
		requestHandler: NewRequestHandler(serviceManager.Request(), validator, logger),
		slotHandler:    NewSlotHandler(serviceManager.Slot(), validator, logger),
		sessionHandler: NewSessionHandler(serviceManager.Session(), serviceManager.Scheduler(), validator, logger),
		userHandler:    NewUserHandler(repo.User(), logger),
		adminHandler:   NewAdminHandler(serviceManager.Request(), serviceManager.Export(), serviceManager.NotificationEvent(), repo, validator, logger),
		authMiddleware: authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Profile routes - every authenticated user owns one
		profiles := v1.Group("/profiles")
		{
			profiles.GET("/me", hm.profileHandler.GetMyProfile)
			profiles.PUT("/me", hm.profileHandler.UpdateMyProfile)
			profiles.GET("/:user_id", hm.profileHandler.GetProfile)
		}

		// Matching routes - mentees ask for recommendations
		matches := v1.Group("/matches")
		{
			matches.GET("/recommendations", hm.matchHandler.Recommend)
		}

		// Request lifecycle routes
		requests := v1.Group("/requests")
		{
			requests.POST("", hm.requestHandler.SubmitRequest)
			requests.GET("/sent", hm.requestHandler.ListSentRequests)
			requests.GET("/received", hm.requestHandler.ListReceivedRequests)
			requests.GET("/:id", hm.requestHandler.GetRequest)

			// Transitions - only the addressed mentor passes the ownership
			// check inside the service
			requests.POST("/:id/accept", hm.authMiddleware.RequireRoleMiddleware(models.RoleMentor), hm.requestHandler.AcceptRequest)
			requests.POST("/:id/reject", hm.authMiddleware.RequireRoleMiddleware(models.RoleMentor), hm.requestHandler.RejectRequest)
		}

		// Slot routes - mentors manage their availability
		slots := v1.Group("/slots")
		{
			slots.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleMentor), hm.slotHandler.CreateSlot)
			slots.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleMentor), hm.slotHandler.ListMySlots)
			slots.GET("/:id", hm.slotHandler.GetSlot)
			slots.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleMentor), hm.slotHandler.DeleteSlot)
			slots.GET("/mentor/:mentor_id/free", hm.slotHandler.ListMentorFreeSlots)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.GET("", hm.sessionHandler.ListMySessions)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/feedback", hm.sessionHandler.SubmitFeedback)
			sessions.POST("/book/:request_id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.sessionHandler.BookSession)
		}

		// User routes (read-only, identity lives in Casdoor)
		users := v1.Group("/users")
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/mentors", hm.userHandler.ListMentors)
			users.GET("/:id", hm.userHandler.GetUser)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.POST("/matches", hm.adminHandler.AdminMatch)
			admin.GET("/mentors/:mentor_id/stats", hm.adminHandler.GetMentorStats)
			admin.GET("/mentors/:mentor_id/request-stats", hm.adminHandler.GetRequestStats)
			admin.GET("/sessions/export", hm.adminHandler.ExportSessions)
			admin.POST("/notifications", hm.adminHandler.SendBulkNotification)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "mentorship-service",
		})
	})
}
