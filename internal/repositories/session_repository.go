package repositories

import (
	"context"

	"github.com/mentorloop/mentorship-service/internal/models"
	"gorm.io/gorm"
)

// SessionRepository interface for booked session operations
type SessionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, session *models.Session) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Session, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Session, error) // Include request, slot, participants
	GetByRequestID(ctx context.Context, tx *gorm.DB, requestID uint) (*models.Session, error)
	Update(ctx context.Context, tx *gorm.DB, session *models.Session) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters SessionFilters) ([]*models.Session, int64, error)
	GetByParticipant(ctx context.Context, tx *gorm.DB, userID string, filters SessionFilters) ([]*models.Session, int64, error)

	// Statistics
	GetMentorStats(ctx context.Context, tx *gorm.DB, mentorID string) (*MentorStats, error)
}
