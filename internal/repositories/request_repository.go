package repositories

import (
	"context"
	"time"

	"github.com/mentorloop/mentorship-service/internal/models"
	"gorm.io/gorm"
)

// RequestRepository interface for mentorship request operations
type RequestRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, request *models.MentorshipRequest) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.MentorshipRequest, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.MentorshipRequest, error) // Include mentee, mentor, session

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters RequestFilters) ([]*models.MentorshipRequest, int64, error)
	GetByMentee(ctx context.Context, tx *gorm.DB, menteeID string, filters RequestFilters) ([]*models.MentorshipRequest, int64, error)
	GetByMentor(ctx context.Context, tx *gorm.DB, mentorID string, filters RequestFilters) ([]*models.MentorshipRequest, int64, error)
	GetActiveByPair(ctx context.Context, tx *gorm.DB, menteeID, mentorID string) (*models.MentorshipRequest, error)
	GetPendingOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) ([]*models.MentorshipRequest, error)

	// State transitions. UpdateStatusIf only moves a request that is still
	// in the expected status and reports whether the row changed.
	UpdateStatusIf(ctx context.Context, tx *gorm.DB, id uint, from, to models.RequestStatus) (bool, error)

	// Statistics
	GetStats(ctx context.Context, tx *gorm.DB, mentorID string) (*RequestStats, error)
}
