package repositories

import (
	"context"

	"github.com/mentorloop/mentorship-service/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository interface for matching profile operations
type ProfileRepository interface {
	// Basic CRUD operations
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, tx *gorm.DB, profile *models.Profile) error

	// Query operations
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []string) ([]*models.Profile, error)

	// Validation and checks
	ExistsByUserID(ctx context.Context, tx *gorm.DB, userID string) (bool, error)
}
