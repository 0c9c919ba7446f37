package repositories

import (
	"context"
	"time"

	"github.com/mentorloop/mentorship-service/internal/models"
	"gorm.io/gorm"
)

// SlotRepository interface for availability slot operations
type SlotRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, slot *models.AvailabilitySlot) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AvailabilitySlot, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters SlotFilters) ([]*models.AvailabilitySlot, int64, error)
	GetByMentor(ctx context.Context, tx *gorm.DB, mentorID string, filters SlotFilters) ([]*models.AvailabilitySlot, int64, error)
	GetEarliestFree(ctx context.Context, tx *gorm.DB, mentorID string) (*models.AvailabilitySlot, error)
	CountFree(ctx context.Context, tx *gorm.DB, mentorID string) (int64, error)

	// Booking support. ConsumeIfFree flips consumed with a conditional
	// update and reports whether this caller won the slot.
	ConsumeIfFree(ctx context.Context, tx *gorm.DB, id uint) (bool, error)

	// Validation and checks
	HasOverlap(ctx context.Context, tx *gorm.DB, mentorID string, startAt, endAt time.Time) (bool, error)
}
