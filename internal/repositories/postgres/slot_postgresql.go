package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mentorloop/mentorship-service/internal/cache"
	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
)

type SlotPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewSlotPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.SlotRepository {
	return &SlotPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (s *SlotPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *SlotPostgreSQL) Create(ctx context.Context, tx *gorm.DB, slot *models.AvailabilitySlot) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Create(slot).Error; err != nil {
		return err
	}
	cache.InvalidateSlotCache(ctx, s.cacheManager, slot.MentorID)
	return nil
}

func (s *SlotPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AvailabilitySlot, error) {
	db := s.getDB(tx)
	var slot models.AvailabilitySlot
	if err := db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (s *SlotPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := s.getDB(tx)
	slot, err := s.GetByID(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Delete(&models.AvailabilitySlot{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateSlotCache(ctx, s.cacheManager, slot.MentorID)
	return nil
}

func (s *SlotPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.SlotFilters) ([]*models.AvailabilitySlot, int64, error) {
	db := s.getDB(tx)
	var slots []*models.AvailabilitySlot
	var total int64

	// apply filter first
	query := db.WithContext(ctx).Model(&models.AvailabilitySlot{})
	query = s.helpers.ApplySlotFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "start_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder == "" {
		sortOrder = "asc"
	}
	query = s.helpers.ApplyPaginationAndSort(query, sortBy, sortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&slots).Error; err != nil {
		return nil, 0, err
	}

	return slots, total, nil
}

func (s *SlotPostgreSQL) GetByMentor(ctx context.Context, tx *gorm.DB, mentorID string, filters repositories.SlotFilters) ([]*models.AvailabilitySlot, int64, error) {
	filters.MentorID = &mentorID
	return s.List(ctx, tx, filters)
}

// GetEarliestFree returns the free slot with the smallest start_at for a
// mentor, locking the row so competing bookings serialize on it.
func (s *SlotPostgreSQL) GetEarliestFree(ctx context.Context, tx *gorm.DB, mentorID string) (*models.AvailabilitySlot, error) {
	db := s.getDB(tx)
	var slot models.AvailabilitySlot
	query := db.WithContext(ctx).
		Where("mentor_id = ? AND consumed = ?", mentorID, false).
		Order("start_at ASC")
	if tx != nil {
		query = query.Clauses(forUpdateClause())
	}
	if err := query.First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (s *SlotPostgreSQL) CountFree(ctx context.Context, tx *gorm.DB, mentorID string) (int64, error) {
	db := s.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.AvailabilitySlot{}).
		Where("mentor_id = ? AND consumed = ?", mentorID, false).
		Count(&count).Error
	return count, err
}

// ConsumeIfFree atomically flips the consumed flag. The WHERE clause is
// the concurrency guard: only one caller observes RowsAffected == 1, every
// other concurrent booking of the same slot sees 0 and loses.
func (s *SlotPostgreSQL) ConsumeIfFree(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := s.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.AvailabilitySlot{}).
		Where("id = ? AND consumed = ?", id, false).
		Update("consumed", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume slot: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (s *SlotPostgreSQL) HasOverlap(ctx context.Context, tx *gorm.DB, mentorID string, startAt, endAt time.Time) (bool, error) {
	db := s.getDB(tx)
	var count int64
	// Half-open intervals [start_at, end_at) overlap when each starts
	// before the other ends.
	err := db.WithContext(ctx).
		Model(&models.AvailabilitySlot{}).
		Where("mentor_id = ? AND start_at < ? AND ? < end_at", mentorID, endAt, startAt).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
