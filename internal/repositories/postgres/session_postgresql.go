package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
)

type SessionPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (s *SessionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *SessionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, session *models.Session) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Create(session).Error
}

func (s *SessionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Session, error) {
	db := s.getDB(tx)
	var session models.Session
	if err := db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Session, error) {
	db := s.getDB(tx)
	var session models.Session
	if err := db.WithContext(ctx).
		Preload("Request").
		Preload("Slot").
		Preload("Mentor").
		Preload("Mentee").
		First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetByRequestID(ctx context.Context, tx *gorm.DB, requestID uint) (*models.Session, error) {
	db := s.getDB(tx)
	var session models.Session
	if err := db.WithContext(ctx).
		Where("request_id = ?", requestID).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, session *models.Session) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Save(session).Error
}

func (s *SessionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	db := s.getDB(tx)
	var sessions []*models.Session
	var total int64

	// apply filter first
	query := db.WithContext(ctx).Model(&models.Session{})
	query = s.helpers.ApplySessionFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = s.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Preload("Slot").Preload("Mentor").Preload("Mentee").Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (s *SessionPostgreSQL) GetByParticipant(ctx context.Context, tx *gorm.DB, userID string, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	db := s.getDB(tx)
	var sessions []*models.Session
	var total int64

	query := db.WithContext(ctx).
		Model(&models.Session{}).
		Where("mentor_id = ? OR mentee_id = ?", userID, userID)
	query = s.helpers.ApplySessionFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = s.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Preload("Slot").Preload("Mentor").Preload("Mentee").Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (s *SessionPostgreSQL) GetMentorStats(ctx context.Context, tx *gorm.DB, mentorID string) (*repositories.MentorStats, error) {
	db := s.getDB(tx)
	stats := &repositories.MentorStats{}

	var totalSlots, freeSlots int64
	if err := db.WithContext(ctx).
		Model(&models.AvailabilitySlot{}).
		Where("mentor_id = ?", mentorID).
		Count(&totalSlots).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).
		Model(&models.AvailabilitySlot{}).
		Where("mentor_id = ? AND consumed = ?", mentorID, false).
		Count(&freeSlots).Error; err != nil {
		return nil, err
	}
	stats.TotalSlots = int(totalSlots)
	stats.FreeSlots = int(freeSlots)

	var pending, accepted int64
	if err := db.WithContext(ctx).
		Model(&models.MentorshipRequest{}).
		Where("mentor_id = ? AND status = ?", mentorID, models.RequestPending).
		Count(&pending).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).
		Model(&models.MentorshipRequest{}).
		Where("mentor_id = ? AND status = ?", mentorID, models.RequestAccepted).
		Count(&accepted).Error; err != nil {
		return nil, err
	}
	stats.PendingRequests = int(pending)
	stats.AcceptedRequests = int(accepted)

	var sessionCount int64
	if err := db.WithContext(ctx).
		Model(&models.Session{}).
		Where("mentor_id = ?", mentorID).
		Count(&sessionCount).Error; err != nil {
		return nil, err
	}
	stats.SessionCount = int(sessionCount)

	type ratingAgg struct {
		Avg   float64
		Count int
	}
	var agg ratingAgg
	err := db.WithContext(ctx).
		Model(&models.Session{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(rating) as count").
		Where("mentor_id = ? AND rating IS NOT NULL", mentorID).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	stats.AverageRating = agg.Avg
	stats.RatedSessions = agg.Count

	return stats, nil
}
