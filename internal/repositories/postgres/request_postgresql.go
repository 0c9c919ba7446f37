package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
)

type RequestPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewRequestPostgreSQL(db *gorm.DB) repositories.RequestRepository {
	return &RequestPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (r *RequestPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *RequestPostgreSQL) Create(ctx context.Context, tx *gorm.DB, request *models.MentorshipRequest) error {
	db := r.getDB(tx)
	return db.WithContext(ctx).Create(request).Error
}

func (r *RequestPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.MentorshipRequest, error) {
	db := r.getDB(tx)
	var request models.MentorshipRequest
	if err := db.WithContext(ctx).First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *RequestPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.MentorshipRequest, error) {
	db := r.getDB(tx)
	var request models.MentorshipRequest
	if err := db.WithContext(ctx).
		Preload("Mentee").
		Preload("Mentor").
		Preload("Session").
		First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *RequestPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.RequestFilters) ([]*models.MentorshipRequest, int64, error) {
	db := r.getDB(tx)
	var requests []*models.MentorshipRequest
	var total int64

	// apply filter first
	query := db.WithContext(ctx).Model(&models.MentorshipRequest{})
	query = r.helpers.ApplyRequestFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = r.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Preload("Mentee").Preload("Mentor").Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *RequestPostgreSQL) GetByMentee(ctx context.Context, tx *gorm.DB, menteeID string, filters repositories.RequestFilters) ([]*models.MentorshipRequest, int64, error) {
	filters.MenteeID = &menteeID
	return r.List(ctx, tx, filters)
}

func (r *RequestPostgreSQL) GetByMentor(ctx context.Context, tx *gorm.DB, mentorID string, filters repositories.RequestFilters) ([]*models.MentorshipRequest, int64, error) {
	filters.MentorID = &mentorID
	return r.List(ctx, tx, filters)
}

// GetActiveByPair returns the PENDING or ACCEPTED request between a mentee
// and a mentor, if one exists. At most one can be active per pair.
func (r *RequestPostgreSQL) GetActiveByPair(ctx context.Context, tx *gorm.DB, menteeID, mentorID string) (*models.MentorshipRequest, error) {
	db := r.getDB(tx)
	var request models.MentorshipRequest
	err := db.WithContext(ctx).
		Where("mentee_id = ? AND mentor_id = ? AND status IN ?",
			menteeID, mentorID,
			[]models.RequestStatus{models.RequestPending, models.RequestAccepted}).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// GetPendingOlderThan returns PENDING requests created at or before the
// cutoff, oldest first. The sweeper walks them in batches.
func (r *RequestPostgreSQL) GetPendingOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) ([]*models.MentorshipRequest, error) {
	db := r.getDB(tx)
	var requests []*models.MentorshipRequest
	query := db.WithContext(ctx).
		Where("status = ? AND created_at <= ?", models.RequestPending, cutoff).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateStatusIf moves a request from one status to another with a
// conditional update. RowsAffected == 0 means the request already left the
// expected status, so the caller's transition lost.
func (r *RequestPostgreSQL) UpdateStatusIf(ctx context.Context, tx *gorm.DB, id uint, from, to models.RequestStatus) (bool, error) {
	db := r.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.MentorshipRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update request status: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *RequestPostgreSQL) GetStats(ctx context.Context, tx *gorm.DB, mentorID string) (*repositories.RequestStats, error) {
	db := r.getDB(tx)

	type statusCount struct {
		Status models.RequestStatus
		Count  int
	}
	var rows []statusCount
	err := db.WithContext(ctx).
		Model(&models.MentorshipRequest{}).
		Select("status, COUNT(*) as count").
		Where("mentor_id = ?", mentorID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &repositories.RequestStats{
		StatusBreakdown: make(map[models.RequestStatus]int),
	}
	for _, row := range rows {
		stats.StatusBreakdown[row.Status] = row.Count
		stats.TotalRequests += row.Count
	}

	decided := stats.StatusBreakdown[models.RequestAccepted] + stats.StatusBreakdown[models.RequestRejected]
	if decided > 0 {
		stats.AcceptRate = float64(stats.StatusBreakdown[models.RequestAccepted]) / float64(decided)
	}

	return stats, nil
}
