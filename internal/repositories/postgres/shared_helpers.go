package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mentorloop/mentorship-service/internal/repositories"
)

// forUpdateClause row-locks the selected rows for the rest of the transaction.
func forUpdateClause() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplySlotFilters applies common filters to slot queries
func (h *SharedHelpers) ApplySlotFilters(query *gorm.DB, filters repositories.SlotFilters) *gorm.DB {
	if filters.MentorID != nil {
		query = query.Where("mentor_id = ?", *filters.MentorID)
	}
	if filters.Consumed != nil {
		query = query.Where("consumed = ?", *filters.Consumed)
	}
	if filters.StartFrom != nil {
		query = query.Where("start_at >= ?", *filters.StartFrom)
	}
	if filters.StartTo != nil {
		query = query.Where("start_at <= ?", *filters.StartTo)
	}
	return query
}

// ApplyRequestFilters applies common filters to request queries
func (h *SharedHelpers) ApplyRequestFilters(query *gorm.DB, filters repositories.RequestFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.MenteeID != nil {
		query = query.Where("mentee_id = ?", *filters.MenteeID)
	}
	if filters.MentorID != nil {
		query = query.Where("mentor_id = ?", *filters.MentorID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

// ApplySessionFilters applies common filters to session queries
func (h *SharedHelpers) ApplySessionFilters(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	if filters.MentorID != nil {
		query = query.Where("mentor_id = ?", *filters.MentorID)
	}
	if filters.MenteeID != nil {
		query = query.Where("mentee_id = ?", *filters.MenteeID)
	}
	if filters.Rated != nil {
		if *filters.Rated {
			query = query.Where("rating IS NOT NULL")
		} else {
			query = query.Where("rating IS NULL")
		}
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"id":         true,
		"start_at":   true,
		"end_at":     true,
		"status":     true,
		"rating":     true,
	}

	// Validate and set sort column
	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	// Validate and set sort order
	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
