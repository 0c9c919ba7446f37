package repositories

import (
	"time"

	"github.com/mentorloop/mentorship-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type SlotFilters struct {
	MentorID  *string    `json:"mentor_id"`
	Consumed  *bool      `json:"consumed"`
	StartFrom *time.Time `json:"start_from"`
	StartTo   *time.Time `json:"start_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "start_at", "created_at"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

type RequestFilters struct {
	Status    *models.RequestStatus `json:"status"`
	MenteeID  *string               `json:"mentee_id"`
	MentorID  *string               `json:"mentor_id"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type SessionFilters struct {
	MentorID  *string    `json:"mentor_id"`
	MenteeID  *string    `json:"mentee_id"`
	Rated     *bool      `json:"rated"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`
	SortOrder string     `json:"sort_order"`
}

// ===== SHARED STATISTICS STRUCTS =====

type MentorStats struct {
	TotalSlots       int     `json:"total_slots"`
	FreeSlots        int     `json:"free_slots"`
	PendingRequests  int     `json:"pending_requests"`
	AcceptedRequests int     `json:"accepted_requests"`
	SessionCount     int     `json:"session_count"`
	AverageRating    float64 `json:"average_rating"`
	RatedSessions    int     `json:"rated_sessions"`
}

type RequestStats struct {
	TotalRequests   int                          `json:"total_requests"`
	StatusBreakdown map[models.RequestStatus]int `json:"status_breakdown"`
	AcceptRate      float64                      `json:"accept_rate"`
}
