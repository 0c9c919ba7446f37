package validator

import (
	"time"
)

// ProfileUpdateRequest updates the matching attributes of the caller's
// profile.
type ProfileUpdateRequest struct {
	Bio    *string  `json:"bio" validate:"omitempty,max=2000"`
	Goals  *string  `json:"goals" validate:"omitempty,max=2000"`
	Skills []string `json:"skills" validate:"omitempty,max=20,dive,skill_tag"`
}

// SlotCreateRequest declares a new availability interval for the calling
// mentor. The interval is half-open: [start_at, end_at).
type SlotCreateRequest struct {
	StartAt time.Time `json:"start_at" validate:"required,future_date"`
	EndAt   time.Time `json:"end_at" validate:"required"`
}

// SubmitRequestRequest opens a mentorship request from the calling mentee
// toward a mentor.
type SubmitRequestRequest struct {
	MentorID string `json:"mentor_id" validate:"required,max=255"`
}

// AdminMatchRequest lets an admin create and immediately accept a request
// on behalf of a (mentee, mentor) pair.
type AdminMatchRequest struct {
	MenteeID string `json:"mentee_id" validate:"required,max=255"`
	MentorID string `json:"mentor_id" validate:"required,max=255"`
}

// AcceptRequestRequest optionally pins the slot that the booked session
// should consume; when absent the earliest free slot is used.
type AcceptRequestRequest struct {
	SlotID *uint `json:"slot_id"`
}

// RecommendRequest asks the matcher for ranked mentor candidates.
type RecommendRequest struct {
	TopN int `json:"top_n" validate:"omitempty,min=1,max=50"`
}

// SessionFeedbackRequest records the one-shot post-session rating and
// feedback.
type SessionFeedbackRequest struct {
	Rating   *int    `json:"rating" validate:"omitempty,rating_range"`
	Feedback *string `json:"feedback" validate:"omitempty,max=2000"`
}
