package services

import (
	"context"
	"time"

	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

// ===== MATCHER =====

// Candidate is one ranked recommendation with the evidence behind it.
type Candidate struct {
	MentorID     string   `json:"mentor_id"`
	Score        float64  `json:"score"`
	SharedSkills []string `json:"shared_skills"`
	Bio          string   `json:"bio"`
}

// MatcherService ranks mentors for a mentee based on profile compatibility.
type MatcherService interface {
	// Recommend loads the mentee's profile and the active-mentor pool and
	// returns ranked candidates.
	Recommend(ctx context.Context, menteeID string, req *validator.RecommendRequest) ([]*Candidate, error)

	// Rank is the pure scoring core. It assumes mentors are already
	// filtered to active users with the mentor role and has no side effects.
	Rank(mentee *models.Profile, mentors []*models.Profile, topN int) []*Candidate
}

// ===== REQUESTS =====

// RequestResponse is the external view of a mentorship request.
type RequestResponse struct {
	ID        uint                 `json:"id"`
	MenteeID  string               `json:"mentee_id"`
	MentorID  string               `json:"mentor_id"`
	Status    models.RequestStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`

	Mentee  *UserSummary     `json:"mentee,omitempty"`
	Mentor  *UserSummary     `json:"mentor,omitempty"`
	Session *SessionResponse `json:"session,omitempty"`
}

// UserSummary is the slice of user identity embedded in responses.
type UserSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// RequestListResponse is a paginated projection of "my requests".
type RequestListResponse struct {
	Requests []*RequestResponse `json:"requests"`
	Total    int64              `json:"total"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

// RequestService owns the request state machine.
type RequestService interface {
	// Submit opens a PENDING request from a mentee toward a mentor.
	Submit(ctx context.Context, menteeID string, req *validator.SubmitRequestRequest) (*RequestResponse, error)

	// Accept moves a PENDING request to ACCEPTED and books a session in
	// the same transaction. Without a bookable slot the whole transition
	// fails and the request stays PENDING.
	Accept(ctx context.Context, requestID uint, mentorID string, req *validator.AcceptRequestRequest) (*SessionResponse, error)

	// Reject moves a PENDING request to REJECTED.
	Reject(ctx context.Context, requestID uint, mentorID string) (*RequestResponse, error)

	// AdminMatch creates a request on behalf of a pair and accepts it
	// immediately, booking the mentor's earliest free slot.
	AdminMatch(ctx context.Context, adminID string, req *validator.AdminMatchRequest) (*SessionResponse, error)

	GetByID(ctx context.Context, requestID uint, callerID string) (*RequestResponse, error)
	ListByMentee(ctx context.Context, menteeID string, filters repositories.RequestFilters) (*RequestListResponse, error)
	ListByMentor(ctx context.Context, mentorID string, filters repositories.RequestFilters) (*RequestListResponse, error)
}

// ===== SCHEDULER =====

// SchedulerService converts an accepted request plus a slot into a session.
type SchedulerService interface {
	// BindAndBook books a session for an accepted request. A nil slotID
	// selects the mentor's earliest free slot. Calling it again for an
	// already-booked request returns the existing session.
	BindAndBook(ctx context.Context, requestID uint, slotID *uint) (*SessionResponse, error)
}

// ===== SWEEPER =====

// SweeperService auto-cancels requests that linger PENDING too long.
type SweeperService interface {
	// Sweep transitions every PENDING request older than the threshold to
	// CANCELLED_AUTO and returns how many were expired. Failures on single
	// rows are logged and skipped.
	Sweep(ctx context.Context, now time.Time, threshold time.Duration) (int, error)

	// Start runs Sweep on a fixed interval until ctx is cancelled.
	Start(ctx context.Context)
}

// ===== SLOTS =====

// SlotResponse is the external view of an availability slot.
type SlotResponse struct {
	ID        uint      `json:"id"`
	MentorID  string    `json:"mentor_id"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Consumed  bool      `json:"consumed"`
	CreatedAt time.Time `json:"created_at"`
}

// SlotListResponse is a paginated slot listing.
type SlotListResponse struct {
	Slots  []*SlotResponse `json:"slots"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// SlotService owns mentor availability.
type SlotService interface {
	// Create declares a new slot. Slots of one mentor never overlap.
	Create(ctx context.Context, mentorID string, req *validator.SlotCreateRequest) (*SlotResponse, error)

	// Delete removes an unconsumed slot owned by the caller.
	Delete(ctx context.Context, slotID uint, mentorID string) error

	GetByID(ctx context.Context, slotID uint) (*SlotResponse, error)
	ListByMentor(ctx context.Context, mentorID string, filters repositories.SlotFilters) (*SlotListResponse, error)
	ListFree(ctx context.Context, mentorID string) ([]*SlotResponse, error)
}

// ===== SESSIONS =====

// SessionResponse is the external view of a booked session.
type SessionResponse struct {
	ID          uint      `json:"id"`
	RequestID   uint      `json:"request_id"`
	SlotID      uint      `json:"slot_id"`
	MentorID    string    `json:"mentor_id"`
	MenteeID    string    `json:"mentee_id"`
	MeetingLink *string   `json:"meeting_link,omitempty"`
	Rating      *int      `json:"rating,omitempty"`
	Feedback    *string   `json:"feedback,omitempty"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// SessionListResponse is a paginated session listing.
type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Total    int64              `json:"total"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

// SessionService owns the post-booking session surface.
type SessionService interface {
	GetByID(ctx context.Context, sessionID uint, callerID string) (*SessionResponse, error)
	ListByUser(ctx context.Context, userID string, filters repositories.SessionFilters) (*SessionListResponse, error)

	// SubmitFeedback records the one-shot rating and feedback after the
	// slot's end time has passed.
	SubmitFeedback(ctx context.Context, sessionID uint, callerID string, req *validator.SessionFeedbackRequest) (*SessionResponse, error)
}

// ===== PROFILES =====

// ProfileResponse is the external view of a matching profile.
type ProfileResponse struct {
	UserID    string    `json:"user_id"`
	Bio       string    `json:"bio"`
	Goals     string    `json:"goals"`
	Skills    []string  `json:"skills"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileService owns the matching attributes of a user.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*ProfileResponse, error)
	Update(ctx context.Context, userID string, req *validator.ProfileUpdateRequest) (*ProfileResponse, error)
}

// ===== NOTIFICATIONS =====

// Notification priorities.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// NotificationRequest describes an outbound notification to one or more users.
type NotificationRequest struct {
	Type     string `json:"type" validate:"required"`
	Title    string `json:"title" validate:"required,max=200"`
	Message  string `json:"message" validate:"required,max=2000"`
	Priority string `json:"priority" validate:"omitempty,oneof=normal high"`
}

// NotificationEventService publishes domain events for the notification
// pipeline. Every method is best-effort: failures are logged, never
// propagated as booking or transition failures.
type NotificationEventService interface {
	NotifyRequestSubmitted(ctx context.Context, request *models.MentorshipRequest)
	NotifyRequestAccepted(ctx context.Context, request *models.MentorshipRequest, session *models.Session)
	NotifyRequestRejected(ctx context.Context, request *models.MentorshipRequest)
	NotifyRequestExpired(ctx context.Context, request *models.MentorshipRequest)
	NotifySessionRated(ctx context.Context, session *models.Session)
	SendBulkNotification(ctx context.Context, userIDs []string, notification *NotificationRequest) error
}

// ===== EXPORT =====

// ExportService produces admin spreadsheet exports.
type ExportService interface {
	// ExportSessions renders all sessions matching the filters as an xlsx
	// workbook.
	ExportSessions(ctx context.Context, filters repositories.SessionFilters) ([]byte, error)
}

// ===== SERVICE MANAGER =====

// ServiceManager wires up and hands out all service instances.
type ServiceManager interface {
	Matcher() MatcherService
	Request() RequestService
	Scheduler() SchedulerService
	Sweeper() SweeperService
	Slot() SlotService
	Session() SessionService
	Profile() ProfileService
	NotificationEvent() NotificationEventService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
