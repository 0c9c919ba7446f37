package services

import (
	"errors"
	"fmt"
)

// ===== SENTINEL ERRORS =====

var (
	// Not found
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrSlotNotFound    = errors.New("availability slot not found")
	ErrRequestNotFound = errors.New("mentorship request not found")
	ErrSessionNotFound = errors.New("session not found")

	// Request lifecycle
	ErrDuplicateActiveRequest = errors.New("an active request already exists for this mentee and mentor")
	ErrSelfMatchNotAllowed    = errors.New("mentee and mentor must be different users")
	ErrInvalidTransition      = errors.New("request is not in a state that allows this transition")
	ErrMentorNotActive        = errors.New("mentor is not an active user")

	// Booking
	ErrNoAvailability        = errors.New("mentor has no free availability slot")
	ErrConcurrentBookingLost = errors.New("slot was booked by a concurrent request, retry")
	ErrSlotConsumed          = errors.New("availability slot is already consumed")
	ErrSlotOverlap           = errors.New("slot overlaps an existing slot for this mentor")
	ErrSlotNotOwned          = errors.New("availability slot does not belong to this mentor")

	// Feedback
	ErrSessionNotEnded     = errors.New("session has not ended yet")
	ErrFeedbackAlreadySet  = errors.New("rating and feedback can only be submitted once")
	ErrFeedbackNotProvided = errors.New("at least one of rating or feedback is required")

	// Non-fatal side effects
	ErrNotificationFailed      = errors.New("notification dispatch failed")
	ErrExternalLinkUnavailable = errors.New("conferencing link could not be created")
)

// IsRetryable reports whether the caller may simply retry the same call.
// DuplicateActiveRequest and InvalidTransition are hard failures, the race
// and availability errors are transient.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentBookingLost) || errors.Is(err, ErrNoAvailability)
}

// ===== STRUCTURED ERRORS =====

// PermissionError carries who tried to do what to which resource.
type PermissionError struct {
	UserID   string
	Resource string
	ID       interface{}
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %v: %s", e.UserID, e.Action, e.Resource, e.ID, e.Reason)
}

func NewPermissionError(userID string, id interface{}, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		ID:       id,
		Action:   action,
		Reason:   reason,
	}
}

// BusinessRuleError wraps a domain rule violation with enough context for
// the handler layer to build a useful response.
type BusinessRuleError struct {
	Rule    string
	Message string
	Err     error
}

func (e *BusinessRuleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Rule, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

func (e *BusinessRuleError) Unwrap() error {
	return e.Err
}

func NewBusinessRuleError(rule, message string, err error) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message, Err: err}
}
