package meetings

import (
	"context"
	"time"
)

// MeetingDetails describes the session a meeting link is created for.
type MeetingDetails struct {
	Summary     string
	Description string
	StartAt     time.Time
	EndAt       time.Time
	Attendees   []string
}

// Provider creates video meeting links for booked sessions. A failure to
// create a link never fails the booking, sessions are usable without one.
type Provider interface {
	CreateMeeting(ctx context.Context, details MeetingDetails) (string, error)
}

// NoopProvider is used when no meeting integration is configured.
type NoopProvider struct{}

func (NoopProvider) CreateMeeting(ctx context.Context, details MeetingDetails) (string, error) {
	return "", nil
}
