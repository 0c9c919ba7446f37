package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope for every message this service publishes.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Event types published by the matching core.
const (
	EventRequestSubmitted   = "request.submitted"
	EventRequestAccepted    = "request.accepted"
	EventRequestRejected    = "request.rejected"
	EventRequestAutoExpired = "request.auto_expired"
	EventSessionBooked      = "session.booked"
	EventSessionRated       = "session.rated"
	EventBulkNotification   = "system.bulk_notification"
)

// NewEvent builds an event envelope with the shared metadata filled in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "mentorship-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
