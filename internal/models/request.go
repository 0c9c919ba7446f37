package models

import (
	"time"
)

type RequestStatus string

const (
	RequestPending       RequestStatus = "PENDING"
	RequestAccepted      RequestStatus = "ACCEPTED"
	RequestRejected      RequestStatus = "REJECTED"
	RequestCancelledAuto RequestStatus = "CANCELLED_AUTO"
)

// IsTerminal reports whether no further transition is legal from the status.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestAccepted || s == RequestRejected || s == RequestCancelledAuto
}

// IsActive reports whether the status counts against the one-active-request
// rule for a (mentee, mentor) pair.
func (s RequestStatus) IsActive() bool {
	return s == RequestPending || s == RequestAccepted
}

// MentorshipRequest is the directed mentee→mentor edge of the request state
// machine. Requests are never deleted, only transitioned to a terminal state.
type MentorshipRequest struct {
	ID       uint          `json:"id" gorm:"primaryKey"`
	MenteeID string        `json:"mentee_id" gorm:"not null;index;size:255"`
	MentorID string        `json:"mentor_id" gorm:"not null;index;size:255"`
	Status   RequestStatus `json:"status" gorm:"default:PENDING;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Mentee  User     `json:"-" gorm:"foreignKey:MenteeID"`
	Mentor  User     `json:"-" gorm:"foreignKey:MentorID"`
	Session *Session `json:"session,omitempty" gorm:"foreignKey:RequestID"`
}

func (MentorshipRequest) TableName() string {
	return "mentorship_requests"
}
