package models

import (
	"time"
)

// Session is the booked outcome of an accepted request. Exactly one session
// per request and per slot, enforced by unique indexes as the backstop for
// the booking transaction. Immutable except for the post-hoc rating and
// feedback fields.
type Session struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	RequestID uint   `json:"request_id" gorm:"not null;uniqueIndex"`
	SlotID    uint   `json:"slot_id" gorm:"not null;uniqueIndex"`
	MentorID  string `json:"mentor_id" gorm:"not null;index;size:255"`
	MenteeID  string `json:"mentee_id" gorm:"not null;index;size:255"`

	// Conferencing link; empty when the provider was unavailable at booking.
	MeetingLink *string `json:"meeting_link" gorm:"size:500"`

	// Post-hoc fields, each written once after the slot has ended
	Rating   *int    `json:"rating" gorm:"check:rating >= 1 AND rating <= 5"`
	Feedback *string `json:"feedback" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Request MentorshipRequest `json:"-" gorm:"foreignKey:RequestID"`
	Slot    AvailabilitySlot  `json:"slot" gorm:"foreignKey:SlotID"`
	Mentor  User              `json:"-" gorm:"foreignKey:MentorID"`
	Mentee  User              `json:"-" gorm:"foreignKey:MenteeID"`
}

func (Session) TableName() string {
	return "sessions"
}
