package models

import (
	"time"
)

// AvailabilitySlot is a mentor-declared bookable half-open interval
// [StartAt, EndAt). A mentor's slots are pairwise non-overlapping at
// creation time. Once consumed by a session the slot is immutable and
// never returns to the free pool.
type AvailabilitySlot struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	MentorID string    `json:"mentor_id" gorm:"not null;index;size:255"`
	StartAt  time.Time `json:"start_at" gorm:"not null;index"`
	EndAt    time.Time `json:"end_at" gorm:"not null"`

	// Consumed flips exactly once, via a conditional update inside the
	// booking transaction.
	Consumed bool `json:"consumed" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Mentor User `json:"-" gorm:"foreignKey:MentorID"`
}

func (AvailabilitySlot) TableName() string {
	return "availability_slots"
}

// Overlaps reports whether two half-open intervals intersect.
func (s *AvailabilitySlot) Overlaps(start, end time.Time) bool {
	return s.StartAt.Before(end) && start.Before(s.EndAt)
}
