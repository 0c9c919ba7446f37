package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleMentee UserRole = "mentee"
	RoleMentor UserRole = "mentor"
	RoleAdmin  UserRole = "admin"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	// Soft delete only. Users stay referenced by live requests and sessions.
	UserDeleted UserStatus = "deleted"
)

type User struct {
	ID       string     `json:"id" gorm:"primaryKey;size:255"`
	FullName string     `json:"full_name" gorm:"not null;size:100"`
	Email    string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole   `json:"role" gorm:"-"`
	Status   UserStatus `json:"status" gorm:"default:active;index"`

	// Onboarding flags
	MustChangePassword bool `json:"must_change_password" gorm:"default:false"`
	ProfileComplete    bool `json:"profile_complete" gorm:"default:false"`

	// Profile info
	AvatarURL *string `json:"avatar_url" gorm:"size:500"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActiveMentor() bool {
	return u.Role == RoleMentor && u.Status == UserActive
}
