package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Profile holds the matching attributes a user fills in during onboarding.
// Owned by exactly one user; read by the matcher.
type Profile struct {
	UserID string `json:"user_id" gorm:"primaryKey;size:255"`
	Bio    string `json:"bio" gorm:"type:text"`
	Goals  string `json:"goals" gorm:"type:text"`

	// Skill tags, stored as a JSONB array of strings
	Skills datatypes.JSON `json:"skills" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (Profile) TableName() string {
	return "profiles"
}

// SkillList decodes the JSONB skills column. A missing or malformed column
// reads as an empty list rather than an error.
func (p *Profile) SkillList() []string {
	if len(p.Skills) == 0 {
		return nil
	}
	var skills []string
	if err := json.Unmarshal(p.Skills, &skills); err != nil {
		return nil
	}
	return skills
}

// SetSkills encodes skill tags into the JSONB column.
func (p *Profile) SetSkills(skills []string) error {
	data, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	p.Skills = data
	return nil
}
