package entities

import (
	"time"

	"gorm.io/datatypes"
)

// User is a reader and/or author. ExternalID references the identity provider account.
type User struct {
	ID                  uint                        `gorm:"primaryKey" json:"id"`
	ExternalID          string                      `gorm:"uniqueIndex;size:255;not null" json:"external_id"`
	Username            string                      `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email               string                      `gorm:"uniqueIndex;size:255;not null" json:"email"`
	DisplayName         string                      `gorm:"size:255" json:"display_name"`
	AvatarURL           string                      `gorm:"size:2048" json:"avatar_url,omitempty"`
	Bio                 string                      `gorm:"type:text" json:"bio,omitempty"`
	PreferredLanguage   string                      `gorm:"size:10;default:'en'" json:"preferred_language"`
	Roles               datatypes.JSONSlice[string] `json:"roles"`
	PreferredGenres     datatypes.JSONSlice[string] `json:"preferred_genres"`
	Interests           datatypes.JSONSlice[string] `json:"interests"`
	OnboardingCompleted bool                        `gorm:"default:false" json:"onboarding_completed"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
