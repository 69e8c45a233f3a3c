package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Achievement is a catalogue entry keyed by a stable slug.
type Achievement struct {
	ID          string `gorm:"size:50;primaryKey" json:"id"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"size:255" json:"description"`
	Icon        string `gorm:"size:16" json:"icon"`
}

type UserAchievement struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievements_user_ach,priority:1" json:"userId"`
	AchievementID string    `gorm:"size:50;not null;uniqueIndex:idx_user_achievements_user_ach,priority:2" json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`

	Achievement *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (ua *UserAchievement) BeforeCreate(tx *gorm.DB) error {
	if ua.ID == uuid.Nil {
		ua.ID = uuid.New()
	}
	if ua.UnlockedAt.IsZero() {
		ua.UnlockedAt = time.Now()
	}
	return nil
}
