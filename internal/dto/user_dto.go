package dto

import (
	"github.com/civicux/civicux-api/internal/models"
	"github.com/google/uuid"
)

// UpdateProfileRequest uses pointers so absent fields are left untouched.
type UpdateProfileRequest struct {
	Name                *string  `json:"name"`
	CurrentPassword     string   `json:"currentPassword"`
	NewPassword         string   `json:"newPassword"`
	Address             *string  `json:"address"`
	Education           *string  `json:"education"`
	Profession          *string  `json:"profession"`
	Age                 *int     `json:"age"`
	Whatsapp            *string  `json:"whatsapp"`
	ReceiveUpdates      *bool    `json:"receiveUpdates"`
	NotificationChannel *string  `json:"notificationChannel"`
	Interests           []string `json:"interests"`
	SubscribedThemes    []string `json:"subscribedThemes"`
}

type ProfileResponse struct {
	*models.User
	NextLevelXP int `json:"nextLevelXp"`
}

type UpdateProfileResponse struct {
	User *models.User `json:"user"`
}

type RankingEntry struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	XP     int       `json:"xp"`
	Level  int       `json:"level"`
	Avatar string    `json:"avatar"`
}
