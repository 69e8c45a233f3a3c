package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	profileHistoryLimit = 20
	rankingLimit        = 50
)

var ErrWrongPassword = errors.New("Senha atual incorreta")

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func latest(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Limit(profileHistoryLimit)
}

// GetProfile loads the public profile with unlocked achievements and the most
// recent activity.
func (s *UserService) GetProfile(id uuid.UUID) (*dto.ProfileResponse, error) {
	var user models.User
	err := s.db.
		Preload("Achievements.Achievement").
		Preload("Reports", latest).
		Preload("Votes", latest).
		Preload("Votes.Report").
		Preload("PropositionVotes", latest).
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &dto.ProfileResponse{User: &user, NextLevelXP: NextLevelXP(user.XP)}, nil
}

// UpdateProfile applies a partial update. Only the owner may edit a profile.
func (s *UserService) UpdateProfile(callerID, id uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	if callerID != id {
		return nil, ErrForbidden
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			updates["name"] = name
		}
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Education != nil {
		updates["education"] = *req.Education
	}
	if req.Profession != nil {
		updates["profession"] = *req.Profession
	}
	if req.Age != nil {
		updates["age"] = *req.Age
	}
	if req.Whatsapp != nil {
		updates["whatsapp"] = *req.Whatsapp
	}
	if req.ReceiveUpdates != nil {
		updates["receive_updates"] = *req.ReceiveUpdates
	}
	if req.NotificationChannel != nil {
		updates["notification_channel"] = *req.NotificationChannel
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, invalid("Senha atual é obrigatória para alterar a senha")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			return nil, ErrWrongPassword
		}
		if len(req.NewPassword) < minPasswordLength {
			return nil, invalid(fmt.Sprintf("A senha deve ter pelo menos %d caracteres", minPasswordLength))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hash)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				return err
			}
		}
		// Serialized columns go through the struct so the json serializer runs.
		if req.Interests != nil {
			user.Interests = req.Interests
			if err := tx.Model(&user).Select("interests").Updates(&user).Error; err != nil {
				return err
			}
		}
		if req.SubscribedThemes != nil {
			user.SubscribedThemes = req.SubscribedThemes
			if err := tx.Model(&user).Select("subscribed_themes").Updates(&user).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return &user, nil
}

// Ranking returns the top citizens by XP.
func (s *UserService) Ranking() ([]dto.RankingEntry, error) {
	entries := []dto.RankingEntry{}
	err := s.db.Model(&models.User{}).
		Select("id", "name", "xp", "level", "avatar").
		Order("xp DESC").
		Limit(rankingLimit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ranking: %w", err)
	}
	return entries, nil
}
