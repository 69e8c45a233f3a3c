package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/civicux/civicux-api/internal/catalog"
	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRewardNotFound    = errors.New("Recompensa não encontrada")
	ErrInsufficientCoins = errors.New("Saldo insuficiente")
)

type RewardService struct {
	db       *gorm.DB
	registry *catalog.Registry
}

func NewRewardService(db *gorm.DB, registry *catalog.Registry) *RewardService {
	return &RewardService{db: db, registry: registry}
}

// Catalogue groups rewards under their categories, both in file order.
// Categories with no rewards are left out.
func (s *RewardService) Catalogue() *dto.RewardsResponse {
	groups := []dto.RewardCategoryGroup{}
	index := map[string]int{}
	for _, c := range s.registry.Categories() {
		index[c.ID] = len(groups)
		groups = append(groups, dto.RewardCategoryGroup{ID: c.ID, Title: c.Title, Rewards: []catalog.Reward{}})
	}
	for _, r := range s.registry.All() {
		if i, ok := index[r.Category]; ok {
			groups[i].Rewards = append(groups[i].Rewards, r)
		}
	}

	result := &dto.RewardsResponse{Categories: []dto.RewardCategoryGroup{}}
	for _, g := range groups {
		if len(g.Rewards) > 0 {
			result.Categories = append(result.Categories, g)
		}
	}
	return result
}

// Redeem spends CiviCoins on a reward. The debit only applies while the
// balance covers the cost, so parallel redemptions cannot overdraw.
func (s *RewardService) Redeem(userID uuid.UUID, rewardID string) (*models.Redemption, error) {
	reward, ok := s.registry.Get(rewardID)
	if !ok {
		return nil, ErrRewardNotFound
	}

	var redemption models.Redemption
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND civi_coins >= ?", userID, reward.Cost).
			Update("civi_coins", gorm.Expr("civi_coins - ?", reward.Cost))
		if res.Error != nil {
			return fmt.Errorf("failed to debit coins: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrUserNotFound
			}
			return ErrInsufficientCoins
		}

		code, err := voucherCode()
		if err != nil {
			return err
		}
		redemption = models.Redemption{
			UserID:      userID,
			RewardID:    reward.ID,
			RewardTitle: reward.Title,
			Cost:        reward.Cost,
			VoucherCode: code,
		}
		if err := tx.Create(&redemption).Error; err != nil {
			return fmt.Errorf("failed to record redemption: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

func (s *RewardService) Redemptions(userID uuid.UUID) ([]models.Redemption, error) {
	redemptions := []models.Redemption{}
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&redemptions).Error; err != nil {
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}
	return redemptions, nil
}

// voucherCode is CIVI- followed by 10 random hex digits.
func voucherCode() (string, error) {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate voucher: %w", err)
	}
	return "CIVI-" + strings.ToUpper(hex.EncodeToString(b)), nil
}
