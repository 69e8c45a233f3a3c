package services

import (
	"fmt"
	"log/slog"

	"github.com/civicux/civicux-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Rewards per action.
const (
	ReportXP    = 100
	ReportCoins = 50

	ReportVoteCoins = 10

	PropositionVoteXP    = 10
	PropositionVoteCoins = 1
)

const (
	firstLevelUpXP = 100
	levelUpFactor  = 1.5
)

// Achievements is the catalogue seeded at startup.
var Achievements = []models.Achievement{
	{ID: "first-report", Title: "Olho de Águia", Description: "Fez sua primeira denúncia.", Icon: "🦅"},
	{ID: "five-reports", Title: "Vigilante", Description: "Enviou 5 denúncias.", Icon: "👀"},
	{ID: "five-votes-report", Title: "Juiz Imparcial", Description: "Votou em 5 denúncias.", Icon: "⚖️"},
	{ID: "first-prop-vote", Title: "Legislador", Description: "Votou em 1 projeto de lei.", Icon: "📜"},
	{ID: "five-prop-votes", Title: "Senador", Description: "Votou em 5 projetos de lei.", Icon: "🏛️"},
}

type activityCounts struct {
	reports          int64
	reportVotes      int64
	propositionVotes int64
}

type achievementRule struct {
	id   string
	test func(activityCounts) bool
}

// Evaluated in order; ids must exist in Achievements.
var achievementRules = []achievementRule{
	{"first-report", func(c activityCounts) bool { return c.reports >= 1 }},
	{"five-reports", func(c activityCounts) bool { return c.reports >= 5 }},
	{"five-votes-report", func(c activityCounts) bool { return c.reportVotes >= 5 }},
	{"first-prop-vote", func(c activityCounts) bool { return c.propositionVotes >= 1 }},
	{"five-prop-votes", func(c activityCounts) bool { return c.propositionVotes >= 5 }},
}

// Award is a counter delta applied to a user after an action.
type Award struct {
	XP      int
	Coins   int
	Reports int
	Votes   int
}

type GamificationService struct {
	db *gorm.DB
}

func NewGamificationService(db *gorm.DB) *GamificationService {
	return &GamificationService{db: db}
}

// SeedAchievements inserts the catalogue, leaving existing rows untouched.
func (s *GamificationService) SeedAchievements() error {
	rows := make([]models.Achievement, len(Achievements))
	copy(rows, Achievements)
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// Apply increments the user's counters and recomputes the level.
func (s *GamificationService) Apply(userID uuid.UUID, a Award) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if a.XP != 0 {
			updates["xp"] = gorm.Expr("xp + ?", a.XP)
		}
		if a.Coins != 0 {
			updates["civi_coins"] = gorm.Expr("civi_coins + ?", a.Coins)
		}
		if a.Reports != 0 {
			updates["reports_submitted"] = gorm.Expr("reports_submitted + ?", a.Reports)
		}
		if a.Votes != 0 {
			updates["votes_cast"] = gorm.Expr("votes_cast + ?", a.Votes)
		}
		if len(updates) == 0 {
			return nil
		}

		res := tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to apply award: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		if a.XP == 0 {
			return nil
		}

		var user models.User
		if err := tx.Select("id", "xp").First(&user, "id = ?", userID).Error; err != nil {
			return fmt.Errorf("failed to reload xp: %w", err)
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("level", LevelForXP(user.XP)).Error
	})
}

// CheckAchievements unlocks every satisfied rule the user doesn't hold yet and
// returns the ids unlocked by this call.
func (s *GamificationService) CheckAchievements(userID uuid.UUID) ([]string, error) {
	var counts activityCounts
	if err := s.db.Model(&models.Report{}).Where("author_id = ?", userID).Count(&counts.reports).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Vote{}).Where("user_id = ?", userID).Count(&counts.reportVotes).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.PropositionVote{}).Where("user_id = ?", userID).Count(&counts.propositionVotes).Error; err != nil {
		return nil, err
	}

	var held []string
	if err := s.db.Model(&models.UserAchievement{}).Where("user_id = ?", userID).
		Pluck("achievement_id", &held).Error; err != nil {
		return nil, err
	}
	unlocked := make(map[string]bool, len(held))
	for _, id := range held {
		unlocked[id] = true
	}

	newIDs := []string{}
	for _, rule := range achievementRules {
		if unlocked[rule.id] || !rule.test(counts) {
			continue
		}
		ua := models.UserAchievement{UserID: userID, AchievementID: rule.id}
		res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ua)
		if res.Error != nil {
			return newIDs, fmt.Errorf("failed to unlock %s: %w", rule.id, res.Error)
		}
		// A concurrent request may have won the insert.
		if res.RowsAffected > 0 {
			newIDs = append(newIDs, rule.id)
		}
	}
	return newIDs, nil
}

// Reward applies the award then runs the achievement check. Failures are
// logged and an empty unlock list is returned; the calling action has already
// been committed.
func (s *GamificationService) Reward(userID uuid.UUID, action string, a Award) []string {
	if err := s.Apply(userID, a); err != nil {
		slog.Error("award failed", "action", action, "user_id", userID.String(), "error", err)
	}
	ids, err := s.CheckAchievements(userID)
	if err != nil {
		slog.Error("achievement check failed", "action", action, "user_id", userID.String(), "error", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// LevelForXP returns the level reached with xp on the geometric ladder.
func LevelForXP(xp int) int {
	level, _ := ladder(xp)
	return level
}

// NextLevelXP returns the cumulative XP at which the next level is reached.
func NextLevelXP(xp int) int {
	_, next := ladder(xp)
	return next
}

func ladder(xp int) (level, next int) {
	level = 1
	step := firstLevelUpXP
	next = step
	for xp >= next {
		level++
		step = int(float64(step) * levelUpFactor)
		next += step
	}
	return level, next
}
