package services

import (
	"fmt"
	"sort"

	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/models"
	"gorm.io/gorm"
)

const activityFeedSize = 5

type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Feed merges the latest reports and proposition votes into one timeline.
func (s *ActivityService) Feed() ([]dto.ActivityItem, error) {
	var reports []models.Report
	if err := s.db.Preload("Author").Order("created_at DESC").Limit(activityFeedSize).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent reports: %w", err)
	}

	var votes []models.PropositionVote
	if err := s.db.Preload("User").Order("created_at DESC").Limit(activityFeedSize).Find(&votes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent votes: %w", err)
	}

	items := make([]dto.ActivityItem, 0, len(reports)+len(votes))
	for _, r := range reports {
		items = append(items, dto.ActivityItem{
			ID:          r.ID,
			Type:        "REPORT",
			Title:       r.Title,
			Description: r.Description,
			Date:        r.CreatedAt,
			Location:    "São Paulo",
			Status:      r.Status,
			User:        authorName(r.Author),
			Icon:        "Camera",
		})
	}
	for _, v := range votes {
		position := "Contra"
		if v.VoteType == models.PropositionApprove {
			position = "A favor"
		}
		items = append(items, dto.ActivityItem{
			ID:          v.ID,
			Type:        "PROP_VOTE",
			Title:       "Voto em Proposta #" + v.PropositionID,
			Description: "Votou " + position,
			Date:        v.CreatedAt,
			Location:    "Câmara Municipal",
			Status:      "COMPUTADO",
			User:        authorName(v.User),
			Icon:        "Vote",
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	if len(items) > activityFeedSize {
		items = items[:activityFeedSize]
	}
	return items, nil
}

func authorName(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Name
}
