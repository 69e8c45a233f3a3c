package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultReportPageSize = 5
	maxReportPageSize     = 50
)

var (
	ErrReportNotFound = errors.New("Denúncia não encontrada")
	ErrAlreadyVoted   = errors.New("Você já votou nesta denúncia.")
)

type ReportService struct {
	db           *gorm.DB
	gamification *GamificationService
	moderation   *ModerationService
}

func NewReportService(db *gorm.DB, gamification *GamificationService, moderation *ModerationService) *ReportService {
	return &ReportService{db: db, gamification: gamification, moderation: moderation}
}

// List pages through reports newest first. When viewerID is set each item
// carries the viewer's vote.
func (s *ReportService) List(viewerID uuid.UUID, page, limit int) (*dto.ReportPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultReportPageSize
	}
	if limit > maxReportPageSize {
		limit = maxReportPageSize
	}

	var total int64
	if err := s.db.Model(&models.Report{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	var reports []models.Report
	err := s.db.Preload("Votes").Preload("Author").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}

	items := make([]dto.ReportItem, len(reports))
	for i, r := range reports {
		items[i] = dto.ReportItem{Report: r}
		if viewerID == uuid.Nil {
			continue
		}
		for _, v := range r.Votes {
			if v.UserID == viewerID {
				vt := v.Type
				items[i].UserVote = &vt
				break
			}
		}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	result := &dto.ReportPage{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
	if page < totalPages {
		next := page + 1
		result.NextPage = &next
	}
	return result, nil
}

func (s *ReportService) Get(id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.Preload("Votes").Preload("Author").First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}
	return &report, nil
}

func (s *ReportService) Create(authorID uuid.UUID, req *dto.CreateReportRequest) (*dto.CreateReportResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("Título é obrigatório")
	}
	if err := s.moderation.CheckProfanity(title, req.Description); err != nil {
		return nil, err
	}

	severity := req.Severity
	if severity == 0 {
		severity = 5
	}
	report := models.Report{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Severity:    clamp(severity, 1, 10),
		Department:  strings.TrimSpace(req.Department),
		ImageURL:    req.ImageURL,
		Address:     strings.TrimSpace(req.Address),
		Latitude:    req.Location.Lat,
		Longitude:   req.Location.Lng,
		Status:      models.ReportStatusPending,
		AuthorID:    authorID,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	unlocked := s.gamification.Reward(authorID, "report.create", Award{
		XP:      ReportXP,
		Coins:   ReportCoins,
		Reports: 1,
	})
	return &dto.CreateReportResponse{
		Report:       &report,
		ActionResult: dto.ActionResult{NewAchievements: unlocked},
	}, nil
}

// Vote records a crowd validation. The unique (user, report) index turns a
// second vote into ErrAlreadyVoted.
func (s *ReportService) Vote(userID, reportID uuid.UUID, req *dto.VoteReportRequest) (*dto.VoteResponse, error) {
	if req.Type != models.VoteValid && req.Type != models.VoteFake {
		return nil, invalid("Tipo de voto inválido: use valid ou fake")
	}
	if err := s.moderation.CheckComment(req.Comment); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Report{}).Where("id = ?", reportID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check report: %w", err)
	}
	if count == 0 {
		return nil, ErrReportNotFound
	}

	vote := models.Vote{
		Type:     req.Type,
		UserID:   userID,
		ReportID: reportID,
	}
	if c := strings.TrimSpace(req.Comment); c != "" {
		vote.Comment = &c
	}
	if err := s.db.Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyVoted
		}
		return nil, fmt.Errorf("failed to create vote: %w", err)
	}

	unlocked := s.gamification.Reward(userID, "report.vote", Award{
		Coins: ReportVoteCoins,
		Votes: 1,
	})
	return &dto.VoteResponse{
		Vote:         &vote,
		ActionResult: dto.ActionResult{NewAchievements: unlocked},
	}, nil
}

// UpdateStatus sets the free-form moderation status.
func (s *ReportService) UpdateStatus(id uuid.UUID, status string) (*models.Report, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, invalid("Status é obrigatório")
	}
	res := s.db.Model(&models.Report{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrReportNotFound
	}
	return s.Get(id)
}
