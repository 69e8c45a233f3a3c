package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/civicux/civicux-api/internal/config"
	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	defaultPropositionPageSize = 5
	maxPropositionPageSize     = 50
	authorLookupConcurrency    = 5
)

var (
	ErrPropositionNotFound     = errors.New("Proposição não encontrada")
	ErrAlreadyVotedProposition = errors.New("Você já votou nesta proposição.")
)

const legislativeConsultantPrompt = "Você é um consultor legislativo experiente. Analise a seguinte proposição legislativa e crie um resumo estruturado para um cidadão comum.\n\n" +
	"Use formatação Markdown:\n" +
	"- **O que é**: Uma explicação simples.\n" +
	"- **Autor**: Mencione o autor e partido (se fornecido).\n" +
	"- **Mudanças principais**: O que muda na lei atual.\n" +
	"- **Prós e Contras**: Pontos positivos e negativos.\n" +
	"- **🇧🇷 Como isso afeta a vida do brasileiro**: Seção obrigatória explicando o impacto prático no dia a dia.\n\n" +
	"Seja imparcial e claro."

const emptySummary = "Não foi possível gerar o resumo."

type PropositionService struct {
	db           *gorm.DB
	cfg          *config.Config
	camara       *CamaraClient
	llm          *LLMClient
	gamification *GamificationService
	moderation   *ModerationService
}

func NewPropositionService(db *gorm.DB, cfg *config.Config, camara *CamaraClient, llm *LLMClient, gamification *GamificationService, moderation *ModerationService) *PropositionService {
	return &PropositionService{
		db:           db,
		cfg:          cfg,
		camara:       camara,
		llm:          llm,
		gamification: gamification,
		moderation:   moderation,
	}
}

// List proxies a page of bills and enriches each with its main author and,
// when viewerID is set, the viewer's vote.
func (s *PropositionService) List(ctx context.Context, viewerID uuid.UUID, page, limit int) ([]dto.Proposition, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPropositionPageSize
	}
	if limit > maxPropositionPageSize {
		limit = maxPropositionPageSize
	}

	props, err := s.camara.ListBills(ctx, s.cfg.PropositionYear, page, limit)
	if err != nil {
		return nil, err
	}

	s.attachAuthors(ctx, props)

	if viewerID != uuid.Nil && len(props) > 0 {
		ids := make([]string, len(props))
		for i, p := range props {
			ids[i] = strconv.Itoa(p.ID)
		}
		var votes []models.PropositionVote
		if err := s.db.Where("user_id = ? AND proposition_id IN ?", viewerID, ids).Find(&votes).Error; err != nil {
			return nil, fmt.Errorf("failed to load votes: %w", err)
		}
		byID := make(map[string]string, len(votes))
		for _, v := range votes {
			byID[v.PropositionID] = v.VoteType
		}
		for i := range props {
			if vt, ok := byID[strconv.Itoa(props[i].ID)]; ok {
				props[i].UserVote = &vt
			}
		}
	}
	return props, nil
}

// attachAuthors looks authors up with bounded concurrency. A failed lookup
// leaves that author empty.
func (s *PropositionService) attachAuthors(ctx context.Context, props []dto.Proposition) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(authorLookupConcurrency)
	for i := range props {
		g.Go(func() error {
			author, err := s.camara.Author(gctx, props[i].ID)
			if err != nil {
				slog.Warn("author lookup failed", "proposition_id", props[i].ID, "error", err)
				return nil
			}
			props[i].Author = author
			return nil
		})
	}
	_ = g.Wait()
}

// Get returns upstream detail with the author and the local vote tally.
func (s *PropositionService) Get(ctx context.Context, viewerID uuid.UUID, id int) (*dto.PropositionDetail, error) {
	detail, err := s.camara.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if author, err := s.camara.Author(ctx, id); err == nil {
		detail.Author = author
	} else {
		slog.Warn("author lookup failed", "proposition_id", id, "error", err)
	}

	key := strconv.Itoa(id)
	type tallyRow struct {
		VoteType string
		Total    int64
	}
	var rows []tallyRow
	if err := s.db.Model(&models.PropositionVote{}).
		Select("vote_type, COUNT(*) AS total").
		Where("proposition_id = ?", key).
		Group("vote_type").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}
	for _, r := range rows {
		switch r.VoteType {
		case models.PropositionApprove:
			detail.Tally.Approve = r.Total
		case models.PropositionReject:
			detail.Tally.Reject = r.Total
		}
	}

	if viewerID != uuid.Nil {
		var vote models.PropositionVote
		if err := s.db.Where("user_id = ? AND proposition_id = ?", viewerID, key).First(&vote).Error; err == nil {
			detail.UserVote = &vote.VoteType
		}
	}
	return detail, nil
}

func (s *PropositionService) Vote(userID uuid.UUID, req *dto.VotePropositionRequest) (*dto.PropositionVoteResponse, error) {
	propID := strings.TrimSpace(req.PropositionID.String())
	if propID == "" {
		return nil, invalid("propositionId é obrigatório")
	}
	if req.VoteType != models.PropositionApprove && req.VoteType != models.PropositionReject {
		return nil, invalid("Tipo de voto inválido: use APPROVE ou REJECT")
	}
	if err := s.moderation.CheckComment(req.Comment); err != nil {
		return nil, err
	}

	vote := models.PropositionVote{
		UserID:        userID,
		PropositionID: propID,
		VoteType:      req.VoteType,
	}
	if c := strings.TrimSpace(req.Comment); c != "" {
		vote.Comment = &c
	}
	if err := s.db.Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyVotedProposition
		}
		return nil, fmt.Errorf("failed to create proposition vote: %w", err)
	}

	unlocked := s.gamification.Reward(userID, "proposition.vote", Award{
		XP:    PropositionVoteXP,
		Coins: PropositionVoteCoins,
		Votes: 1,
	})
	return &dto.PropositionVoteResponse{
		PropositionVote: &vote,
		ActionResult:    dto.ActionResult{NewAchievements: unlocked},
	}, nil
}

// Summarize asks the LLM for a structured Markdown explainer of a bill.
func (s *PropositionService) Summarize(ctx context.Context, req *dto.SummarizePropositionRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", invalid("Texto da proposição é obrigatório")
	}
	author := req.Author
	if author == "" {
		author = "Não informado"
	}
	user := fmt.Sprintf("Proposição: %s %s/%s\nAutor: %s\n\nTexto/Ementa: %s",
		req.Type, req.Number, req.Year, author, req.Text)

	content, err := s.llm.Complete(ctx, []llmMessage{
		{Role: "system", Content: legislativeConsultantPrompt},
		{Role: "user", Content: user},
	}, 0.5, 800)
	if err != nil {
		return "", fmt.Errorf("failed to summarize proposition: %w", err)
	}
	if content == "" {
		return emptySummary, nil
	}
	return content, nil
}
