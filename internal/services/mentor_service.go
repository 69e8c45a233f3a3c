package services

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/civicux/civicux-api/internal/dto"
	"github.com/google/uuid"
)

const mentorHistoryLimit = 20

const mentorFallbackReply = "Desculpe, não consegui processar sua resposta."

//go:embed prompts/mentor_system.md
var mentorSystemPrompt string

// MentorService is the civic mentor chat, scoped to the EVC portal.
type MentorService struct {
	llm *LLMClient
	now func() time.Time
}

func NewMentorService(llm *LLMClient) *MentorService {
	return &MentorService{llm: llm, now: time.Now}
}

func (s *MentorService) Chat(ctx context.Context, req *dto.MentorChatRequest) (*dto.MentorChatResponse, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, invalid("Mensagem é obrigatória")
	}

	messages := []llmMessage{{Role: "system", Content: mentorSystemPrompt}}
	for _, m := range trimHistory(req.History, mentorHistoryLimit) {
		messages = append(messages, llmMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llmMessage{Role: "user", Content: text})

	content, err := s.llm.Complete(ctx, messages, 0.5, 1024)
	if err != nil {
		return nil, fmt.Errorf("mentor chat failed: %w", err)
	}
	if content == "" {
		content = mentorFallbackReply
	}

	return &dto.MentorChatResponse{
		ID:        uuid.NewString(),
		Role:      "assistant",
		Content:   content,
		Timestamp: s.now().UTC(),
	}, nil
}

// trimHistory keeps the last n user/assistant turns. Any other role is
// dropped so a client cannot inject system messages.
func trimHistory(history []dto.ChatMessage, n int) []dto.ChatMessage {
	kept := make([]dto.ChatMessage, 0, len(history))
	for _, m := range history {
		if (m.Role == "user" || m.Role == "assistant") && strings.TrimSpace(m.Content) != "" {
			kept = append(kept, m)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return kept
}
