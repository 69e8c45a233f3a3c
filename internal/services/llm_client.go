package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/civicux/civicux-api/internal/config"
)

var (
	ErrLLMNotConfigured = errors.New("AI provider not configured")
	ErrLLMEmpty         = errors.New("no response from AI")
)

type llmMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type llmContentPart struct {
	Type     string       `json:"type"`
	Text     string       `json:"text,omitempty"`
	ImageURL *llmImageURL `json:"image_url,omitempty"`
}

type llmImageURL struct {
	URL string `json:"url"`
}

type llmResponseFormat struct {
	Type string `json:"type"`
}

type llmRequest struct {
	Model          string             `json:"model"`
	Messages       []llmMessage       `json:"messages"`
	Temperature    float64            `json:"temperature"`
	MaxTokens      int                `json:"max_tokens,omitempty"`
	ResponseFormat *llmResponseFormat `json:"response_format,omitempty"`
}

type llmResponse struct {
	Choices []struct {
		Message struct {
			Content interface{} `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// LLMClient talks to an OpenAI-compatible chat completions endpoint (Groq).
type LLMClient struct {
	cfg    *config.Config
	client *http.Client
}

func NewLLMClient(cfg *config.Config) *LLMClient {
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LLMClient{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

// Complete runs a text completion and returns the trimmed content.
func (l *LLMClient) Complete(ctx context.Context, messages []llmMessage, temperature float64, maxTokens int) (string, error) {
	return l.do(ctx, llmRequest{
		Model:       l.cfg.GroqTextModel,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
}

// DescribeImage sends one image with an instruction to the vision model and
// asks for a JSON object back.
func (l *LLMClient) DescribeImage(ctx context.Context, prompt, imageURL string) (string, error) {
	return l.do(ctx, llmRequest{
		Model: l.cfg.GroqVisionModel,
		Messages: []llmMessage{{
			Role: "user",
			Content: []llmContentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &llmImageURL{URL: imageURL}},
			},
		}},
		Temperature:    0.1,
		MaxTokens:      1024,
		ResponseFormat: &llmResponseFormat{Type: "json_object"},
	})
}

func (l *LLMClient) do(ctx context.Context, body llmRequest) (string, error) {
	if l.cfg.GroqAPIKey == "" {
		return "", ErrLLMNotConfigured
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.cfg.GroqAPIURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+l.cfg.GroqAPIKey)

	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("AI API error: status %d", resp.StatusCode)
	}

	var completion llmResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", ErrLLMEmpty
	}

	var content string
	switch v := completion.Choices[0].Message.Content.(type) {
	case string:
		content = v
	case nil:
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to extract content from AI response")
		}
		content = string(b)
	}
	return strings.TrimSpace(content), nil
}

// decodeJSONContent parses a model reply into out, tolerating code fences and
// prose around the object.
func decodeJSONContent(content string, out interface{}) error {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), out); err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start < 0 || end <= start {
			return fmt.Errorf("failed to parse AI result: %w", err)
		}
		if err2 := json.Unmarshal([]byte(content[start:end+1]), out); err2 != nil {
			return fmt.Errorf("failed to parse AI result: %w", err2)
		}
	}
	return nil
}

func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
