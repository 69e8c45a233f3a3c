package services

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/civicux/civicux-api/internal/dto"
)

const photoAnalysisPrompt = `Analise esta imagem de um problema urbano. Retorne APENAS um objeto JSON (sem markdown, sem explicações) com o seguinte formato: { "title": "Título curto e técnico", "description": "Descrição detalhada do problema visível", "severity": número de 1 a 10 (onde 10 é gravíssimo), "department": "Departamento responsável (ex: CET, Limpeza Urbana, Iluminação)" }`

// AnalysisService drafts a report from a photo using the vision model.
type AnalysisService struct {
	llm *LLMClient
}

func NewAnalysisService(llm *LLMClient) *AnalysisService {
	return &AnalysisService{llm: llm}
}

// AnalyzeBytes encodes the upload as a data URL and analyses it.
func (s *AnalysisService) AnalyzeBytes(ctx context.Context, data []byte, contentType string) *dto.ImageAnalysis {
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(data)
	}
	dataURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return s.Analyze(ctx, dataURL)
}

// Analyze never fails: when the model is unreachable or replies with
// something unparseable, a neutral draft is returned for the citizen to edit.
func (s *AnalysisService) Analyze(ctx context.Context, imageURL string) *dto.ImageAnalysis {
	content, err := s.llm.DescribeImage(ctx, photoAnalysisPrompt, imageURL)
	if err != nil {
		slog.Warn("photo analysis failed", "action", "report.analyze", "error", err)
		return fallbackAnalysis(err.Error())
	}

	var result dto.ImageAnalysis
	if err := decodeJSONContent(content, &result); err != nil {
		slog.Warn("photo analysis unparseable", "action", "report.analyze", "error", err)
		return fallbackAnalysis(err.Error())
	}
	result.Title = strings.TrimSpace(result.Title)
	result.Description = strings.TrimSpace(result.Description)
	result.Department = strings.TrimSpace(result.Department)
	if result.Department == "" {
		result.Department = "Geral"
	}
	result.Severity = clamp(result.Severity, 1, 10)
	return &result
}

func fallbackAnalysis(reason string) *dto.ImageAnalysis {
	return &dto.ImageAnalysis{
		Title:       "Erro na Análise de Imagem",
		Description: "Não foi possível analisar a imagem com a IA. " + reason + ". Verifique sua conexão ou tente novamente.",
		Severity:    5,
		Department:  "Geral",
	}
}
