package handlers

import (
	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

// CivicHandler serves the read-mostly civic content: the activity feed, DOU
// highlights and the mentor chat.
type CivicHandler struct {
	activityService *services.ActivityService
	douService      *services.DOUService
	mentorService   *services.MentorService
}

func NewCivicHandler(activityService *services.ActivityService, douService *services.DOUService, mentorService *services.MentorService) *CivicHandler {
	return &CivicHandler{
		activityService: activityService,
		douService:      douService,
		mentorService:   mentorService,
	}
}

func (h *CivicHandler) Activity(c *fiber.Ctx) error {
	items, err := h.activityService.Feed()
	if err != nil {
		return respondError(c, "activity.feed", err, "Failed to fetch activity")
	}
	return c.JSON(items)
}

func (h *CivicHandler) DOUHighlights(c *fiber.Ctx) error {
	page, err := h.douService.Highlights(c.UserContext(), c.QueryInt("page", 1))
	if err != nil {
		return respondError(c, "dou.highlights", err, "Failed to fetch DOU highlights")
	}
	return c.JSON(page)
}

func (h *CivicHandler) DOUSummarize(c *fiber.Ctx) error {
	var req dto.SummarizeDOURequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	summary, err := h.douService.Summarize(c.UserContext(), &req)
	if err != nil {
		return respondError(c, "dou.summarize", err, "Failed to summarize")
	}
	return c.JSON(dto.SummaryResponse{Summary: summary})
}

func (h *CivicHandler) MentorChat(c *fiber.Ctx) error {
	var req dto.MentorChatRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	reply, err := h.mentorService.Chat(c.UserContext(), &req)
	if err != nil {
		return respondError(c, "mentor.chat", err,
			"Desculpe, estou com dificuldades para conectar ao servidor de IA no momento. Tente novamente mais tarde.")
	}
	return c.JSON(reply)
}
