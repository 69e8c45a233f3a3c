package handlers

import (
	"github.com/civicux/civicux-api/internal/authctx"
	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PropositionHandler struct {
	propositionService *services.PropositionService
}

func NewPropositionHandler(propositionService *services.PropositionService) *PropositionHandler {
	return &PropositionHandler{propositionService: propositionService}
}

// List reads page/limit, or the Câmara-style pagina/itens the first SPA used.
func (h *PropositionHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	if page == 0 {
		page = c.QueryInt("pagina", 1)
	}
	limit := c.QueryInt("limit", 0)
	if limit == 0 {
		limit = c.QueryInt("itens", 0)
	}

	props, err := h.propositionService.List(c.UserContext(), authctx.ViewerID(c), page, limit)
	if err != nil {
		return respondError(c, "proposition.list", err, "Failed to fetch propositions")
	}
	return c.JSON(props)
}

func (h *PropositionHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return invalidID(c)
	}

	detail, err := h.propositionService.Get(c.UserContext(), authctx.ViewerID(c), id)
	if err != nil {
		return respondError(c, "proposition.get", err, "Failed to fetch proposition")
	}
	return c.JSON(detail)
}

func (h *PropositionHandler) Vote(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.VotePropositionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.propositionService.Vote(userID, &req)
	if err != nil {
		return respondError(c, "proposition.vote", err, "Failed to submit vote")
	}
	return c.JSON(resp)
}

func (h *PropositionHandler) Summarize(c *fiber.Ctx) error {
	var req dto.SummarizePropositionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	summary, err := h.propositionService.Summarize(c.UserContext(), &req)
	if err != nil {
		return respondError(c, "proposition.summarize", err, "Failed to summarize")
	}
	return c.JSON(dto.SummaryResponse{Summary: summary})
}
