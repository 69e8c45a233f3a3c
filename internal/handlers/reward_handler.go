package handlers

import (
	"github.com/civicux/civicux-api/internal/authctx"
	"github.com/civicux/civicux-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RewardHandler struct {
	rewardService *services.RewardService
}

func NewRewardHandler(rewardService *services.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

func (h *RewardHandler) Catalogue(c *fiber.Ctx) error {
	return c.JSON(h.rewardService.Catalogue())
}

func (h *RewardHandler) Redeem(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	redemption, err := h.rewardService.Redeem(userID, c.Params("id"))
	if err != nil {
		return respondError(c, "reward.redeem", err, "Failed to redeem reward")
	}
	return c.Status(fiber.StatusCreated).JSON(redemption)
}

func (h *RewardHandler) Redemptions(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	redemptions, err := h.rewardService.Redemptions(userID)
	if err != nil {
		return respondError(c, "reward.redemptions", err, "Failed to list redemptions")
	}
	return c.JSON(redemptions)
}
