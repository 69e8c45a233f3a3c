package handlers

import (
	"github.com/civicux/civicux-api/internal/authctx"
	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}

	profile, err := h.userService.GetProfile(id)
	if err != nil {
		return respondError(c, "user.get", err, "Failed to fetch user")
	}
	return c.JSON(profile)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	callerID, err := authctx.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.userService.UpdateProfile(callerID, id, &req)
	if err != nil {
		return respondError(c, "user.update", err, "Failed to update user")
	}
	return c.JSON(dto.UpdateProfileResponse{User: user})
}

func (h *UserHandler) Ranking(c *fiber.Ctx) error {
	entries, err := h.userService.Ranking()
	if err != nil {
		return respondError(c, "user.ranking", err, "Failed to fetch ranking")
	}
	return c.JSON(entries)
}
