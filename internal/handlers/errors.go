package handlers

import (
	"errors"
	"log/slog"

	"github.com/civicux/civicux-api/internal/authctx"
	"github.com/civicux/civicux-api/internal/dto"
	"github.com/civicux/civicux-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

func fail(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// respondError maps service sentinels to HTTP statuses. Anything unknown is
// logged and answered with a generic 500 carrying fallback.
func respondError(c *fiber.Ctx, action string, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrContentBlocked),
		errors.Is(err, services.ErrInsufficientCoins):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrWrongPassword),
		errors.Is(err, services.ErrInvalidToken):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "Acesso negado")
	case errors.Is(err, services.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, "Usuário não encontrado")
	case errors.Is(err, services.ErrReportNotFound),
		errors.Is(err, services.ErrPropositionNotFound),
		errors.Is(err, services.ErrRewardNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyVoted),
		errors.Is(err, services.ErrAlreadyVotedProposition):
		return fail(c, fiber.StatusConflict, err.Error())
	}

	attrs := []any{"action", action, "path", c.Path(), "error", err.Error()}
	if rid, ok := c.Locals("requestid").(string); ok {
		attrs = append(attrs, "trace_id", rid)
	}
	if uid, err := authctx.GetUserID(c); err == nil {
		attrs = append(attrs, "user_id", uid.String())
	}
	slog.Error(fallback, attrs...)
	return fail(c, fiber.StatusInternalServerError, fallback)
}

func unauthorized(c *fiber.Ctx) error {
	return fail(c, fiber.StatusUnauthorized, "Unauthorized")
}

func invalidID(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "ID inválido")
}

func invalidBody(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "Invalid request body")
}
