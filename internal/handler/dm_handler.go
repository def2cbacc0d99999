package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/internal/service"
	"github.com/teamgrid/collab-service/pkg/validator"
)

type DMHandler struct {
	dmService *service.DMService
	validator *validator.Validator
}

func NewDMHandler(dmService *service.DMService, validator *validator.Validator) *DMHandler {
	return &DMHandler{
		dmService: dmService,
		validator: validator,
	}
}

// Send creates a direct message
// POST /api/v1/workspaces/:workspaceId/dms
func (h *DMHandler) Send(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*domain.Claims)

	workspaceID, err := uuid.Parse(c.Params("workspaceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid workspace id",
		})
	}

	var req service.SendDMRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	msg, err := h.dmService.Send(c.Context(), workspaceID, claims.AccountID, claims.DisplayName, req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to send message",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// Conversation returns the two-way history with another account
// GET /api/v1/workspaces/:workspaceId/dms/:accountId
func (h *DMHandler) Conversation(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*domain.Claims)

	workspaceID, err := uuid.Parse(c.Params("workspaceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid workspace id",
		})
	}

	otherID, err := uuid.Parse(c.Params("accountId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid account id",
		})
	}

	messages, err := h.dmService.Conversation(c.Context(), workspaceID, claims.AccountID, otherID, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load conversation",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"messages": messages,
	})
}

// MarkRead acknowledges one direct message
// PATCH /api/v1/dms/:id/read
func (h *DMHandler) MarkRead(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*domain.Claims)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid message id",
		})
	}

	changed, err := h.dmService.MarkRead(c.Context(), id, claims.AccountID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to mark message read",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"read": changed,
	})
}
