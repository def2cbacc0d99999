package handler

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/internal/realtime"
	"github.com/teamgrid/collab-service/internal/service"
)

// ChatHandler is the socket gateway plus the request/response endpoints of a
// channel: history and the file-upload path.
type ChatHandler struct {
	chatService *service.ChatService
	registry    *realtime.Registry
}

func NewChatHandler(chatService *service.ChatService, registry *realtime.Registry) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		registry:    registry,
	}
}

// Upgrade gates the websocket handshake. It runs after AuthMiddleware, so a
// request reaching it already carries validated, non-revoked access claims;
// anything else was refused before the upgrade and no session exists.
func (h *ChatHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if c.Params("channelId") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing channel id",
		})
	}
	return c.Next()
}

// Socket handles one channel connection for its whole lifetime.
// GET /ws/channels/:channelId
func (h *ChatHandler) Socket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		claims, ok := conn.Locals("claims").(*domain.Claims)
		if !ok {
			log.Printf("[CHAT] Socket opened without claims, closing")
			_ = conn.Close()
			return
		}
		channelID := conn.Params("channelId")

		session := realtime.NewSession(conn, claims.AccountID, claims.DisplayName, channelID)
		h.registry.Add(session)
		defer h.registry.Remove(session)

		for {
			messageType, data, err := conn.ReadMessage()
			if err != nil {
				// Close, error or transport timeout all tear the session down.
				return
			}
			if messageType != websocket.TextMessage || len(data) == 0 {
				continue
			}

			msg, err := h.chatService.SaveText(context.Background(), claims.AccountID, claims.DisplayName, channelID, string(data))
			if err != nil {
				log.Printf("[CHAT] Failed to persist message in channel %s: %v", channelID, err)
				continue
			}

			payload, err := json.Marshal(msg)
			if err != nil {
				log.Printf("[CHAT] Failed to encode message %s: %v", msg.ID, err)
				continue
			}

			// Sender does not receive its own echo.
			h.registry.Broadcast(channelID, payload, session)
		}
	})
}

// History returns the channel's message history
// GET /api/v1/channels/:channelId/messages
func (h *ChatHandler) History(c *fiber.Ctx) error {
	channelID := c.Params("channelId")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	messages, err := h.chatService.History(c.Context(), channelID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load channel history",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"messages": messages,
	})
}

// UploadFile accepts a multipart file for a channel
// POST /api/v1/channels/:channelId/files
func (h *ChatHandler) UploadFile(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*domain.Claims)
	channelID := c.Params("channelId")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing file",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unreadable file",
		})
	}
	defer func() { _ = file.Close() }()

	msg, err := h.chatService.UploadFile(
		c.Context(),
		claims.AccountID,
		claims.DisplayName,
		channelID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		fileHeader.Size,
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to upload file",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}
