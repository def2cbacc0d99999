package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/internal/realtime"
	"github.com/teamgrid/collab-service/internal/service"
	"github.com/teamgrid/collab-service/pkg/validator"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	hub                 *realtime.Hub
	validator           *validator.Validator
	idleTimeout         time.Duration
}

func NewNotificationHandler(
	notificationService *service.NotificationService,
	hub *realtime.Hub,
	validator *validator.Validator,
	idleTimeout time.Duration,
) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		hub:                 hub,
		validator:           validator,
		idleTimeout:         idleTimeout,
	}
}

// Stream opens the recipient's push stream as server-sent events. The stream
// emits INIT right away, then HISTORY with the unread backlog, then one
// `notification` event per pushed item. It self-closes after the idle
// timeout; clients are expected to reconnect, which also re-delivers
// anything still unread.
// GET /api/v1/notifications/stream
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*domain.Claims)
	recipientID := claims.AccountID

	// Backlog is fetched before streaming starts: the stream writer runs
	// after this handler returns and must not touch the request context.
	backlog, err := h.notificationService.Unread(c.Context(), recipientID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load unread notifications",
		})
	}

	sub := h.hub.Subscribe(recipientID)
	idle := h.idleTimeout

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.hub.Unsubscribe(sub)

		if err := writeSSE(w, "INIT", []byte(`{"status":"connected"}`)); err != nil {
			return
		}

		if data, err := json.Marshal(backlog); err == nil {
			if err := writeSSE(w, "HISTORY", data); err != nil {
				return
			}
		}

		timer := time.NewTimer(idle)
		defer timer.Stop()

		for {
			select {
			case n := <-sub.Notifications():
				data, err := json.Marshal(n)
				if err != nil {
					continue
				}
				if err := writeSSE(w, "notification", data); err != nil {
					// Client gone: this stream completes, others are untouched.
					return
				}
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(idle)
			case <-sub.Done():
				return
			case <-timer.C:
				return
			}
		}
	}))

	return nil
}

func writeSSE(w *bufio.Writer, event string, data []byte) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}

// RecordEvent buffers a domain-change event for the next dispatcher flush
// POST /api/v1/events
func (h *NotificationHandler) RecordEvent(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*domain.Claims)

	var req service.RecordEventRequest
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

	if err := h.notificationService.RecordEvent(claims.AccountID, claims.DisplayName, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "event recorded",
	})
}

// List returns the caller's notifications
// GET /api/v1/notifications
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*domain.Claims)

	notifications, err := h.notificationService.List(c.Context(), claims.AccountID, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list notifications",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"notifications": notifications,
	})
}

// MarkRead flips one notification's read flag
// PATCH /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid notification id",
		})
	}

	found, err := h.notificationService.MarkRead(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to mark notification read",
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"read": false,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"read": true,
	})
}

// MarkAllRead flips every unread notification for the caller
// POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*domain.Claims)

	changed, err := h.notificationService.MarkAllRead(c.Context(), claims.AccountID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to mark notifications read",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"changed": changed,
	})
}

// Delete removes one notification
// DELETE /api/v1/notifications/:id
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid notification id",
		})
	}

	deleted, err := h.notificationService.Delete(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete notification",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"deleted": false,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"deleted": true,
	})
}
