package handler

import (
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(
	app *fiber.App,
	authHandler *AuthHandler,
	chatHandler *ChatHandler,
	dmHandler *DMHandler,
	notificationHandler *NotificationHandler,
	healthHandler *HealthHandler,
	authMiddleware fiber.Handler,
) {
	// Health checks (public)
	app.Get("/health", healthHandler.Health)
	app.Get("/ready", healthHandler.Ready)

	// Chat socket. Auth runs before the upgrade, so a bad token refuses the
	// handshake and no session is ever registered.
	app.Get("/ws/channels/:channelId", authMiddleware, chatHandler.Upgrade, chatHandler.Socket())

	// API v1
	api := app.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authMiddleware, authHandler.Logout)

	// Channel routes (protected)
	channels := api.Group("/channels", authMiddleware)
	channels.Get("/:channelId/messages", chatHandler.History)
	channels.Post("/:channelId/files", chatHandler.UploadFile)

	// Direct message routes (protected)
	workspaces := api.Group("/workspaces", authMiddleware)
	workspaces.Post("/:workspaceId/dms", dmHandler.Send)
	workspaces.Get("/:workspaceId/dms/:accountId", dmHandler.Conversation)

	dms := api.Group("/dms", authMiddleware)
	dms.Patch("/:id/read", dmHandler.MarkRead)

	// Notification routes (protected)
	notifications := api.Group("/notifications", authMiddleware)
	notifications.Get("/stream", notificationHandler.Stream)
	notifications.Get("/", notificationHandler.List)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	notifications.Delete("/:id", notificationHandler.Delete)

	// Domain-change events from business operations (protected)
	api.Post("/events", authMiddleware, notificationHandler.RecordEvent)
}
