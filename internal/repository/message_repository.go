package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/teamgrid/collab-service/internal/domain"
)

type MessageRepository interface {
	CreateChatMessage(ctx context.Context, msg *domain.ChatMessage) error
	ListByChannel(ctx context.Context, channelID string, limit, offset int) ([]*domain.ChatMessage, error)

	CreateDirectMessage(ctx context.Context, msg *domain.DirectMessage) error
	ListConversation(ctx context.Context, workspaceID, accountID, otherID uuid.UUID, limit, offset int) ([]*domain.DirectMessage, error)
	// MarkDirectRead flips the read flag on one direct message. Returns false
	// when no matching unread message exists for the receiver.
	MarkDirectRead(ctx context.Context, id, receiverID uuid.UUID) (bool, error)
}
