package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/internal/realtime"
	"github.com/teamgrid/collab-service/internal/repository"
)

// DMService handles direct messages. Sending one is the single-recipient
// notification path: the notification record is persisted and pushed through
// the hub synchronously, without waiting for a dispatcher flush.
type DMService struct {
	messageRepo      repository.MessageRepository
	notificationRepo repository.NotificationRepository
	hub              *realtime.Hub
}

type SendDMRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required,uuid"`
	Content    string `json:"content" validate:"required,max=4000"`
	IsFile     bool   `json:"is_file"`
}

func NewDMService(messageRepo repository.MessageRepository, notificationRepo repository.NotificationRepository, hub *realtime.Hub) *DMService {
	return &DMService{
		messageRepo:      messageRepo,
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// Send persists the direct message, then notifies the receiver. Notification
// failure does not fail the send; the message itself is already durable.
func (s *DMService) Send(ctx context.Context, workspaceID, senderID uuid.UUID, senderName string, req SendDMRequest) (*domain.DirectMessage, error) {
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("invalid receiver_id: %w", err)
	}

	msg := &domain.DirectMessage{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Content:     req.Content,
		IsFile:      req.IsFile,
		Read:        false,
		SentAt:      time.Now(),
	}

	if err := s.messageRepo.CreateDirectMessage(ctx, msg); err != nil {
		return nil, err
	}

	wsID := workspaceID
	notification := &domain.Notification{
		ID:          uuid.New(),
		RecipientID: receiverID,
		SenderID:    senderID,
		SenderName:  senderName,
		WorkspaceID: &wsID,
		Title:       fmt.Sprintf("New message from %s", senderName),
		Type:        domain.NotificationTypeDM,
		Body:        req.Content,
		Read:        false,
		CreatedAt:   msg.SentAt,
		URL:         domain.BuildNotificationURL(domain.NotificationTypeDM, workspaceID, senderID),
	}

	if err := s.notificationRepo.CreateBatch(ctx, []*domain.Notification{notification}); err != nil {
		log.Printf("[DM_SERVICE] Failed to persist notification for dm %s: %v", msg.ID, err)
		return msg, nil
	}
	s.hub.Push(notification)

	return msg, nil
}

// Conversation returns the two-way message history between the caller and
// another account within a workspace.
func (s *DMService) Conversation(ctx context.Context, workspaceID, accountID, otherID uuid.UUID, limit, offset int) ([]*domain.DirectMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.messageRepo.ListConversation(ctx, workspaceID, accountID, otherID, limit, offset)
}

// MarkRead acknowledges one message for its receiver. Returns false when the
// message does not exist, is addressed to someone else, or is already read.
func (s *DMService) MarkRead(ctx context.Context, id, receiverID uuid.UUID) (bool, error) {
	return s.messageRepo.MarkDirectRead(ctx, id, receiverID)
}
