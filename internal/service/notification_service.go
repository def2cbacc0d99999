package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/internal/realtime"
	"github.com/teamgrid/collab-service/internal/repository"
)

// NotificationService exposes read-state operations and the event-recording
// entry point of the pipeline. Authorization (recipient and workspace
// membership checks) is the calling layer's responsibility.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	buffer           *realtime.Buffer
}

type RecordEventRequest struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
	TargetID    string `json:"target_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required,max=255"`
	Type        string `json:"type" validate:"required,oneof=schedule workdata file workspace"`
	Body        string `json:"body" validate:"max=4000"`
}

func NewNotificationService(notificationRepo repository.NotificationRepository, buffer *realtime.Buffer) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		buffer:           buffer,
	}
}

// RecordEvent appends a domain-change event to the buffer. The next
// dispatcher flush turns it into notifications for the workspace members.
func (s *NotificationService) RecordEvent(actorID uuid.UUID, actorName string, req RecordEventRequest) error {
	workspaceID, err := uuid.Parse(req.WorkspaceID)
	if err != nil {
		return err
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		return err
	}

	s.buffer.Record(domain.Event{
		ActorID:     actorID,
		ActorName:   actorName,
		WorkspaceID: workspaceID,
		TargetID:    targetID,
		Title:       req.Title,
		Type:        req.Type,
		Body:        req.Body,
	})
	return nil
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.notificationRepo.ListByRecipient(ctx, recipientID, limit, offset)
}

// Unread returns the recipient's unread backlog, oldest first.
func (s *NotificationService) Unread(ctx context.Context, recipientID uuid.UUID) ([]*domain.Notification, error) {
	return s.notificationRepo.ListUnread(ctx, recipientID)
}

// MarkRead flips one notification's read flag. Marking an already-read
// notification succeeds; false means the record does not exist.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.notificationRepo.MarkRead(ctx, id)
}

// MarkAllRead flips every unread notification for the recipient. Returns
// whether anything changed, so a second consecutive call reports false.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (bool, error) {
	changed, err := s.notificationRepo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return false, err
	}
	return changed > 0, nil
}

// Delete removes one notification unconditionally.
func (s *NotificationService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.notificationRepo.Delete(ctx, id)
}
