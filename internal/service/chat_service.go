package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/internal/realtime"
	"github.com/teamgrid/collab-service/internal/repository"
	"github.com/teamgrid/collab-service/pkg/storage"
)

var ErrEmptyMessage = errors.New("message content is empty")

// ChatService bridges channel traffic to persistence and storage. Text frames
// come in through the socket gateway; file payloads arrive on the separate
// upload path and are surfaced to the channel as file-flagged messages.
type ChatService struct {
	messageRepo repository.MessageRepository
	registry    *realtime.Registry
	storage     storage.Storage
}

func NewChatService(messageRepo repository.MessageRepository, registry *realtime.Registry, store storage.Storage) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		registry:    registry,
		storage:     store,
	}
}

// SaveText persists an inbound text frame and returns the stored message with
// its server-assigned timestamp. Broadcasting is the gateway's job; it knows
// which session to exclude.
func (s *ChatService) SaveText(ctx context.Context, senderID uuid.UUID, senderName, channelID, content string) (*domain.ChatMessage, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}

	msg := &domain.ChatMessage{
		ID:         uuid.New(),
		ChannelID:  channelID,
		SenderID:   senderID,
		SenderName: senderName,
		Content:    content,
		IsFile:     false,
		SentAt:     time.Now(),
	}

	if err := s.messageRepo.CreateChatMessage(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// UploadFile stores the payload in object storage, persists the file-flagged
// message whose content is the object URL, and broadcasts it to every session
// in the channel. The uploader is not excluded: they are not on the socket
// path for this message and would otherwise never see it.
func (s *ChatService) UploadFile(ctx context.Context, senderID uuid.UUID, senderName, channelID, filename, contentType string, reader io.Reader, size int64) (*domain.ChatMessage, error) {
	objectPath := fmt.Sprintf("channels/%s/%s%s", channelID, uuid.New(), filepath.Ext(filename))

	url, err := s.storage.Upload(ctx, reader, objectPath, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	msg := &domain.ChatMessage{
		ID:               uuid.New(),
		ChannelID:        channelID,
		SenderID:         senderID,
		SenderName:       senderName,
		Content:          url,
		IsFile:           true,
		OriginalFilename: filename,
		SentAt:           time.Now(),
	}

	if err := s.messageRepo.CreateChatMessage(ctx, msg); err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(msg); err == nil {
		s.registry.Broadcast(channelID, payload, nil)
	}

	return msg, nil
}

// History returns the channel's message history, oldest first.
func (s *ChatService) History(ctx context.Context, channelID string, limit, offset int) ([]*domain.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.messageRepo.ListByChannel(ctx, channelID, limit, offset)
}
