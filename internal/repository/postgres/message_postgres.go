package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/internal/repository"
)

type messageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new PostgreSQL message repository
func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

// CreateChatMessage inserts a new channel message into the database
func (r *messageRepository) CreateChatMessage(ctx context.Context, msg *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (
			id, channel_id, sender_id, sender_name, content,
			is_file, original_filename, sent_at
		) VALUES (
			:id, :channel_id, :sender_id, :sender_name, :content,
			:is_file, :original_filename, :sent_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, msg)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}

	return nil
}

// ListByChannel retrieves channel history, oldest first
func (r *messageRepository) ListByChannel(ctx context.Context, channelID string, limit, offset int) ([]*domain.ChatMessage, error) {
	query := `
		SELECT id, channel_id, sender_id, sender_name, content,
			   is_file, original_filename, sent_at
		FROM chat_messages
		WHERE channel_id = $1
		ORDER BY sent_at ASC
		LIMIT $2 OFFSET $3`

	var messages []*domain.ChatMessage
	err := r.db.SelectContext(ctx, &messages, query, channelID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel messages: %w", err)
	}

	return messages, nil
}

// CreateDirectMessage inserts a new direct message into the database
func (r *messageRepository) CreateDirectMessage(ctx context.Context, msg *domain.DirectMessage) error {
	query := `
		INSERT INTO direct_messages (
			id, workspace_id, sender_id, receiver_id, content,
			is_file, read, sent_at
		) VALUES (
			:id, :workspace_id, :sender_id, :receiver_id, :content,
			:is_file, :read, :sent_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, msg)
	if err != nil {
		return fmt.Errorf("failed to create direct message: %w", err)
	}

	return nil
}

// ListConversation retrieves the two-way conversation between two accounts in a workspace
func (r *messageRepository) ListConversation(ctx context.Context, workspaceID, accountID, otherID uuid.UUID, limit, offset int) ([]*domain.DirectMessage, error) {
	query := `
		SELECT id, workspace_id, sender_id, receiver_id, content,
			   is_file, read, sent_at
		FROM direct_messages
		WHERE workspace_id = $1
		  AND ((sender_id = $2 AND receiver_id = $3) OR (sender_id = $3 AND receiver_id = $2))
		ORDER BY sent_at ASC
		LIMIT $4 OFFSET $5`

	var messages []*domain.DirectMessage
	err := r.db.SelectContext(ctx, &messages, query, workspaceID, accountID, otherID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}

	return messages, nil
}

// MarkDirectRead flips the read flag for the receiver's unread message
func (r *messageRepository) MarkDirectRead(ctx context.Context, id, receiverID uuid.UUID) (bool, error) {
	query := `
		UPDATE direct_messages
		SET read = true
		WHERE id = $1 AND receiver_id = $2 AND read = false`

	result, err := r.db.ExecContext(ctx, query, id, receiverID)
	if err != nil {
		return false, fmt.Errorf("failed to mark direct message read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}
