package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/internal/repository"
)

type notificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new PostgreSQL notification repository
func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateBatch inserts all notifications inside one transaction
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO notifications (
			id, recipient_id, sender_id, sender_name, workspace_id,
			schedule_id, record_id, workdata_id, title, type, body,
			read, created_at, url
		) VALUES (
			:id, :recipient_id, :sender_id, :sender_name, :workspace_id,
			:schedule_id, :record_id, :workdata_id, :title, :type, :body,
			:read, :created_at, :url
		)`

	for _, n := range notifications {
		if _, err := tx.NamedExecContext(ctx, query, n); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit notifications: %w", err)
	}

	return nil
}

// ListByRecipient retrieves notifications for a recipient, newest first
func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	query := `
		SELECT id, recipient_id, sender_id, sender_name, workspace_id,
			   schedule_id, record_id, workdata_id, title, type, body,
			   read, created_at, url
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var notifications []*domain.Notification
	err := r.db.SelectContext(ctx, &notifications, query, recipientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

// ListUnread retrieves the unread backlog for a recipient, oldest first
func (r *notificationRepository) ListUnread(ctx context.Context, recipientID uuid.UUID) ([]*domain.Notification, error) {
	query := `
		SELECT id, recipient_id, sender_id, sender_name, workspace_id,
			   schedule_id, record_id, workdata_id, title, type, body,
			   read, created_at, url
		FROM notifications
		WHERE recipient_id = $1 AND read = false
		ORDER BY created_at ASC`

	var notifications []*domain.Notification
	err := r.db.SelectContext(ctx, &notifications, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead flips one notification's read flag
func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	// Matching an already-read record keeps the call idempotent: the row is
	// found, the update changes nothing.
	query := `
		UPDATE notifications
		SET read = true
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// MarkAllRead flips every unread notification for the recipient
func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	query := `
		UPDATE notifications
		SET read = true
		WHERE recipient_id = $1 AND read = false`

	result, err := r.db.ExecContext(ctx, query, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// Delete removes one notification unconditionally
func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM notifications WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete notification: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// DeleteReadOlderThan purges read notifications created before cutoff
func (r *notificationRepository) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM notifications
		WHERE read = true AND created_at < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}
