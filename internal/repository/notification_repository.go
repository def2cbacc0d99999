package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/teamgrid/collab-service/internal/domain"
)

type NotificationRepository interface {
	// CreateBatch persists all notifications in one operation. Either every
	// record is durable or none is; the dispatcher relies on this to keep
	// its clear-after-success contract.
	CreateBatch(ctx context.Context, notifications []*domain.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*domain.Notification, error)
	ListUnread(ctx context.Context, recipientID uuid.UUID) ([]*domain.Notification, error)
	// MarkRead flips one record's read flag. Returns false when the record
	// does not exist; marking an already-read record succeeds as a no-op.
	MarkRead(ctx context.Context, id uuid.UUID) (bool, error)
	// MarkAllRead flips every unread record for the recipient and returns
	// how many rows changed.
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// DeleteReadOlderThan purges read notifications created before cutoff.
	DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
