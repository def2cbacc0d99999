package realtime

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/internal/repository"
)

// Dispatcher periodically materializes buffered events into persisted
// notifications and pushes them through the hub. Delivery is at-least-once:
// records are durable before any push, and a failed flush leaves the buffer
// intact for the next run.
type Dispatcher struct {
	buffer        *Buffer
	hub           *Hub
	accounts      repository.AccountRepository
	notifications repository.NotificationRepository
	interval      time.Duration
}

func NewDispatcher(
	buffer *Buffer,
	hub *Hub,
	accounts repository.AccountRepository,
	notifications repository.NotificationRepository,
	interval time.Duration,
) *Dispatcher {
	return &Dispatcher{
		buffer:        buffer,
		hub:           hub,
		accounts:      accounts,
		notifications: notifications,
		interval:      interval,
	}
}

// Run flushes on a fixed ticker until ctx is cancelled. Flush failures are
// logged and retried on the next tick, never escalated.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.Flush(ctx); err != nil {
				log.Printf("[DISPATCHER] Flush failed, will retry next tick: %v", err)
			}
		}
	}
}

// Flush resolves every buffered event into one notification per workspace
// member (excluding the actor), persists the whole batch, commits the buffer,
// and pushes each record to its recipient's stream. An empty buffer is a
// no-op. Two events for the same entity in one window each produce their own
// notifications; there is no coalescing.
func (d *Dispatcher) Flush(ctx context.Context) error {
	events := d.buffer.Snapshot()
	if len(events) == 0 {
		return nil
	}

	now := time.Now()
	var batch []*domain.Notification

	for _, e := range events {
		members, err := d.accounts.ListWorkspaceMembers(ctx, e.WorkspaceID)
		if err != nil {
			return err
		}

		for _, member := range members {
			if member.ID == e.ActorID {
				continue
			}
			batch = append(batch, buildNotification(&e, member.ID, now))
		}
	}

	// Zero recipients overall still consumes the events.
	if err := d.notifications.CreateBatch(ctx, batch); err != nil {
		return err
	}

	d.buffer.Commit(len(events))

	for _, n := range batch {
		d.hub.Push(n)
	}

	if len(batch) > 0 {
		log.Printf("[DISPATCHER] Flushed %d events into %d notifications", len(events), len(batch))
	}

	return nil
}

func buildNotification(e *domain.Event, recipientID uuid.UUID, now time.Time) *domain.Notification {
	workspaceID := e.WorkspaceID
	n := &domain.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		SenderID:    e.ActorID,
		SenderName:  e.ActorName,
		WorkspaceID: &workspaceID,
		Title:       e.Title,
		Type:        e.Type,
		Body:        e.Body,
		Read:        false,
		CreatedAt:   now,
		URL:         domain.BuildNotificationURL(e.Type, e.WorkspaceID, e.TargetID),
	}

	targetID := e.TargetID
	switch e.Type {
	case domain.NotificationTypeSchedule:
		n.ScheduleID = &targetID
	case domain.NotificationTypeWorkdata:
		n.WorkdataID = &targetID
	case domain.NotificationTypeFile:
		n.RecordID = &targetID
	}

	return n
}
