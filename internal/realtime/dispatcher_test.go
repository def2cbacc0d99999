package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamgrid/collab-service/internal/domain"
)

type fakeAccountRepo struct {
	members map[uuid.UUID][]*domain.Account
	err     error
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	for _, accounts := range r.members {
		for _, a := range accounts {
			if a.ID == id {
				return a, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) ListWorkspaceMembers(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.members[workspaceID], nil
}

type fakeNotificationRepo struct {
	mu        sync.Mutex
	stored    []*domain.Notification
	createErr error
	deleteErr error
}

func (r *fakeNotificationRepo) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.stored = append(r.stored, notifications...)
	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.stored {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) ListUnread(ctx context.Context, recipientID uuid.UUID) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.stored {
		if n.RecipientID == recipientID && !n.Read {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.stored {
		if n.ID == id {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for _, n := range r.stored {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			changed++
		}
	}
	return changed, nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.stored {
		if n.ID == id {
			r.stored = append(r.stored[:i], r.stored[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	var kept []*domain.Notification
	var purged int64
	for _, n := range r.stored {
		if n.Read && n.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, n)
	}
	r.stored = kept
	return purged, nil
}

func (r *fakeNotificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stored)
}

func TestDispatcherFlushEmptyBufferIsNoop(t *testing.T) {
	buffer := NewBuffer()
	hub := NewHub()
	notifications := &fakeNotificationRepo{}
	d := NewDispatcher(buffer, hub, &fakeAccountRepo{}, notifications, time.Second)

	require.NoError(t, d.Flush(context.Background()))
	assert.Equal(t, 0, notifications.count())
}

func TestDispatcherFlushFansOutToWorkspaceMembers(t *testing.T) {
	workspaceID := uuid.New()
	actor := &domain.Account{ID: uuid.New(), DisplayName: "Actor"}
	m1 := &domain.Account{ID: uuid.New(), DisplayName: "Member One"}
	m2 := &domain.Account{ID: uuid.New(), DisplayName: "Member Two"}

	buffer := NewBuffer()
	hub := NewHub()
	accounts := &fakeAccountRepo{members: map[uuid.UUID][]*domain.Account{
		workspaceID: {actor, m1, m2},
	}}
	notifications := &fakeNotificationRepo{}
	d := NewDispatcher(buffer, hub, accounts, notifications, time.Second)

	sub := hub.Subscribe(m1.ID)

	targetID := uuid.New()
	buffer.Record(domain.Event{
		ActorID:     actor.ID,
		ActorName:   actor.DisplayName,
		WorkspaceID: workspaceID,
		TargetID:    targetID,
		Title:       "Schedule changed",
		Type:        domain.NotificationTypeSchedule,
		Body:        "Weekly sync moved to 10:00",
	})

	require.NoError(t, d.Flush(context.Background()))

	// One record per member, actor excluded; buffer consumed.
	assert.Equal(t, 2, notifications.count())
	assert.Equal(t, 0, buffer.Len())

	select {
	case n := <-sub.Notifications():
		assert.Equal(t, "Weekly sync moved to 10:00", n.Body)
		assert.Equal(t, m1.ID, n.RecipientID)
		assert.Equal(t, actor.DisplayName, n.SenderName)
		require.NotNil(t, n.ScheduleID)
		assert.Equal(t, targetID, *n.ScheduleID)
		assert.False(t, n.Read)
	default:
		t.Fatal("subscribed member should receive the live push")
	}

	select {
	case <-sub.Notifications():
		t.Fatal("only one notification expected for one event")
	default:
	}
}

func TestDispatcherPersistenceFailureKeepsBuffer(t *testing.T) {
	workspaceID := uuid.New()
	member := &domain.Account{ID: uuid.New()}

	buffer := NewBuffer()
	accounts := &fakeAccountRepo{members: map[uuid.UUID][]*domain.Account{
		workspaceID: {member},
	}}
	notifications := &fakeNotificationRepo{createErr: errors.New("store unavailable")}
	d := NewDispatcher(buffer, NewHub(), accounts, notifications, time.Second)

	buffer.Record(domain.Event{WorkspaceID: workspaceID, ActorID: uuid.New(), Type: domain.NotificationTypeWorkdata})

	require.Error(t, d.Flush(context.Background()))
	assert.Equal(t, 1, buffer.Len(), "failed flush must leave the buffer intact for retry")

	// Store recovers: the retry delivers without duplicating.
	notifications.createErr = nil
	require.NoError(t, d.Flush(context.Background()))
	assert.Equal(t, 1, notifications.count())
	assert.Equal(t, 0, buffer.Len())
}

func TestDispatcherZeroRecipientsProducesNoNotifications(t *testing.T) {
	buffer := NewBuffer()
	notifications := &fakeNotificationRepo{}
	d := NewDispatcher(buffer, NewHub(), &fakeAccountRepo{}, notifications, time.Second)

	buffer.Record(domain.Event{WorkspaceID: uuid.New()})

	require.NoError(t, d.Flush(context.Background()))
	assert.Equal(t, 0, notifications.count())
	assert.Equal(t, 0, buffer.Len(), "the event is still consumed")
}

func TestDispatcherNoCoalescingWithinOneWindow(t *testing.T) {
	workspaceID := uuid.New()
	member := &domain.Account{ID: uuid.New()}

	buffer := NewBuffer()
	accounts := &fakeAccountRepo{members: map[uuid.UUID][]*domain.Account{
		workspaceID: {member},
	}}
	notifications := &fakeNotificationRepo{}
	d := NewDispatcher(buffer, NewHub(), accounts, notifications, time.Second)

	targetID := uuid.New()
	actorID := uuid.New()
	for i := 0; i < 2; i++ {
		buffer.Record(domain.Event{
			ActorID:     actorID,
			WorkspaceID: workspaceID,
			TargetID:    targetID,
			Type:        domain.NotificationTypeWorkdata,
		})
	}

	require.NoError(t, d.Flush(context.Background()))
	assert.Equal(t, 2, notifications.count(), "same-entity events each produce their own notification")
}
