package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/internal/realtime"
)

type failingNotificationRepo struct {
	fakeNotificationRepo
}

func (r *failingNotificationRepo) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	return errors.New("notifications table unavailable")
}

func TestSendPersistsAndNotifiesReceiver(t *testing.T) {
	msgRepo := &fakeMessageRepo{}
	notifRepo := &fakeNotificationRepo{}
	hub := realtime.NewHub()
	svc := NewDMService(msgRepo, notifRepo, hub)

	workspaceID := uuid.New()
	senderID := uuid.New()
	receiverID := uuid.New()

	sub := hub.Subscribe(receiverID)

	msg, err := svc.Send(context.Background(), workspaceID, senderID, "Yuna", SendDMRequest{
		ReceiverID: receiverID.String(),
		Content:    "are you free at 3?",
	})
	require.NoError(t, err)
	assert.Equal(t, receiverID, msg.ReceiverID)
	assert.False(t, msg.Read)
	require.Len(t, msgRepo.directMessages, 1)

	// The receiver gets exactly one persisted, pushed notification.
	require.Len(t, notifRepo.stored, 1)
	n := notifRepo.stored[0]
	assert.Equal(t, receiverID, n.RecipientID)
	assert.Equal(t, domain.NotificationTypeDM, n.Type)
	assert.Equal(t, "are you free at 3?", n.Body)
	assert.Contains(t, n.Title, "Yuna")

	select {
	case pushed := <-sub.Notifications():
		assert.Equal(t, n.ID, pushed.ID)
	default:
		t.Fatal("receiver's stream should carry the notification")
	}
}

func TestSendRejectsBadReceiverID(t *testing.T) {
	svc := NewDMService(&fakeMessageRepo{}, &fakeNotificationRepo{}, realtime.NewHub())

	_, err := svc.Send(context.Background(), uuid.New(), uuid.New(), "Yuna", SendDMRequest{
		ReceiverID: "not-a-uuid",
		Content:    "hi",
	})
	require.Error(t, err)
}

func TestSendSurvivesNotificationFailure(t *testing.T) {
	msgRepo := &fakeMessageRepo{}
	svc := NewDMService(msgRepo, &failingNotificationRepo{}, realtime.NewHub())

	msg, err := svc.Send(context.Background(), uuid.New(), uuid.New(), "Yuna", SendDMRequest{
		ReceiverID: uuid.New().String(),
		Content:    "hi",
	})
	require.NoError(t, err, "the message is durable even when the notification path fails")
	require.NotNil(t, msg)
	require.Len(t, msgRepo.directMessages, 1)
}

func TestConversationIsTwoWay(t *testing.T) {
	msgRepo := &fakeMessageRepo{}
	svc := NewDMService(msgRepo, &fakeNotificationRepo{}, realtime.NewHub())

	workspaceID := uuid.New()
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	_, err := svc.Send(context.Background(), workspaceID, a, "A", SendDMRequest{ReceiverID: b.String(), Content: "ping"})
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), workspaceID, b, "B", SendDMRequest{ReceiverID: a.String(), Content: "pong"})
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), workspaceID, a, "A", SendDMRequest{ReceiverID: c.String(), Content: "other thread"})
	require.NoError(t, err)

	out, err := svc.Conversation(context.Background(), workspaceID, a, b, 0, 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
}

func TestMarkReadOnlyForReceiver(t *testing.T) {
	msgRepo := &fakeMessageRepo{}
	svc := NewDMService(msgRepo, &fakeNotificationRepo{}, realtime.NewHub())

	senderID := uuid.New()
	receiverID := uuid.New()
	msg, err := svc.Send(context.Background(), uuid.New(), senderID, "A", SendDMRequest{ReceiverID: receiverID.String(), Content: "ping"})
	require.NoError(t, err)

	// The sender cannot acknowledge the receiver's message.
	ok, err := svc.MarkRead(context.Background(), msg.ID, senderID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.MarkRead(context.Background(), msg.ID, receiverID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Already read.
	ok, err = svc.MarkRead(context.Background(), msg.ID, receiverID)
	require.NoError(t, err)
	assert.False(t, ok)
}
