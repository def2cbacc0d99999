package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/internal/realtime"
)

type fakeMessageRepo struct {
	chatMessages   []*domain.ChatMessage
	directMessages []*domain.DirectMessage
	createErr      error
}

func (r *fakeMessageRepo) CreateChatMessage(ctx context.Context, msg *domain.ChatMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.chatMessages = append(r.chatMessages, msg)
	return nil
}

func (r *fakeMessageRepo) ListByChannel(ctx context.Context, channelID string, limit, offset int) ([]*domain.ChatMessage, error) {
	var out []*domain.ChatMessage
	for _, m := range r.chatMessages {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) CreateDirectMessage(ctx context.Context, msg *domain.DirectMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.directMessages = append(r.directMessages, msg)
	return nil
}

func (r *fakeMessageRepo) ListConversation(ctx context.Context, workspaceID, accountID, otherID uuid.UUID, limit, offset int) ([]*domain.DirectMessage, error) {
	var out []*domain.DirectMessage
	for _, m := range r.directMessages {
		if m.WorkspaceID != workspaceID {
			continue
		}
		if (m.SenderID == accountID && m.ReceiverID == otherID) || (m.SenderID == otherID && m.ReceiverID == accountID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkDirectRead(ctx context.Context, id, receiverID uuid.UUID) (bool, error) {
	for _, m := range r.directMessages {
		if m.ID == id && m.ReceiverID == receiverID && !m.Read {
			m.Read = true
			return true, nil
		}
	}
	return false, nil
}

type fakeStorage struct {
	uploads   int
	lastPath  string
	uploadErr error
}

func (s *fakeStorage) Upload(ctx context.Context, reader io.Reader, path string, size int64, contentType string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads++
	s.lastPath = path
	return "https://files.teamgrid.dev/" + path, nil
}

func (s *fakeStorage) Delete(ctx context.Context, path string) error {
	return nil
}

func TestSaveTextPersistsMessage(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewChatService(repo, realtime.NewRegistry(), &fakeStorage{})

	senderID := uuid.New()
	msg, err := svc.SaveText(context.Background(), senderID, "Hana", "channel-7", "hello there")
	require.NoError(t, err)

	assert.Equal(t, senderID, msg.SenderID)
	assert.Equal(t, "Hana", msg.SenderName)
	assert.Equal(t, "channel-7", msg.ChannelID)
	assert.Equal(t, "hello there", msg.Content)
	assert.False(t, msg.IsFile)
	assert.False(t, msg.SentAt.IsZero())
	require.Len(t, repo.chatMessages, 1)
}

func TestSaveTextRejectsEmptyContent(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewChatService(repo, realtime.NewRegistry(), &fakeStorage{})

	_, err := svc.SaveText(context.Background(), uuid.New(), "Hana", "channel-7", "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, repo.chatMessages)
}

func TestUploadFileStoresAndPersists(t *testing.T) {
	repo := &fakeMessageRepo{}
	store := &fakeStorage{}
	svc := NewChatService(repo, realtime.NewRegistry(), store)

	body := strings.NewReader("file bytes")
	msg, err := svc.UploadFile(context.Background(), uuid.New(), "Hana", "channel-7", "report.pdf", "application/pdf", body, int64(body.Len()))
	require.NoError(t, err)

	assert.True(t, msg.IsFile)
	assert.Equal(t, "report.pdf", msg.OriginalFilename)
	assert.Contains(t, msg.Content, "https://files.teamgrid.dev/channels/channel-7/")
	assert.Equal(t, 1, store.uploads)
	assert.True(t, strings.HasSuffix(store.lastPath, ".pdf"), "object path keeps the original extension")
	require.Len(t, repo.chatMessages, 1)
}

func TestUploadFileStorageFailureDoesNotPersist(t *testing.T) {
	repo := &fakeMessageRepo{}
	store := &fakeStorage{uploadErr: errors.New("bucket gone")}
	svc := NewChatService(repo, realtime.NewRegistry(), store)

	_, err := svc.UploadFile(context.Background(), uuid.New(), "Hana", "channel-7", "report.pdf", "application/pdf", strings.NewReader("x"), 1)
	require.Error(t, err)
	assert.Empty(t, repo.chatMessages)
}

func TestHistoryScopedToChannel(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewChatService(repo, realtime.NewRegistry(), &fakeStorage{})

	_, err := svc.SaveText(context.Background(), uuid.New(), "Hana", "channel-a", "one")
	require.NoError(t, err)
	_, err = svc.SaveText(context.Background(), uuid.New(), "Hana", "channel-b", "two")
	require.NoError(t, err)

	out, err := svc.History(context.Background(), "channel-a", 0, -1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "one", out[0].Content)
}
