package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one entry in a channel's history. Immutable once stored;
// IsFile discriminates between a text payload and an uploaded-file reference
// (Content holds the object URL, OriginalFilename the client-side name).
type ChatMessage struct {
	ID               uuid.UUID `json:"id" db:"id"`
	ChannelID        string    `json:"channel_id" db:"channel_id"`
	SenderID         uuid.UUID `json:"sender_id" db:"sender_id"`
	SenderName       string    `json:"sender_name" db:"sender_name"`
	Content          string    `json:"content" db:"content"`
	IsFile           bool      `json:"is_file" db:"is_file"`
	OriginalFilename string    `json:"original_filename,omitempty" db:"original_filename"`
	SentAt           time.Time `json:"sent_at" db:"sent_at"`
}

// DirectMessage is a one-to-one message inside a workspace. Mutated only to
// flip Read when the receiver acknowledges it.
type DirectMessage struct {
	ID          uuid.UUID `json:"id" db:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id" db:"workspace_id"`
	SenderID    uuid.UUID `json:"sender_id" db:"sender_id"`
	ReceiverID  uuid.UUID `json:"receiver_id" db:"receiver_id"`
	Content     string    `json:"content" db:"content"`
	IsFile      bool      `json:"is_file" db:"is_file"`
	Read        bool      `json:"read" db:"read"`
	SentAt      time.Time `json:"sent_at" db:"sent_at"`
}
