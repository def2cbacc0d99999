package domain

import "github.com/google/uuid"

// Event describes a business-state change that may warrant notifications.
// Events are ephemeral: business operations record them into the realtime
// buffer and the next dispatcher flush consumes them.
type Event struct {
	ActorID     uuid.UUID
	ActorName   string
	WorkspaceID uuid.UUID
	TargetID    uuid.UUID
	Title       string
	Type        string
	Body        string
}
