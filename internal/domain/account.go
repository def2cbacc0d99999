package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a read-only projection of the identity store. The realtime core
// never creates or mutates accounts; it resolves display names for
// notifications and enumerates workspace members for fan-out.
type Account struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Roles       []string  `json:"roles,omitempty" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
