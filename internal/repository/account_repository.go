package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/teamgrid/collab-service/internal/domain"
)

// AccountRepository reads from the external identity store. The realtime core
// only resolves profiles and enumerates workspace members; account lifecycle
// is owned elsewhere.
type AccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListWorkspaceMembers(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Account, error)
}
