package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/internal/repository"
)

type accountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *sqlx.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, email, display_name, created_at
		FROM accounts
		WHERE id = $1`

	var account domain.Account
	err := r.db.GetContext(ctx, &account, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}

	return &account, nil
}

// ListWorkspaceMembers retrieves every account that is a member of the workspace
func (r *accountRepository) ListWorkspaceMembers(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Account, error) {
	query := `
		SELECT a.id, a.email, a.display_name, a.created_at
		FROM accounts a
		INNER JOIN workspace_members wm ON wm.account_id = a.id
		WHERE wm.workspace_id = $1
		ORDER BY a.display_name`

	var accounts []*domain.Account
	err := r.db.SelectContext(ctx, &accounts, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace members: %w", err)
	}

	return accounts, nil
}
