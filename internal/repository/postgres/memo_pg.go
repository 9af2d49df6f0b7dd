// internal/repository/postgres/memo_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kasho-dev/WorkFlow-Pay/internal/domain"
	"github.com/kasho-dev/WorkFlow-Pay/internal/repository"
	"github.com/kasho-dev/WorkFlow-Pay/internal/util"
)

// MemoRepository implements repository.MemoRepository for PostgreSQL.
type MemoRepository struct{}

// NewMemoRepository creates a new MemoRepository.
func NewMemoRepository(db *sqlx.DB) repository.MemoRepository {
	return &MemoRepository{}
}

// UpsertMemo creates the user's memo or replaces its content in place.
func (r *MemoRepository) UpsertMemo(ctx context.Context, q repository.DBExecutor, memo *domain.Memo) error {
	query := `INSERT INTO memos (user_id, content, updated_at)
              VALUES ($1, $2, $3)
              ON CONFLICT (user_id) DO UPDATE SET content = $2, updated_at = $3`
	_, err := q.ExecContext(ctx, query, memo.UserID, memo.Content, memo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert memo for user %s: %w", memo.UserID, err)
	}
	return nil
}

// GetMemo retrieves the user's memo.
func (r *MemoRepository) GetMemo(ctx context.Context, q repository.DBExecutor, userID string) (*domain.Memo, error) {
	var memo domain.Memo
	query := `SELECT user_id, content, updated_at FROM memos WHERE user_id = $1`
	err := q.GetContext(ctx, &memo, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get memo for user %s: %w", userID, err)
	}
	return &memo, nil
}
