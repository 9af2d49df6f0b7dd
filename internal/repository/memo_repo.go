// internal/repository/memo_repo.go
package repository

import (
	"context"

	"github.com/kasho-dev/WorkFlow-Pay/internal/domain"
)

// MemoRepository defines the interface for per-user memo operations.
// One record per user, replaced in place on every save.
type MemoRepository interface {
	// UpsertMemo creates the user's memo or replaces its content.
	UpsertMemo(ctx context.Context, q DBExecutor, memo *domain.Memo) error
	// GetMemo retrieves the user's memo.
	GetMemo(ctx context.Context, q DBExecutor, userID string) (*domain.Memo, error)
}
