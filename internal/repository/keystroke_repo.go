// internal/repository/keystroke_repo.go
package repository

import (
	"context"
	"time"

	"github.com/kasho-dev/WorkFlow-Pay/internal/domain"
)

// KeystrokeRepository defines the interface for keystroke entry data operations.
// Entries are append-only; there is no update or delete.
type KeystrokeRepository interface {
	// CreateKeystroke appends a new keystroke entry using the provided DBExecutor.
	CreateKeystroke(ctx context.Context, q DBExecutor, entry *domain.Keystroke) error
	// ListByUser retrieves a page of entries for a user, most recent date first.
	// It returns the page and the total number of entries for the user.
	ListByUser(ctx context.Context, q DBExecutor, userID string, limit, offset int) ([]domain.Keystroke, int64, error)
	// ListByUserInRange retrieves all entries for a user whose date falls in
	// [start, end], inclusive on both bounds, ordered by date ascending.
	ListByUserInRange(ctx context.Context, q DBExecutor, userID string, start, end time.Time) ([]domain.Keystroke, error)
}
