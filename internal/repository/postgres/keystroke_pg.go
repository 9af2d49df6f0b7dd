// internal/repository/postgres/keystroke_pg.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kasho-dev/WorkFlow-Pay/internal/domain"
	"github.com/kasho-dev/WorkFlow-Pay/internal/repository"
)

// KeystrokeRepository implements repository.KeystrokeRepository for PostgreSQL.
type KeystrokeRepository struct {
	// Stateless; methods receive a DBExecutor directly.
}

// NewKeystrokeRepository creates a new KeystrokeRepository.
func NewKeystrokeRepository(db *sqlx.DB) repository.KeystrokeRepository {
	return &KeystrokeRepository{}
}

// CreateKeystroke appends a new keystroke entry using the provided DBExecutor.
func (r *KeystrokeRepository) CreateKeystroke(ctx context.Context, q repository.DBExecutor, entry *domain.Keystroke) error {
	query := `INSERT INTO keystrokes (id, user_id, count, date, created_at)
              VALUES ($1, $2, $3, $4, $5)`
	_, err := q.ExecContext(ctx, query, entry.ID, entry.UserID, entry.Count, entry.Date, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create keystroke entry: %w", err)
	}
	return nil
}

// ListByUser retrieves a page of entries for a user, most recent date first.
// It performs two queries: one for the page and one for the total count.
func (r *KeystrokeRepository) ListByUser(ctx context.Context, q repository.DBExecutor, userID string, limit, offset int) ([]domain.Keystroke, int64, error) {
	entries := []domain.Keystroke{}

	query := `
		SELECT id, user_id, count, date, created_at
		FROM keystrokes
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &entries, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch keystrokes for user %s: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM keystrokes WHERE user_id = $1`
	err = q.GetContext(ctx, &totalCount, countQuery, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total keystroke count for user %s: %w", userID, err)
	}

	return entries, totalCount, nil
}

// ListByUserInRange retrieves all entries whose date falls in [start, end],
// inclusive on both bounds, ordered by date ascending.
func (r *KeystrokeRepository) ListByUserInRange(ctx context.Context, q repository.DBExecutor, userID string, start, end time.Time) ([]domain.Keystroke, error) {
	entries := []domain.Keystroke{}

	query := `
		SELECT id, user_id, count, date, created_at
		FROM keystrokes
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`
	err := q.SelectContext(ctx, &entries, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch keystrokes for user %s in range: %w", userID, err)
	}

	return entries, nil
}
