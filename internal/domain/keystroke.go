// internal/domain/keystroke.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Keystroke represents a recorded keystroke count for one user on one calendar date.
// Rows are append-only in the canonical store; the store does not enforce
// one-entry-per-day, so the same date may carry several rows.
type Keystroke struct {
	ID        string    `db:"id" json:"id"`                 // Primary key, UUID assigned at creation
	UserID    string    `db:"user_id" json:"userId"`        // Foreign key to User
	Count     int64     `db:"count" json:"count"`           // Keystroke count, always >= 0
	Date      time.Time `db:"date" json:"date"`             // Calendar date the count belongs to
	CreatedAt time.Time `db:"created_at" json:"created_at"` // Timestamp of record creation
}

// NewKeystroke creates a new Keystroke instance with a fresh ID.
// Count validation happens in the service layer before this is persisted.
func NewKeystroke(userID string, count int64, date time.Time) *Keystroke {
	return &Keystroke{
		ID:        uuid.NewString(),
		UserID:    userID,
		Count:     count,
		Date:      date.UTC(),
		CreatedAt: time.Now().UTC(),
	}
}
