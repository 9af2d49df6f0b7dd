// internal/domain/memo.go
package domain

import "time"

// Memo is a per-user dashboard note. Exactly one record per user, keyed by
// user ID and replaced in place on every save.
type Memo struct {
	UserID    string    `db:"user_id" json:"userId"`
	Content   string    `db:"content" json:"content"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewMemo creates a new Memo instance for the given user.
func NewMemo(userID, content string) *Memo {
	return &Memo{
		UserID:    userID,
		Content:   content,
		UpdatedAt: time.Now().UTC(),
	}
}
