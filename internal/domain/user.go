// internal/domain/user.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is applied when a user is created without an explicit currency code.
const DefaultCurrency = "PHP"

// User represents an account in the productivity dashboard.
type User struct {
	ID        string    `db:"id" json:"id"`                 // Primary key, UUID assigned at creation
	Email     string    `db:"email" json:"email"`           // Unique natural key for upserts
	Name      string    `db:"name" json:"name"`             // Display name
	Currency  string    `db:"currency" json:"currency"`     // Currency code for salary figures, e.g. "PHP"
	CreatedAt time.Time `db:"created_at" json:"created_at"` // Timestamp of creation
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // Timestamp of last update
}

// NewUser creates a new User instance with a fresh ID.
// An empty currency falls back to DefaultCurrency.
func NewUser(email, name, currency string) *User {
	if currency == "" {
		currency = DefaultCurrency
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
