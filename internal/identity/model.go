// Package identity is the credential store: account records keyed by email,
// argon2id password hashes and the password policy applied on creation.
package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Identity struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	NormalizedEmail string    `json:"-"`
	PasswordHash    string    `json:"-"` // Never expose password hash in JSON
	EmailConfirmed  bool      `json:"email_confirmed"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NormalizeEmail returns the lookup key for an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
