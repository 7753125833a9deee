package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Identity is the credential record owned by the identity manager.
type Identity struct {
	bun.BaseModel `bun:"table:identities,alias:i"`

	ID              uuid.UUID `bun:"id,pk,type:uuid"`
	Email           string    `bun:"email,notnull"`
	NormalizedEmail string    `bun:"normalized_email,notnull,unique"`
	PasswordHash    string    `bun:"password_hash,notnull"`
	EmailConfirmed  bool      `bun:"email_confirmed,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
	UpdatedAt       time.Time `bun:"updated_at,notnull"`
}

// User is the application profile linked one-to-one to an Identity.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	IdentityID  uuid.UUID `bun:"identity_id,type:uuid,notnull,unique"`
	FirstName   string    `bun:"first_name,notnull"`
	LastName    string    `bun:"last_name,notnull"`
	Email       string    `bun:"email,notnull"`
	Phone       string    `bun:"phone,notnull"`
	Country     string    `bun:"country,notnull"`
	DateOfBirth time.Time `bun:"date_of_birth,notnull"`
	Status      int16     `bun:"status,notnull"`
	AddedDate   time.Time `bun:"added_date,notnull"`
	UpdatedDate time.Time `bun:"updated_date,notnull"`
}

type RefreshToken struct {
	bun.BaseModel `bun:"table:refresh_tokens,alias:rt"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	UserID      uuid.UUID `bun:"user_id,type:uuid,notnull"`
	Token       string    `bun:"token,notnull"`
	JwtID       string    `bun:"jwt_id,notnull"`
	IsUsed      bool      `bun:"is_used,notnull"`
	IsRevoked   bool      `bun:"is_revoked,notnull"`
	ExpiresAt   time.Time `bun:"expires_at,notnull"`
	Status      int16     `bun:"status,notnull"`
	AddedDate   time.Time `bun:"added_date,notnull"`
	UpdatedDate time.Time `bun:"updated_date,notnull"`
}
