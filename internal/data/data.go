// Package data groups the stores behind narrow interfaces and provides a
// unit of work that binds them to one database transaction.
package data

import (
	"context"

	"github.com/google/uuid"

	"github.com/redmonkez12/notebook-api/internal/identity"
	"github.com/redmonkez12/notebook-api/internal/refreshtoken"
	"github.com/redmonkez12/notebook-api/internal/user"
)

// CredentialStore is implemented by *identity.Manager.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*identity.Identity, error)
	Create(ctx context.Context, email, password string, emailConfirmed bool) (*identity.Identity, error)
	CheckPassword(id *identity.Identity, password string) bool
}

// UserStore is implemented by *user.Repository.
type UserStore interface {
	Add(ctx context.Context, u *user.User) error
	GetByIdentityID(ctx context.Context, identityID uuid.UUID) (*user.User, error)
}

// RefreshTokenStore is implemented by *refreshtoken.Repository.
type RefreshTokenStore interface {
	Add(ctx context.Context, rt *refreshtoken.RefreshToken) error
	All(ctx context.Context) []*refreshtoken.RefreshToken
}

// UnitOfWork exposes stores sharing one transaction. Nothing written through
// them is visible to others until Complete succeeds. Rollback after Complete is a no-op.
type UnitOfWork interface {
	Credentials() CredentialStore
	Users() UserStore
	RefreshTokens() RefreshTokenStore
	Complete() error
	Rollback() error
}

// Store hands out non-transactional stores and starts units of work.
type Store interface {
	Credentials() CredentialStore
	Users() UserStore
	Begin(ctx context.Context) (UnitOfWork, error)
}
