package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/notebook-api/internal/database"
)

var (
	ErrNotFound       = errors.New("identity not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Repository handles identity persistence. It works on either a *bun.DB or a bun.Tx.
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new identity
func (r *Repository) Create(ctx context.Context, id *Identity) error {
	row := mapModelToDB(id)

	_, err := r.db.NewInsert().
		Model(row).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create identity: %w", err)
	}

	return nil
}

// GetByNormalizedEmail retrieves an identity by its normalized email
func (r *Repository) GetByNormalizedEmail(ctx context.Context, normalizedEmail string) (*Identity, error) {
	row := new(database.Identity)
	err := r.db.NewSelect().
		Model(row).
		Where("normalized_email = ?", normalizedEmail).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get identity by email: %w", err)
	}

	return mapDBToModel(row), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

func mapModelToDB(id *Identity) *database.Identity {
	return &database.Identity{
		ID:              id.ID,
		Email:           id.Email,
		NormalizedEmail: id.NormalizedEmail,
		PasswordHash:    id.PasswordHash,
		EmailConfirmed:  id.EmailConfirmed,
		CreatedAt:       id.CreatedAt,
		UpdatedAt:       id.UpdatedAt,
	}
}

func mapDBToModel(row *database.Identity) *Identity {
	return &Identity{
		ID:              row.ID,
		Email:           row.Email,
		NormalizedEmail: row.NormalizedEmail,
		PasswordHash:    row.PasswordHash,
		EmailConfirmed:  row.EmailConfirmed,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
