package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/notebook-api/internal/database"
)

var ErrNotFound = errors.New("user not found")

// Repository handles user profile persistence
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Add inserts a profile. Inside a unit of work nothing is visible until the
// surrounding transaction commits.
func (r *Repository) Add(ctx context.Context, u *User) error {
	_, err := r.db.NewInsert().
		Model(mapModelToDB(u)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}

	return nil
}

// GetByIdentityID retrieves the active profile linked to an identity
func (r *Repository) GetByIdentityID(ctx context.Context, identityID uuid.UUID) (*User, error) {
	row := new(database.User)
	err := r.db.NewSelect().
		Model(row).
		Where("identity_id = ?", identityID).
		Where("status = ?", StatusActive).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by identity id: %w", err)
	}

	return mapDBToModel(row), nil
}

func mapModelToDB(u *User) *database.User {
	return &database.User{
		ID:          u.ID,
		IdentityID:  u.IdentityID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Phone:       u.Phone,
		Country:     u.Country,
		DateOfBirth: u.DateOfBirth,
		Status:      u.Status,
		AddedDate:   u.AddedDate,
		UpdatedDate: u.UpdatedDate,
	}
}

func mapDBToModel(row *database.User) *User {
	return &User{
		ID:          row.ID,
		IdentityID:  row.IdentityID,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Email:       row.Email,
		Phone:       row.Phone,
		Country:     row.Country,
		DateOfBirth: row.DateOfBirth,
		Status:      row.Status,
		AddedDate:   row.AddedDate,
		UpdatedDate: row.UpdatedDate,
	}
}
