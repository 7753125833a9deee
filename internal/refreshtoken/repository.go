package refreshtoken

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/notebook-api/internal/database"
	"github.com/redmonkez12/notebook-api/internal/logging"
)

// Repository handles refresh token persistence
type Repository struct {
	db     bun.IDB
	logger *logging.Logger
}

func NewRepository(db bun.IDB, logger *logging.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Add stores a refresh token
func (r *Repository) Add(ctx context.Context, rt *RefreshToken) error {
	_, err := r.db.NewInsert().
		Model(mapModelToDB(rt)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	return nil
}

// All returns every active refresh token. A storage failure is logged and
// yields an empty list rather than an error.
func (r *Repository) All(ctx context.Context) []*RefreshToken {
	var rows []database.RefreshToken
	err := r.db.NewSelect().
		Model(&rows).
		Where("status = ?", StatusActive).
		Scan(ctx)
	if err != nil {
		r.logger.Error("refresh token repository: list active failed", "error", err)
		return []*RefreshToken{}
	}

	out := make([]*RefreshToken, 0, len(rows))
	for i := range rows {
		out = append(out, mapDBToModel(&rows[i]))
	}
	return out
}

func mapModelToDB(rt *RefreshToken) *database.RefreshToken {
	return &database.RefreshToken{
		ID:          rt.ID,
		UserID:      rt.UserID,
		Token:       rt.Token,
		JwtID:       rt.JwtID,
		IsUsed:      rt.IsUsed,
		IsRevoked:   rt.IsRevoked,
		ExpiresAt:   rt.ExpiresAt,
		Status:      rt.Status,
		AddedDate:   rt.AddedDate,
		UpdatedDate: rt.UpdatedDate,
	}
}

func mapDBToModel(row *database.RefreshToken) *RefreshToken {
	return &RefreshToken{
		ID:          row.ID,
		UserID:      row.UserID,
		Token:       row.Token,
		JwtID:       row.JwtID,
		IsUsed:      row.IsUsed,
		IsRevoked:   row.IsRevoked,
		ExpiresAt:   row.ExpiresAt,
		Status:      row.Status,
		AddedDate:   row.AddedDate,
		UpdatedDate: row.UpdatedDate,
	}
}
