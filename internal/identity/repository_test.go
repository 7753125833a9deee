package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/notebook-api/internal/database"
)

func newRepoWithMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewRepository(database.NewBunDB(sqlDB)), mock
}

func TestRepository_GetByNormalizedEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	rows := sqlmock.NewRows([]string{"id", "email", "normalized_email", "password_hash", "email_confirmed", "created_at", "updated_at"}).
		AddRow(id.String(), "Alice@example.com", "alice@example.com", "$argon2id$...", true, now, now)

	mock.ExpectQuery(`SELECT .* FROM "identities" AS "i" WHERE \(normalized_email = 'alice@example.com'\)`).
		WillReturnRows(rows)

	got, err := repo.GetByNormalizedEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Alice@example.com", got.Email)
	assert.True(t, got.EmailConfirmed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByNormalizedEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT .* FROM "identities"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByNormalizedEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_GetByNormalizedEmail_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT .* FROM "identities"`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByNormalizedEmail(context.Background(), "alice@example.com")
	assert.ErrorContains(t, err, "connection reset")
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO "identities"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &Identity{
		ID:              uuid.New(),
		Email:           "alice@example.com",
		NormalizedEmail: "alice@example.com",
		PasswordHash:    "hash",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_Duplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO "identities"`).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "identities_normalized_email_key"`))

	err := repo.Create(context.Background(), &Identity{ID: uuid.New(), Email: "a@example.com", NormalizedEmail: "a@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRepository_Create_DuplicateCode(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO "identities"`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "identities_normalized_email_key"})

	err := repo.Create(context.Background(), &Identity{ID: uuid.New(), Email: "a@example.com", NormalizedEmail: "a@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRepository_Create_OtherPQError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO "identities"`).
		WillReturnError(&pq.Error{Code: "23502", Message: "null value in column"})

	err := repo.Create(context.Background(), &Identity{ID: uuid.New(), Email: "a@example.com", NormalizedEmail: "a@example.com"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}
