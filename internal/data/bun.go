package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/notebook-api/internal/identity"
	"github.com/redmonkez12/notebook-api/internal/logging"
	"github.com/redmonkez12/notebook-api/internal/refreshtoken"
	"github.com/redmonkez12/notebook-api/internal/user"
)

var (
	_ Store             = (*BunStore)(nil)
	_ CredentialStore   = (*identity.Manager)(nil)
	_ UserStore         = (*user.Repository)(nil)
	_ RefreshTokenStore = (*refreshtoken.Repository)(nil)
)

// BunStore is the Postgres-backed Store.
type BunStore struct {
	db           *bun.DB
	logger       *logging.Logger
	identityOpts []identity.Option
}

func NewBunStore(db *bun.DB, logger *logging.Logger, opts ...identity.Option) *BunStore {
	return &BunStore{db: db, logger: logger, identityOpts: opts}
}

func (s *BunStore) Credentials() CredentialStore {
	return identity.NewManager(s.db, s.identityOpts...)
}

func (s *BunStore) Users() UserStore {
	return user.NewRepository(s.db)
}

// Begin opens a transaction and returns a unit of work bound to it.
func (s *BunStore) Begin(ctx context.Context) (UnitOfWork, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &bunUnitOfWork{
		tx:            tx,
		credentials:   identity.NewManager(tx, s.identityOpts...),
		users:         user.NewRepository(tx),
		refreshTokens: refreshtoken.NewRepository(tx, s.logger),
	}, nil
}

type bunUnitOfWork struct {
	tx            bun.Tx
	credentials   *identity.Manager
	users         *user.Repository
	refreshTokens *refreshtoken.Repository
}

func (u *bunUnitOfWork) Credentials() CredentialStore     { return u.credentials }
func (u *bunUnitOfWork) Users() UserStore                 { return u.users }
func (u *bunUnitOfWork) RefreshTokens() RefreshTokenStore { return u.refreshTokens }

func (u *bunUnitOfWork) Complete() error {
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (u *bunUnitOfWork) Rollback() error {
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback: %w", err)
	}
	return nil
}
