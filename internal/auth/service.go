package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/notebook-api/internal/data"
	"github.com/redmonkez12/notebook-api/internal/identity"
	"github.com/redmonkez12/notebook-api/internal/logging"
	"github.com/redmonkez12/notebook-api/internal/user"
)

// TokenIssuer mints access tokens for authenticated identities.
type TokenIssuer interface {
	IssueToken(id *identity.Identity) (string, error)
}

// Service handles registration and login.
type Service struct {
	store  data.Store
	tokens TokenIssuer
	logger *logging.Logger
	now    func() time.Time
}

func NewService(store data.Store, tokens TokenIssuer, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterInput is an already shape-validated registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates the identity and its profile in one unit of work and
// returns an access token for the new account.
//
// The existence check is only a fast path; two concurrent registrations can
// both pass it. The unique index on identities closes that race and surfaces
// as ErrDuplicateEmail from Create.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	_, err := s.store.Credentials().FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return "", ErrDuplicateEmail
	case !errors.Is(err, identity.ErrNotFound):
		return "", fmt.Errorf("failed to look up email: %w", err)
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := uow.Rollback(); err != nil {
			s.logger.Warn("unit of work rollback failed", "error", err)
		}
	}()

	// Email confirmation is not implemented; accounts start confirmed.
	newIdentity, err := uow.Credentials().Create(ctx, in.Email, in.Password, true)
	if err != nil {
		var perr *identity.PolicyError
		switch {
		case errors.As(err, &perr):
			return "", &CredentialCreationError{Reasons: perr.Reasons}
		case errors.Is(err, identity.ErrDuplicateEmail):
			return "", ErrDuplicateEmail
		default:
			return "", fmt.Errorf("failed to create identity: %w", err)
		}
	}

	profile := user.NewProfile(newIdentity.ID, in.FirstName, in.LastName, in.Email, s.now())
	if err := uow.Users().Add(ctx, profile); err != nil {
		return "", fmt.Errorf("failed to add profile: %w", err)
	}

	if err := uow.Complete(); err != nil {
		return "", err
	}

	token, err := s.tokens.IssueToken(newIdentity)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return token, nil
}

// Login verifies credentials and returns an access token. Unknown email and
// wrong password both yield ErrInvalidAuthentication.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	credentials := s.store.Credentials()

	existing, err := credentials.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			// Same hashing cost as a wrong password, so timing does not reveal the miss.
			credentials.CheckPassword(nil, password)
			return "", ErrInvalidAuthentication
		}
		return "", fmt.Errorf("failed to look up email: %w", err)
	}

	if !credentials.CheckPassword(existing, password) {
		return "", ErrInvalidAuthentication
	}

	token, err := s.tokens.IssueToken(existing)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return token, nil
}

// Profile returns the profile linked to an identity.
func (s *Service) Profile(ctx context.Context, identityID uuid.UUID) (*user.User, error) {
	return s.store.Users().GetByIdentityID(ctx, identityID)
}
