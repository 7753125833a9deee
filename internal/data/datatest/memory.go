// Package datatest provides an in-memory data.Store for tests.
package datatest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/notebook-api/internal/data"
	"github.com/redmonkez12/notebook-api/internal/identity"
	"github.com/redmonkez12/notebook-api/internal/refreshtoken"
	"github.com/redmonkez12/notebook-api/internal/user"
)

var _ data.Store = (*Store)(nil)

var hasher = identity.Hasher{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

// Store keeps committed records in maps. The exported error fields inject
// failures into the matching operation; the counters record calls.
type Store struct {
	mu         sync.Mutex
	identities map[string]*identity.Identity // by normalized email
	users      map[uuid.UUID]*user.User      // by identity id
	tokens     []*refreshtoken.RefreshToken

	FindErr   error
	BeginErr  error
	AddErr    error
	CommitErr error

	FindCalls      int
	Creates        int
	Commits        int
	Rollbacks      int
	PasswordChecks int
}

func NewStore() *Store {
	return &Store{
		identities: map[string]*identity.Identity{},
		users:      map[uuid.UUID]*user.User{},
	}
}

// Calls returns the number of store operations performed so far.
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.FindCalls + s.Creates + s.Commits + s.Rollbacks + s.PasswordChecks
}

// Identity returns a committed identity by email.
func (s *Store) Identity(email string) (*identity.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.identities[identity.NormalizeEmail(email)]
	return id, ok
}

// User returns a committed profile by identity id.
func (s *Store) User(identityID uuid.UUID) (*user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[identityID]
	return u, ok
}

// Len reports committed identity and profile counts.
func (s *Store) Len() (identities, users int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.identities), len(s.users)
}

func (s *Store) Credentials() data.CredentialStore {
	return &credentials{store: s}
}

func (s *Store) Users() data.UserStore {
	return &users{store: s}
}

func (s *Store) Begin(context.Context) (data.UnitOfWork, error) {
	if s.BeginErr != nil {
		return nil, s.BeginErr
	}
	return &unitOfWork{store: s}, nil
}

type unitOfWork struct {
	store      *Store
	identities []*identity.Identity
	users      []*user.User
	tokens     []*refreshtoken.RefreshToken
	done       bool
}

func (u *unitOfWork) Credentials() data.CredentialStore {
	return &credentials{store: u.store, uow: u}
}

func (u *unitOfWork) Users() data.UserStore {
	return &users{store: u.store, uow: u}
}

func (u *unitOfWork) RefreshTokens() data.RefreshTokenStore {
	return &refreshTokens{store: u.store, uow: u}
}

func (u *unitOfWork) Complete() error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CommitErr != nil {
		return s.CommitErr
	}
	for _, id := range u.identities {
		s.identities[id.NormalizedEmail] = id
	}
	for _, p := range u.users {
		s.users[p.IdentityID] = p
	}
	s.tokens = append(s.tokens, u.tokens...)
	s.Commits++
	u.done = true
	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.store.mu.Lock()
	u.store.Rollbacks++
	u.store.mu.Unlock()
	u.identities, u.users, u.tokens = nil, nil, nil
	u.done = true
	return nil
}

type credentials struct {
	store *Store
	uow   *unitOfWork
}

func (c *credentials) FindByEmail(_ context.Context, email string) (*identity.Identity, error) {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.FindCalls++
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	if id, ok := s.identities[identity.NormalizeEmail(email)]; ok {
		return id, nil
	}
	return nil, identity.ErrNotFound
}

func (c *credentials) Create(_ context.Context, email, password string, emailConfirmed bool) (*identity.Identity, error) {
	if err := identity.DefaultPolicy().Check(password); err != nil {
		return nil, err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Creates++
	norm := identity.NormalizeEmail(email)
	if _, ok := s.identities[norm]; ok {
		return nil, identity.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	id := &identity.Identity{
		ID:              uuid.New(),
		Email:           email,
		NormalizedEmail: norm,
		PasswordHash:    hash,
		EmailConfirmed:  emailConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if c.uow != nil {
		c.uow.identities = append(c.uow.identities, id)
	} else {
		s.identities[norm] = id
	}
	return id, nil
}

func (c *credentials) CheckPassword(id *identity.Identity, password string) bool {
	c.store.mu.Lock()
	c.store.PasswordChecks++
	c.store.mu.Unlock()

	if id == nil {
		return hasher.VerifyDummy(password)
	}
	return hasher.Verify(id.PasswordHash, password)
}

type users struct {
	store *Store
	uow   *unitOfWork
}

func (u *users) Add(_ context.Context, p *user.User) error {
	if u.store.AddErr != nil {
		return u.store.AddErr
	}
	if u.uow != nil {
		u.uow.users = append(u.uow.users, p)
		return nil
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.users[p.IdentityID] = p
	return nil
}

func (u *users) GetByIdentityID(_ context.Context, identityID uuid.UUID) (*user.User, error) {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	p, ok := u.store.users[identityID]
	if !ok {
		return nil, user.ErrNotFound
	}
	return p, nil
}

type refreshTokens struct {
	store *Store
	uow   *unitOfWork
}

func (r *refreshTokens) Add(_ context.Context, rt *refreshtoken.RefreshToken) error {
	r.uow.tokens = append(r.uow.tokens, rt)
	return nil
}

func (r *refreshTokens) All(context.Context) []*refreshtoken.RefreshToken {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := []*refreshtoken.RefreshToken{}
	for _, rt := range r.store.tokens {
		if rt.Status == refreshtoken.StatusActive {
			out = append(out, rt)
		}
	}
	return out
}
