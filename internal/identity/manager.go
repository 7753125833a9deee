package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type store interface {
	Create(ctx context.Context, id *Identity) error
	GetByNormalizedEmail(ctx context.Context, normalizedEmail string) (*Identity, error)
}

// Manager owns identity records: lookup, creation with password policy and
// hashing, and password checks. It never stores or logs plaintext passwords.
type Manager struct {
	store  store
	hasher Hasher
	policy Policy
	now    func() time.Time
}

type Option func(*Manager)

func WithHasher(h Hasher) Option { return func(m *Manager) { m.hasher = h } }

func WithPolicy(p Policy) Option { return func(m *Manager) { m.policy = p } }

// NewManager builds a Manager on top of db, which may be a transaction.
func NewManager(db bun.IDB, opts ...Option) *Manager {
	return newManager(NewRepository(db), opts...)
}

func newManager(s store, opts ...Option) *Manager {
	m := &Manager{
		store:  s,
		hasher: DefaultHasher(),
		policy: DefaultPolicy(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindByEmail looks an identity up case-insensitively. Returns ErrNotFound when absent.
func (m *Manager) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	return m.store.GetByNormalizedEmail(ctx, NormalizeEmail(email))
}

// Create validates password against the policy, hashes it and stores a new identity.
// Policy failures come back as *PolicyError; a taken email as ErrDuplicateEmail.
func (m *Manager) Create(ctx context.Context, email, password string, emailConfirmed bool) (*Identity, error) {
	if err := m.policy.Check(password); err != nil {
		return nil, err
	}

	hash, err := m.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := m.now().UTC()
	id := &Identity{
		ID:              uuid.New(),
		Email:           email,
		NormalizedEmail: NormalizeEmail(email),
		PasswordHash:    hash,
		EmailConfirmed:  emailConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := m.store.Create(ctx, id); err != nil {
		return nil, err
	}

	return id, nil
}

// CheckPassword reports whether password matches the identity's stored hash.
// A nil identity still costs one hash verification and reports false.
func (m *Manager) CheckPassword(id *Identity, password string) bool {
	if id == nil || id.PasswordHash == "" {
		return m.hasher.VerifyDummy(password)
	}
	return m.hasher.Verify(id.PasswordHash, password)
}
