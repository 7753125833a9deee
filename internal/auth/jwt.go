package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/redmonkez12/notebook-api/internal/config"
	"github.com/redmonkez12/notebook-api/internal/identity"
)

// TokenLifetime is fixed; callers cannot pick a different expiry.
const TokenLifetime = 3 * time.Hour

// TokenClaims is the claim set carried by access tokens. The embedded
// registered claims hold sub (email), jti, iat, nbf and exp.
type TokenClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies HS256 access tokens. It holds no mutable
// state and is safe for concurrent use.
type JWTService struct {
	key []byte
	now func() time.Time
}

// NewJWTService fails with ErrConfiguration when the secret is missing or too short.
func NewJWTService(cfg config.JWTConfig) (*JWTService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return &JWTService{
		key: []byte(cfg.Secret),
		now: time.Now,
	}, nil
}

// IssueToken mints a token for an already authenticated identity. Every call
// gets a fresh jti, so tokens are never reused.
func (s *JWTService) IssueToken(id *identity.Identity) (string, error) {
	if id == nil {
		return "", errors.New("issue token: nil identity")
	}

	now := s.now()
	claims := TokenClaims{
		UserID: id.ID.String(),
		Email:  id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken checks signature, algorithm and expiry, returning the claims.
func (s *JWTService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
