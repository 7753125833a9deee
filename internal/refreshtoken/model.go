// Package refreshtoken stores long-lived renewal credentials. Only storage
// and the active listing exist; nothing issues or consumes them yet.
package refreshtoken

import (
	"time"

	"github.com/google/uuid"
)

const StatusActive int16 = 1

type RefreshToken struct {
	ID          uuid.UUID
	UserID      uuid.UUID // identity id
	Token       string
	JwtID       string // jti of the access token it was minted with
	IsUsed      bool
	IsRevoked   bool
	ExpiresAt   time.Time
	Status      int16
	AddedDate   time.Time
	UpdatedDate time.Time
}
