package auth

import (
	"errors"
	"strings"
)

// Messages returned to clients. Unknown email and wrong password share one
// message so responses do not reveal which accounts exist.
const (
	MsgInvalidPayload        = "Invalid payload"
	MsgEmailInUse            = "Email already in use"
	MsgInvalidAuthentication = "Invalid authentication request"
	MsgTooManyRequests       = "Too many requests"
	MsgInternal              = "Internal server error"
)

var (
	ErrValidation            = errors.New(MsgInvalidPayload)
	ErrDuplicateEmail        = errors.New(MsgEmailInUse)
	ErrInvalidAuthentication = errors.New(MsgInvalidAuthentication)

	// ErrConfiguration means the service cannot run at all; hosts should
	// fail at startup instead of per request.
	ErrConfiguration = errors.New("auth configuration error")

	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// CredentialCreationError carries the credential store's rejection reasons verbatim.
type CredentialCreationError struct {
	Reasons []string
}

func (e *CredentialCreationError) Error() string {
	return "credential creation failed: " + strings.Join(e.Reasons, "; ")
}

// ClientErrors returns the list of messages a client may see for err and
// whether err belongs to the per-request taxonomy at all.
func ClientErrors(err error) ([]string, bool) {
	var cce *CredentialCreationError
	switch {
	case errors.As(err, &cce):
		return append([]string(nil), cce.Reasons...), true
	case errors.Is(err, ErrValidation):
		return []string{MsgInvalidPayload}, true
	case errors.Is(err, ErrDuplicateEmail):
		return []string{MsgEmailInUse}, true
	case errors.Is(err, ErrInvalidAuthentication):
		return []string{MsgInvalidAuthentication}, true
	default:
		return nil, false
	}
}
