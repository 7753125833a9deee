package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		want  []string
		known bool
	}{
		{"validation", ErrValidation, []string{"Invalid payload"}, true},
		{"duplicate", fmt.Errorf("register: %w", ErrDuplicateEmail), []string{"Email already in use"}, true},
		{"login", ErrInvalidAuthentication, []string{"Invalid authentication request"}, true},
		{"credential rejection", &CredentialCreationError{Reasons: []string{"a", "b"}}, []string{"a", "b"}, true},
		{"configuration", ErrConfiguration, nil, false},
		{"storage", errors.New("connection refused"), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := ClientErrors(tt.err)
			assert.Equal(t, tt.known, known)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientErrors_CopiesReasons(t *testing.T) {
	cce := &CredentialCreationError{Reasons: []string{"too short"}}

	got, _ := ClientErrors(cce)
	got[0] = "changed"

	assert.Equal(t, "too short", cce.Reasons[0])
}
