package identity

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Policy describes the password rules enforced when an identity is created.
type Policy struct {
	MinLength        int
	RequireNonAlnum  bool
	RequireDigit     bool
	RequireLowercase bool
	RequireUppercase bool
}

func DefaultPolicy() Policy {
	return Policy{
		MinLength:        6,
		RequireNonAlnum:  true,
		RequireDigit:     true,
		RequireLowercase: true,
		RequireUppercase: true,
	}
}

// PolicyError lists every rule a password broke, in a stable order.
type PolicyError struct {
	Reasons []string
}

func (e *PolicyError) Error() string {
	return "password rejected: " + strings.Join(e.Reasons, " ")
}

// Check returns nil or a *PolicyError.
func (p Policy) Check(password string) error {
	var digit, lower, upper, other bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			other = true
		}
	}

	var reasons []string
	if utf8.RuneCountInString(password) < p.MinLength {
		reasons = append(reasons, "Passwords must be at least "+strconv.Itoa(p.MinLength)+" characters.")
	}
	if p.RequireNonAlnum && !other {
		reasons = append(reasons, "Passwords must have at least one non alphanumeric character.")
	}
	if p.RequireDigit && !digit {
		reasons = append(reasons, "Passwords must have at least one digit ('0'-'9').")
	}
	if p.RequireLowercase && !lower {
		reasons = append(reasons, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if p.RequireUppercase && !upper {
		reasons = append(reasons, "Passwords must have at least one uppercase ('A'-'Z').")
	}

	if len(reasons) > 0 {
		return &PolicyError{Reasons: reasons}
	}
	return nil
}
