// Package user holds the application-level profile linked to an identity.
package user

import (
	"time"

	"github.com/google/uuid"
)

// StatusActive marks a live record. It is the only status the service writes.
const StatusActive int16 = 1

type User struct {
	ID          uuid.UUID `json:"id"`
	IdentityID  uuid.UUID `json:"identityId"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Country     string    `json:"country"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Status      int16     `json:"status"`
	AddedDate   time.Time `json:"addedDate"`
	UpdatedDate time.Time `json:"updatedDate"`
}

// NewProfile builds the profile created right after a successful registration:
// empty phone and country, date of birth defaulted to now, active status.
func NewProfile(identityID uuid.UUID, firstName, lastName, email string, now time.Time) *User {
	now = now.UTC()
	return &User{
		ID:          uuid.New(),
		IdentityID:  identityID,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Phone:       "",
		Country:     "",
		DateOfBirth: now,
		Status:      StatusActive,
		AddedDate:   now,
		UpdatedDate: now,
	}
}
