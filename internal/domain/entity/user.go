// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can log in with an email and password.
type User struct {
	ID           uuid.UUID `json:"id"`         // Assigned by the user store on insert.
	Email        string    `json:"email"`      // Unique across all users, compared case-sensitively.
	Name         string    `json:"name"`       // Display name.
	PasswordHash string    `json:"-"`          // bcrypt hash. Never the plaintext, never serialized.
	CreatedAt    time.Time `json:"created_at"` // Timestamp of when this account was created.
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sanitized returns a copy of the user without the stored credential hash.
// Every user handed back to a caller goes through it.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}

	clean := *u
	clean.PasswordHash = ""

	return &clean
}
