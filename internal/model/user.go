// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// WHY PasswordHash `json:"-"`?
// The bcrypt hash must never appear in an API response. The `-` tag tells
// encoding/json to skip the field entirely, so even if a handler serializes
// a *User directly, the hash cannot leak. Handlers that need a public shape
// use PublicUser instead.
//
// Email carries a UNIQUE constraint in the database — one email maps to
// exactly one account. That constraint (not an in-memory check) is the
// source of truth for duplicate registrations.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicUser is the client-visible summary of an account, returned by
// login and /api/protected. It is derived from User and carries no secrets.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public converts a User to its client-visible summary.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
