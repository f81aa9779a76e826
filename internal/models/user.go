// Package models defines the account records shared by the auth, service,
// and storage layers. The billing domain itself lives in internal/order;
// users appear there only as plain participant id strings, keeping identity
// details out of the engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. The user's ID doubles as the participant id
// inside orders.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the login identifier, unique across users.
	Email string

	// DisplayName is the name shown to other participants.
	DisplayName string

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewUser returns a user with a fresh UUID and timestamps set to now.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
