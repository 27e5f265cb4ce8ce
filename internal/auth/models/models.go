package models

import (
	"time"

	id "lifeclock/pkg/domain"
)

// User is an account that signs in with email and password.
type User struct {
	ID           id.UserID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IssuedToken is the result of a successful sign-in.
type IssuedToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}
