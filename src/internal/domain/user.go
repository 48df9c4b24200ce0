package domain

import "time"

// User is the customer profile behind an actor. Username is the actor identity
// that owns accounts.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PhoneNumber  *string
	Address      *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
