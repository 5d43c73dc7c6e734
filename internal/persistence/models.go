package persistence

import "time"

// Credential represents an account record owned by the local identity
// provider. The password hash never leaves the persistence boundary.
type Credential struct {
	ID           string
	Email        string
	DisplayName  string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile represents a user profile document keyed by the identity's
// unique id.
type Profile struct {
	UID         string
	Email       string
	DisplayName string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
