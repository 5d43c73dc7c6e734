package persistence

import "context"

// CredentialRepository stores account records for the local identity
// provider.
type CredentialRepository interface {
	CreateCredential(ctx context.Context, credential Credential) error
	GetCredential(ctx context.Context, id string) (Credential, error)
	GetCredentialByEmail(ctx context.Context, email string) (Credential, error)
}

// ProfileRepository stores user profile documents keyed by unique id.
type ProfileRepository interface {
	WriteProfile(ctx context.Context, profile Profile) error
	ReadProfile(ctx context.Context, uid string) (Profile, error)
}

// SlotRepository exposes the durable local key-value slot used to persist
// the current identity snapshot across restarts.
type SlotRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
