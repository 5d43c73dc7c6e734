package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting identity lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a resource with the same key already exists.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when authentication material does not match.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrRoomBooked rejects a booking whose interval collides with an
	// existing booking on the same room. The message is part of the
	// public contract and surfaces verbatim to callers.
	ErrRoomBooked = errors.New("room already booked for the selected time slot")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// ProviderError wraps a registration or login failure reported by the
// identity provider. Reason is the caller-facing rejection string; the
// wrapped error retains the provider sentinel for errors.Is dispatch.
type ProviderError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (p *ProviderError) Error() string {
	if p == nil {
		return ""
	}
	if p.Reason != "" {
		return p.Reason
	}
	if p.Err != nil {
		return p.Err.Error()
	}
	return "provider rejected the request"
}

// Unwrap exposes the underlying provider error.
func (p *ProviderError) Unwrap() error {
	if p == nil {
		return nil
	}
	return p.Err
}
