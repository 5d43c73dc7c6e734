package application

import "time"

// Role tags an identity with its authorization level.
type Role string

const (
	// RoleAdmin marks administrators, who may manage rooms and cancel bookings.
	RoleAdmin Role = "admin"
	// RoleUser marks regular users, who may view rooms and create bookings.
	RoleUser Role = "user"
)

// Identity represents an authenticated user as returned by the identity
// provider. Credential carries the opaque bearer token issued for the
// session.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	Role        Role
	Credential  string
}

// ProfileRecord is the user profile document persisted in the profile
// store, keyed by the identity's unique id.
type ProfileRecord struct {
	UID         string
	Email       string
	DisplayName string
	Role        Role
}

// Room represents a meeting room registry entry.
type Room struct {
	ID          string
	Name        string
	Description string
	Capacity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name        string
	Description string
	Capacity    int
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Identity Identity
	Input    RoomInput
}

// UpdateRoomParams wraps the data required to update an existing room.
type UpdateRoomParams struct {
	Identity Identity
	RoomID   string
	Input    RoomInput
}

// Booking represents an immutable booking ledger entry. RoomID is an
// unchecked reference into the room registry; resolution happens at
// display time with an Unknown-room fallback.
type Booking struct {
	ID             string
	RoomID         string
	OrganizerEmail string
	OrganizerName  string
	Start          time.Time
	End            time.Time
	Description    string
	Attendees      []string
	CreatedAt      time.Time
}

// BookingInput captures caller provided booking fields.
type BookingInput struct {
	RoomID      string
	Start       time.Time
	End         time.Time
	Description string
	Attendees   []string
}

// CreateBookingParams wraps the data required to create a booking.
type CreateBookingParams struct {
	Identity Identity
	Input    BookingInput
}

// RegisterParams captures the data required to register a new account with
// the identity provider.
type RegisterParams struct {
	Email       string
	Password    string
	DisplayName string
	Role        Role
}

// SessionPhase identifies which stage of the two-phase session lifecycle
// the service is in.
type SessionPhase string

const (
	// SessionRestoring is the startup phase: state was seeded from the
	// durable slot and has not yet been confirmed by the provider.
	SessionRestoring SessionPhase = "restoring"
	// SessionConfirmed means the provider has delivered at least one
	// change notification and the held identity is authoritative.
	SessionConfirmed SessionPhase = "confirmed"
)

// SessionSnapshot is a copy of the session state at a point in time.
// Identity is nil when no user is authenticated.
type SessionSnapshot struct {
	Phase    SessionPhase
	Identity *Identity
}

// Authenticated reports whether the snapshot holds an identity.
func (s SessionSnapshot) Authenticated() bool {
	return s.Identity != nil
}
