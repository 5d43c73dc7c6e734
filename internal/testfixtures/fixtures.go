// Package testfixtures ships deterministic fixtures shared by the
// application, persistence, and transport test suites.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-booking/internal/application"
)

var (
	identityCounter uint64
	roomCounter     uint64
	bookingCounter  uint64
)

var referenceTime = time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// IdentityOption configures a generated identity fixture.
type IdentityOption func(*application.Identity)

// NewIdentityFixture returns a deterministic identity with optional overrides.
func NewIdentityFixture(opts ...IdentityOption) application.Identity {
	idx := atomic.AddUint64(&identityCounter, 1)
	uid := fmt.Sprintf("uid-%03d", idx)
	identity := application.Identity{
		UID:         uid,
		Email:       fmt.Sprintf("%s@example.com", uid),
		DisplayName: fmt.Sprintf("User %03d", idx),
		Role:        application.RoleUser,
	}
	for _, opt := range opts {
		opt(&identity)
	}
	return identity
}

// WithIdentityEmail overrides the generated email address.
func WithIdentityEmail(email string) IdentityOption {
	return func(i *application.Identity) {
		i.Email = email
	}
}

// WithIdentityRole overrides the generated role.
func WithIdentityRole(role application.Role) IdentityOption {
	return func(i *application.Identity) {
		i.Role = role
	}
}

// WithIdentityCredential sets a bearer credential on the fixture.
func WithIdentityCredential(credential string) IdentityOption {
	return func(i *application.Identity) {
		i.Credential = credential
	}
}

// RoomOption configures a generated room fixture.
type RoomOption func(*application.Room)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) application.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	room := application.Room{
		ID:        fmt.Sprintf("room-%03d", idx),
		Name:      fmt.Sprintf("Room %03d", idx),
		Capacity:  int(4 + idx%4),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(r *application.Room) {
		r.ID = id
	}
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(r *application.Room) {
		r.Name = name
	}
}

// WithRoomCapacity overrides the generated capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(r *application.Room) {
		r.Capacity = capacity
	}
}

// BookingOption configures a generated booking fixture.
type BookingOption func(*application.Booking)

// NewBookingFixture returns a deterministic booking fixture. Each booking
// occupies its own one-hour window so fixtures never conflict unless a test
// makes them.
func NewBookingFixture(opts ...BookingOption) application.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * 2 * time.Hour)
	booking := application.Booking{
		ID:             fmt.Sprintf("booking-%03d", idx),
		RoomID:         "room-001",
		OrganizerEmail: fmt.Sprintf("organizer-%03d@example.com", idx),
		OrganizerName:  fmt.Sprintf("Organizer %03d", idx),
		Start:          start,
		End:            start.Add(time.Hour),
		Description:    fmt.Sprintf("Meeting %03d", idx),
		CreatedAt:      referenceTime,
	}
	for _, opt := range opts {
		opt(&booking)
	}
	return booking
}

// WithBookingRoom overrides the booked room.
func WithBookingRoom(roomID string) BookingOption {
	return func(b *application.Booking) {
		b.RoomID = roomID
	}
}

// WithBookingWindow sets the booked interval.
func WithBookingWindow(start, end time.Time) BookingOption {
	return func(b *application.Booking) {
		b.Start = start
		b.End = end
	}
}

// WithBookingOrganizer sets the organizer attribution.
func WithBookingOrganizer(email, name string) BookingOption {
	return func(b *application.Booking) {
		b.OrganizerEmail = email
		b.OrganizerName = name
	}
}
