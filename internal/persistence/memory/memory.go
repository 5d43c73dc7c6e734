// Package memory holds the room registry and booking ledger. Both live
// only in process memory and reset on restart; this is the storage
// contract for these two containers, not a stopgap.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/persistence"
)

// Store implements the room and booking repositories over in-process maps.
type Store struct {
	mu       sync.RWMutex
	rooms    map[string]application.Room
	bookings map[string]application.Booking
}

// Open returns a Store seeded with the fixed default rooms.
func Open() *Store {
	s := &Store{
		rooms:    make(map[string]application.Room),
		bookings: make(map[string]application.Booking),
	}
	s.seedRooms()
	return s
}

// seedRooms installs the default registry entries present at startup.
func (s *Store) seedRooms() {
	now := time.Now().UTC()
	defaults := []application.Room{
		{ID: "1", Name: "Conference Room A", Description: "Large room with projector", Capacity: 20},
		{ID: "2", Name: "Meeting Room B", Description: "Small room for quick syncs", Capacity: 5},
	}
	for _, room := range defaults {
		room.CreatedAt = now
		room.UpdatedAt = now
		s.rooms[room.ID] = room
	}
}

// --- application.RoomRepository ---

// CreateRoom stores a new room.
func (s *Store) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.ID]; ok {
		return application.Room{}, persistence.ErrDuplicate
	}

	s.rooms[room.ID] = cloneRoom(room)
	return cloneRoom(room), nil
}

// GetRoom retrieves a room by ID.
func (s *Store) GetRoom(ctx context.Context, id string) (application.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return application.Room{}, persistence.ErrNotFound
	}
	return cloneRoom(room), nil
}

// UpdateRoom replaces an existing room record in place.
func (s *Store) UpdateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.ID]; !ok {
		return application.Room{}, persistence.ErrNotFound
	}

	s.rooms[room.ID] = cloneRoom(room)
	return cloneRoom(room), nil
}

// DeleteRoom removes a room by ID.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return persistence.ErrNotFound
	}

	delete(s.rooms, id)
	return nil
}

// ListRooms returns all rooms in unspecified order.
func (s *Store) ListRooms(ctx context.Context) ([]application.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]application.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, cloneRoom(room))
	}
	return rooms, nil
}

// --- application.BookingRepository ---

// CreateBooking appends a booking to the ledger.
func (s *Store) CreateBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[booking.ID]; ok {
		return application.Booking{}, persistence.ErrDuplicate
	}

	s.bookings[booking.ID] = cloneBooking(booking)
	return cloneBooking(booking), nil
}

// DeleteBooking removes a booking by ID.
func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[id]; !ok {
		return persistence.ErrNotFound
	}

	delete(s.bookings, id)
	return nil
}

// ListBookings returns all bookings in unspecified order.
func (s *Store) ListBookings(ctx context.Context) ([]application.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]application.Booking, 0, len(s.bookings))
	for _, booking := range s.bookings {
		bookings = append(bookings, cloneBooking(booking))
	}
	return bookings, nil
}

// ListBookingsForRoom returns the bookings referencing the given room.
func (s *Store) ListBookingsForRoom(ctx context.Context, roomID string) ([]application.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bookings []application.Booking
	for _, booking := range s.bookings {
		if booking.RoomID == roomID {
			bookings = append(bookings, cloneBooking(booking))
		}
	}
	return bookings, nil
}

func cloneRoom(room application.Room) application.Room {
	return room
}

func cloneBooking(booking application.Booking) application.Booking {
	clone := booking
	clone.Attendees = append([]string(nil), booking.Attendees...)
	return clone
}
