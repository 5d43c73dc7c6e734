package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/room-booking/internal/interval"
	"github.com/example/room-booking/internal/persistence"
)

// BookingRepository captures the ledger operations needed by the service.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) (Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	ListBookings(ctx context.Context) ([]Booking, error)
	ListBookingsForRoom(ctx context.Context, roomID string) ([]Booking, error)
}

// RoomResolver looks up a room for display purposes. Separate from
// RoomRepository so the booking service cannot mutate the registry.
type RoomResolver interface {
	GetRoom(ctx context.Context, id string) (Room, error)
}

// unknownRoomName is the display fallback for bookings whose room
// reference no longer resolves. Dangling references are tolerated by
// contract, not treated as errors.
const unknownRoomName = "Unknown room"

// BookingService owns the booking lifecycle: conflict-gated creation and
// administrator cancellation. Bookings are immutable once admitted.
type BookingService struct {
	bookings    BookingRepository
	rooms       RoomResolver
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService constructs a booking service with the provided dependencies.
func NewBookingService(bookings BookingRepository, rooms RoomResolver, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, rooms, idGenerator, now, nil)
}

// NewBookingServiceWithLogger constructs a booking service with a specified logger.
func NewBookingServiceWithLogger(bookings BookingRepository, rooms RoomResolver, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		rooms:       rooms,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CreateBooking validates the candidate interval, runs the conflict check
// against every existing booking on the target room, and appends the
// booking on admission. Rejections leave the ledger unchanged.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (booking Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.bookings == nil {
		err = fmt.Errorf("booking repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateBooking",
		"actor", params.Identity.Email,
		"room_id", params.Input.RoomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", booking.ID).InfoContext(ctx, "booking created")
	}()

	if strings.TrimSpace(params.Identity.Email) == "" {
		err = ErrUnauthorized
		return
	}

	vErr := validateBookingInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	candidate := interval.New(params.Input.Start, params.Input.End)

	existing, listErr := s.bookings.ListBookingsForRoom(ctx, params.Input.RoomID)
	if listErr != nil {
		err = mapRepoError(listErr)
		return
	}
	for _, other := range existing {
		if candidate.Overlaps(interval.New(other.Start, other.End)) {
			err = ErrRoomBooked
			return
		}
	}

	booking = Booking{
		ID:             s.idGenerator(),
		RoomID:         params.Input.RoomID,
		OrganizerEmail: params.Identity.Email,
		OrganizerName:  params.Identity.DisplayName,
		Start:          params.Input.Start,
		End:            params.Input.End,
		Description:    strings.TrimSpace(params.Input.Description),
		Attendees:      filterAttendees(params.Input.Attendees),
		CreatedAt:      s.now(),
	}

	var persisted Booking
	persisted, err = s.bookings.CreateBooking(ctx, booking)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	booking = persisted
	return
}

// CancelBooking removes a booking on behalf of an administrator. An absent
// identifier is a no-op: the ledger is unchanged and no error is reported.
func (s *BookingService) CancelBooking(ctx context.Context, identity Identity, bookingID string) error {
	if s == nil {
		return fmt.Errorf("BookingService is nil")
	}
	if !IsAdministrator(identity) {
		return ErrUnauthorized
	}
	if s.bookings == nil {
		return fmt.Errorf("booking repository not configured")
	}

	logger := s.loggerWith(ctx, "CancelBooking",
		"actor", identity.Email,
		"booking_id", bookingID,
	)

	if err := s.bookings.DeleteBooking(ctx, bookingID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
			logger.InfoContext(ctx, "booking absent, cancel ignored")
			return nil
		}
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to cancel booking", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "booking cancelled")
	return nil
}

// ListBookings returns the ledger contents ordered by start time.
func (s *BookingService) ListBookings(ctx context.Context, identity Identity) (bookings []Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.bookings == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListBookings",
		"actor", identity.Email,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list bookings", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(bookings)).InfoContext(ctx, "bookings listed")
	}()

	var raw []Booking
	raw, err = s.bookings.ListBookings(ctx)
	if err != nil {
		return
	}

	bookings = make([]Booking, len(raw))
	copy(bookings, raw)

	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].Start.Equal(bookings[j].Start) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].Start.Before(bookings[j].Start)
	})

	return
}

// ResolveRoom looks up the room a booking references, falling back to an
// Unknown-room placeholder when the reference dangles.
func (s *BookingService) ResolveRoom(ctx context.Context, roomID string) Room {
	if s == nil || s.rooms == nil {
		return Room{ID: roomID, Name: unknownRoomName}
	}

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return Room{ID: roomID, Name: unknownRoomName}
	}
	return room
}

func validateBookingInput(input BookingInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.RoomID) == "" {
		vErr.add("room_id", "room is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		vErr.add("description", "description is required")
	}
	if input.Start.IsZero() {
		vErr.add("start_time", "start time is required")
	}
	if input.End.IsZero() {
		vErr.add("end_time", "end time is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() && !interval.New(input.Start, input.End).IsValid() {
		vErr.add("end_time", "end time must be after start time")
	}

	return vErr
}

// filterAttendees drops empty entries while preserving order. Duplicates
// are permitted by contract.
func filterAttendees(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	attendees := make([]string, 0, len(raw))
	for _, entry := range raw {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		attendees = append(attendees, trimmed)
	}
	if len(attendees) == 0 {
		return nil
	}
	return attendees
}
