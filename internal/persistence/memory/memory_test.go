package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/persistence"
	"github.com/example/room-booking/internal/testfixtures"
)

func TestOpenSeedsDefaultRooms(t *testing.T) {
	store := Open()

	rooms, err := store.ListRooms(context.Background())
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected 2 seeded rooms, got %d", len(rooms))
	}

	roomA, err := store.GetRoom(context.Background(), "1")
	if err != nil {
		t.Fatalf("GetRoom(1): %v", err)
	}
	if roomA.Name != "Conference Room A" || roomA.Capacity != 20 {
		t.Fatalf("unexpected seed room: %+v", roomA)
	}

	roomB, err := store.GetRoom(context.Background(), "2")
	if err != nil {
		t.Fatalf("GetRoom(2): %v", err)
	}
	if roomB.Name != "Meeting Room B" || roomB.Capacity != 5 {
		t.Fatalf("unexpected seed room: %+v", roomB)
	}
}

func TestRoomLifecycle(t *testing.T) {
	store := Open()
	ctx := context.Background()

	created, err := store.CreateRoom(ctx, application.Room{ID: "3", Name: "Focus Room", Capacity: 2})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if created.ID != "3" {
		t.Fatalf("expected id 3, got %q", created.ID)
	}

	if _, err := store.CreateRoom(ctx, application.Room{ID: "3", Name: "Dup"}); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	updated, err := store.UpdateRoom(ctx, application.Room{ID: "3", Name: "Focus Booth", Capacity: 1})
	if err != nil {
		t.Fatalf("UpdateRoom: %v", err)
	}
	if updated.Name != "Focus Booth" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}

	if _, err := store.UpdateRoom(ctx, application.Room{ID: "nope"}); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.DeleteRoom(ctx, "3"); err != nil {
		t.Fatalf("DeleteRoom: %v", err)
	}
	if err := store.DeleteRoom(ctx, "3"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestBookingLedger(t *testing.T) {
	store := Open()
	ctx := context.Background()
	start := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	booking := application.Booking{
		ID:        "b-1",
		RoomID:    "1",
		Start:     start,
		End:       start.Add(time.Hour),
		Attendees: []string{"a@example.com", "a@example.com"},
	}
	if _, err := store.CreateBooking(ctx, booking); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	t.Run("stored booking is isolated from caller mutation", func(t *testing.T) {
		booking.Attendees[0] = "mutated@example.com"
		listed, err := store.ListBookingsForRoom(ctx, "1")
		if err != nil {
			t.Fatalf("ListBookingsForRoom: %v", err)
		}
		if len(listed) != 1 {
			t.Fatalf("expected 1 booking, got %d", len(listed))
		}
		if listed[0].Attendees[0] != "a@example.com" {
			t.Fatalf("stored attendees were mutated: %v", listed[0].Attendees)
		}
	})

	t.Run("room filter excludes other rooms", func(t *testing.T) {
		other := application.Booking{ID: "b-2", RoomID: "2", Start: start, End: start.Add(time.Hour)}
		if _, err := store.CreateBooking(ctx, other); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
		listed, err := store.ListBookingsForRoom(ctx, "1")
		if err != nil {
			t.Fatalf("ListBookingsForRoom: %v", err)
		}
		if len(listed) != 1 || listed[0].ID != "b-1" {
			t.Fatalf("unexpected bookings for room 1: %+v", listed)
		}
	})

	t.Run("delete absent booking reports not found", func(t *testing.T) {
		if err := store.DeleteBooking(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestFixturesRoundTrip(t *testing.T) {
	store := Open()
	ctx := context.Background()
	clock := testfixtures.NewClock(time.Time{})
	ids := testfixtures.NewIDGenerator("fixture")

	room := testfixtures.NewRoomFixture(
		testfixtures.WithRoomID(ids.Next()),
		testfixtures.WithRoomName("Fixture Room"),
		testfixtures.WithRoomCapacity(6),
	)
	if _, err := store.CreateRoom(ctx, room); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	booking := testfixtures.NewBookingFixture(
		testfixtures.WithBookingRoom(room.ID),
		testfixtures.WithBookingWindow(clock.Now(), clock.Advance(time.Hour)),
	)
	if _, err := store.CreateBooking(ctx, booking); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	listed, err := store.ListBookingsForRoom(ctx, room.ID)
	if err != nil {
		t.Fatalf("ListBookingsForRoom: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != booking.ID {
		t.Fatalf("unexpected bookings for %s: %+v", room.ID, listed)
	}
	if !listed[0].End.Equal(listed[0].Start.Add(time.Hour)) {
		t.Fatalf("expected a one-hour window, got %+v", listed[0])
	}
}
