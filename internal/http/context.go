package http

import (
	"context"

	"github.com/example/room-booking/internal/application"
)

type contextKey string

const (
	identityContextKey  contextKey = "identity"
	roomIDContextKey    contextKey = "room_id"
	bookingIDContextKey contextKey = "booking_id"
)

// ContextWithIdentity returns a derived context containing the authenticated identity.
func ContextWithIdentity(ctx context.Context, identity application.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext extracts the authenticated identity from context if available.
func IdentityFromContext(ctx context.Context) (application.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(application.Identity)
	return identity, ok
}

// ContextWithRoomID injects the room identifier resolved from the request path.
func ContextWithRoomID(ctx context.Context, roomID string) context.Context {
	return context.WithValue(ctx, roomIDContextKey, roomID)
}

// RoomIDFromContext extracts a room identifier previously associated with the context.
func RoomIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roomIDContextKey).(string)
	return id, ok
}

// ContextWithBookingID injects the booking identifier resolved from the request path.
func ContextWithBookingID(ctx context.Context, bookingID string) context.Context {
	return context.WithValue(ctx, bookingIDContextKey, bookingID)
}

// BookingIDFromContext extracts a booking identifier previously associated with the context.
func BookingIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(bookingIDContextKey).(string)
	return id, ok
}
