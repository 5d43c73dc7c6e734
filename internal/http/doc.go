// Package http provides HTTP handlers and middleware for the booking API.
//
// The router exposes the following endpoints:
//   - POST /register: creates an account. Body: {"email","password","name"}.
//     Response: {"identity"} with the bearer credential embedded. Rate limited.
//   - POST /login: authenticates and returns the identity rebuilt from the
//     stored profile record. Rate limited.
//   - POST /logout: requests provider-side session termination. Returns 204.
//   - GET /session: returns the current session snapshot, including the
//     restoring/confirmed phase.
//   - GET /rooms, POST /rooms, PUT /rooms/{id}, DELETE /rooms/{id}: room
//     registry endpoints exchanging the `roomDTO` payload defined in
//     room_handler.go. Listing is available to any authenticated identity
//     while mutations require administrator privileges.
//   - GET /bookings, POST /bookings, DELETE /bookings/{id}: booking ledger
//     endpoints exchanging the `bookingDTO` payload defined in
//     booking_handler.go. Listing resolves each booking's room name, falling
//     back to "Unknown room" for dangling references. Cancellation requires
//     administrator privileges.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
