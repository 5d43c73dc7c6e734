package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/room-booking/internal/application"
)

type bookingService interface {
	CreateBooking(ctx context.Context, params application.CreateBookingParams) (application.Booking, error)
	CancelBooking(ctx context.Context, identity application.Identity, bookingID string) error
	ListBookings(ctx context.Context, identity application.Identity) ([]application.Booking, error)
	ResolveRoom(ctx context.Context, roomID string) application.Room
}

type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, _ := IdentityFromContext(r.Context())

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "actor", identity.Email, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.log(r.Context(), "Create", "actor", identity.Email, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to parse booking times", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Create", "actor", identity.Email, "room_id", input.RoomID)

	booking, err := h.service.CreateBooking(r.Context(), application.CreateBookingParams{
		Identity: identity,
		Input:    input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	room := h.service.ResolveRoom(r.Context(), booking.RoomID)
	logger.With("booking_id", booking.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{Booking: toBookingDTO(booking, room.Name)})
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing booking id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	identity, _ := IdentityFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "actor", identity.Email, "booking_id", bookingID)
	if err := h.service.CancelBooking(r.Context(), identity, bookingID); err != nil {
		logger.ErrorContext(r.Context(), "booking cancel failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	identity, ok := IdentityFromContext(r.Context())
	if !ok || strings.TrimSpace(identity.UID) == "" {
		h.log(r.Context(), "List", "error_kind", "unauthorized").ErrorContext(r.Context(), "missing authenticated identity")
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	logger := h.log(r.Context(), "List", "actor", identity.Email)
	bookings, err := h.service.ListBookings(r.Context(), identity)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	// Room names are resolved per booking; a dangling reference surfaces the
	// Unknown-room placeholder instead of an error.
	resolved := make([]bookingDTO, 0, len(bookings))
	for _, booking := range bookings {
		room := h.service.ResolveRoom(r.Context(), booking.RoomID)
		resolved = append(resolved, toBookingDTO(booking, room.Name))
	}

	logger.With("result_count", len(resolved)).InfoContext(r.Context(), "bookings listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBookingsResponse{Bookings: resolved})
}

type bookingRequest struct {
	RoomID      string   `json:"room_id"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Description string   `json:"description"`
	Attendees   []string `json:"attendees"`
}

func (r bookingRequest) toInput() (application.BookingInput, error) {
	input := application.BookingInput{
		RoomID:      strings.TrimSpace(r.RoomID),
		Description: strings.TrimSpace(r.Description),
		Attendees:   r.Attendees,
	}

	if raw := strings.TrimSpace(r.StartTime); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return application.BookingInput{}, errInvalidTimeFormat
		}
		input.Start = start
	}
	if raw := strings.TrimSpace(r.EndTime); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return application.BookingInput{}, errInvalidTimeFormat
		}
		input.End = end
	}

	return input, nil
}

var errInvalidTimeFormat = errors.New("start_time and end_time must be RFC 3339 timestamps")

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type listBookingsResponse struct {
	Bookings []bookingDTO `json:"bookings"`
}

type bookingDTO struct {
	ID             string   `json:"id"`
	RoomID         string   `json:"room_id"`
	RoomName       string   `json:"room_name"`
	OrganizerEmail string   `json:"organizer_email"`
	OrganizerName  string   `json:"organizer_name,omitempty"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	Description    string   `json:"description"`
	Attendees      []string `json:"attendees,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

func toBookingDTO(booking application.Booking, roomName string) bookingDTO {
	return bookingDTO{
		ID:             booking.ID,
		RoomID:         booking.RoomID,
		RoomName:       roomName,
		OrganizerEmail: booking.OrganizerEmail,
		OrganizerName:  booking.OrganizerName,
		StartTime:      booking.Start.UTC().Format(time.RFC3339Nano),
		EndTime:        booking.End.UTC().Format(time.RFC3339Nano),
		Description:    booking.Description,
		Attendees:      booking.Attendees,
		CreatedAt:      booking.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
