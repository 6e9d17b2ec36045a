package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/platform"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/service"
)

// BookingRequestBody is the JSON body for POST /api/v1/bookings. The quote
// fields match QuoteRequestBody; the rest identify the passenger.
type BookingRequestBody struct {
	VehicleClass   string    `json:"vehicle_class"`
	ServiceType    string    `json:"service_type"`
	DurationHours  int       `json:"duration_hours"`
	PickupZone     string    `json:"pickup_zone"`
	Airport        string    `json:"airport"`
	PickupAt       time.Time `json:"pickup_at"`
	Platform       string    `json:"platform"` // Optional override; normally resolved from signals.
	PassengerCount int       `json:"passenger_count"`
	ContactName    string    `json:"contact_name"`
	ContactEmail   string    `json:"contact_email"`
	ContactPhone   string    `json:"contact_phone"`
	Reference      string    `json:"reference"` // Optional; resend on retry so dispatch dedupes.
}

// BookingHandler handles booking HTTP requests.
type BookingHandler struct {
	bookings *service.BookingService
	resolver *platform.Resolver
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookings *service.BookingService, resolver *platform.Resolver) *BookingHandler {
	return &BookingHandler{bookings: bookings, resolver: resolver}
}

// CreateBooking handles POST /api/v1/bookings
//
// Prices the request, checks fleet availability, and syncs the booking into
// dispatch under an idempotency reference.
//
// Response codes:
//
//	201 — Booking synced (returns reference, trip id, total)
//	400 — Malformed body or invalid field
//	409 — Dispatch reports no availability, or rejected the booking
//	422 — Route not offered for this vehicle/route
//	502 — Dispatch unreachable; retry with the same reference
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var body BookingRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON body",
		})
		return
	}

	p, ok := resolvePlatform(w, r, h.resolver, body.Platform)
	if !ok {
		return
	}

	quoteBody := QuoteRequestBody{
		VehicleClass:  body.VehicleClass,
		ServiceType:   body.ServiceType,
		DurationHours: body.DurationHours,
		PickupZone:    body.PickupZone,
		Airport:       body.Airport,
		PickupAt:      body.PickupAt,
	}

	confirmation, err := h.bookings.Book(r.Context(), service.BookingInput{
		Quote:          quoteRequestFrom(quoteBody, p, time.Now()),
		PassengerCount: body.PassengerCount,
		ContactName:    body.ContactName,
		ContactEmail:   body.ContactEmail,
		ContactPhone:   body.ContactPhone,
		Reference:      body.Reference,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoAvailability):
			writeJSON(w, http.StatusConflict, map[string]string{
				"error":   "no_availability",
				"message": "No vehicle is available for the requested pickup time.",
			})
		case errors.Is(err, service.ErrDispatchRejected):
			writeJSON(w, http.StatusConflict, map[string]string{
				"error":   "dispatch_rejected",
				"message": err.Error(),
			})
		case errors.Is(err, service.ErrDispatchUnavailable):
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error":   "dispatch_unreachable",
				"message": "Booking could not be synced. Retry with the same reference.",
			})
		default:
			writeQuoteError(w, err)
		}
		return
	}

	log.Printf("[handler] booking %s confirmed (trip %q)", confirmation.Reference, confirmation.TripID)
	writeJSON(w, http.StatusCreated, confirmation)
}
