package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/dispatch"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

// ─── Booking Errors ─────────────────────────────────────────

var (
	// ErrNoAvailability is returned when dispatch positively reports no
	// fleet coverage for the pickup. Distinct from a dispatch outage, which
	// falls back to "available".
	ErrNoAvailability = errors.New("no fleet availability for the requested pickup")

	// ErrDispatchRejected is returned when the dispatch system refuses the
	// booking sync.
	ErrDispatchRejected = errors.New("dispatch rejected the booking")

	// ErrDispatchUnavailable is returned when dispatch cannot be reached to
	// sync the booking. The client may retry with the same reference; the
	// dispatch side dedupes on it.
	ErrDispatchUnavailable = errors.New("dispatch is unreachable")
)

// ─── BookingService ─────────────────────────────────────────

// BookingInput is a confirmed booking: a quotable request plus passenger
// headcount and contact details. Reference is optional; when a client
// retries a timed-out booking it should resend the same reference so
// dispatch can dedupe.
type BookingInput struct {
	Quote          model.BookingRequest
	PassengerCount int
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	Reference      string
}

// BookingConfirmation is the outcome of a successful booking.
type BookingConfirmation struct {
	Reference    string                         `json:"reference"`
	TripID       string                         `json:"trip_id,omitempty"`
	Platform     model.Platform                 `json:"platform"`
	TotalCents   int64                          `json:"total_cents"`
	Availability *dispatch.AvailabilityResponse `json:"availability,omitempty"`
}

// BookingService turns a priced quote into a dispatched trip.
//
// Flow:
//  1. Validate passenger count against the vehicle class capacity.
//  2. Price the request (audited under the booking reference).
//  3. Ask dispatch for availability — advisory, with the conservative
//     fallback, but an explicit "not available" stops the booking.
//  4. Sync the booking into dispatch under the idempotency reference.
type BookingService struct {
	quotes       *QuoteService
	availability *AvailabilityService
	client       *dispatch.Client
}

// NewBookingService creates a booking service. client may be nil, in which
// case bookings are priced and audited but only recorded locally.
func NewBookingService(quotes *QuoteService, availability *AvailabilityService, client *dispatch.Client) *BookingService {
	return &BookingService{
		quotes:       quotes,
		availability: availability,
		client:       client,
	}
}

// Book prices, checks, and dispatches one booking.
func (s *BookingService) Book(ctx context.Context, in BookingInput) (*BookingConfirmation, error) {
	// ── Step 1: Validate the booking shape ──────────────
	reference, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	// ── Step 2: Price under the booking reference ───────
	quote, err := s.quotes.QuoteWithReference(ctx, in.Quote, reference)
	if err != nil {
		return nil, err
	}
	total := quote.Breakdown.TotalCents()

	// ── Step 3: Availability (advisory) ─────────────────
	avail := s.availability.Check(ctx, dispatch.AvailabilityRequest{
		PickupAt:       in.Quote.PickupAt,
		PassengerCount: in.PassengerCount,
		ServiceType:    in.Quote.ServiceType,
	})
	if !avail.Available {
		log.Printf("[booking] %s: dispatch reports no availability (%d conflicting trips)",
			reference, avail.ConflictingTripCount)
		return nil, ErrNoAvailability
	}

	confirmation := &BookingConfirmation{
		Reference:    reference,
		Platform:     in.Quote.Platform,
		TotalCents:   total,
		Availability: avail,
	}

	// ── Step 4: Sync into dispatch ──────────────────────
	if s.client == nil {
		log.Printf("[booking] WARNING: dispatch not configured; %s recorded locally only", reference)
		return confirmation, nil
	}

	resp, err := s.client.SyncBooking(ctx, dispatch.BookingSyncRequest{
		Reference:      reference,
		Platform:       in.Quote.Platform,
		VehicleClass:   in.Quote.VehicleClass,
		ServiceType:    in.Quote.ServiceType,
		PickupAt:       in.Quote.PickupAt,
		PassengerCount: in.PassengerCount,
		TotalCents:     total,
		ContactName:    in.ContactName,
		ContactEmail:   in.ContactEmail,
		ContactPhone:   in.ContactPhone,
	})
	if err != nil {
		log.Printf("[booking] %s: dispatch sync failed: %v", reference, err)
		return nil, fmt.Errorf("%w: %v", ErrDispatchUnavailable, err)
	}
	if !resp.Success {
		log.Printf("[booking] %s: dispatch rejected: %s", reference, resp.Error)
		return nil, fmt.Errorf("%w: %s", ErrDispatchRejected, resp.Error)
	}

	confirmation.TripID = resp.TripID
	log.Printf("[booking] ✓ %s synced as trip %s (%s, %s)",
		reference, resp.TripID, in.Quote.VehicleClass, model.FormatCents(total))

	return confirmation, nil
}

// validate checks the booking-only fields and settles the reference. The
// quote fields themselves are validated by the engine in Step 2.
func (s *BookingService) validate(in BookingInput) (string, error) {
	if in.PassengerCount < 1 {
		return "", fmt.Errorf("%w: passenger_count must be at least 1", ErrInvalidInput)
	}
	if capacity := in.Quote.VehicleClass.Capacity(); capacity > 0 && in.PassengerCount > capacity {
		return "", fmt.Errorf("%w: %d passengers exceed %s capacity of %d",
			ErrInvalidInput, in.PassengerCount, in.Quote.VehicleClass, capacity)
	}
	if in.ContactName == "" || in.ContactEmail == "" {
		return "", fmt.Errorf("%w: contact_name and contact_email are required", ErrInvalidInput)
	}

	if in.Reference == "" {
		return uuid.NewString(), nil
	}
	if _, err := uuid.Parse(in.Reference); err != nil {
		return "", fmt.Errorf("%w: reference must be a UUID", ErrInvalidInput)
	}
	return in.Reference, nil
}
