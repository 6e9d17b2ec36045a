package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/rates"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/repository"
)

// ─── Quote Errors ───────────────────────────────────────────

var (
	// ErrInvalidInput is returned when a required field for the chosen
	// service type is missing or malformed.
	ErrInvalidInput = errors.New("quote request failed validation")

	// ErrInvalidVehicleForService is returned for an unrecognized vehicle
	// class or service type value.
	ErrInvalidVehicleForService = errors.New("unknown vehicle class or service type")

	// ErrRouteUnavailable is returned when no rate is published for the
	// requested route or vehicle. It is a business answer ("not offered"),
	// never a zero price.
	ErrRouteUnavailable = errors.New("route not offered for this vehicle class")
)

// ─── RateEngine ─────────────────────────────────────────────

// RateEngine prices booking requests against immutable rate tables.
//
// The engine is a pure computation: it never reads the wall clock (the
// request's RequestedAt stamp is the reference instant for the last-minute
// window), never touches storage, and holds no per-request state. The same
// BookingRequest therefore always yields a byte-identical PriceBreakdown.
//
// Pipeline, strictly ordered:
//  1. Base lookup per service type (hourly × billed hours, flat transfer
//     split, or zone-route flat rate).
//  2. Corporate platform premium as its own line — both operands are direct
//     table reads, so base + premium reproduces the corporate table value
//     exactly.
//  3. Percentage discounts, each computed on the running subtotal: weekday,
//     long-duration, last-minute. Compounding, not additive. Airport
//     transfers take no discounts.
//  4. Surcharges: after-hours flat fee, then holiday percentage of the
//     pre-surcharge subtotal.
//  5. Partner commission as settlement metadata, excluded from the total.
type RateEngine struct {
	book     *rates.RateBook
	rules    rates.RuleSet
	holidays rates.HolidayCalendar
}

// NewRateEngine creates an engine over validated tables. holidays may be nil,
// which disables the holiday surcharge entirely.
func NewRateEngine(book *rates.RateBook, rules rates.RuleSet, holidays rates.HolidayCalendar) *RateEngine {
	return &RateEngine{book: book, rules: rules, holidays: holidays}
}

// Quote runs the pricing pipeline for one request.
func (e *RateEngine) Quote(req model.BookingRequest) (*model.PriceBreakdown, error) {
	if err := e.validate(req); err != nil {
		return nil, err
	}

	breakdown := &model.PriceBreakdown{}

	// ── Step 1+2: Base amount and platform premium ──────
	var err error
	switch req.ServiceType {
	case model.ServiceHourly:
		err = e.priceHourly(req, breakdown)
	case model.ServicePointToPoint:
		err = e.pricePointToPoint(req, breakdown)
	case model.ServiceAirport:
		err = e.priceAirport(req, breakdown)
	}
	if err != nil {
		return nil, err
	}

	// ── Step 3: Stacked percentage discounts ────────────
	// Airport transfers are flat table prices; no discounts apply.
	if req.ServiceType != model.ServiceAirport {
		e.applyDiscounts(req, breakdown)
	}

	// ── Step 4: Surcharges ──────────────────────────────
	e.applySurcharges(req, breakdown)

	// ── Step 5: Partner commission ──────────────────────
	// A settlement line for the affiliate network. Never part of the total.
	if req.Platform == model.PlatformPartner {
		rate := e.rules.CommissionRate(req.ServiceType)
		commission := roundCents(breakdown.TotalCents(), rate)
		breakdown.Append(fmt.Sprintf("Partner commission (%d%%)", percent(rate)), commission, model.KindCommission)
	}

	return breakdown, nil
}

// validate rejects requests the pipeline cannot price. Below-minimum hourly
// durations are NOT rejected here; they are silently billed at the minimum.
func (e *RateEngine) validate(req model.BookingRequest) error {
	if !req.VehicleClass.IsValid() {
		return fmt.Errorf("%w: vehicle class %q", ErrInvalidVehicleForService, string(req.VehicleClass))
	}
	if !req.ServiceType.IsValid() {
		return fmt.Errorf("%w: service type %q", ErrInvalidVehicleForService, string(req.ServiceType))
	}
	if !req.Platform.IsValid() {
		return fmt.Errorf("%w: platform %q", ErrInvalidInput, string(req.Platform))
	}
	if req.PickupAt.IsZero() {
		return fmt.Errorf("%w: pickup_at is required", ErrInvalidInput)
	}
	if req.RequestedAt.IsZero() {
		return fmt.Errorf("%w: requested_at is required", ErrInvalidInput)
	}
	if req.ServiceType == model.ServiceAirport {
		if req.Route.PickupZone == "" || req.Route.Airport == "" {
			return fmt.Errorf("%w: airport service requires pickup_zone and airport", ErrInvalidInput)
		}
	}
	return nil
}

// ─── Base pricing per service type ──────────────────────────

// priceHourly bills max(requested, minimum) hours at the per-hour rate.
func (e *RateEngine) priceHourly(req model.BookingRequest, b *model.PriceBreakdown) error {
	lookup, ok := e.book.HourlyLookup(req.VehicleClass, req.Platform)
	if !ok {
		return fmt.Errorf("%w: no hourly rate for %s", ErrRouteUnavailable, req.VehicleClass)
	}

	hours := req.DurationHours
	if hours < e.rules.MinimumHours {
		hours = e.rules.MinimumHours
	}

	b.Append(fmt.Sprintf("Hourly service (%d hr)", hours), lookup.BaseCents*int64(hours), model.KindBase)
	if lookup.PremiumCents > 0 {
		b.Append("Corporate account premium", lookup.PremiumCents*int64(hours), model.KindPlatformPremium)
	}
	return nil
}

// pricePointToPoint itemizes the flat transfer rate into its fixed split.
func (e *RateEngine) pricePointToPoint(req model.BookingRequest, b *model.PriceBreakdown) error {
	split, premium, ok := e.book.PointToPointLookup(req.VehicleClass, req.Platform)
	if !ok {
		return fmt.Errorf("%w: no transfer rate for %s", ErrRouteUnavailable, req.VehicleClass)
	}

	b.Append("Point-to-point base", split.BaseCents, model.KindBase)
	b.Append("Gratuity", split.GratuityCents, model.KindGratuity)
	b.Append("Fuel surcharge", split.FuelCents, model.KindFuelSurcharge)
	b.Append("Mileage charge", split.MileageCents, model.KindMileageCharge)
	if premium > 0 {
		b.Append("Corporate account premium", premium, model.KindPlatformPremium)
	}
	return nil
}

// priceAirport looks up the flat zone-route rate. Ineligible vehicles and
// unlisted routes both answer "not offered" rather than a synthesized price.
func (e *RateEngine) priceAirport(req model.BookingRequest, b *model.PriceBreakdown) error {
	if !req.VehicleClass.AirportEligible() {
		return fmt.Errorf("%w: %s is not airport eligible", ErrRouteUnavailable, req.VehicleClass)
	}
	lookup, ok := e.book.AirportLookup(req.VehicleClass, req.Route, req.Platform)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRouteUnavailable, req.Route)
	}

	b.Append(fmt.Sprintf("Airport transfer (%s)", req.Route), lookup.BaseCents, model.KindBase)
	if lookup.PremiumCents > 0 {
		b.Append("Corporate account premium", lookup.PremiumCents, model.KindPlatformPremium)
	}
	return nil
}

// ─── Discounts ──────────────────────────────────────────────

// applyDiscounts appends each qualifying discount as a negative line, in
// fixed order, each computed against the subtotal AFTER the prior discount.
// The order changes the total (percentages compound), so it must match the
// published rules exactly.
func (e *RateEngine) applyDiscounts(req model.BookingRequest, b *model.PriceBreakdown) {
	subtotal := b.TotalCents()

	// (a) Monday through Thursday pickup.
	if wd := req.PickupAt.Weekday(); wd >= time.Monday && wd <= time.Thursday {
		amount := -roundCents(subtotal, e.rules.WeekdayDiscountRate)
		b.Append(fmt.Sprintf("Monday-Thursday discount (%d%%)", percent(e.rules.WeekdayDiscountRate)),
			amount, model.KindTimeDiscount)
		subtotal += amount
	}

	// (b) Long-duration hourly bookings.
	if req.ServiceType == model.ServiceHourly && req.DurationHours >= e.rules.DurationDiscountHours {
		amount := -roundCents(subtotal, e.rules.DurationDiscountRate)
		b.Append(fmt.Sprintf("Extended duration discount (%d%%)", percent(e.rules.DurationDiscountRate)),
			amount, model.KindDurationDiscount)
		subtotal += amount
	}

	// (c) Last-minute pickup, measured against the request instant.
	if req.PickupAt.Sub(req.RequestedAt) < e.rules.LastMinuteWindow {
		amount := -roundCents(subtotal, e.rules.LastMinuteDiscountRate)
		b.Append(fmt.Sprintf("Last-minute discount (%d%%)", percent(e.rules.LastMinuteDiscountRate)),
			amount, model.KindLastMinuteDiscount)
	}
}

// ─── Surcharges ─────────────────────────────────────────────

// applySurcharges appends the after-hours flat fee and the holiday
// percentage. The holiday line is computed on the pre-surcharge subtotal, so
// the flat fee is never inflated by it.
func (e *RateEngine) applySurcharges(req model.BookingRequest, b *model.PriceBreakdown) {
	preSurcharge := b.TotalCents()

	if e.rules.AfterHours(req.PickupAt) {
		b.Append("After-hours pickup fee", e.rules.AfterHoursFeeCents, model.KindAfterHoursSurcharge)
	}

	if e.holidays != nil {
		if name, ok := e.holidays.Holiday(req.PickupAt); ok {
			amount := roundCents(preSurcharge, e.rules.HolidaySurchargeRate)
			b.Append(fmt.Sprintf("Holiday surcharge (%s)", name), amount, model.KindHolidaySurcharge)
		}
	}
}

// ─── Rounding helpers ───────────────────────────────────────

// roundCents applies a fractional rate to a cent amount, rounding half away
// from zero. Every percentage line in a breakdown goes through this one
// function so totals stay reproducible.
func roundCents(cents int64, rate float64) int64 {
	return int64(math.Round(float64(cents) * rate))
}

// percent renders a fractional rate as a whole percentage for labels.
func percent(rate float64) int {
	return int(math.Round(rate * 100))
}

// ─── QuoteService ───────────────────────────────────────────

// auditTimeout bounds the asynchronous audit write per quote.
const auditTimeout = 3 * time.Second

// QuoteResult is the response from the quote service.
type QuoteResult struct {
	Reference string
	Breakdown *model.PriceBreakdown
	Flags     model.DisplayFlags
}

// QuoteService wraps the engine with audit recording and display-flag
// derivation. The engine call itself stays synchronous and storage-free;
// audit rows are written in the background so a slow database can never
// delay a quote.
type QuoteService struct {
	engine            *RateEngine
	audit             *repository.AuditRepository
	commissionEnabled bool
}

// NewQuoteService creates a quote service. audit may be nil, which disables
// audit recording (quotes still price normally).
func NewQuoteService(engine *RateEngine, audit *repository.AuditRepository, commissionEnabled bool) *QuoteService {
	return &QuoteService{
		engine:            engine,
		audit:             audit,
		commissionEnabled: commissionEnabled,
	}
}

// Quote prices a request under a fresh reference and records it for
// settlement.
func (s *QuoteService) Quote(ctx context.Context, req model.BookingRequest) (*QuoteResult, error) {
	return s.QuoteWithReference(ctx, req, uuid.NewString())
}

// QuoteWithReference prices a request under a caller-supplied reference.
// The booking flow uses this so the audit row carries the same reference the
// dispatch system dedupes on.
func (s *QuoteService) QuoteWithReference(ctx context.Context, req model.BookingRequest, reference string) (*QuoteResult, error) {
	breakdown, err := s.engine.Quote(req)
	if err != nil {
		return nil, err
	}

	log.Printf("[quote] ✓ %s: %s/%s on %s → %s",
		reference, req.VehicleClass, req.ServiceType, req.Platform,
		model.FormatCents(breakdown.TotalCents()))

	if s.audit != nil {
		go s.recordAudit(reference, req, breakdown)
	}

	return &QuoteResult{
		Reference: reference,
		Breakdown: breakdown,
		Flags:     model.DisplayFlagsFor(req.Platform, s.commissionEnabled),
	}, nil
}

// Engine exposes the underlying engine for callers that only need pure
// pricing (no reference, no audit row).
func (s *QuoteService) Engine() *RateEngine {
	return s.engine
}

// recordAudit writes one audit row with a bounded deadline. Failures are
// logged and dropped; audit is best-effort.
func (s *QuoteService) recordAudit(reference string, req model.BookingRequest, b *model.PriceBreakdown) {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	commission, _ := b.CommissionCents()
	err := s.audit.RecordQuote(ctx, &repository.QuoteAudit{
		Reference:       reference,
		Platform:        req.Platform,
		VehicleClass:    req.VehicleClass,
		ServiceType:     req.ServiceType,
		PickupAt:        req.PickupAt,
		TotalCents:      b.TotalCents(),
		CommissionCents: commission,
		Lines:           b.Lines,
	})
	if err != nil {
		log.Printf("[quote] WARNING: audit write for %s failed: %v", reference, err)
	}
}
