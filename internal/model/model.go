// Package model contains domain types for the TNT/GNET quoting system.
// All monetary amounts are integer cents; totals are always folded from
// line items, never stored alongside them.
package model

import (
	"fmt"
	"strings"
	"time"
)

// ─── Platform ───────────────────────────────────────────────

// Platform identifies which customer channel a request belongs to.
// It determines the rate tables and commission rules that apply.
type Platform string

const (
	PlatformRetail    Platform = "retail"
	PlatformPartner   Platform = "partner"
	PlatformCorporate Platform = "corporate"
)

// AllPlatforms returns the closed set of recognized platforms.
func AllPlatforms() []Platform {
	return []Platform{PlatformRetail, PlatformPartner, PlatformCorporate}
}

// IsValid reports whether p is one of the recognized platforms.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformRetail, PlatformPartner, PlatformCorporate:
		return true
	}
	return false
}

// DisplayName returns a human-readable channel name.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformRetail:
		return "TNT Retail"
	case PlatformPartner:
		return "GNET Affiliate"
	case PlatformCorporate:
		return "Corporate Account"
	default:
		return "Unknown"
	}
}

// ParsePlatform normalizes s into a Platform. Unrecognized values return
// ok=false — the caller decides whether that means "fall through" (resolver)
// or "reject" (rate engine).
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if p.IsValid() {
		return p, true
	}
	return "", false
}

// ─── Service types ──────────────────────────────────────────

// ServiceType is the kind of trip being quoted.
type ServiceType string

const (
	ServiceHourly       ServiceType = "hourly"
	ServicePointToPoint ServiceType = "point_to_point"
	ServiceAirport      ServiceType = "airport"
)

// IsValid reports whether s is a recognized service type.
func (s ServiceType) IsValid() bool {
	switch s {
	case ServiceHourly, ServicePointToPoint, ServiceAirport:
		return true
	}
	return false
}

// ParseServiceType normalizes raw into a ServiceType.
func ParseServiceType(raw string) (ServiceType, bool) {
	s := ServiceType(strings.ToLower(strings.TrimSpace(raw)))
	if s.IsValid() {
		return s, true
	}
	return "", false
}

// ─── Vehicle classes ────────────────────────────────────────

// VehicleClass is the closed fleet enumeration. Each class carries a fixed
// passenger capacity and an airport-eligibility flag; airport rates must
// never be synthesized for an ineligible class.
type VehicleClass string

const (
	VehicleSedan            VehicleClass = "sedan"
	VehicleTransit          VehicleClass = "transit"
	VehicleExecutiveMiniBus VehicleClass = "executive_minibus"
	VehicleMiniBusSofa      VehicleClass = "minibus_sofa"
	VehicleStretchLimo      VehicleClass = "stretch_limo"
	VehicleSprinterLimo     VehicleClass = "sprinter_limo"
	VehicleLimoBus          VehicleClass = "limo_bus"
)

// vehicleSpec is the static per-class fleet data.
type vehicleSpec struct {
	displayName     string
	capacity        int
	airportEligible bool
}

var vehicleSpecs = map[VehicleClass]vehicleSpec{
	VehicleSedan:            {"Sedan", 3, true},
	VehicleTransit:          {"Transit Van", 12, true},
	VehicleExecutiveMiniBus: {"Executive Mini Bus", 12, false},
	VehicleMiniBusSofa:      {"Mini Bus (Sofa)", 10, false},
	VehicleStretchLimo:      {"Stretch Limousine", 8, false},
	VehicleSprinterLimo:     {"Sprinter Limousine", 10, false},
	VehicleLimoBus:          {"Limo Bus", 18, false},
}

// AllVehicleClasses returns every fleet class in stable display order.
func AllVehicleClasses() []VehicleClass {
	return []VehicleClass{
		VehicleSedan,
		VehicleTransit,
		VehicleExecutiveMiniBus,
		VehicleMiniBusSofa,
		VehicleStretchLimo,
		VehicleSprinterLimo,
		VehicleLimoBus,
	}
}

// IsValid reports whether v is a recognized fleet class.
func (v VehicleClass) IsValid() bool {
	_, ok := vehicleSpecs[v]
	return ok
}

// DisplayName returns the human-readable class name.
func (v VehicleClass) DisplayName() string {
	if spec, ok := vehicleSpecs[v]; ok {
		return spec.displayName
	}
	return "Unknown"
}

// Capacity returns the fixed passenger capacity for the class (0 if unknown).
func (v VehicleClass) Capacity() int {
	return vehicleSpecs[v].capacity
}

// AirportEligible reports whether the class may be quoted for airport
// transfers.
func (v VehicleClass) AirportEligible() bool {
	return vehicleSpecs[v].airportEligible
}

// ParseVehicleClass normalizes raw into a VehicleClass.
func ParseVehicleClass(raw string) (VehicleClass, bool) {
	v := VehicleClass(strings.ToLower(strings.TrimSpace(raw)))
	if v.IsValid() {
		return v, true
	}
	return "", false
}

// ─── Zones and airports ─────────────────────────────────────

// Airport is a destination airport code. Codes are stored uppercase.
type Airport string

const (
	AirportRIC Airport = "RIC"
	AirportDCA Airport = "DCA"
	AirportIAD Airport = "IAD"
	AirportBWI Airport = "BWI"
)

// AirportsByDistance lists the served airports ordered by physical distance
// from the service area (nearest first). Rate tables must be non-decreasing
// along this order.
func AirportsByDistance() []Airport {
	return []Airport{AirportRIC, AirportDCA, AirportIAD, AirportBWI}
}

// IsValid reports whether a is a served airport.
func (a Airport) IsValid() bool {
	switch a {
	case AirportRIC, AirportDCA, AirportIAD, AirportBWI:
		return true
	}
	return false
}

// ParseAirport normalizes raw into an Airport code.
func ParseAirport(raw string) (Airport, bool) {
	a := Airport(strings.ToUpper(strings.TrimSpace(raw)))
	if a.IsValid() {
		return a, true
	}
	return "", false
}

// Zone is a pickup area. Zones are stored lowercase-kebab; an unknown zone is
// not an error — it simply has no table entries, so every route from it is
// "not offered".
type Zone string

const (
	ZoneCentralVirginia Zone = "central-virginia"
	ZoneCharlottesville Zone = "charlottesville"
	ZoneWilliamsburg    Zone = "williamsburg"
)

// ParseZone normalizes raw into a Zone.
func ParseZone(raw string) Zone {
	return Zone(strings.ToLower(strings.TrimSpace(raw)))
}

// ZoneRoute is an ordered (pickup zone, destination airport) pair. A route
// exists iff the rate table has an entry for it.
type ZoneRoute struct {
	PickupZone Zone    `json:"pickup_zone"`
	Airport    Airport `json:"airport"`
}

// String renders the route as "zone to airport" for labels and logs.
func (zr ZoneRoute) String() string {
	return fmt.Sprintf("%s to %s", zr.PickupZone, zr.Airport)
}

// ─── Booking request ────────────────────────────────────────

// BookingRequest is the transient quote input. DurationHours is meaningful
// only for Hourly service; Route only for Airport service; PointToPoint needs
// neither. RequestedAt is the quote reference instant — the engine never
// reads the wall clock, so identical requests always produce identical
// breakdowns.
type BookingRequest struct {
	VehicleClass  VehicleClass `json:"vehicle_class"`
	ServiceType   ServiceType  `json:"service_type"`
	DurationHours int          `json:"duration_hours,omitempty"`
	Route         ZoneRoute    `json:"route,omitempty"`
	PickupAt      time.Time    `json:"pickup_at"`
	RequestedAt   time.Time    `json:"requested_at"`
	Platform      Platform     `json:"platform"`
	DiscountCodes []string     `json:"discount_codes,omitempty"`
}

// ─── Price breakdown ────────────────────────────────────────

// LineItemKind tags each component of a price breakdown.
type LineItemKind string

const (
	KindBase                LineItemKind = "base"
	KindGratuity            LineItemKind = "gratuity"
	KindFuelSurcharge       LineItemKind = "fuel_surcharge"
	KindMileageCharge       LineItemKind = "mileage_charge"
	KindPlatformPremium     LineItemKind = "platform_premium"
	KindTimeDiscount        LineItemKind = "time_discount"
	KindDurationDiscount    LineItemKind = "duration_discount"
	KindLastMinuteDiscount  LineItemKind = "last_minute_discount"
	KindAfterHoursSurcharge LineItemKind = "after_hours_surcharge"
	KindHolidaySurcharge    LineItemKind = "holiday_surcharge"
	KindCommission          LineItemKind = "commission"
)

// LineItem is one itemized component of a breakdown. Discounts carry
// negative amounts; the commission line never affects the customer total.
type LineItem struct {
	Label       string       `json:"label"`
	AmountCents int64        `json:"amount_cents"`
	Kind        LineItemKind `json:"kind"`
}

// PriceBreakdown is the ordered, append-only sequence of line items produced
// by the rate pipeline. The total is always derived by folding the lines so
// it can never drift from them.
type PriceBreakdown struct {
	Lines []LineItem `json:"lines"`
}

// Append adds a line item, preserving pipeline order.
func (b *PriceBreakdown) Append(label string, amountCents int64, kind LineItemKind) {
	b.Lines = append(b.Lines, LineItem{Label: label, AmountCents: amountCents, Kind: kind})
}

// TotalCents folds every non-commission line. Commission is affiliate
// settlement metadata and is excluded from the customer-facing total.
func (b *PriceBreakdown) TotalCents() int64 {
	var total int64
	for _, li := range b.Lines {
		if li.Kind == KindCommission {
			continue
		}
		total += li.AmountCents
	}
	return total
}

// CommissionCents returns the commission line amount and whether one exists.
func (b *PriceBreakdown) CommissionCents() (int64, bool) {
	for _, li := range b.Lines {
		if li.Kind == KindCommission {
			return li.AmountCents, true
		}
	}
	return 0, false
}

// ─── Display mode flags ─────────────────────────────────────

// DisplayFlags tells the (external) UI layer what it may render for a
// resolved platform. The full itemization is always retained internally for
// audit; ShowFullBreakdown is false for every platform in the current
// configuration.
type DisplayFlags struct {
	ShowCommission          bool `json:"show_commission"`
	ShowCorporateRatesBadge bool `json:"show_corporate_rates_badge"`
	ShowFullBreakdown       bool `json:"show_full_breakdown"`
}

// DisplayFlagsFor derives the flags for a platform. commissionEnabled is the
// operator-level switch; the business default keeps it off even for Partner.
func DisplayFlagsFor(p Platform, commissionEnabled bool) DisplayFlags {
	return DisplayFlags{
		ShowCommission:          p == PlatformPartner && commissionEnabled,
		ShowCorporateRatesBadge: p == PlatformCorporate,
		ShowFullBreakdown:       false,
	}
}

// FormatCents renders cents as a dollar string for labels and logs.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
