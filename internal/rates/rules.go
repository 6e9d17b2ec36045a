package rates

import (
	"time"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

// RuleSet holds the discount, surcharge, and commission parameters the quote
// pipeline applies on top of the base tables. Percentages are fractions in
// (0,1); discounts compound — each is taken from the running subtotal at its
// own pipeline step, not summed up front.
type RuleSet struct {
	// MinimumHours is the hourly billing floor. Requests below it are billed
	// at the minimum, never rejected.
	MinimumHours int

	// WeekdayDiscountRate applies to Monday through Thursday pickups.
	WeekdayDiscountRate float64

	// DurationDiscountRate applies to hourly bookings of at least
	// DurationDiscountHours.
	DurationDiscountRate  float64
	DurationDiscountHours int

	// LastMinuteDiscountRate applies when pickup is less than
	// LastMinuteWindow after the quote is requested.
	LastMinuteDiscountRate float64
	LastMinuteWindow       time.Duration

	// AfterHoursFeeCents is a flat fee for pickups in
	// [AfterHoursStartHour, AfterHoursEndHour) local time, wrapping midnight.
	AfterHoursFeeCents  int64
	AfterHoursStartHour int
	AfterHoursEndHour   int

	// HolidaySurchargeRate is taken from the pre-surcharge subtotal when the
	// pickup date falls on a recognized holiday.
	HolidaySurchargeRate float64

	// Commission rates for the partner channel. Commission is settlement
	// metadata and never changes the customer total.
	AirportCommissionRate float64
	DefaultCommissionRate float64
}

// DefaultRuleSet returns the current published business rules.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		MinimumHours: 3,

		WeekdayDiscountRate: 0.10,

		DurationDiscountRate:  0.10,
		DurationDiscountHours: 6,

		LastMinuteDiscountRate: 0.15,
		LastMinuteWindow:       24 * time.Hour,

		AfterHoursFeeCents:  2500, // $25 flat
		AfterHoursStartHour: 23,
		AfterHoursEndHour:   6,

		HolidaySurchargeRate: 0.25,

		AirportCommissionRate: 0.15,
		DefaultCommissionRate: 0.12,
	}
}

// AfterHours reports whether a pickup time falls in the after-hours window.
// The window wraps midnight: start 23 and end 6 means [23:00, 06:00).
func (rs RuleSet) AfterHours(t time.Time) bool {
	h := t.Hour()
	if rs.AfterHoursStartHour <= rs.AfterHoursEndHour {
		return h >= rs.AfterHoursStartHour && h < rs.AfterHoursEndHour
	}
	return h >= rs.AfterHoursStartHour || h < rs.AfterHoursEndHour
}

// CommissionRate returns the partner revenue-share fraction for a service
// type. Airport transfers settle at the higher rate.
func (rs RuleSet) CommissionRate(service model.ServiceType) float64 {
	if service == model.ServiceAirport {
		return rs.AirportCommissionRate
	}
	return rs.DefaultCommissionRate
}
