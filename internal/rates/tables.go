// Package rates holds the static rate tables and business rules for the
// quoting engine. Tables are immutable mapping literals, validated for
// completeness at process start; hot reloading is out of scope. Rates are
// keyed per platform only where a platform-specific table exists — partner
// shares the retail tables, corporate carries its own premium tables that
// are looked up directly (never derived as retail plus a percentage).
package rates

import (
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

// ─── Table types ────────────────────────────────────────────

// PointToPointRate is the fixed per-vehicle split of a flat transfer rate.
// The four sub-lines always sum to the advertised flat total.
type PointToPointRate struct {
	BaseCents     int64
	GratuityCents int64
	FuelCents     int64
	MileageCents  int64
}

// TotalCents returns the flat rate the split represents.
func (r PointToPointRate) TotalCents() int64 {
	return r.BaseCents + r.GratuityCents + r.FuelCents + r.MileageCents
}

// RateBook bundles every rate table the engine consumes. Retail and partner
// share the base tables; the Corporate* tables override them per entry.
type RateBook struct {
	// HourlyCents is the retail/partner per-hour rate by vehicle class.
	HourlyCents map[model.VehicleClass]int64

	// CorporateHourlyCents is the corporate per-hour rate table.
	CorporateHourlyCents map[model.VehicleClass]int64

	// PointToPoint is the retail/partner flat transfer split by class.
	PointToPoint map[model.VehicleClass]PointToPointRate

	// CorporatePointToPointCents holds corporate flat transfer totals.
	CorporatePointToPointCents map[model.VehicleClass]int64

	// AirportCents is the retail/partner zone-route table. A missing entry
	// means the route is not offered — that is a first-class result, not a
	// gap.
	AirportCents map[model.VehicleClass]map[model.ZoneRoute]int64

	// CorporateAirportCents holds corporate flat per-route rates.
	CorporateAirportCents map[model.VehicleClass]map[model.ZoneRoute]int64
}

// ─── Lookups ────────────────────────────────────────────────

// Lookup is the result of a platform-aware rate lookup. The effective
// platform rate is BaseCents + PremiumCents; both operands come from direct
// table reads so their sum reproduces the platform table value exactly.
type Lookup struct {
	BaseCents    int64
	PremiumCents int64
}

// HourlyLookup returns the per-hour rate components for a vehicle class on a
// platform. ok is false when the class has no hourly rate at all.
func (rb *RateBook) HourlyLookup(v model.VehicleClass, p model.Platform) (Lookup, bool) {
	retail, retailOK := rb.HourlyCents[v]
	if p == model.PlatformCorporate {
		if corp, ok := rb.CorporateHourlyCents[v]; ok {
			if !retailOK {
				return Lookup{BaseCents: corp}, true
			}
			return Lookup{BaseCents: retail, PremiumCents: corp - retail}, true
		}
	}
	if !retailOK {
		return Lookup{}, false
	}
	return Lookup{BaseCents: retail}, true
}

// PointToPointLookup returns the flat-rate split and any corporate premium
// for a vehicle class. ok is false when the class has no transfer rate.
func (rb *RateBook) PointToPointLookup(v model.VehicleClass, p model.Platform) (PointToPointRate, int64, bool) {
	split, splitOK := rb.PointToPoint[v]
	if !splitOK {
		return PointToPointRate{}, 0, false
	}
	if p == model.PlatformCorporate {
		if corp, ok := rb.CorporatePointToPointCents[v]; ok {
			return split, corp - split.TotalCents(), true
		}
	}
	return split, 0, true
}

// AirportLookup returns the zone-route rate components for a platform. ok is
// false when no table entry exists for the route on any table the platform
// may use — the caller reports that as "route not offered".
func (rb *RateBook) AirportLookup(v model.VehicleClass, route model.ZoneRoute, p model.Platform) (Lookup, bool) {
	retail, retailOK := rb.AirportCents[v][route]
	if p == model.PlatformCorporate {
		if corp, ok := rb.CorporateAirportCents[v][route]; ok {
			if !retailOK {
				return Lookup{BaseCents: corp}, true
			}
			return Lookup{BaseCents: retail, PremiumCents: corp - retail}, true
		}
	}
	if !retailOK {
		return Lookup{}, false
	}
	return Lookup{BaseCents: retail}, true
}

// ─── Shipped tables ─────────────────────────────────────────

// DefaultRateBook returns the current published rate tables.
func DefaultRateBook() *RateBook {
	return &RateBook{
		HourlyCents: map[model.VehicleClass]int64{
			model.VehicleSedan:            10000, // $100/hr
			model.VehicleTransit:          12500,
			model.VehicleExecutiveMiniBus: 15000,
			model.VehicleMiniBusSofa:      14000,
			model.VehicleStretchLimo:      16500,
			model.VehicleSprinterLimo:     17500,
			model.VehicleLimoBus:          20800, // $208/hr
		},

		CorporateHourlyCents: map[model.VehicleClass]int64{
			model.VehicleSedan:            11000,
			model.VehicleTransit:          13500,
			model.VehicleExecutiveMiniBus: 16500,
			model.VehicleMiniBusSofa:      15000,
			model.VehicleStretchLimo:      18000,
			model.VehicleSprinterLimo:     19000,
			model.VehicleLimoBus:          22500,
		},

		PointToPoint: map[model.VehicleClass]PointToPointRate{
			model.VehicleSedan:            {BaseCents: 9000, GratuityCents: 1800, FuelCents: 1000, MileageCents: 2200},
			model.VehicleTransit:          {BaseCents: 11500, GratuityCents: 2300, FuelCents: 1400, MileageCents: 2800},
			model.VehicleExecutiveMiniBus: {BaseCents: 14000, GratuityCents: 2800, FuelCents: 1700, MileageCents: 3500},
			model.VehicleMiniBusSofa:      {BaseCents: 13000, GratuityCents: 2600, FuelCents: 1500, MileageCents: 3200},
			model.VehicleStretchLimo:      {BaseCents: 15500, GratuityCents: 3100, FuelCents: 1800, MileageCents: 3800},
			model.VehicleSprinterLimo:     {BaseCents: 16500, GratuityCents: 3300, FuelCents: 2000, MileageCents: 4200},
			model.VehicleLimoBus:          {BaseCents: 19500, GratuityCents: 3900, FuelCents: 2400, MileageCents: 4950},
		},

		CorporatePointToPointCents: map[model.VehicleClass]int64{
			model.VehicleSedan:            15000,
			model.VehicleTransit:          19500,
			model.VehicleExecutiveMiniBus: 23800,
			model.VehicleMiniBusSofa:      21900,
			model.VehicleStretchLimo:      26100,
			model.VehicleSprinterLimo:     28000,
			model.VehicleLimoBus:          33200,
		},

		AirportCents: map[model.VehicleClass]map[model.ZoneRoute]int64{
			model.VehicleSedan: {
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportRIC}: 12000,
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportDCA}: 45000,
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportIAD}: 49500,
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportBWI}: 56000,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportRIC}: 16500,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportDCA}: 42500,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportIAD}: 44000,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportBWI}: 58500,
				{PickupZone: model.ZoneWilliamsburg, Airport: model.AirportRIC}:    15500,
			},
			model.VehicleTransit: {
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportRIC}: 16500,
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportDCA}: 58500,
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportIAD}: 63000,
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportBWI}: 71000,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportRIC}: 21000,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportDCA}: 55500,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportIAD}: 57500,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportBWI}: 74500,
				{PickupZone: model.ZoneWilliamsburg, Airport: model.AirportRIC}:    20500,
			},
		},

		CorporateAirportCents: map[model.VehicleClass]map[model.ZoneRoute]int64{
			model.VehicleSedan: {
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportRIC}: 13000,
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportDCA}: 48000,
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportIAD}: 53000,
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportBWI}: 60000,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportRIC}: 18000,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportDCA}: 45500,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportIAD}: 47000,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportBWI}: 62000,
				{PickupZone: model.ZoneWilliamsburg, Airport: model.AirportRIC}:    17000,
			},
			model.VehicleTransit: {
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportRIC}: 18000,
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportDCA}: 62000,
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportIAD}: 67000,
				{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportBWI}: 75500,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportRIC}: 22500,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportDCA}: 59000,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportIAD}: 61500,
				{PickupZone: model.ZoneCharlottesville, Airport: model.AirportBWI}: 79000,
				{PickupZone: model.ZoneWilliamsburg, Airport: model.AirportRIC}:    22000,
			},
		},
	}
}
