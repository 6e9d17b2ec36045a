package rates

import (
	"fmt"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

// Validate checks the rate book and rule set for the gaps and inversions
// that must never reach the quoting pipeline. It is called once at process
// start; a non-nil error is fatal. The rules enforced:
//
//   - every vehicle class resolves to an hourly and a point-to-point rate on
//     both the retail and corporate tables (no silent gaps);
//   - corporate never undercuts retail for the same entry;
//   - airport rows never decrease along the airport distance tiers;
//   - airport tables carry entries only for airport-eligible classes, and
//     every eligible class serves at least one route;
//   - rule-set percentages are sane fractions.
func Validate(book *RateBook, rules RuleSet) error {
	for _, v := range model.AllVehicleClasses() {
		retailHourly, ok := book.HourlyCents[v]
		if !ok || retailHourly <= 0 {
			return fmt.Errorf("rates: no retail hourly rate for %s", v)
		}
		corpHourly, ok := book.CorporateHourlyCents[v]
		if !ok || corpHourly <= 0 {
			return fmt.Errorf("rates: no corporate hourly rate for %s", v)
		}
		if corpHourly < retailHourly {
			return fmt.Errorf("rates: corporate hourly rate for %s (%s) is below retail (%s)",
				v, model.FormatCents(corpHourly), model.FormatCents(retailHourly))
		}

		split, ok := book.PointToPoint[v]
		if !ok {
			return fmt.Errorf("rates: no point-to-point rate for %s", v)
		}
		if split.BaseCents <= 0 || split.GratuityCents <= 0 || split.FuelCents <= 0 || split.MileageCents <= 0 {
			return fmt.Errorf("rates: point-to-point split for %s has a non-positive component", v)
		}
		corpFlat, ok := book.CorporatePointToPointCents[v]
		if !ok || corpFlat <= 0 {
			return fmt.Errorf("rates: no corporate point-to-point rate for %s", v)
		}
		if corpFlat < split.TotalCents() {
			return fmt.Errorf("rates: corporate point-to-point rate for %s (%s) is below retail (%s)",
				v, model.FormatCents(corpFlat), model.FormatCents(split.TotalCents()))
		}
	}

	if err := validateAirportTable("retail", book.AirportCents); err != nil {
		return err
	}
	if err := validateAirportTable("corporate", book.CorporateAirportCents); err != nil {
		return err
	}

	// Corporate must never undercut retail on a shared route.
	for v, routes := range book.CorporateAirportCents {
		for route, corp := range routes {
			if retail, ok := book.AirportCents[v][route]; ok && corp < retail {
				return fmt.Errorf("rates: corporate airport rate for %s %s (%s) is below retail (%s)",
					v, route, model.FormatCents(corp), model.FormatCents(retail))
			}
		}
	}

	return validateRules(rules)
}

// validateAirportTable checks one platform's zone-route table: eligible
// classes only, full coverage for eligible classes, and non-decreasing rates
// along the distance tiers.
func validateAirportTable(name string, table map[model.VehicleClass]map[model.ZoneRoute]int64) error {
	for v, routes := range table {
		if !v.AirportEligible() {
			return fmt.Errorf("rates: %s airport table has entries for non-eligible class %s", name, v)
		}
		if len(routes) == 0 {
			return fmt.Errorf("rates: %s airport table lists %s with no routes", name, v)
		}

		// Group by pickup zone, then walk the distance tiers.
		zones := map[model.Zone]bool{}
		for route, cents := range routes {
			if cents <= 0 {
				return fmt.Errorf("rates: %s airport rate for %s %s is non-positive", name, v, route)
			}
			zones[route.PickupZone] = true
		}
		for zone := range zones {
			prev := int64(0)
			for _, ap := range model.AirportsByDistance() {
				cents, ok := routes[model.ZoneRoute{PickupZone: zone, Airport: ap}]
				if !ok {
					continue
				}
				if cents < prev {
					return fmt.Errorf("rates: %s airport rates for %s from %s decrease at %s", name, v, zone, ap)
				}
				prev = cents
			}
		}
	}

	// Every eligible class must serve at least one route on the retail table.
	if name == "retail" {
		for _, v := range model.AllVehicleClasses() {
			if v.AirportEligible() && len(table[v]) == 0 {
				return fmt.Errorf("rates: airport-eligible class %s has no retail routes", v)
			}
		}
	}

	return nil
}

func validateRules(rules RuleSet) error {
	if rules.MinimumHours < 1 {
		return fmt.Errorf("rates: minimum hours must be at least 1, got %d", rules.MinimumHours)
	}
	frac := func(label string, f float64) error {
		if f <= 0 || f >= 1 {
			return fmt.Errorf("rates: %s rate %.4f outside (0,1)", label, f)
		}
		return nil
	}
	if err := frac("weekday discount", rules.WeekdayDiscountRate); err != nil {
		return err
	}
	if err := frac("duration discount", rules.DurationDiscountRate); err != nil {
		return err
	}
	if err := frac("last-minute discount", rules.LastMinuteDiscountRate); err != nil {
		return err
	}
	if err := frac("holiday surcharge", rules.HolidaySurchargeRate); err != nil {
		return err
	}
	if err := frac("airport commission", rules.AirportCommissionRate); err != nil {
		return err
	}
	if err := frac("default commission", rules.DefaultCommissionRate); err != nil {
		return err
	}
	if rules.DurationDiscountHours < 1 {
		return fmt.Errorf("rates: duration discount threshold must be positive, got %d", rules.DurationDiscountHours)
	}
	if rules.LastMinuteWindow <= 0 {
		return fmt.Errorf("rates: last-minute window must be positive, got %s", rules.LastMinuteWindow)
	}
	if rules.AfterHoursFeeCents < 0 {
		return fmt.Errorf("rates: after-hours fee must not be negative")
	}
	if rules.AfterHoursStartHour < 0 || rules.AfterHoursStartHour > 23 ||
		rules.AfterHoursEndHour < 0 || rules.AfterHoursEndHour > 23 {
		return fmt.Errorf("rates: after-hours window hours must be within 0-23")
	}
	return nil
}
