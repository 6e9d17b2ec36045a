package rates

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

// ─── Rate file loading ──────────────────────────────────────
//
// The rate book is a static, versioned data file loaded once at process
// start. There is no hot reload: publishing new rates means shipping a new
// file and restarting, which keeps every quote in a process traceable to one
// table version.

// airportRateDef is one zone-route entry in the rate file.
type airportRateDef struct {
	Vehicle   string `mapstructure:"vehicle"`
	Zone      string `mapstructure:"zone"`
	Airport   string `mapstructure:"airport"`
	RateCents int64  `mapstructure:"rate_cents"`
}

// pointToPointDef mirrors PointToPointRate with file keys.
type pointToPointDef struct {
	BaseCents     int64 `mapstructure:"base_cents"`
	GratuityCents int64 `mapstructure:"gratuity_cents"`
	FuelCents     int64 `mapstructure:"fuel_cents"`
	MileageCents  int64 `mapstructure:"mileage_cents"`
}

// rulesDef mirrors RuleSet with file keys. When the rules section is present
// it replaces the shipped defaults wholesale; Validate catches omissions.
type rulesDef struct {
	MinimumHours           int     `mapstructure:"minimum_hours"`
	WeekdayDiscountRate    float64 `mapstructure:"weekday_discount_rate"`
	DurationDiscountRate   float64 `mapstructure:"duration_discount_rate"`
	DurationDiscountHours  int     `mapstructure:"duration_discount_hours"`
	LastMinuteDiscountRate float64 `mapstructure:"last_minute_discount_rate"`
	LastMinuteWindowHours  int     `mapstructure:"last_minute_window_hours"`
	AfterHoursFeeCents     int64   `mapstructure:"after_hours_fee_cents"`
	AfterHoursStartHour    int     `mapstructure:"after_hours_start_hour"`
	AfterHoursEndHour      int     `mapstructure:"after_hours_end_hour"`
	HolidaySurchargeRate   float64 `mapstructure:"holiday_surcharge_rate"`
	AirportCommissionRate  float64 `mapstructure:"airport_commission_rate"`
	DefaultCommissionRate  float64 `mapstructure:"default_commission_rate"`
}

// Load reads a complete rate book, and optionally a rule set, from a YAML
// file:
//
//	hourly_cents:
//	  sedan: 10000
//	corporate_hourly_cents:
//	  sedan: 11000
//	point_to_point:
//	  sedan: {base_cents: 9000, gratuity_cents: 1800, fuel_cents: 1000, mileage_cents: 2200}
//	corporate_point_to_point_cents:
//	  sedan: 15000
//	airport:
//	  - {vehicle: sedan, zone: central-virginia, airport: RIC, rate_cents: 12000}
//	corporate_airport:
//	  - {vehicle: sedan, zone: central-virginia, airport: RIC, rate_cents: 13000}
//	rules:
//	  minimum_hours: 3
//	  ...
//
// The file replaces the shipped tables wholesale. Callers must run Validate
// on the result before serving quotes.
func Load(path string) (*RateBook, RuleSet, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, RuleSet{}, fmt.Errorf("rates: read %s: %w", path, err)
	}

	book := &RateBook{
		HourlyCents:                map[model.VehicleClass]int64{},
		CorporateHourlyCents:       map[model.VehicleClass]int64{},
		PointToPoint:               map[model.VehicleClass]PointToPointRate{},
		CorporatePointToPointCents: map[model.VehicleClass]int64{},
		AirportCents:               map[model.VehicleClass]map[model.ZoneRoute]int64{},
		CorporateAirportCents:      map[model.VehicleClass]map[model.ZoneRoute]int64{},
	}

	if err := loadCentsTable(v, "hourly_cents", book.HourlyCents); err != nil {
		return nil, RuleSet{}, err
	}
	if err := loadCentsTable(v, "corporate_hourly_cents", book.CorporateHourlyCents); err != nil {
		return nil, RuleSet{}, err
	}

	var p2p map[string]pointToPointDef
	if err := v.UnmarshalKey("point_to_point", &p2p); err != nil {
		return nil, RuleSet{}, fmt.Errorf("rates: parse point_to_point: %w", err)
	}
	for raw, def := range p2p {
		vc, ok := model.ParseVehicleClass(raw)
		if !ok {
			return nil, RuleSet{}, fmt.Errorf("rates: unknown vehicle class %q in point_to_point", raw)
		}
		book.PointToPoint[vc] = PointToPointRate{
			BaseCents:     def.BaseCents,
			GratuityCents: def.GratuityCents,
			FuelCents:     def.FuelCents,
			MileageCents:  def.MileageCents,
		}
	}

	if err := loadCentsTable(v, "corporate_point_to_point_cents", book.CorporatePointToPointCents); err != nil {
		return nil, RuleSet{}, err
	}
	if err := loadAirportTable(v, "airport", book.AirportCents); err != nil {
		return nil, RuleSet{}, err
	}
	if err := loadAirportTable(v, "corporate_airport", book.CorporateAirportCents); err != nil {
		return nil, RuleSet{}, err
	}

	rules := DefaultRuleSet()
	if v.IsSet("rules") {
		var def rulesDef
		if err := v.UnmarshalKey("rules", &def); err != nil {
			return nil, RuleSet{}, fmt.Errorf("rates: parse rules: %w", err)
		}
		rules = RuleSet{
			MinimumHours:           def.MinimumHours,
			WeekdayDiscountRate:    def.WeekdayDiscountRate,
			DurationDiscountRate:   def.DurationDiscountRate,
			DurationDiscountHours:  def.DurationDiscountHours,
			LastMinuteDiscountRate: def.LastMinuteDiscountRate,
			LastMinuteWindow:       time.Duration(def.LastMinuteWindowHours) * time.Hour,
			AfterHoursFeeCents:     def.AfterHoursFeeCents,
			AfterHoursStartHour:    def.AfterHoursStartHour,
			AfterHoursEndHour:      def.AfterHoursEndHour,
			HolidaySurchargeRate:   def.HolidaySurchargeRate,
			AirportCommissionRate:  def.AirportCommissionRate,
			DefaultCommissionRate:  def.DefaultCommissionRate,
		}
	}

	log.Printf("[rates] Loaded rate book from %s (%d hourly, %d transfer, %d airport entries)",
		path, len(book.HourlyCents), len(book.PointToPoint), countAirportEntries(book.AirportCents))
	return book, rules, nil
}

// loadCentsTable reads a vehicle-class → cents mapping.
func loadCentsTable(v *viper.Viper, key string, dst map[model.VehicleClass]int64) error {
	var raw map[string]int64
	if err := v.UnmarshalKey(key, &raw); err != nil {
		return fmt.Errorf("rates: parse %s: %w", key, err)
	}
	for k, cents := range raw {
		vc, ok := model.ParseVehicleClass(k)
		if !ok {
			return fmt.Errorf("rates: unknown vehicle class %q in %s", k, key)
		}
		dst[vc] = cents
	}
	return nil
}

// loadAirportTable reads a list of zone-route entries into a nested table.
func loadAirportTable(v *viper.Viper, key string, dst map[model.VehicleClass]map[model.ZoneRoute]int64) error {
	var defs []airportRateDef
	if err := v.UnmarshalKey(key, &defs); err != nil {
		return fmt.Errorf("rates: parse %s: %w", key, err)
	}
	for _, d := range defs {
		vc, ok := model.ParseVehicleClass(d.Vehicle)
		if !ok {
			return fmt.Errorf("rates: unknown vehicle class %q in %s", d.Vehicle, key)
		}
		ap, ok := model.ParseAirport(d.Airport)
		if !ok {
			return fmt.Errorf("rates: unknown airport %q in %s", d.Airport, key)
		}
		if dst[vc] == nil {
			dst[vc] = map[model.ZoneRoute]int64{}
		}
		dst[vc][model.ZoneRoute{PickupZone: model.ParseZone(d.Zone), Airport: ap}] = d.RateCents
	}
	return nil
}

// countAirportEntries totals the retail zone-route entries for logging.
func countAirportEntries(table map[model.VehicleClass]map[model.ZoneRoute]int64) int {
	n := 0
	for _, routes := range table {
		n += len(routes)
	}
	return n
}
