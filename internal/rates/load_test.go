package rates

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

const rateFile = `hourly_cents:
  sedan: 20000
corporate_hourly_cents:
  sedan: 22000
point_to_point:
  sedan:
    base_cents: 9000
    gratuity_cents: 1800
    fuel_cents: 1000
    mileage_cents: 2200
corporate_point_to_point_cents:
  sedan: 15000
airport:
  - vehicle: sedan
    zone: central-virginia
    airport: RIC
    rate_cents: 12500
corporate_airport:
  - vehicle: sedan
    zone: central-virginia
    airport: ric
    rate_cents: 13500
`

func writeRateFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rates.yaml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	book, rules, err := Load(writeRateFile(t, rateFile))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := book.HourlyCents[model.VehicleSedan]; got != 20000 {
		t.Errorf("hourly sedan = %d, want 20000", got)
	}
	if got := book.PointToPoint[model.VehicleSedan].TotalCents(); got != 14000 {
		t.Errorf("point-to-point sedan total = %d, want 14000", got)
	}

	// Airport codes are normalized to uppercase on load.
	route := model.ZoneRoute{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportRIC}
	if got := book.CorporateAirportCents[model.VehicleSedan][route]; got != 13500 {
		t.Errorf("corporate airport entry = %d, want 13500", got)
	}

	// No rules section: shipped defaults apply.
	if rules != DefaultRuleSet() {
		t.Errorf("rules = %+v, want defaults", rules)
	}
}

func TestLoad_RulesSectionReplacesDefaults(t *testing.T) {
	data := rateFile + `rules:
  minimum_hours: 2
  weekday_discount_rate: 0.05
  duration_discount_rate: 0.10
  duration_discount_hours: 8
  last_minute_discount_rate: 0.20
  last_minute_window_hours: 12
  after_hours_fee_cents: 1500
  after_hours_start_hour: 22
  after_hours_end_hour: 5
  holiday_surcharge_rate: 0.30
  airport_commission_rate: 0.18
  default_commission_rate: 0.10
`
	_, rules, err := Load(writeRateFile(t, data))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if rules.MinimumHours != 2 {
		t.Errorf("MinimumHours = %d, want 2", rules.MinimumHours)
	}
	if rules.LastMinuteWindow != 12*time.Hour {
		t.Errorf("LastMinuteWindow = %s, want 12h", rules.LastMinuteWindow)
	}
	if rules.AirportCommissionRate != 0.18 {
		t.Errorf("AirportCommissionRate = %v, want 0.18", rules.AirportCommissionRate)
	}
}

func TestLoad_RejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown vehicle", "hourly_cents:\n  rickshaw: 5000\n"},
		{"unknown airport", "airport:\n  - vehicle: sedan\n    zone: central-virginia\n    airport: JFK\n    rate_cents: 90000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Load(writeRateFile(t, tt.data)); err == nil {
				t.Error("Load: err = nil, want error")
			}
		})
	}
}
