package rates

import (
	"strings"
	"testing"
	"time"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

func TestValidate_CorporateBelowRetail(t *testing.T) {
	t.Run("hourly", func(t *testing.T) {
		book := DefaultRateBook()
		book.CorporateHourlyCents[model.VehicleSedan] = 9000 // retail is 10000
		wantErr(t, Validate(book, DefaultRuleSet()), "below retail")
	})

	t.Run("point to point", func(t *testing.T) {
		book := DefaultRateBook()
		book.CorporatePointToPointCents[model.VehicleSedan] = 13000 // retail split sums to 14000
		wantErr(t, Validate(book, DefaultRuleSet()), "below retail")
	})

	t.Run("airport", func(t *testing.T) {
		book := DefaultRateBook()
		route := model.ZoneRoute{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportRIC}
		book.CorporateAirportCents[model.VehicleSedan][route] = 11000 // retail is 12000
		wantErr(t, Validate(book, DefaultRuleSet()), "below retail")
	})
}

func TestValidate_MissingTableEntries(t *testing.T) {
	t.Run("hourly gap", func(t *testing.T) {
		book := DefaultRateBook()
		delete(book.HourlyCents, model.VehicleLimoBus)
		wantErr(t, Validate(book, DefaultRuleSet()), "no retail hourly rate")
	})

	t.Run("point-to-point gap", func(t *testing.T) {
		book := DefaultRateBook()
		delete(book.PointToPoint, model.VehicleTransit)
		wantErr(t, Validate(book, DefaultRuleSet()), "no point-to-point rate")
	})

	t.Run("eligible class with no airport routes", func(t *testing.T) {
		book := DefaultRateBook()
		delete(book.AirportCents, model.VehicleTransit)
		wantErr(t, Validate(book, DefaultRuleSet()), "no retail routes")
	})
}

func TestValidate_BrokenSplit(t *testing.T) {
	book := DefaultRateBook()
	split := book.PointToPoint[model.VehicleSedan]
	split.FuelCents = 0
	book.PointToPoint[model.VehicleSedan] = split
	wantErr(t, Validate(book, DefaultRuleSet()), "non-positive component")
}

func TestValidate_AirportTierInversion(t *testing.T) {
	book := DefaultRateBook()
	// DCA is farther than RIC, so pricing it cheaper is a data error.
	route := model.ZoneRoute{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportDCA}
	book.AirportCents[model.VehicleSedan][route] = 11000 // RIC is 12000
	wantErr(t, Validate(book, DefaultRuleSet()), "decrease")
}

func TestValidate_IneligibleClassInAirportTable(t *testing.T) {
	book := DefaultRateBook()
	book.AirportCents[model.VehicleStretchLimo] = map[model.ZoneRoute]int64{
		{PickupZone: model.ZoneCentralVirginia, Airport: model.AirportRIC}: 30000,
	}
	wantErr(t, Validate(book, DefaultRuleSet()), "non-eligible")
}

func TestValidate_BadRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RuleSet)
		want   string
	}{
		{"zero weekday rate", func(r *RuleSet) { r.WeekdayDiscountRate = 0 }, "outside (0,1)"},
		{"commission of one", func(r *RuleSet) { r.AirportCommissionRate = 1.0 }, "outside (0,1)"},
		{"zero minimum hours", func(r *RuleSet) { r.MinimumHours = 0 }, "minimum hours"},
		{"zero last-minute window", func(r *RuleSet) { r.LastMinuteWindow = 0 }, "last-minute window"},
		{"after-hours start out of range", func(r *RuleSet) { r.AfterHoursStartHour = 24 }, "0-23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRuleSet()
			tt.mutate(&rules)
			wantErr(t, Validate(DefaultRateBook(), rules), tt.want)
		})
	}
}

func TestAfterHours_Window(t *testing.T) {
	rules := DefaultRuleSet()

	tests := []struct {
		hour int
		want bool
	}{
		{22, false},
		{23, true}, // inclusive start
		{0, true},
		{3, true},
		{5, true},
		{6, false}, // exclusive end
		{12, false},
	}

	for _, tt := range tests {
		at := time.Date(2026, 5, 20, tt.hour, 0, 0, 0, time.UTC)
		if got := rules.AfterHours(at); got != tt.want {
			t.Errorf("AfterHours(%02d:00) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

// wantErr fails unless err is non-nil and mentions fragment.
func wantErr(t *testing.T, err error, fragment string) {
	t.Helper()
	if err == nil {
		t.Fatalf("err = nil, want error mentioning %q", fragment)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Errorf("err = %q, want mention of %q", err, fragment)
	}
}
