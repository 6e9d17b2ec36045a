package model

import "testing"

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in     string
		want   Platform
		wantOK bool
	}{
		{"retail", PlatformRetail, true},
		{"Partner", PlatformPartner, true},
		{"  CORPORATE  ", PlatformCorporate, true},
		{"gnet", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParsePlatform(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParsePlatform(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseVehicleClass(t *testing.T) {
	if got, ok := ParseVehicleClass(" Limo_Bus "); !ok || got != VehicleLimoBus {
		t.Errorf("ParseVehicleClass(Limo_Bus) = %q, %v", got, ok)
	}
	if _, ok := ParseVehicleClass("hovercraft"); ok {
		t.Error("ParseVehicleClass(hovercraft): ok = true")
	}
}

func TestParseServiceType(t *testing.T) {
	if got, ok := ParseServiceType("POINT_TO_POINT"); !ok || got != ServicePointToPoint {
		t.Errorf("ParseServiceType = %q, %v", got, ok)
	}
	if _, ok := ParseServiceType("charter"); ok {
		t.Error("ParseServiceType(charter): ok = true")
	}
}

func TestParseAirport(t *testing.T) {
	if got, ok := ParseAirport("ric"); !ok || got != AirportRIC {
		t.Errorf("ParseAirport(ric) = %q, %v; want RIC", got, ok)
	}
	if _, ok := ParseAirport("JFK"); ok {
		t.Error("ParseAirport(JFK): ok = true")
	}
}

func TestParseZone_NeverFails(t *testing.T) {
	// Zones normalize but don't validate; unknown zones simply have no
	// table entries.
	if got := ParseZone("  Central-Virginia "); got != ZoneCentralVirginia {
		t.Errorf("ParseZone = %q", got)
	}
	if got := ParseZone("Norfolk"); got != Zone("norfolk") {
		t.Errorf("ParseZone(Norfolk) = %q", got)
	}
}

func TestVehicleClass_FleetData(t *testing.T) {
	if got := VehicleSedan.Capacity(); got != 3 {
		t.Errorf("sedan capacity = %d, want 3", got)
	}
	if got := VehicleLimoBus.Capacity(); got != 18 {
		t.Errorf("limo_bus capacity = %d, want 18", got)
	}

	// Only sedan and transit serve airport transfers.
	for _, v := range AllVehicleClasses() {
		want := v == VehicleSedan || v == VehicleTransit
		if got := v.AirportEligible(); got != want {
			t.Errorf("%s AirportEligible = %v, want %v", v, got, want)
		}
	}
}

func TestPriceBreakdown_TotalExcludesCommission(t *testing.T) {
	b := &PriceBreakdown{}
	b.Append("Hourly service (3 hr)", 30000, KindBase)
	b.Append("Monday-Thursday discount (10%)", -3000, KindTimeDiscount)
	b.Append("Partner commission (12%)", 3240, KindCommission)

	if got := b.TotalCents(); got != 27000 {
		t.Errorf("TotalCents = %d, want 27000", got)
	}
	if c, ok := b.CommissionCents(); !ok || c != 3240 {
		t.Errorf("CommissionCents = %d, %v; want 3240, true", c, ok)
	}
}

func TestPriceBreakdown_NoCommissionLine(t *testing.T) {
	b := &PriceBreakdown{}
	b.Append("Airport transfer", 45000, KindBase)

	if _, ok := b.CommissionCents(); ok {
		t.Error("CommissionCents: ok = true with no commission line")
	}
}

func TestDisplayFlagsFor(t *testing.T) {
	tests := []struct {
		platform Platform
		enabled  bool
		want     DisplayFlags
	}{
		{PlatformPartner, true, DisplayFlags{ShowCommission: true}},
		{PlatformPartner, false, DisplayFlags{}},
		{PlatformRetail, true, DisplayFlags{}},
		{PlatformCorporate, true, DisplayFlags{ShowCorporateRatesBadge: true}},
	}

	for _, tt := range tests {
		if got := DisplayFlagsFor(tt.platform, tt.enabled); got != tt.want {
			t.Errorf("DisplayFlagsFor(%s, %v) = %+v, want %+v", tt.platform, tt.enabled, got, tt.want)
		}
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{36000, "$360.00"},
		{7488, "$74.88"},
		{5, "$0.05"},
		{-4000, "-$40.00"},
		{0, "$0.00"},
	}

	for _, tt := range tests {
		if got := FormatCents(tt.cents); got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestZoneRoute_String(t *testing.T) {
	route := ZoneRoute{PickupZone: ZoneCentralVirginia, Airport: AirportDCA}
	if got := route.String(); got != "central-virginia to DCA" {
		t.Errorf("String = %q", got)
	}
}
