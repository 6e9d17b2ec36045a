package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/platform"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/rates"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/service"
)

// Pickup fixtures sit on a far-future Friday at midday so the handler's
// time.Now() request stamp triggers no last-minute discount and the pickup
// itself earns no weekday, after-hours, or holiday adjustment.
const fridayPickup = "2027-06-11T15:00:00Z"

func newQuoteHandler(commissionEnabled bool) *QuoteHandler {
	engine := service.NewRateEngine(rates.DefaultRateBook(), rates.DefaultRuleSet(), rates.DefaultCalendar())
	quotes := service.NewQuoteService(engine, nil, commissionEnabled)
	resolver := platform.NewResolver(platform.DefaultRules(), nil)
	return NewQuoteHandler(quotes, resolver)
}

func postQuote(t *testing.T, h *QuoteHandler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.CreateQuote(w, req)
	return w
}

func decodeQuote(t *testing.T, w *httptest.ResponseRecorder) QuoteResponse {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	var resp QuoteResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode quote response: %v", err)
	}
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var e map[string]string
	if err := json.NewDecoder(w.Body).Decode(&e); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return e
}

func TestCreateQuote_Retail(t *testing.T) {
	h := newQuoteHandler(false)

	// sedan hourly: 3 * $100 = $300, no adjustments.
	w := postQuote(t, h, "/api/v1/quote", `{
		"vehicle_class": "sedan",
		"service_type": "hourly",
		"duration_hours": 3,
		"pickup_at": "`+fridayPickup+`",
		"platform": "retail"
	}`)

	resp := decodeQuote(t, w)
	if resp.TotalCents != 30000 {
		t.Errorf("total_cents = %d, want 30000", resp.TotalCents)
	}
	if resp.Total != "$300.00" {
		t.Errorf("total = %q, want $300.00", resp.Total)
	}
	if resp.Platform != model.PlatformRetail {
		t.Errorf("platform = %q, want retail", resp.Platform)
	}
	if resp.PlatformName != "TNT Retail" {
		t.Errorf("platform_display_name = %q, want TNT Retail", resp.PlatformName)
	}
	if resp.ServiceLabel != "Hourly service (3 hr)" {
		t.Errorf("service_label = %q", resp.ServiceLabel)
	}
	if len(resp.Lines) != 1 || resp.Lines[0].Kind != model.KindBase {
		t.Errorf("lines = %+v, want a single base line", resp.Lines)
	}
	if resp.Reference == "" {
		t.Error("reference is empty")
	}
	if resp.CommissionCents != nil {
		t.Errorf("commission_cents = %d, want absent", *resp.CommissionCents)
	}
}

func TestCreateQuote_PlatformResolvedFromSignals(t *testing.T) {
	h := newQuoteHandler(false)

	// No override in the body; the gnet query parameter marks the partner
	// channel and a visitor cookie is minted for the preference store.
	w := postQuote(t, h, "/api/v1/quote?gnet=1", `{
		"vehicle_class": "sedan",
		"service_type": "hourly",
		"duration_hours": 3,
		"pickup_at": "`+fridayPickup+`"
	}`)

	resp := decodeQuote(t, w)
	if resp.Platform != model.PlatformPartner {
		t.Errorf("platform = %q, want partner", resp.Platform)
	}
	if resp.PlatformName != "GNET Affiliate" {
		t.Errorf("platform_display_name = %q, want GNET Affiliate", resp.PlatformName)
	}
	// Partner pays retail rates; the commission never moves the total.
	if resp.TotalCents != 30000 {
		t.Errorf("total_cents = %d, want 30000", resp.TotalCents)
	}

	var minted bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "tnt_visitor" && c.Value != "" {
			minted = true
		}
	}
	if !minted {
		t.Error("no tnt_visitor cookie set on first contact")
	}
}

func TestCreateQuote_CommissionMetadata(t *testing.T) {
	h := newQuoteHandler(true)

	w := postQuote(t, h, "/api/v1/quote", `{
		"vehicle_class": "sedan",
		"service_type": "hourly",
		"duration_hours": 3,
		"pickup_at": "`+fridayPickup+`",
		"platform": "partner"
	}`)

	resp := decodeQuote(t, w)
	// 12% of $300 = $36, surfaced as metadata beside the total.
	if resp.CommissionCents == nil {
		t.Fatal("commission_cents absent with commission display enabled")
	}
	if *resp.CommissionCents != 3600 {
		t.Errorf("commission_cents = %d, want 3600", *resp.CommissionCents)
	}
	if resp.TotalCents != 30000 {
		t.Errorf("total_cents = %d, want 30000 (commission must not inflate the total)", resp.TotalCents)
	}
	for _, li := range resp.Lines {
		if li.Kind == model.KindCommission {
			t.Errorf("commission line leaked into lines: %+v", li)
		}
	}
}

func TestCreateQuote_CommissionHiddenForRetail(t *testing.T) {
	h := newQuoteHandler(true)

	w := postQuote(t, h, "/api/v1/quote", `{
		"vehicle_class": "sedan",
		"service_type": "hourly",
		"duration_hours": 3,
		"pickup_at": "`+fridayPickup+`",
		"platform": "retail"
	}`)

	resp := decodeQuote(t, w)
	if resp.CommissionCents != nil {
		t.Errorf("commission_cents = %d on a retail quote, want absent", *resp.CommissionCents)
	}
}

func TestCreateQuote_InvalidJSON(t *testing.T) {
	h := newQuoteHandler(false)

	w := postQuote(t, h, "/api/v1/quote", `{"vehicle_class": `)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if e := decodeError(t, w); e["error"] != "invalid JSON body" {
		t.Errorf("error = %q", e["error"])
	}
}

func TestCreateQuote_UnknownPlatformOverride(t *testing.T) {
	h := newQuoteHandler(false)

	w := postQuote(t, h, "/api/v1/quote", `{
		"vehicle_class": "sedan",
		"service_type": "hourly",
		"duration_hours": 3,
		"pickup_at": "`+fridayPickup+`",
		"platform": "vip"
	}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if e := decodeError(t, w); !strings.Contains(e["error"], "unknown platform") {
		t.Errorf("error = %q, want unknown platform message", e["error"])
	}
}

func TestCreateQuote_UnknownVehicle(t *testing.T) {
	h := newQuoteHandler(false)

	w := postQuote(t, h, "/api/v1/quote", `{
		"vehicle_class": "hovercraft",
		"service_type": "hourly",
		"duration_hours": 3,
		"pickup_at": "`+fridayPickup+`",
		"platform": "retail"
	}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if e := decodeError(t, w); e["error"] != "invalid_request" {
		t.Errorf("error = %q, want invalid_request", e["error"])
	}
}

func TestCreateQuote_RouteUnavailable(t *testing.T) {
	h := newQuoteHandler(false)

	// Norfolk has no published airport rates, so the quote must refuse
	// rather than price the leg at zero.
	w := postQuote(t, h, "/api/v1/quote", `{
		"vehicle_class": "sedan",
		"service_type": "airport",
		"pickup_zone": "norfolk",
		"airport": "DCA",
		"pickup_at": "`+fridayPickup+`",
		"platform": "retail"
	}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 (body %s)", w.Code, w.Body.String())
	}
	if e := decodeError(t, w); e["error"] != "route_unavailable" {
		t.Errorf("error = %q, want route_unavailable", e["error"])
	}
}

func TestCreateQuote_IneligibleAirportVehicle(t *testing.T) {
	h := newQuoteHandler(false)

	w := postQuote(t, h, "/api/v1/quote", `{
		"vehicle_class": "stretch_limo",
		"service_type": "airport",
		"pickup_zone": "central-virginia",
		"airport": "RIC",
		"pickup_at": "`+fridayPickup+`",
		"platform": "retail"
	}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 (body %s)", w.Code, w.Body.String())
	}
}

// ─── Platform endpoint ──────────────────────────────────────

func TestResolvePlatform_Partner(t *testing.T) {
	resolver := platform.NewResolver(platform.DefaultRules(), nil)
	h := NewPlatformHandler(resolver, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/platform?gnet=1", nil)
	w := httptest.NewRecorder()
	h.ResolvePlatform(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Platform    model.Platform     `json:"platform"`
		DisplayName string             `json:"display_name"`
		Display     model.DisplayFlags `json:"display"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Platform != model.PlatformPartner {
		t.Errorf("platform = %q, want partner", resp.Platform)
	}
	if resp.DisplayName != "GNET Affiliate" {
		t.Errorf("display_name = %q", resp.DisplayName)
	}
	if resp.Display.ShowCommission {
		t.Error("show_commission = true with the operator switch off")
	}
}

func TestResolvePlatform_DefaultsToRetail(t *testing.T) {
	resolver := platform.NewResolver(platform.DefaultRules(), nil)
	h := NewPlatformHandler(resolver, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/platform", nil)
	w := httptest.NewRecorder()
	h.ResolvePlatform(w, req)

	var resp struct {
		Platform model.Platform `json:"platform"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Platform != model.PlatformRetail {
		t.Errorf("platform = %q, want retail", resp.Platform)
	}
}

func TestResolvePlatform_KeepsExistingVisitorCookie(t *testing.T) {
	resolver := platform.NewResolver(platform.DefaultRules(), nil)
	h := NewPlatformHandler(resolver, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/platform", nil)
	req.AddCookie(&http.Cookie{Name: "tnt_visitor", Value: "visitor-123"})
	w := httptest.NewRecorder()
	h.ResolvePlatform(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == "tnt_visitor" {
			t.Errorf("re-minted visitor cookie %q for a returning visitor", c.Value)
		}
	}
}

// ─── Fleet endpoint ─────────────────────────────────────────

func TestListFleet(t *testing.T) {
	h := NewFleetHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fleet", nil)
	w := httptest.NewRecorder()
	h.ListFleet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Vehicles []FleetVehicle `json:"vehicles"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Vehicles) != 7 {
		t.Fatalf("len(vehicles) = %d, want 7", len(resp.Vehicles))
	}
	if resp.Vehicles[0].Class != model.VehicleSedan {
		t.Errorf("vehicles[0] = %q, want sedan first in display order", resp.Vehicles[0].Class)
	}
	for _, v := range resp.Vehicles {
		wantEligible := v.Class == model.VehicleSedan || v.Class == model.VehicleTransit
		if v.AirportEligible != wantEligible {
			t.Errorf("%s: airport_eligible = %v, want %v", v.Class, v.AirportEligible, wantEligible)
		}
		if v.Capacity <= 0 {
			t.Errorf("%s: capacity = %d", v.Class, v.Capacity)
		}
		if v.DisplayName == "" {
			t.Errorf("%s: empty display name", v.Class)
		}
	}
}
