package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/platform"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/service"
)

// ─── Request/Response DTOs ──────────────────────────────────

// QuoteRequestBody is the JSON body for POST /api/v1/quote.
type QuoteRequestBody struct {
	VehicleClass  string    `json:"vehicle_class"`
	ServiceType   string    `json:"service_type"`
	DurationHours int       `json:"duration_hours"`
	PickupZone    string    `json:"pickup_zone"`
	Airport       string    `json:"airport"`
	PickupAt      time.Time `json:"pickup_at"`
	Platform      string    `json:"platform"` // Optional override; normally resolved from signals.
}

// QuoteResponse is the priced quote on the wire. Lines never include the
// commission line; it surfaces as CommissionCents only when the display
// flags allow it.
type QuoteResponse struct {
	Reference       string             `json:"reference"`
	Platform        model.Platform     `json:"platform"`
	PlatformName    string             `json:"platform_display_name"`
	ServiceLabel    string             `json:"service_label"`
	TotalCents      int64              `json:"total_cents"`
	Total           string             `json:"total"`
	Lines           []model.LineItem   `json:"lines"`
	CommissionCents *int64             `json:"commission_cents,omitempty"`
	Display         model.DisplayFlags `json:"display"`
}

// ─── QuoteHandler ───────────────────────────────────────────

// QuoteHandler handles quote generation HTTP requests.
type QuoteHandler struct {
	quotes   *service.QuoteService
	resolver *platform.Resolver
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(quotes *service.QuoteService, resolver *platform.Resolver) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, resolver: resolver}
}

// CreateQuote handles POST /api/v1/quote
//
// Request body:
//
//	{
//	  "vehicle_class": "sedan",
//	  "service_type": "airport",
//	  "pickup_zone": "central-virginia", "airport": "DCA",
//	  "pickup_at": "2026-09-14T10:00:00-04:00"
//	}
//
// Platform is resolved from the request's signals unless the body carries an
// explicit override.
//
// Response codes:
//
//	200 — Quote priced
//	400 — Malformed body or invalid field for the chosen service type
//	422 — Route not offered for this vehicle/route
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var body QuoteRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON body",
		})
		return
	}

	p, ok := resolvePlatform(w, r, h.resolver, body.Platform)
	if !ok {
		return
	}

	result, err := h.quotes.Quote(r.Context(), quoteRequestFrom(body, p, time.Now()))
	if err != nil {
		writeQuoteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quoteResponseFrom(result, p))
}

// quoteRequestFrom builds the engine request from body fields. Enum values
// pass through normalized-but-unvalidated so the engine's typed errors keep
// the original input in their messages.
func quoteRequestFrom(body QuoteRequestBody, p model.Platform, now time.Time) model.BookingRequest {
	return model.BookingRequest{
		VehicleClass:  model.VehicleClass(strings.ToLower(strings.TrimSpace(body.VehicleClass))),
		ServiceType:   model.ServiceType(strings.ToLower(strings.TrimSpace(body.ServiceType))),
		DurationHours: body.DurationHours,
		Route: model.ZoneRoute{
			PickupZone: model.ParseZone(body.PickupZone),
			Airport:    model.Airport(strings.ToUpper(strings.TrimSpace(body.Airport))),
		},
		PickupAt:    body.PickupAt,
		RequestedAt: now,
		Platform:    p,
	}
}

// quoteResponseFrom shapes the wire response from a priced quote.
func quoteResponseFrom(result *service.QuoteResult, p model.Platform) QuoteResponse {
	lines := make([]model.LineItem, 0, len(result.Breakdown.Lines))
	for _, li := range result.Breakdown.Lines {
		if li.Kind == model.KindCommission {
			continue
		}
		lines = append(lines, li)
	}

	resp := QuoteResponse{
		Reference:    result.Reference,
		Platform:     p,
		PlatformName: p.DisplayName(),
		TotalCents:   result.Breakdown.TotalCents(),
		Total:        model.FormatCents(result.Breakdown.TotalCents()),
		Lines:        lines,
		Display:      result.Flags,
	}
	if len(lines) > 0 {
		resp.ServiceLabel = lines[0].Label
	}
	if result.Flags.ShowCommission {
		if commission, ok := result.Breakdown.CommissionCents(); ok {
			resp.CommissionCents = &commission
		}
	}
	return resp
}

// writeQuoteError maps pricing errors to HTTP statuses. Shared with the
// booking handler, whose flow starts with the same pricing step.
func writeQuoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRouteUnavailable):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":   "route_unavailable",
			"message": "This trip is not offered for the selected vehicle and route.",
		})
	case errors.Is(err, service.ErrInvalidVehicleForService),
		errors.Is(err, service.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	default:
		log.Printf("[handler] quote error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal_error",
		})
	}
}
