package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/dispatch"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/service"
)

// AvailabilityRequestBody is the JSON body for POST /api/v1/availability.
type AvailabilityRequestBody struct {
	PickupAt       time.Time `json:"pickup_at"`
	PassengerCount int       `json:"passenger_count"`
	ServiceType    string    `json:"service_type"`
}

// AvailabilityHandler proxies fleet availability checks to dispatch.
type AvailabilityHandler struct {
	availability *service.AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler.
func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// CheckAvailability handles POST /api/v1/availability
//
// Asks dispatch whether the fleet can cover the pickup. A dispatch outage
// answers conservatively ("available", default vehicle) rather than failing,
// so this endpoint returns 200 for every well-formed request.
//
// Response codes:
//
//	200 — Availability verdict (possibly the conservative fallback)
//	400 — Malformed body
func (h *AvailabilityHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var body AvailabilityRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON body",
		})
		return
	}

	if body.PickupAt.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pickup_at is required"})
		return
	}
	serviceType, ok := model.ParseServiceType(body.ServiceType)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "service_type must be hourly, point_to_point, or airport",
		})
		return
	}
	if body.PassengerCount <= 0 {
		body.PassengerCount = 1
	}

	resp := h.availability.Check(r.Context(), dispatch.AvailabilityRequest{
		PickupAt:       body.PickupAt,
		PassengerCount: body.PassengerCount,
		ServiceType:    serviceType,
	})

	writeJSON(w, http.StatusOK, resp)
}
