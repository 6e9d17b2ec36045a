package handler

import (
	"net/http"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

// FleetVehicle is one selectable vehicle class.
type FleetVehicle struct {
	Class           model.VehicleClass `json:"class"`
	DisplayName     string             `json:"display_name"`
	Capacity        int                `json:"capacity"`
	AirportEligible bool               `json:"airport_eligible"`
}

// FleetHandler serves the static fleet catalog for the vehicle selector.
type FleetHandler struct{}

// NewFleetHandler creates a new fleet handler.
func NewFleetHandler() *FleetHandler {
	return &FleetHandler{}
}

// ListFleet handles GET /api/v1/fleet
//
// Returns every vehicle class with its passenger capacity and airport
// eligibility, in display order.
func (h *FleetHandler) ListFleet(w http.ResponseWriter, r *http.Request) {
	classes := model.AllVehicleClasses()
	fleet := make([]FleetVehicle, 0, len(classes))
	for _, vc := range classes {
		fleet = append(fleet, FleetVehicle{
			Class:           vc,
			DisplayName:     vc.DisplayName(),
			Capacity:        vc.Capacity(),
			AirportEligible: vc.AirportEligible(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vehicles": fleet,
	})
}
