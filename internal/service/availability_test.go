package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/dispatch"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

func availabilityRequest() dispatch.AvailabilityRequest {
	return dispatch.AvailabilityRequest{
		PickupAt:       friday10,
		PassengerCount: 2,
		ServiceType:    model.ServiceHourly,
	}
}

func TestAvailability_FallbackWithoutClient(t *testing.T) {
	svc := NewAvailabilityService(nil, nil)

	got := svc.Check(context.Background(), availabilityRequest())
	if !got.Available || !got.DriverAvailable {
		t.Errorf("fallback = %+v, want available", got)
	}
	if got.RecommendedVehicleClass != model.VehicleSedan {
		t.Errorf("recommended = %s, want sedan", got.RecommendedVehicleClass)
	}
}

func TestAvailability_UsesDispatchVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/availability/check" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(dispatch.AvailabilityResponse{
			Available:               false,
			RecommendedVehicleClass: model.VehicleTransit,
			ConflictingTripCount:    3,
		})
	}))
	defer srv.Close()

	client, err := dispatch.NewClient(dispatch.ClientConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	svc := NewAvailabilityService(client, nil)

	got := svc.Check(context.Background(), availabilityRequest())
	if got.Available {
		t.Error("Available = true, want dispatch's negative verdict passed through")
	}
	if got.ConflictingTripCount != 3 {
		t.Errorf("ConflictingTripCount = %d, want 3", got.ConflictingTripCount)
	}
}

func TestAvailability_FallsBackOnDispatchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "dispatch database offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := dispatch.NewClient(dispatch.ClientConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	svc := NewAvailabilityService(client, nil)

	// A dispatch failure is never surfaced; the caller sees the
	// conservative default instead.
	got := svc.Check(context.Background(), availabilityRequest())
	if !got.Available || got.RecommendedVehicleClass != model.VehicleSedan {
		t.Errorf("fallback = %+v, want available sedan", got)
	}
}
