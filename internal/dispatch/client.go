// Package dispatch is the HTTP client for the fleet dispatch system.
//
// Dispatch is advisory to the quote flow: it answers availability questions
// and receives confirmed bookings, but an outage must never block pricing.
// Callers wrap these methods with caching and fallbacks (see
// service.AvailabilityService).
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

// ErrNotConfigured is returned by NewClient when no base URL is set.
var ErrNotConfigured = errors.New("dispatch: base URL not configured")

// Client talks to the dispatch system's REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// ClientConfig configures the dispatch client.
type ClientConfig struct {
	// BaseURL is the dispatch API root, e.g. https://dispatch.example.com.
	BaseURL string

	// APIKey authenticates this service. Sent as X-API-Key; never logged.
	APIKey string

	// Timeout bounds each request. Defaults to 10s.
	Timeout time.Duration

	// HTTPClient is an optional custom HTTP client (for testing).
	HTTPClient *http.Client
}

// NewClient creates a new dispatch client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}, nil
}

// ─── Availability ───────────────────────────────────────────

// AvailabilityRequest asks whether the fleet can cover a pickup.
type AvailabilityRequest struct {
	PickupAt       time.Time         `json:"pickup_at"`
	PassengerCount int               `json:"passenger_count"`
	ServiceType    model.ServiceType `json:"service_type"`
}

// AvailabilityResponse is the dispatch system's verdict.
type AvailabilityResponse struct {
	Available               bool               `json:"available"`
	RecommendedVehicleClass model.VehicleClass `json:"recommended_vehicle_class,omitempty"`
	DriverAvailable         bool               `json:"driver_available"`
	ConflictingTripCount    int                `json:"conflicting_trip_count"`
}

// CheckAvailability queries dispatch for fleet coverage of a pickup window.
func (c *Client) CheckAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResponse, error) {
	return doPost[AvailabilityResponse](ctx, c, "/api/availability/check", req)
}

// ─── Booking sync ───────────────────────────────────────────

// BookingSyncRequest pushes a confirmed booking into dispatch. Reference is
// the caller-generated booking reference; dispatch dedupes on it, so resends
// after a timeout are safe.
type BookingSyncRequest struct {
	Reference      string             `json:"reference"`
	Platform       model.Platform     `json:"platform"`
	VehicleClass   model.VehicleClass `json:"vehicle_class"`
	ServiceType    model.ServiceType  `json:"service_type"`
	PickupAt       time.Time          `json:"pickup_at"`
	PassengerCount int                `json:"passenger_count"`
	TotalCents     int64              `json:"total_cents"`
	ContactName    string             `json:"contact_name"`
	ContactEmail   string             `json:"contact_email"`
	ContactPhone   string             `json:"contact_phone"`
}

// BookingSyncResponse reports whether dispatch accepted the booking.
type BookingSyncResponse struct {
	Success bool   `json:"success"`
	TripID  string `json:"trip_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SyncBooking registers a confirmed booking with dispatch.
func (c *Client) SyncBooking(ctx context.Context, req BookingSyncRequest) (*BookingSyncResponse, error) {
	return doPost[BookingSyncResponse](ctx, c, "/api/bookings/sync", req)
}

// ─── Transport ──────────────────────────────────────────────

// APIError is a non-2xx response from dispatch.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dispatch: status %d: %s", e.StatusCode, e.Message)
}

// doPost performs a POST with a JSON body and decodes the response.
func doPost[Resp any](ctx context.Context, c *Client, path string, reqBody any) (*Resp, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("dispatch: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("dispatch: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dispatch: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var result Resp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("dispatch: decode response: %w", err)
	}
	return &result, nil
}

// SetBaseURL overrides the API root (for testing).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}
