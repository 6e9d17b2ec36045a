package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/dispatch"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

// ─── Availability cache ─────────────────────────────────────

const (
	availabilityCacheKeyPrefix = "avail:"
	availabilityCacheTTL       = 30 * time.Second // Short TTL: fleet state moves fast.
)

// ─── AvailabilityService ────────────────────────────────────

// AvailabilityService answers fleet coverage questions ahead of a booking.
//
// Strategy:
//  1. Try Redis cache first (fast path, <1ms).
//  2. On cache miss, ask the dispatch API, then cache the verdict for 30s.
//  3. On any dispatch failure, fall back to a conservative "available with
//     the default vehicle" answer — a dispatch outage must never block the
//     quote flow, and over-promising is corrected at booking-sync time.
//
// Check never returns an error.
type AvailabilityService struct {
	client *dispatch.Client
	redis  *redis.Client
}

// NewAvailabilityService creates an availability service. Either dependency
// may be nil: a nil client always falls back, a nil redis skips caching.
func NewAvailabilityService(client *dispatch.Client, rdb *redis.Client) *AvailabilityService {
	return &AvailabilityService{client: client, redis: rdb}
}

// Check returns the fleet's ability to cover the pickup.
func (s *AvailabilityService) Check(ctx context.Context, req dispatch.AvailabilityRequest) *dispatch.AvailabilityResponse {
	cacheKey := availabilityCacheKeyPrefix + availabilityCacheKeyFor(req)

	// ── Fast path: Redis cache ──────────────────────────
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached dispatch.AvailabilityResponse
			if json.Unmarshal(raw, &cached) == nil {
				return &cached
			}
		}
	}

	// ── Slow path: dispatch API ─────────────────────────
	if s.client != nil {
		resp, err := s.client.CheckAvailability(ctx, req)
		if err == nil {
			// Cache the verdict (fire-and-forget, don't block on errors).
			if s.redis != nil {
				if raw, err := json.Marshal(resp); err == nil {
					_ = s.redis.Set(ctx, cacheKey, raw, availabilityCacheTTL).Err()
				}
			}
			return resp
		}
		log.Printf("[availability] WARNING: dispatch check failed: %v (assuming available)", err)
	}

	// ── Conservative fallback ───────────────────────────
	return &dispatch.AvailabilityResponse{
		Available:               true,
		RecommendedVehicleClass: model.VehicleSedan,
		DriverAvailable:         true,
		ConflictingTripCount:    0,
	}
}

// availabilityCacheKeyFor buckets identical availability questions.
func availabilityCacheKeyFor(req dispatch.AvailabilityRequest) string {
	return fmt.Sprintf("%d:%d:%s", req.PickupAt.Unix(), req.PassengerCount, req.ServiceType)
}
