package repository

import (
	"context"
	"testing"
	"time"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

func TestPreferenceRepository_SessionRoundTrip(t *testing.T) {
	repo := NewPreferenceRepository(nil, DefaultSessionTTL, DefaultPreferenceTTL)
	ctx := context.Background()

	if _, ok := repo.Get(ctx, "v1"); ok {
		t.Fatal("Get before Set: ok = true")
	}

	repo.Set(ctx, "v1", model.PlatformPartner)

	got, ok := repo.Get(ctx, "v1")
	if !ok || got != model.PlatformPartner {
		t.Errorf("Get = %q, %v; want partner, true", got, ok)
	}

	// Overwrites win.
	repo.Set(ctx, "v1", model.PlatformCorporate)
	if got, _ := repo.Get(ctx, "v1"); got != model.PlatformCorporate {
		t.Errorf("Get after overwrite = %q, want corporate", got)
	}
}

func TestPreferenceRepository_SessionExpiry(t *testing.T) {
	repo := NewPreferenceRepository(nil, 10*time.Millisecond, DefaultPreferenceTTL)
	ctx := context.Background()

	repo.Set(ctx, "v1", model.PlatformPartner)
	time.Sleep(25 * time.Millisecond)

	if _, ok := repo.Get(ctx, "v1"); ok {
		t.Error("Get after session TTL: ok = true, want expired")
	}
}

func TestPreferenceRepository_IgnoresBadWrites(t *testing.T) {
	repo := NewPreferenceRepository(nil, DefaultSessionTTL, DefaultPreferenceTTL)
	ctx := context.Background()

	// Empty visitor IDs and unknown platforms are dropped silently.
	repo.Set(ctx, "", model.PlatformPartner)
	repo.Set(ctx, "v1", model.Platform("vip"))

	if _, ok := repo.Get(ctx, ""); ok {
		t.Error("Get with empty visitor ID: ok = true")
	}
	if _, ok := repo.Get(ctx, "v1"); ok {
		t.Error("invalid platform was stored")
	}
}
