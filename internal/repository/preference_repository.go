package repository

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

// PreferenceRepository persists each visitor's resolved platform across two
// horizons: an in-process session map covering the current visit, and Redis
// covering return visits. Reads prefer the session copy; a Redis hit
// repopulates it. All failures degrade to "no stored preference" — losing a
// preference only means the next request resolves from live signals again.
type PreferenceRepository struct {
	redis      *redis.Client
	sessionTTL time.Duration
	longTTL    time.Duration

	mu      sync.RWMutex
	session map[string]sessionEntry
}

type sessionEntry struct {
	platform  model.Platform
	expiresAt time.Time
}

const redisPreferenceKeyPrefix = "platform:pref:"

// Default retention horizons for the two preference stores.
const (
	DefaultSessionTTL    = 30 * time.Minute
	DefaultPreferenceTTL = 30 * 24 * time.Hour
)

// NewPreferenceRepository creates a preference store. rdb may be nil, which
// limits persistence to the in-process session horizon.
func NewPreferenceRepository(rdb *redis.Client, sessionTTL, longTTL time.Duration) *PreferenceRepository {
	return &PreferenceRepository{
		redis:      rdb,
		sessionTTL: sessionTTL,
		longTTL:    longTTL,
		session:    make(map[string]sessionEntry),
	}
}

// Get returns the visitor's stored platform, if any.
func (r *PreferenceRepository) Get(ctx context.Context, visitorID string) (model.Platform, bool) {
	if visitorID == "" {
		return "", false
	}

	// ── Fast path: in-process session entry ─────────────
	r.mu.RLock()
	entry, ok := r.session[visitorID]
	r.mu.RUnlock()
	if ok {
		if time.Now().Before(entry.expiresAt) {
			return entry.platform, true
		}
		// Expired — drop it so the map doesn't grow unbounded.
		r.mu.Lock()
		delete(r.session, visitorID)
		r.mu.Unlock()
	}

	// ── Slow path: Redis long-lived preference ──────────
	if r.redis == nil {
		return "", false
	}
	val, err := r.redis.Get(ctx, redisPreferenceKeyPrefix+visitorID).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[preference] redis get for %s failed: %v", visitorID, err)
		}
		return "", false
	}

	p := model.Platform(val)
	if !p.IsValid() {
		return "", false
	}
	r.storeSession(visitorID, p)
	return p, true
}

// Set records the visitor's platform in both stores. Rewriting the same
// platform refreshes both TTLs; Redis errors are logged, never surfaced.
func (r *PreferenceRepository) Set(ctx context.Context, visitorID string, p model.Platform) {
	if visitorID == "" || !p.IsValid() {
		return
	}

	r.storeSession(visitorID, p)

	if r.redis == nil {
		return
	}
	if err := r.redis.Set(ctx, redisPreferenceKeyPrefix+visitorID, string(p), r.longTTL).Err(); err != nil {
		log.Printf("[preference] redis set for %s failed: %v", visitorID, err)
	}
}

// storeSession writes the session-horizon entry.
func (r *PreferenceRepository) storeSession(visitorID string, p model.Platform) {
	r.mu.Lock()
	r.session[visitorID] = sessionEntry{
		platform:  p,
		expiresAt: time.Now().Add(r.sessionTTL),
	}
	r.mu.Unlock()
}
