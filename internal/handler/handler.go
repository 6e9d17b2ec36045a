// Package handler contains HTTP request handlers for the quoting API.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/platform"
)

// ─── Shared helpers ─────────────────────────────────────────

// visitorCookieName keys the platform preference stores. The cookie is an
// opaque UUID, not a session credential.
const visitorCookieName = "tnt_visitor"

// visitorID returns the visitor cookie value, minting and setting a fresh
// one when absent.
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(visitorCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// resolvePlatform honors an explicit override when one is supplied,
// otherwise resolves from the live request signals. Returns ok=false after
// writing the error response itself.
func resolvePlatform(w http.ResponseWriter, r *http.Request, resolver *platform.Resolver, override string) (model.Platform, bool) {
	if override != "" {
		p, ok := model.ParsePlatform(override)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "unknown platform: must be retail, partner, or corporate",
			})
			return "", false
		}
		return p, true
	}
	return resolver.Resolve(r.Context(), visitorID(w, r), platform.SignalsFromRequest(r)), true
}

// writeJSON is a helper that writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ─── PlatformHandler ────────────────────────────────────────

// PlatformHandler reports the resolved platform identity for the UI shell.
// Branding and theming are external; the shell only needs the identity and
// its display flags.
type PlatformHandler struct {
	resolver          *platform.Resolver
	commissionEnabled bool
}

// NewPlatformHandler creates a new platform handler.
func NewPlatformHandler(resolver *platform.Resolver, commissionEnabled bool) *PlatformHandler {
	return &PlatformHandler{resolver: resolver, commissionEnabled: commissionEnabled}
}

// ResolvePlatform handles GET /api/v1/platform
//
// Resolves the caller's platform from the request signals (query parameters,
// hostname, path, referrer, stored preference) and reports it with the
// display-mode flags. Resolution never fails; unmatched signals are retail.
func (h *PlatformHandler) ResolvePlatform(w http.ResponseWriter, r *http.Request) {
	vid := visitorID(w, r)
	p := h.resolver.Resolve(r.Context(), vid, platform.SignalsFromRequest(r))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"platform":     p,
		"display_name": p.DisplayName(),
		"display":      model.DisplayFlagsFor(p, h.commissionEnabled),
	})
}
