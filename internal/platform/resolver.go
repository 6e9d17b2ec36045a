// Package platform decides which customer channel a request belongs to.
//
// Resolution is a pure, priority-ordered walk over request signals: query
// parameters outrank hostname, hostname outranks path, path outranks the
// referrer, and a stored preference from earlier in the visit is consulted
// only when every live signal stays silent. The first matching platform wins
// and short-circuits the rest. Resolution never fails — an unmatched or
// broken signal set resolves to retail.
package platform

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

// ─── Signal rules ───────────────────────────────────────────

// QueryPattern recognizes one query parameter for a platform. Values are
// compared case-insensitively after standard URL decoding (done by the
// signal source — the resolver does no further decoding, so encoded
// script-like content can never alias a platform). An empty string in
// Values accepts a bare, valueless parameter.
type QueryPattern struct {
	Key    string
	Values []string
}

// PlatformRules is one platform's recognized signals across every tier.
type PlatformRules struct {
	Platform      model.Platform
	QueryPatterns []QueryPattern
	Hostnames     []string
	PathFragments []string
	Referrers     []string
}

// DefaultRules returns the production signal tables. Order matters: within
// each tier, platforms are checked in declaration order.
func DefaultRules() []PlatformRules {
	return []PlatformRules{
		{
			Platform: model.PlatformPartner,
			QueryPatterns: []QueryPattern{
				{Key: "gnet", Values: []string{"", "1", "true"}},
				{Key: "platform", Values: []string{"gnet", "partner"}},
				{Key: "source", Values: []string{"gnet"}},
				{Key: "utm_source", Values: []string{"gnet"}},
			},
			Hostnames:     []string{"gnet.tntlimousine.com", "partners.tntlimousine.com"},
			PathFragments: []string{"/gnet", "/affiliate"},
			Referrers:     []string{"gnet.com", "groundwidgets.com"},
		},
		{
			Platform: model.PlatformCorporate,
			QueryPatterns: []QueryPattern{
				{Key: "platform", Values: []string{"corporate"}},
				{Key: "corp", Values: []string{"", "1", "true"}},
				{Key: "account", Values: []string{"corporate"}},
			},
			Hostnames:     []string{"corporate.tntlimousine.com", "corp.tntlimousine.com"},
			PathFragments: []string{"/corporate", "/corp-portal"},
			Referrers:     []string{"portal.tntlimousine.com"},
		},
		{
			Platform: model.PlatformRetail,
			QueryPatterns: []QueryPattern{
				{Key: "platform", Values: []string{"retail", "tnt"}},
			},
			Hostnames: []string{"tntlimousine.com", "www.tntlimousine.com"},
		},
	}
}

// ─── Preference store ───────────────────────────────────────

// PreferenceStore persists a resolved platform for a visitor so later
// navigations in the same visit resolve without live signals. Writes are
// idempotent; implementations must never panic out of Get/Set.
type PreferenceStore interface {
	Get(ctx context.Context, visitorID string) (model.Platform, bool)
	Set(ctx context.Context, visitorID string, p model.Platform)
}

// ─── Resolver ───────────────────────────────────────────────

// Resolver maps request signals to a platform identity.
type Resolver struct {
	rules []PlatformRules
	store PreferenceStore
}

// NewResolver creates a resolver over the given rule tables. store may be
// nil, which disables preference persistence and recovery.
func NewResolver(rules []PlatformRules, store PreferenceStore) *Resolver {
	return &Resolver{rules: rules, store: store}
}

// Resolve returns exactly one platform for the request. Signal tiers are
// evaluated in priority order and the first match wins; a match is persisted
// so the stored-preference tier can recover it on a later, signal-less
// navigation. Resolve never returns an error and never panics — a failure in
// any single tier degrades to "no match from this tier".
func (r *Resolver) Resolve(ctx context.Context, visitorID string, sig Signals) model.Platform {
	tiers := []struct {
		name string
		fn   func() (model.Platform, bool)
	}{
		{"query", func() (model.Platform, bool) { return r.matchQuery(sig.Query) }},
		{"hostname", func() (model.Platform, bool) { return r.matchHostname(sig.Hostname) }},
		{"path", func() (model.Platform, bool) { return r.matchPath(sig.Path) }},
		{"referrer", func() (model.Platform, bool) { return r.matchReferrer(sig.Referrer) }},
	}

	for _, tier := range tiers {
		if p, ok := evalTier(tier.name, tier.fn); ok {
			log.Printf("[resolver] %s signal resolved platform=%s", tier.name, p)
			r.persist(ctx, visitorID, p)
			return p
		}
	}

	if p, ok := evalTier("stored-preference", func() (model.Platform, bool) {
		return r.storedPreference(ctx, visitorID)
	}); ok {
		log.Printf("[resolver] recovered stored platform=%s", p)
		return p
	}

	return model.PlatformRetail
}

// evalTier runs one signal check, converting any panic into "no match".
func evalTier(name string, fn func() (model.Platform, bool)) (p model.Platform, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[resolver] %s signal check failed: %v (treated as no match)", name, rec)
			p, ok = "", false
		}
	}()
	return fn()
}

// persist writes the resolved platform to the preference store. Failures are
// swallowed — persistence is a side effect, never a reason to fail
// resolution.
func (r *Resolver) persist(ctx context.Context, visitorID string, p model.Platform) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[resolver] preference persist failed: %v", rec)
		}
	}()
	if r.store == nil || visitorID == "" {
		return
	}
	r.store.Set(ctx, visitorID, p)
}

// storedPreference recovers a platform persisted earlier in the visit.
// A stored value that is no longer a recognized platform is ignored.
func (r *Resolver) storedPreference(ctx context.Context, visitorID string) (model.Platform, bool) {
	if r.store == nil || visitorID == "" {
		return "", false
	}
	p, ok := r.store.Get(ctx, visitorID)
	if !ok || !p.IsValid() {
		return "", false
	}
	return p, true
}

// ─── Tier matchers ──────────────────────────────────────────

// matchQuery checks every platform's query patterns, in declaration order,
// against the present parameters. Keys and values compare case-insensitively.
func (r *Resolver) matchQuery(query url.Values) (model.Platform, bool) {
	if len(query) == 0 {
		return "", false
	}

	// Normalize once: lowercase keys and values.
	present := make(map[string][]string, len(query))
	for k, vals := range query {
		lk := strings.ToLower(k)
		for _, v := range vals {
			present[lk] = append(present[lk], strings.ToLower(v))
		}
	}

	for _, rules := range r.rules {
		for _, pat := range rules.QueryPatterns {
			vals, ok := present[strings.ToLower(pat.Key)]
			if !ok {
				continue
			}
			for _, v := range vals {
				for _, accepted := range pat.Values {
					if v == accepted {
						return rules.Platform, true
					}
				}
			}
		}
	}
	return "", false
}

// matchHostname checks exact or dot-suffix domain matches.
func (r *Resolver) matchHostname(hostname string) (model.Platform, bool) {
	host := strings.ToLower(strings.TrimSpace(hostname))
	if host == "" {
		return "", false
	}
	for _, rules := range r.rules {
		for _, domain := range rules.Hostnames {
			d := strings.ToLower(domain)
			if host == d || strings.HasSuffix(host, "."+d) {
				return rules.Platform, true
			}
		}
	}
	return "", false
}

// matchPath checks substring containment of registered path fragments.
func (r *Resolver) matchPath(path string) (model.Platform, bool) {
	p := strings.ToLower(path)
	if p == "" {
		return "", false
	}
	for _, rules := range r.rules {
		for _, frag := range rules.PathFragments {
			if strings.Contains(p, strings.ToLower(frag)) {
				return rules.Platform, true
			}
		}
	}
	return "", false
}

// matchReferrer checks substring containment of registered referrer domains.
// An absent referrer yields no match at this tier.
func (r *Resolver) matchReferrer(referrer string) (model.Platform, bool) {
	ref := strings.ToLower(strings.TrimSpace(referrer))
	if ref == "" {
		return "", false
	}
	for _, rules := range r.rules {
		for _, domain := range rules.Referrers {
			if strings.Contains(ref, strings.ToLower(domain)) {
				return rules.Platform, true
			}
		}
	}
	return "", false
}
