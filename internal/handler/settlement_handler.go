package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/repository"
)

// SettlementHandler reports partner commission totals from the audit log.
type SettlementHandler struct {
	audit *repository.AuditRepository
}

// NewSettlementHandler creates a new settlement handler. audit may be nil
// when audit storage is not configured.
func NewSettlementHandler(audit *repository.AuditRepository) *SettlementHandler {
	return &SettlementHandler{audit: audit}
}

// GetCommissions handles GET /api/v1/settlement/commissions?from=&to=
//
// Sums the commission owed to the affiliate network for partner quotes in
// [from, to). Bounds accept RFC 3339 timestamps or plain dates (2006-01-02)
// and default to the trailing 30 days.
//
// Response codes:
//
//	200 — Commission summary
//	400 — Unparseable or inverted bounds
//	503 — Audit storage not configured
func (h *SettlementHandler) GetCommissions(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "settlement_disabled",
			"message": "Audit storage is not configured.",
		})
		return
	}

	now := time.Now()
	from, to := now.AddDate(0, 0, -30), now

	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "from must be RFC 3339 or YYYY-MM-DD",
			})
			return
		}
		from = t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "to must be RFC 3339 or YYYY-MM-DD",
			})
			return
		}
		to = t
	}
	if !to.After(from) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "to must be after from",
		})
		return
	}

	summary, err := h.audit.PartnerCommissions(r.Context(), from, to)
	if err != nil {
		log.Printf("[handler] settlement query error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal_error",
		})
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// parseTimeParam accepts RFC 3339 or a bare date.
func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
