// Package repository provides storage access for the quoting system.
//
// AuditRepository records every priced quote for reconciliation and
// affiliate settlement; PreferenceRepository keeps each visitor's resolved
// platform across navigations.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sperry-entelech/tnt-gnet-pricing-demo/internal/model"
)

// AuditRepository writes quote audit rows and aggregates them for
// settlement reporting.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// QuoteAudit is one priced quote as persisted. The full line item stack is
// kept as JSONB so a settlement dispute can be replayed without re-pricing.
type QuoteAudit struct {
	Reference       string
	Platform        model.Platform
	VehicleClass    model.VehicleClass
	ServiceType     model.ServiceType
	PickupAt        time.Time
	TotalCents      int64
	CommissionCents int64
	Lines           []model.LineItem
}

// RecordQuote inserts one audit row.
func (r *AuditRepository) RecordQuote(ctx context.Context, a *QuoteAudit) error {
	lines, err := json.Marshal(a.Lines)
	if err != nil {
		return fmt.Errorf("audit: marshal line items: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO quote_audits
			(reference, platform, vehicle_class, service_type, pickup_at,
			 total_cents, commission_cents, line_items)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, a.Reference, a.Platform, a.VehicleClass, a.ServiceType, a.PickupAt,
		a.TotalCents, a.CommissionCents, lines)
	if err != nil {
		return fmt.Errorf("audit: insert quote %s: %w", a.Reference, err)
	}
	return nil
}

// CommissionSummary aggregates partner-channel quotes over a settlement
// window. CommissionCents is what the affiliate network is owed; it is
// metadata on the audit rows and was never part of any quote total.
type CommissionSummary struct {
	QuoteCount      int       `json:"quote_count"`
	TotalCents      int64     `json:"total_cents"`
	CommissionCents int64     `json:"commission_cents"`
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
}

// PartnerCommissions sums commission owed for partner quotes created in
// [from, to).
func (r *AuditRepository) PartnerCommissions(ctx context.Context, from, to time.Time) (*CommissionSummary, error) {
	query := `
		SELECT COUNT(*)::int,
		       COALESCE(SUM(total_cents), 0)::bigint,
		       COALESCE(SUM(commission_cents), 0)::bigint
		FROM quote_audits
		WHERE platform = 'partner'
		  AND created_at >= $1
		  AND created_at < $2
	`

	s := &CommissionSummary{From: from, To: to}
	err := r.pool.QueryRow(ctx, query, from, to).Scan(&s.QuoteCount, &s.TotalCents, &s.CommissionCents)
	if err != nil {
		return nil, fmt.Errorf("partner commissions: %w", err)
	}
	return s, nil
}
