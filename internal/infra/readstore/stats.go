package readstore

import (
	"context"

	"booking-core/internal/domain/commission"
	"booking-core/internal/infra"
	"booking-core/internal/infra/db"
	"booking-core/internal/infra/repository"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	propertyCurrencySQL = `
SELECT currency
FROM properties
WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`

	// Revenue and room nights only count stays that still hold inventory or
	// were fulfilled.
	propertyStatsSQL = `
SELECT status,
       count(*),
       coalesce(sum(rooms * nights) FILTER (WHERE status IN ('pending', 'confirmed', 'checked_in', 'checked_out')), 0),
       coalesce(sum(total_price) FILTER (WHERE status IN ('pending', 'confirmed', 'checked_in', 'checked_out')), 0)
FROM reservations
WHERE tenant_id = $1 AND property_id = $2 AND deleted_at IS NULL
GROUP BY status`

	agencyExistsSQL = `
SELECT EXISTS (SELECT 1 FROM agencies WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL)`

	agencyLedgerSQL = `
SELECT id, tenant_id, agency_id, reservation_id, kind, bookings_delta, revenue, commission, currency, created_at
FROM agency_commission_entries
WHERE tenant_id = $1 AND agency_id = $2
ORDER BY created_at, id`
)

type StatsReadStore struct {
	db db.DBTX
}

var _ queries.StatsReadStore = (*StatsReadStore)(nil)

func NewStatsReadStore(db db.DBTX) *StatsReadStore {
	return &StatsReadStore{db: db}
}

func (r *StatsReadStore) PropertyStats(ctx context.Context, tenantID, propertyID uuid.UUID) (*queries.PropertyStats, error) {
	stats := &queries.PropertyStats{PropertyID: propertyID, ByStatus: map[string]int{}}
	if err := r.db.QueryRow(ctx, propertyCurrencySQL, propertyID, tenantID).Scan(&stats.Currency); err != nil {
		return nil, notFoundOr("property", err)
	}

	rows, err := r.db.Query(ctx, propertyStatsSQL, tenantID, propertyID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate reservations", err)
	}
	defer rows.Close()

	revenue := decimal.Zero
	for rows.Next() {
		var (
			status      string
			count       int
			roomNights  int
			statusTotal decimal.Decimal
		)
		if err := rows.Scan(&status, &count, &roomNights, &statusTotal); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation aggregate", err)
		}
		stats.Total += count
		stats.ByStatus[status] = count
		if status == "option" {
			stats.ActiveOptions = count
		}
		stats.RoomNightsSold += roomNights
		revenue = revenue.Add(statusTotal)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation aggregates", err)
	}
	stats.Revenue = revenue.StringFixed(2)
	return stats, nil
}

func (r *StatsReadStore) AgencyLedger(ctx context.Context, tenantID, agencyID uuid.UUID) ([]commission.Entry, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, agencyExistsSQL, agencyID, tenantID).Scan(&exists); err != nil {
		return nil, infra.WrapRepoErr("failed to look up agency", err)
	}
	if !exists {
		return nil, infra.NotFound("agency not found")
	}

	rows, err := r.db.Query(ctx, agencyLedgerSQL, tenantID, agencyID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load commission ledger", err)
	}
	defer rows.Close()

	var entries []commission.Entry
	for rows.Next() {
		e, err := repository.ScanCommissionEntry(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan commission entry", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read commission ledger", err)
	}
	return entries, nil
}
