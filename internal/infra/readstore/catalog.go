package readstore

import (
	"context"

	"booking-core/internal/infra"
	"booking-core/internal/infra/db"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/pgconv"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	propertyByIDSQL = `
SELECT id, tenant_id, name, active, currency, tax_rate, tax_included, option_hours
FROM properties
WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`

	roomTypeByIDSQL = `
SELECT id, property_id, name, total_rooms
FROM room_types
WHERE id = $1 AND property_id = $2`

	agencyByIDSQL = `
SELECT id, tenant_id, name, active, default_commission_rate
FROM agencies
WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`

	agencyOverridesSQL = `
SELECT property_id, commission_rate
FROM agency_property_commissions
WHERE agency_id = $1`

	nightlyRatesSQL = `
SELECT stay_date, price, currency
FROM nightly_rates
WHERE property_id = $1 AND room_type_id = $2 AND rate_plan_id = $3
  AND stay_date >= $4 AND stay_date < $5
ORDER BY stay_date`

	idempotencyByKeySQL = `
SELECT idempotency_key, id, request_hash, status
FROM reservations
WHERE tenant_id = $1 AND idempotency_key = $2`
)

// CatalogReadStore serves the lookups the write side validates against. It
// reads through whatever DBTX it was built with, so inside a unit of work it
// sees that transaction's snapshot.
type CatalogReadStore struct {
	db db.DBTX
}

var _ shared.CommandReads = (*CatalogReadStore)(nil)

func NewCatalogReadStore(db db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: db}
}

func (r *CatalogReadStore) PropertyByID(ctx context.Context, tenantID, propertyID uuid.UUID) (*shared.PropertySnapshot, error) {
	var (
		p       shared.PropertySnapshot
		taxRate decimal.NullDecimal
		hours   *int
	)
	err := r.db.QueryRow(ctx, propertyByIDSQL, propertyID, tenantID).
		Scan(&p.ID, &p.TenantID, &p.Name, &p.Active, &p.Currency, &taxRate, &p.TaxIncluded, &hours)
	if err != nil {
		return nil, notFoundOr("property", err)
	}
	p.TaxRate = pgconv.DecimalPtrFromNull(taxRate)
	p.OptionHours = hours
	return &p, nil
}

func (r *CatalogReadStore) RoomTypeByID(ctx context.Context, propertyID, roomTypeID uuid.UUID) (*shared.RoomTypeSnapshot, error) {
	var rt shared.RoomTypeSnapshot
	err := r.db.QueryRow(ctx, roomTypeByIDSQL, roomTypeID, propertyID).
		Scan(&rt.ID, &rt.PropertyID, &rt.Name, &rt.TotalRooms)
	if err != nil {
		return nil, notFoundOr("room type", err)
	}
	return &rt, nil
}

func (r *CatalogReadStore) AgencyByID(ctx context.Context, tenantID, agencyID uuid.UUID) (*shared.AgencySnapshot, error) {
	var a shared.AgencySnapshot
	err := r.db.QueryRow(ctx, agencyByIDSQL, agencyID, tenantID).
		Scan(&a.ID, &a.TenantID, &a.Name, &a.Active, &a.DefaultRate)
	if err != nil {
		return nil, notFoundOr("agency", err)
	}

	rows, err := r.db.Query(ctx, agencyOverridesSQL, agencyID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load agency overrides", err)
	}
	defer rows.Close()

	a.PropertyOverrides = map[uuid.UUID]decimal.Decimal{}
	for rows.Next() {
		var (
			propertyID uuid.UUID
			rate       decimal.Decimal
		)
		if err := rows.Scan(&propertyID, &rate); err != nil {
			return nil, infra.WrapRepoErr("failed to scan agency override", err)
		}
		a.PropertyOverrides[propertyID] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read agency overrides", err)
	}
	return &a, nil
}

func (r *CatalogReadStore) NightlyRates(ctx context.Context, lookup shared.RateLookup) ([]shared.NightlyRateSnapshot, error) {
	rows, err := r.db.Query(ctx, nightlyRatesSQL,
		lookup.Rate.PropertyID, lookup.Rate.RoomTypeID, lookup.Rate.RatePlanID,
		lookup.Stay.CheckIn(), lookup.Stay.CheckOut())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load nightly rates", err)
	}
	defer rows.Close()

	var rates []shared.NightlyRateSnapshot
	for rows.Next() {
		var rate shared.NightlyRateSnapshot
		if err := rows.Scan(&rate.Date, &rate.Price, &rate.Currency); err != nil {
			return nil, infra.WrapRepoErr("failed to scan nightly rate", err)
		}
		rate.Date = pgconv.DateOnly(rate.Date)
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read nightly rates", err)
	}
	return rates, nil
}

func (r *CatalogReadStore) IdempotencyByKey(ctx context.Context, tenantID uuid.UUID, key string) (*shared.IdempotencyRecord, error) {
	var rec shared.IdempotencyRecord
	err := r.db.QueryRow(ctx, idempotencyByKeySQL, tenantID, key).
		Scan(&rec.Key, &rec.ReservationID, &rec.RequestHash, &rec.Status)
	if err != nil {
		return nil, notFoundOr("idempotency key", err)
	}
	return &rec, nil
}

func notFoundOr(what string, err error) error {
	if errs.Is(err, pgx.ErrNoRows) {
		return infra.NotFound(what + " not found")
	}
	return infra.WrapRepoErr("failed to load "+what, err)
}
