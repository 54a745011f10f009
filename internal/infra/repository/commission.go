package repository

import (
	"context"
	"time"

	"booking-core/internal/domain/commission"
	"booking-core/internal/infra"
	"booking-core/internal/infra/db"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const insertCommissionEntrySQL = `
INSERT INTO agency_commission_entries
    (id, tenant_id, agency_id, reservation_id, kind, bookings_delta, revenue, commission, currency, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const findBookedEntrySQL = `
SELECT id, tenant_id, agency_id, reservation_id, kind, bookings_delta, revenue, commission, currency, created_at
FROM agency_commission_entries
WHERE reservation_id = $1 AND kind = 'BOOKED'`

// CommissionRepository appends agency commission entries. Rows are never
// updated; a reversal is a new row.
type CommissionRepository struct{}

func NewCommissionRepository() *CommissionRepository {
	return &CommissionRepository{}
}

func (r *CommissionRepository) Append(ctx context.Context, tx db.DBTX, e commission.Entry) error {
	_, err := tx.Exec(ctx, insertCommissionEntrySQL,
		e.ID, e.TenantID, e.AgencyID, e.ReservationID,
		string(e.Kind), e.BookingsDelta,
		e.Revenue.Amount(), e.Commission.Amount(), e.Revenue.Currency(),
		e.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append commission entry", err)
	}
	return nil
}

func (r *CommissionRepository) FindBooked(ctx context.Context, tx db.DBTX, reservationID uuid.UUID) (*commission.Entry, error) {
	e, err := ScanCommissionEntry(tx.QueryRow(ctx, findBookedEntrySQL, reservationID))
	if err != nil {
		if errs.Is(err, pgx.ErrNoRows) {
			return nil, infra.NotFound("booked commission entry not found")
		}
		return nil, infra.WrapRepoErr("failed to load commission entry", err)
	}
	return e, nil
}

// ScanCommissionEntry reads the column order used by findBookedEntrySQL.
func ScanCommissionEntry(row pgx.Row) (*commission.Entry, error) {
	var (
		e                   commission.Entry
		kind, currency      string
		revenue, commAmount decimal.Decimal
		createdAt           time.Time
	)
	if err := row.Scan(&e.ID, &e.TenantID, &e.AgencyID, &e.ReservationID, &kind, &e.BookingsDelta,
		&revenue, &commAmount, &currency, &createdAt); err != nil {
		return nil, err
	}
	e.Kind = commission.EntryKind(kind)
	e.Revenue = money.New(revenue, currency)
	e.Commission = money.New(commAmount, currency)
	e.CreatedAt = createdAt.UTC()
	return &e, nil
}
