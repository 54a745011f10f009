package repository

import (
	"context"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra"
	"booking-core/internal/infra/db"
	"booking-core/internal/infra/repository/converter"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	constraintBookingReference = "reservations_booking_reference_key"
	constraintIdempotencyKey   = "reservations_idempotency_key"
)

const insertReservationSQL = `
INSERT INTO reservations (` + converter.ReservationInsertColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
        $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40,
        $41, $42, $43)`

const findReservationForUpdateSQL = `
SELECT ` + converter.ReservationColumns + `
FROM reservations
WHERE id = $1 AND deleted_at IS NULL
FOR UPDATE`

// Only mutable columns are written; the version check makes a lost update
// impossible even without the row lock.
const updateReservationSQL = `
UPDATE reservations SET
    status = $3,
    option_expires_at = $4,
    guest_name = $5, guest_email = $6, guest_phone = $7, guest_country = $8, special_requests = $9,
    commission_status = $10, commission_paid_date = $11,
    confirmed_at = $12, checked_in_at = $13, checked_out_at = $14,
    cancelled_at = $15, no_show_at = $16, expired_at = $17,
    cancellation_reason = $18,
    updated_at = $19,
    version = version + 1
WHERE id = $1 AND version = $2`

const listExpiredOptionsSQL = `
SELECT id
FROM reservations
WHERE status = 'option' AND option_expires_at <= $1 AND deleted_at IS NULL
ORDER BY option_expires_at
LIMIT $2`

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

func (r *ReservationRepository) Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error {
	if _, err := tx.Exec(ctx, insertReservationSQL, converter.ReservationToArgs(res)...); err != nil {
		switch infra.ConstraintName(err) {
		case constraintIdempotencyKey:
			return errs.Mark(infra.WrapRepoErr("idempotency key already used", err), shared.ErrDuplicateIdempotencyKey)
		case constraintBookingReference:
			return errs.Mark(infra.WrapRepoErr("booking reference collision", err), shared.ErrDuplicateBookingReference)
		}
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := converter.ScanReservation(tx.QueryRow(ctx, findReservationForUpdateSQL, id))
	if err != nil {
		if errs.Is(err, pgx.ErrNoRows) {
			return nil, infra.NotFound("reservation not found")
		}
		return nil, infra.WrapRepoErr("failed to load reservation", err)
	}
	return res, nil
}

func (r *ReservationRepository) Update(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error {
	g := res.Guest()
	ts := res.Timestamps()

	var (
		commStatus   *string
		commPaidDate *time.Time
	)
	if c := res.Commission(); c != nil {
		status := string(c.Status)
		commStatus = &status
		commPaidDate = c.PaidDate
	}

	tag, err := tx.Exec(ctx, updateReservationSQL,
		res.ID(), res.Version(),
		res.Status().String(),
		res.OptionExpiresAt(),
		g.Name, g.Email, g.Phone, g.Country, g.SpecialRequests,
		commStatus, commPaidDate,
		ts.ConfirmedAt, ts.CheckedInAt, ts.CheckedOutAt,
		ts.CancelledAt, ts.NoShowAt, ts.ExpiredAt,
		res.CancellationReason(),
		res.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.Mark(errs.Newf("reservation %s is no longer at version %d", res.ID(), res.Version()), shared.ErrStaleVersion)
	}
	res.AdvanceVersion()
	return nil
}

func (r *ReservationRepository) ListExpiredOptionIDs(ctx context.Context, tx db.DBTX, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := tx.Query(ctx, listExpiredOptionsSQL, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list expired options", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan expired option", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read expired options", err)
	}
	return ids, nil
}
