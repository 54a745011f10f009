package readstore

import (
	"context"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra/db"
	"booking-core/internal/infra/repository/converter"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
)

const (
	reservationByIDSQL = `
SELECT ` + converter.ReservationColumns + `
FROM reservations
WHERE id = $1 AND deleted_at IS NULL`

	reservationByReferenceSQL = `
SELECT ` + converter.ReservationColumns + `
FROM reservations
WHERE tenant_id = $1 AND booking_reference = $2 AND deleted_at IS NULL`
)

type ReservationReadStore struct {
	db db.DBTX
}

var _ queries.ReservationReadStore = (*ReservationReadStore)(nil)

func NewReservationReadStore(db db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: db}
}

// FindByID is not tenant scoped; callers compare the tenant themselves.
func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := converter.ScanReservation(r.db.QueryRow(ctx, reservationByIDSQL, id))
	if err != nil {
		return nil, notFoundOr("reservation", err)
	}
	return res, nil
}

func (r *ReservationReadStore) FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*reservation.Reservation, error) {
	res, err := converter.ScanReservation(r.db.QueryRow(ctx, reservationByReferenceSQL, tenantID, reference))
	if err != nil {
		return nil, notFoundOr("reservation", err)
	}
	return res, nil
}
