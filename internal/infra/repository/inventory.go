package repository

import (
	"context"
	"time"

	"booking-core/internal/domain/inventory"
	"booking-core/internal/infra"
	"booking-core/internal/infra/db"
	"booking-core/internal/pkg/errs"
)

const (
	// Missing nights are created from the room type's total so the ledger
	// never has gaps inside a requested stay.
	ensureInventorySQL = `
INSERT INTO inventory (property_id, room_type_id, stay_date, total_rooms, available_rooms, sold_rooms, blocked_rooms)
SELECT rt.property_id, rt.id, d::date, rt.total_rooms, rt.total_rooms, 0, 0
FROM room_types rt
CROSS JOIN generate_series($3::date, $4::date - 1, interval '1 day') AS d
WHERE rt.property_id = $1 AND rt.id = $2
ON CONFLICT (property_id, room_type_id, stay_date) DO NOTHING`

	// Rows are locked in date order so concurrent bookings never deadlock.
	lockInventorySQL = `
SELECT stay_date, total_rooms, available_rooms, sold_rooms, blocked_rooms
FROM inventory
WHERE property_id = $1 AND room_type_id = $2 AND stay_date >= $3 AND stay_date < $4
ORDER BY stay_date
FOR UPDATE`

	debitInventorySQL = `
UPDATE inventory
SET available_rooms = available_rooms - $5, sold_rooms = sold_rooms + $5, updated_at = now()
WHERE property_id = $1 AND room_type_id = $2 AND stay_date >= $3 AND stay_date < $4
  AND available_rooms >= $5`

	releaseInventorySQL = `
UPDATE inventory
SET available_rooms = available_rooms + $5, sold_rooms = sold_rooms - $5, updated_at = now()
WHERE property_id = $1 AND room_type_id = $2 AND stay_date >= $3 AND stay_date < $4
  AND sold_rooms >= $5`
)

// InventoryRepository is the Postgres inventory ledger. Every method must run
// inside a transaction.
type InventoryRepository struct{}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

func (r *InventoryRepository) CheckAvailability(ctx context.Context, tx db.DBTX, key inventory.Key, stay inventory.StayRange, rooms int) (inventory.Availability, error) {
	if rooms < 1 {
		return inventory.Availability{}, inventory.ErrInvalidRoomCount
	}
	if _, err := tx.Exec(ctx, ensureInventorySQL, key.PropertyID, key.RoomTypeID, stay.CheckIn(), stay.CheckOut()); err != nil {
		return inventory.Availability{}, infra.WrapRepoErr("failed to create inventory nights", err)
	}

	rows, err := tx.Query(ctx, lockInventorySQL, key.PropertyID, key.RoomTypeID, stay.CheckIn(), stay.CheckOut())
	if err != nil {
		return inventory.Availability{}, infra.WrapRepoErr("failed to lock inventory", err)
	}
	defer rows.Close()

	records := make([]inventory.Record, 0, stay.Nights())
	for rows.Next() {
		var (
			rec  inventory.Record
			date time.Time
		)
		if err := rows.Scan(&date, &rec.Total, &rec.Available, &rec.Sold, &rec.Blocked); err != nil {
			return inventory.Availability{}, infra.WrapRepoErr("failed to scan inventory", err)
		}
		rec.Date = date
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return inventory.Availability{}, infra.WrapRepoErr("failed to read inventory", err)
	}

	return inventory.Check(stay, records, rooms), nil
}

func (r *InventoryRepository) Debit(ctx context.Context, tx db.DBTX, key inventory.Key, stay inventory.StayRange, rooms int) error {
	if rooms < 1 {
		return inventory.ErrInvalidRoomCount
	}
	tag, err := tx.Exec(ctx, debitInventorySQL, key.PropertyID, key.RoomTypeID, stay.CheckIn(), stay.CheckOut(), rooms)
	if err != nil {
		return infra.WrapRepoErr("failed to debit inventory", err)
	}
	if int(tag.RowsAffected()) != stay.Nights() {
		return errs.Wrapf(inventory.ErrLedgerMismatch, "debit %s: %d of %d nights", key, tag.RowsAffected(), stay.Nights())
	}
	return nil
}

func (r *InventoryRepository) Release(ctx context.Context, tx db.DBTX, key inventory.Key, stay inventory.StayRange, rooms int) error {
	if rooms < 1 {
		return inventory.ErrInvalidRoomCount
	}
	tag, err := tx.Exec(ctx, releaseInventorySQL, key.PropertyID, key.RoomTypeID, stay.CheckIn(), stay.CheckOut(), rooms)
	if err != nil {
		return infra.WrapRepoErr("failed to release inventory", err)
	}
	if int(tag.RowsAffected()) != stay.Nights() {
		return errs.Wrapf(inventory.ErrLedgerMismatch, "release %s: %d of %d nights", key, tag.RowsAffected(), stay.Nights())
	}
	return nil
}
