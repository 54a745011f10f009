package readstore

import (
	"context"
	"time"

	"booking-core/internal/domain/inventory"
	"booking-core/internal/infra"
	"booking-core/internal/infra/db"
	"booking-core/internal/pkg/pgconv"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
)

const (
	roomTypeTotalSQL = `
SELECT rt.total_rooms
FROM room_types rt
JOIN properties p ON p.id = rt.property_id
WHERE rt.id = $1 AND rt.property_id = $2 AND p.tenant_id = $3 AND p.deleted_at IS NULL`

	inventorySnapshotSQL = `
SELECT stay_date, total_rooms, available_rooms, sold_rooms, blocked_rooms
FROM inventory
WHERE property_id = $1 AND room_type_id = $2 AND stay_date >= $3 AND stay_date < $4
ORDER BY stay_date`
)

type InventoryReadStore struct {
	db db.DBTX
}

var _ queries.InventoryReadStore = (*InventoryReadStore)(nil)

func NewInventoryReadStore(db db.DBTX) *InventoryReadStore {
	return &InventoryReadStore{db: db}
}

func (r *InventoryReadStore) Snapshot(ctx context.Context, tenantID uuid.UUID, key inventory.Key, stay inventory.StayRange) ([]inventory.Record, error) {
	var total int
	if err := r.db.QueryRow(ctx, roomTypeTotalSQL, key.RoomTypeID, key.PropertyID, tenantID).Scan(&total); err != nil {
		return nil, notFoundOr("room type", err)
	}

	rows, err := r.db.Query(ctx, inventorySnapshotSQL, key.PropertyID, key.RoomTypeID, stay.CheckIn(), stay.CheckOut())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load inventory", err)
	}
	defer rows.Close()

	stored := map[time.Time]inventory.Record{}
	for rows.Next() {
		var rec inventory.Record
		if err := rows.Scan(&rec.Date, &rec.Total, &rec.Available, &rec.Sold, &rec.Blocked); err != nil {
			return nil, infra.WrapRepoErr("failed to scan inventory", err)
		}
		rec.Date = pgconv.DateOnly(rec.Date)
		stored[rec.Date] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read inventory", err)
	}

	records := make([]inventory.Record, 0, stay.Nights())
	for _, d := range stay.Dates() {
		if rec, ok := stored[d]; ok {
			records = append(records, rec)
			continue
		}
		records = append(records, inventory.NewRecord(d, total))
	}
	return records, nil
}
