package queries

import (
	"context"

	"booking-core/internal/domain/inventory"
	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrRoomTypeNotFound = errs.Category("room type not found", errs.ErrNotFound)

type InventoryDayView struct {
	Date      string `json:"date"`
	Total     int    `json:"total_rooms"`
	Available int    `json:"available_rooms"`
	Sold      int    `json:"sold_rooms"`
	Blocked   int    `json:"blocked_rooms"`
}

type InventoryQueries interface {
	GetAvailability(ctx context.Context, tenantID uuid.UUID, key inventory.Key, stay inventory.StayRange) ([]InventoryDayView, error)
}

type InventoryReadStore interface {
	// Snapshot returns one record per night of stay without locking; nights
	// never touched are reported with everything available.
	Snapshot(ctx context.Context, tenantID uuid.UUID, key inventory.Key, stay inventory.StayRange) ([]inventory.Record, error)
}

type inventoryQueriesImpl struct {
	store InventoryReadStore
}

func NewInventoryQueries(store InventoryReadStore) InventoryQueries {
	return &inventoryQueriesImpl{store: store}
}

func (q *inventoryQueriesImpl) GetAvailability(ctx context.Context, tenantID uuid.UUID, key inventory.Key, stay inventory.StayRange) ([]InventoryDayView, error) {
	records, err := q.store.Snapshot(ctx, tenantID, key, stay)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, err
	}
	days := make([]InventoryDayView, 0, len(records))
	for _, r := range records {
		days = append(days, InventoryDayView{
			Date:      inventory.FormatDate(r.Date),
			Total:     r.Total,
			Available: r.Available,
			Sold:      r.Sold,
			Blocked:   r.Blocked,
		})
	}
	return days, nil
}
