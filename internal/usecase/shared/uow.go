package shared

import (
	"context"
	"time"

	"booking-core/internal/domain/commission"
	"booking-core/internal/domain/inventory"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

// Tx exposes every repository bound to one transaction. Inventory is only
// reachable from here, so a debit can never happen outside a reservation write.
type Tx interface {
	Inventory() InventoryLedger
	Reservations() ReservationRepository
	Commissions() CommissionLedger
	Reads() CommandReads
	DB() db.DBTX
}

type InventoryLedger interface {
	// CheckAvailability locks every night of stay in date order, creating
	// missing records from the room type's total.
	CheckAvailability(ctx context.Context, tx db.DBTX, key inventory.Key, stay inventory.StayRange, rooms int) (inventory.Availability, error)
	Debit(ctx context.Context, tx db.DBTX, key inventory.Key, stay inventory.StayRange, rooms int) error
	Release(ctx context.Context, tx db.DBTX, key inventory.Key, stay inventory.StayRange, rooms int) error
}

type ReservationRepository interface {
	Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error
	// FindForUpdate loads and row-locks a reservation regardless of tenant.
	FindForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*reservation.Reservation, error)
	// Update saves res when its stored version still matches, then advances it.
	Update(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error
	ListExpiredOptionIDs(ctx context.Context, tx db.DBTX, now time.Time, limit int) ([]uuid.UUID, error)
}

type CommissionLedger interface {
	Append(ctx context.Context, tx db.DBTX, entry commission.Entry) error
	FindBooked(ctx context.Context, tx db.DBTX, reservationID uuid.UUID) (*commission.Entry, error)
}

// CommandReads are tenant-scoped catalog lookups the write side validates against.
type CommandReads interface {
	PropertyByID(ctx context.Context, tenantID, propertyID uuid.UUID) (*PropertySnapshot, error)
	RoomTypeByID(ctx context.Context, propertyID, roomTypeID uuid.UUID) (*RoomTypeSnapshot, error)
	AgencyByID(ctx context.Context, tenantID, agencyID uuid.UUID) (*AgencySnapshot, error)
	NightlyRates(ctx context.Context, key RateLookup) ([]NightlyRateSnapshot, error)
	IdempotencyByKey(ctx context.Context, tenantID uuid.UUID, key string) (*IdempotencyRecord, error)
}
