package shared

import (
	"time"

	"booking-core/internal/domain/commission"
	"booking-core/internal/domain/inventory"
	"booking-core/internal/domain/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PropertySnapshot struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	Active      bool
	Currency    string
	TaxRate     *decimal.Decimal
	TaxIncluded bool
	OptionHours *int
}

type RoomTypeSnapshot struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	Name       string
	TotalRooms int
}

type AgencySnapshot struct {
	ID                uuid.UUID
	TenantID          uuid.UUID
	Name              string
	Active            bool
	DefaultRate       decimal.Decimal
	PropertyOverrides map[uuid.UUID]decimal.Decimal
}

func (a *AgencySnapshot) Terms() commission.Terms {
	return commission.Terms{DefaultRate: a.DefaultRate, Overrides: a.PropertyOverrides}
}

type RateLookup struct {
	Rate pricing.RateKey
	Stay inventory.StayRange
}

type NightlyRateSnapshot struct {
	Date     time.Time
	Price    decimal.Decimal
	Currency string
}

// IdempotencyRecord is the existing reservation holding a client key.
type IdempotencyRecord struct {
	Key           string
	ReservationID uuid.UUID
	RequestHash   string
	Status        string
}
