//go:build unit || integration

package builder

import (
	"time"

	"booking-core/internal/domain/inventory"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FixedReference always yields the same booking reference.
type FixedReference string

func (f FixedReference) Generate(time.Time) string { return string(f) }

type ReservationBuilder struct {
	TenantID       uuid.UUID
	PropertyID     uuid.UUID
	RoomTypeID     uuid.UUID
	RatePlanID     uuid.UUID
	CreatedBy      uuid.UUID
	Reference      string
	IdempotencyKey *string
	RequestHash    string
	GuestName      string
	GuestEmail     string
	CheckIn        time.Time
	CheckOut       time.Time
	Adults         int
	Children       int
	Rooms          int
	TotalPrice     string
	TotalWithTax   string
	Currency       string
	Intent         reservation.Intent
	OptionHours    int
	Channel        reservation.Channel
	AgencyID       *uuid.UUID
	CommissionPct  *decimal.Decimal
	Now            time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		TenantID:     uuid.New(),
		PropertyID:   uuid.New(),
		RoomTypeID:   uuid.New(),
		RatePlanID:   uuid.New(),
		CreatedBy:    uuid.New(),
		Reference:    "BK-260110-ABCDEF",
		RequestHash:  "hash",
		GuestName:    "Ada Lovelace",
		GuestEmail:   "ada@example.com",
		CheckIn:      time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:     time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
		Adults:       2,
		Rooms:        1,
		TotalPrice:   "100.00",
		TotalWithTax: "107.00",
		Currency:     "EUR",
		Intent:       reservation.IntentConfirmed,
		OptionHours:  24,
		Now:          time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) Params() (reservation.NewParams, error) {
	guest, err := reservation.NewGuest(b.GuestName, b.GuestEmail, "", "", "")
	if err != nil {
		return reservation.NewParams{}, err
	}
	stay, err := inventory.NewStayRange(b.CheckIn, b.CheckOut)
	if err != nil {
		return reservation.NewParams{}, err
	}
	party, err := reservation.NewParty(b.Adults, b.Children)
	if err != nil {
		return reservation.NewParams{}, err
	}
	total, err := money.FromString(b.TotalPrice, b.Currency)
	if err != nil {
		return reservation.NewParams{}, err
	}
	withTax, err := money.FromString(b.TotalWithTax, b.Currency)
	if err != nil {
		return reservation.NewParams{}, err
	}

	var comm *reservation.Commission
	if b.CommissionPct != nil {
		comm = &reservation.Commission{
			Percentage: *b.CommissionPct,
			Amount:     total.Percent(*b.CommissionPct),
			Status:     reservation.CommissionPending,
		}
	}

	return reservation.NewParams{
		TenantID:       b.TenantID,
		PropertyID:     b.PropertyID,
		RoomTypeID:     b.RoomTypeID,
		RatePlanID:     b.RatePlanID,
		CreatedBy:      b.CreatedBy,
		IdempotencyKey: b.IdempotencyKey,
		RequestHash:    b.RequestHash,
		Guest:          guest,
		Stay:           stay,
		Party:          party,
		Rooms:          b.Rooms,
		TotalPrice:     total,
		TotalWithTax:   withTax,
		Intent:         b.Intent,
		OptionHours:    b.OptionHours,
		Channel:        b.Channel,
		AgencyID:       b.AgencyID,
		Commission:     comm,
	}, nil
}

// Build methods
func (b *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	params, err := b.Params()
	if err != nil {
		return nil, err
	}
	factory := reservation.NewFactory(clock.NewMockClock(b.Now), FixedReference(b.Reference))
	return factory.Create(params)
}

// MustBuildDomain is for tests that only need a valid reservation.
func (b *ReservationBuilder) MustBuildDomain() *reservation.Reservation {
	r, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return r
}

// Fluent builder methods
func (b *ReservationBuilder) WithTenantID(id uuid.UUID) *ReservationBuilder {
	b.TenantID = id
	return b
}

func (b *ReservationBuilder) WithProperty(propertyID, roomTypeID uuid.UUID) *ReservationBuilder {
	b.PropertyID = propertyID
	b.RoomTypeID = roomTypeID
	return b
}

func (b *ReservationBuilder) WithStay(checkIn, checkOut time.Time) *ReservationBuilder {
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	return b
}

func (b *ReservationBuilder) WithRooms(rooms int) *ReservationBuilder {
	b.Rooms = rooms
	return b
}

func (b *ReservationBuilder) WithPrice(total, withTax string) *ReservationBuilder {
	b.TotalPrice = total
	b.TotalWithTax = withTax
	return b
}

func (b *ReservationBuilder) WithNow(now time.Time) *ReservationBuilder {
	b.Now = now
	return b
}

func (b *ReservationBuilder) WithIdempotencyKey(key string) *ReservationBuilder {
	b.IdempotencyKey = &key
	return b
}

func (b *ReservationBuilder) AsOption(hours int) *ReservationBuilder {
	b.Intent = reservation.IntentOption
	b.OptionHours = hours
	return b
}

func (b *ReservationBuilder) AsPending() *ReservationBuilder {
	b.Intent = reservation.IntentPending
	return b
}

func (b *ReservationBuilder) AsAgencyBooking(agencyID uuid.UUID, pct string) *ReservationBuilder {
	rate := decimal.RequireFromString(pct)
	b.AgencyID = &agencyID
	b.Channel = reservation.ChannelAgency
	b.CommissionPct = &rate
	return b
}
