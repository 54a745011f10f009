package reservation

import (
	"time"

	"booking-core/internal/domain/inventory"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrInvalidChannel      = errs.Category("invalid booking channel", errs.ErrValidation)
	ErrInvalidIntent       = errs.Category("invalid booking intent", errs.ErrValidation)
	ErrNegativePrice       = errs.Category("price cannot be negative", errs.ErrValidation)
	ErrCurrencyMismatch    = errs.Category("price and tax totals differ in currency", errs.ErrValidation)
	ErrAgencyRequired      = errs.Category("agency channel requires an agency", errs.ErrValidation)
	ErrCommissionNoAgency  = errs.Category("commission requires an agency", errs.ErrValidation)
	ErrInvalidTransition   = errs.Category("reservation is not in a state that allows this action", errs.ErrConflict)
	ErrAlreadyCancelled    = errs.Category("reservation is already cancelled", errs.ErrConflict)
	ErrOptionExpired       = errs.Category("option hold has expired", errs.ErrExpiredState)
	ErrOptionNotYetExpired = errs.Category("option hold has not expired", errs.ErrConflict)
)

type Reservation struct {
	id               uuid.UUID
	tenantID         uuid.UUID
	propertyID       uuid.UUID
	roomTypeID       uuid.UUID
	ratePlanID       uuid.UUID
	createdBy        uuid.UUID
	bookingReference string
	idempotencyKey   *string
	requestHash      string
	guest            Guest
	stay             inventory.StayRange
	party            Party
	rooms            int
	totalPrice       money.Money
	totalWithTax     money.Money
	status           Status
	optionExpiresAt  *time.Time
	channel          Channel
	agencyID         *uuid.UUID
	agencyReference  *string
	commission       *Commission
	timestamps       Timestamps
	cancelReason     *string
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

// Timestamps records when each status was entered.
type Timestamps struct {
	ConfirmedAt  *time.Time
	CheckedInAt  *time.Time
	CheckedOutAt *time.Time
	CancelledAt  *time.Time
	NoShowAt     *time.Time
	ExpiredAt    *time.Time
}

type NewParams struct {
	TenantID        uuid.UUID
	PropertyID      uuid.UUID
	RoomTypeID      uuid.UUID
	RatePlanID      uuid.UUID
	CreatedBy       uuid.UUID
	IdempotencyKey  *string
	RequestHash     string
	Guest           Guest
	Stay            inventory.StayRange
	Party           Party
	Rooms           int
	TotalPrice      money.Money
	TotalWithTax    money.Money
	Intent          Intent
	OptionHours     int
	Channel         Channel
	AgencyID        *uuid.UUID
	AgencyReference *string
	Commission      *Commission
}

func newReservation(id uuid.UUID, reference string, now time.Time, p NewParams) (*Reservation, error) {
	if !p.Intent.IsValid() {
		return nil, ErrInvalidIntent
	}
	if p.Channel == "" {
		p.Channel = ChannelDirect
		if p.AgencyID != nil {
			p.Channel = ChannelAgency
		}
	}
	if !p.Channel.IsValid() {
		return nil, ErrInvalidChannel
	}
	if p.Channel == ChannelAgency && p.AgencyID == nil {
		return nil, ErrAgencyRequired
	}
	if p.Commission != nil && p.AgencyID == nil {
		return nil, ErrCommissionNoAgency
	}
	if p.Rooms < 1 {
		return nil, inventory.ErrInvalidRoomCount
	}
	if p.Stay.IsZero() {
		return nil, inventory.ErrInvalidStayRange
	}
	if p.TotalPrice.IsNegative() || p.TotalWithTax.IsNegative() {
		return nil, ErrNegativePrice
	}
	if p.TotalPrice.Currency() != p.TotalWithTax.Currency() {
		return nil, ErrCurrencyMismatch
	}

	r := &Reservation{
		id:               id,
		tenantID:         p.TenantID,
		propertyID:       p.PropertyID,
		roomTypeID:       p.RoomTypeID,
		ratePlanID:       p.RatePlanID,
		createdBy:        p.CreatedBy,
		bookingReference: reference,
		idempotencyKey:   p.IdempotencyKey,
		requestHash:      p.RequestHash,
		guest:            p.Guest,
		stay:             p.Stay,
		party:            p.Party,
		rooms:            p.Rooms,
		totalPrice:       p.TotalPrice,
		totalWithTax:     p.TotalWithTax,
		status:           p.Intent.Status(),
		channel:          p.Channel,
		agencyID:         p.AgencyID,
		agencyReference:  p.AgencyReference,
		commission:       p.Commission,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}

	switch r.status {
	case StatusOption:
		if p.OptionHours < MinOptionHours || p.OptionHours > MaxOptionHours {
			return nil, ErrOptionHoursOutOfRange
		}
		expires := now.Add(time.Duration(p.OptionHours) * time.Hour)
		r.optionExpiresAt = &expires
	case StatusConfirmed:
		r.timestamps.ConfirmedAt = &now
	}
	return r, nil
}

func ReconstructReservation(
	id, tenantID, propertyID, roomTypeID, ratePlanID, createdBy uuid.UUID,
	bookingReference string,
	idempotencyKey *string,
	requestHash string,
	guest Guest,
	stay inventory.StayRange,
	party Party,
	rooms int,
	totalPrice, totalWithTax money.Money,
	status Status,
	optionExpiresAt *time.Time,
	channel Channel,
	agencyID *uuid.UUID,
	agencyReference *string,
	commission *Commission,
	timestamps Timestamps,
	cancelReason *string,
	version int,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:               id,
		tenantID:         tenantID,
		propertyID:       propertyID,
		roomTypeID:       roomTypeID,
		ratePlanID:       ratePlanID,
		createdBy:        createdBy,
		bookingReference: bookingReference,
		idempotencyKey:   idempotencyKey,
		requestHash:      requestHash,
		guest:            guest,
		stay:             stay,
		party:            party,
		rooms:            rooms,
		totalPrice:       totalPrice,
		totalWithTax:     totalWithTax,
		status:           status,
		optionExpiresAt:  optionExpiresAt,
		channel:          channel,
		agencyID:         agencyID,
		agencyReference:  agencyReference,
		commission:       commission,
		timestamps:       timestamps,
		cancelReason:     cancelReason,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (r *Reservation) ID() uuid.UUID               { return r.id }
func (r *Reservation) TenantID() uuid.UUID         { return r.tenantID }
func (r *Reservation) PropertyID() uuid.UUID       { return r.propertyID }
func (r *Reservation) RoomTypeID() uuid.UUID       { return r.roomTypeID }
func (r *Reservation) RatePlanID() uuid.UUID       { return r.ratePlanID }
func (r *Reservation) CreatedBy() uuid.UUID        { return r.createdBy }
func (r *Reservation) BookingReference() string    { return r.bookingReference }
func (r *Reservation) IdempotencyKey() *string     { return r.idempotencyKey }
func (r *Reservation) RequestHash() string         { return r.requestHash }
func (r *Reservation) Guest() Guest                { return r.guest }
func (r *Reservation) Stay() inventory.StayRange   { return r.stay }
func (r *Reservation) Party() Party                { return r.party }
func (r *Reservation) Rooms() int                  { return r.rooms }
func (r *Reservation) TotalPrice() money.Money     { return r.totalPrice }
func (r *Reservation) TotalWithTax() money.Money   { return r.totalWithTax }
func (r *Reservation) Status() Status              { return r.status }
func (r *Reservation) OptionExpiresAt() *time.Time { return r.optionExpiresAt }
func (r *Reservation) Channel() Channel            { return r.channel }
func (r *Reservation) AgencyID() *uuid.UUID        { return r.agencyID }
func (r *Reservation) AgencyReference() *string    { return r.agencyReference }
func (r *Reservation) Commission() *Commission     { return r.commission }
func (r *Reservation) Timestamps() Timestamps      { return r.timestamps }
func (r *Reservation) CancellationReason() *string { return r.cancelReason }
func (r *Reservation) Version() int                { return r.version }
func (r *Reservation) CreatedAt() time.Time        { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time        { return r.updatedAt }

func (r *Reservation) InventoryKey() inventory.Key {
	return inventory.Key{PropertyID: r.propertyID, RoomTypeID: r.roomTypeID}
}

func (r *Reservation) Nights() int {
	return r.stay.Nights()
}

// AdvanceVersion is called by the repository after a successful versioned save.
func (r *Reservation) AdvanceVersion() {
	r.version++
}
