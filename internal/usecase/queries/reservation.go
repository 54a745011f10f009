package queries

import (
	"context"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrReservationNotFound = errs.Category("reservation not found", errs.ErrNotFound)

// Read models (DTO for read side)
type ReservationView struct {
	ID                 uuid.UUID       `json:"id"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	PropertyID         uuid.UUID       `json:"property_id"`
	RoomTypeID         uuid.UUID       `json:"room_type_id"`
	RatePlanID         uuid.UUID       `json:"rate_plan_id"`
	CreatedBy          uuid.UUID       `json:"created_by"`
	BookingReference   string          `json:"booking_reference"`
	Status             string          `json:"status"`
	Channel            string          `json:"channel"`
	Guest              GuestView       `json:"guest"`
	CheckIn            string          `json:"check_in"`
	CheckOut           string          `json:"check_out"`
	Nights             int             `json:"nights"`
	Adults             int             `json:"adults"`
	Children           int             `json:"children"`
	TotalGuests        int             `json:"total_guests"`
	Rooms              int             `json:"rooms"`
	TotalPrice         string          `json:"total_price"`
	TotalWithTax       string          `json:"total_with_tax"`
	Currency           string          `json:"currency"`
	OptionExpiresAt    *time.Time      `json:"option_expires_at,omitempty"`
	AgencyID           *uuid.UUID      `json:"agency_id,omitempty"`
	AgencyReference    *string         `json:"agency_reference,omitempty"`
	Commission         *CommissionView `json:"commission,omitempty"`
	ConfirmedAt        *time.Time      `json:"confirmed_at,omitempty"`
	CheckedInAt        *time.Time      `json:"checked_in_at,omitempty"`
	CheckedOutAt       *time.Time      `json:"checked_out_at,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	NoShowAt           *time.Time      `json:"no_show_at,omitempty"`
	ExpiredAt          *time.Time      `json:"expired_at,omitempty"`
	CancellationReason *string         `json:"cancellation_reason,omitempty"`
	Version            int             `json:"version"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type GuestView struct {
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Country         string `json:"country,omitempty"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

type CommissionView struct {
	Percentage string     `json:"percentage"`
	Amount     string     `json:"amount"`
	Currency   string     `json:"currency"`
	Status     string     `json:"status"`
	PaidDate   *time.Time `json:"paid_date,omitempty"`
}

// NewReservationView renders a domain reservation as its read model.
func NewReservationView(r *reservation.Reservation) *ReservationView {
	ts := r.Timestamps()
	v := &ReservationView{
		ID:                 r.ID(),
		TenantID:           r.TenantID(),
		PropertyID:         r.PropertyID(),
		RoomTypeID:         r.RoomTypeID(),
		RatePlanID:         r.RatePlanID(),
		CreatedBy:          r.CreatedBy(),
		BookingReference:   r.BookingReference(),
		Status:             r.Status().String(),
		Channel:            string(r.Channel()),
		CheckIn:            r.Stay().CheckIn().Format(time.DateOnly),
		CheckOut:           r.Stay().CheckOut().Format(time.DateOnly),
		Nights:             r.Nights(),
		Adults:             r.Party().Adults(),
		Children:           r.Party().Children(),
		TotalGuests:        r.Party().Total(),
		Rooms:              r.Rooms(),
		TotalPrice:         r.TotalPrice().StringFixed(),
		TotalWithTax:       r.TotalWithTax().StringFixed(),
		Currency:           r.TotalPrice().Currency(),
		OptionExpiresAt:    r.OptionExpiresAt(),
		AgencyID:           r.AgencyID(),
		AgencyReference:    r.AgencyReference(),
		ConfirmedAt:        ts.ConfirmedAt,
		CheckedInAt:        ts.CheckedInAt,
		CheckedOutAt:       ts.CheckedOutAt,
		CancelledAt:        ts.CancelledAt,
		NoShowAt:           ts.NoShowAt,
		ExpiredAt:          ts.ExpiredAt,
		CancellationReason: r.CancellationReason(),
		Version:            r.Version(),
		CreatedAt:          r.CreatedAt(),
		UpdatedAt:          r.UpdatedAt(),
	}
	g := r.Guest()
	v.Guest = GuestView{
		Name:            g.Name,
		Email:           g.Email,
		Phone:           g.Phone,
		Country:         g.Country,
		SpecialRequests: g.SpecialRequests,
	}
	if c := r.Commission(); c != nil {
		v.Commission = &CommissionView{
			Percentage: c.Percentage.StringFixed(2),
			Amount:     c.Amount.StringFixed(),
			Currency:   c.Amount.Currency(),
			Status:     string(c.Status),
			PaidDate:   c.PaidDate,
		}
	}
	return v
}

type ReservationQueries interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReservationView, error)
	GetByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*ReservationView, error)
	// GetByIDSystem skips the tenant check; used for idempotent replays.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*reservation.Reservation, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReservationView, error) {
	r, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if r.TenantID() != tenantID {
		return nil, ErrReservationNotFound
	}
	return NewReservationView(r), nil
}

func (q *reservationQueriesImpl) GetByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*ReservationView, error) {
	r, err := q.store.FindByReference(ctx, tenantID, reference)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return NewReservationView(r), nil
}

func (q *reservationQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	r, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return NewReservationView(r), nil
}

func notFoundOr(err error) error {
	if errs.IsNotFound(err) {
		return ErrReservationNotFound
	}
	return err
}
