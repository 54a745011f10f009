package converter

import (
	"time"

	"booking-core/internal/domain/inventory"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/money"
	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ReservationColumns is the select list ScanReservation expects, in order.
const ReservationColumns = `id, tenant_id, property_id, room_type_id, rate_plan_id, created_by,
	booking_reference, idempotency_key, request_hash,
	guest_name, guest_email, guest_phone, guest_country, special_requests,
	check_in, check_out, adults, children, rooms,
	total_price, total_with_tax, currency, status, option_expires_at, channel,
	agency_id, agency_reference,
	commission_percentage, commission_amount, commission_currency, commission_status, commission_paid_date,
	confirmed_at, checked_in_at, checked_out_at, cancelled_at, no_show_at, expired_at,
	cancellation_reason, version, created_at, updated_at`

// ReservationInsertColumns adds the derived nights column to ReservationColumns.
const ReservationInsertColumns = ReservationColumns + `, nights`

// ReservationToArgs lays out res in ReservationInsertColumns order.
func ReservationToArgs(res *reservation.Reservation) []any {
	g := res.Guest()
	ts := res.Timestamps()

	var (
		commPct      decimal.NullDecimal
		commAmount   decimal.NullDecimal
		commCurrency *string
		commStatus   *string
		commPaidDate *time.Time
	)
	if c := res.Commission(); c != nil {
		commPct = decimal.NullDecimal{Decimal: c.Percentage, Valid: true}
		commAmount = decimal.NullDecimal{Decimal: c.Amount.Amount(), Valid: true}
		currency := c.Amount.Currency()
		status := string(c.Status)
		commCurrency = &currency
		commStatus = &status
		commPaidDate = c.PaidDate
	}

	return []any{
		res.ID(), res.TenantID(), res.PropertyID(), res.RoomTypeID(), res.RatePlanID(), res.CreatedBy(),
		res.BookingReference(), res.IdempotencyKey(), res.RequestHash(),
		g.Name, g.Email, g.Phone, g.Country, g.SpecialRequests,
		res.Stay().CheckIn(), res.Stay().CheckOut(), res.Party().Adults(), res.Party().Children(), res.Rooms(),
		res.TotalPrice().Amount(), res.TotalWithTax().Amount(), res.TotalPrice().Currency(),
		res.Status().String(), res.OptionExpiresAt(), string(res.Channel()),
		res.AgencyID(), res.AgencyReference(),
		commPct, commAmount, commCurrency, commStatus, commPaidDate,
		ts.ConfirmedAt, ts.CheckedInAt, ts.CheckedOutAt, ts.CancelledAt, ts.NoShowAt, ts.ExpiredAt,
		res.CancellationReason(), res.Version(), res.CreatedAt(), res.UpdatedAt(),
		res.Nights(),
	}
}

// ScanReservation rebuilds a reservation from a row selected with ReservationColumns.
func ScanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var (
		id, tenantID, propertyID, roomTypeID, ratePlanID, createdBy uuid.UUID
		bookingReference, requestHash                               string
		idempotencyKey                                              *string
		guest                                                       reservation.Guest
		checkIn, checkOut                                           time.Time
		adults, children, rooms                                     int
		totalPrice, totalWithTax                                    decimal.Decimal
		currency, status, channel                                   string
		optionExpiresAt                                             *time.Time
		agencyID                                                    *uuid.UUID
		agencyReference                                             *string
		commPct, commAmount                                         decimal.NullDecimal
		commCurrency, commStatus                                    *string
		commPaidDate                                                *time.Time
		ts                                                          reservation.Timestamps
		cancelReason                                                *string
		version                                                     int
		createdAt, updatedAt                                        time.Time
	)

	err := row.Scan(
		&id, &tenantID, &propertyID, &roomTypeID, &ratePlanID, &createdBy,
		&bookingReference, &idempotencyKey, &requestHash,
		&guest.Name, &guest.Email, &guest.Phone, &guest.Country, &guest.SpecialRequests,
		&checkIn, &checkOut, &adults, &children, &rooms,
		&totalPrice, &totalWithTax, &currency, &status, &optionExpiresAt, &channel,
		&agencyID, &agencyReference,
		&commPct, &commAmount, &commCurrency, &commStatus, &commPaidDate,
		&ts.ConfirmedAt, &ts.CheckedInAt, &ts.CheckedOutAt, &ts.CancelledAt, &ts.NoShowAt, &ts.ExpiredAt,
		&cancelReason, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	stay, err := inventory.NewStayRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	party, err := reservation.NewParty(adults, children)
	if err != nil {
		return nil, err
	}

	var comm *reservation.Commission
	if commPct.Valid && commAmount.Valid {
		commissionCurrency := currency
		if commCurrency != nil {
			commissionCurrency = *commCurrency
		}
		commissionStatus := reservation.CommissionPending
		if commStatus != nil {
			commissionStatus = reservation.CommissionStatus(*commStatus)
		}
		comm = &reservation.Commission{
			Percentage: commPct.Decimal,
			Amount:     money.New(commAmount.Decimal, commissionCurrency),
			Status:     commissionStatus,
			PaidDate:   pgconv.TimePtrUTC(commPaidDate),
		}
	}

	ts = reservation.Timestamps{
		ConfirmedAt:  pgconv.TimePtrUTC(ts.ConfirmedAt),
		CheckedInAt:  pgconv.TimePtrUTC(ts.CheckedInAt),
		CheckedOutAt: pgconv.TimePtrUTC(ts.CheckedOutAt),
		CancelledAt:  pgconv.TimePtrUTC(ts.CancelledAt),
		NoShowAt:     pgconv.TimePtrUTC(ts.NoShowAt),
		ExpiredAt:    pgconv.TimePtrUTC(ts.ExpiredAt),
	}

	return reservation.ReconstructReservation(
		id, tenantID, propertyID, roomTypeID, ratePlanID, createdBy,
		bookingReference,
		idempotencyKey,
		requestHash,
		guest,
		stay,
		party,
		rooms,
		money.New(totalPrice, currency), money.New(totalWithTax, currency),
		reservation.Status(status),
		pgconv.TimePtrUTC(optionExpiresAt),
		reservation.Channel(channel),
		agencyID,
		agencyReference,
		comm,
		ts,
		cancelReason,
		version,
		createdAt.UTC(), updatedAt.UTC(),
	), nil
}
