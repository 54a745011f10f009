package request

import (
	"strings"
	"time"

	"booking-core/internal/domain/inventory"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/commands"

	"github.com/google/uuid"
)

var ErrInvalidDate = errs.Category("dates must be formatted as YYYY-MM-DD", errs.ErrValidation)

type GuestRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	Email           string `json:"email" binding:"omitempty,email"`
	Phone           string `json:"phone" binding:"omitempty,max=50"`
	Country         string `json:"country" binding:"omitempty,len=2"`
	SpecialRequests string `json:"special_requests" binding:"omitempty,max=2000"`
}

func (g *GuestRequest) ToInput() *commands.GuestInput {
	if g == nil {
		return nil
	}
	return &commands.GuestInput{
		Name:            strings.TrimSpace(g.Name),
		Email:           strings.TrimSpace(g.Email),
		Phone:           strings.TrimSpace(g.Phone),
		Country:         strings.ToUpper(strings.TrimSpace(g.Country)),
		SpecialRequests: g.SpecialRequests,
	}
}

type CreateReservationRequest struct {
	PropertyID      uuid.UUID     `json:"property_id" binding:"required"`
	RoomTypeID      uuid.UUID     `json:"room_type_id" binding:"required"`
	RatePlanID      uuid.UUID     `json:"rate_plan_id" binding:"required"`
	CheckIn         string        `json:"check_in" binding:"required"`
	CheckOut        string        `json:"check_out" binding:"required"`
	Adults          int           `json:"adults" binding:"required,min=1"`
	Children        int           `json:"children" binding:"min=0"`
	Rooms           int           `json:"rooms" binding:"omitempty,min=1"`
	Guest           *GuestRequest `json:"guest"`
	Channel         string        `json:"channel" binding:"omitempty,oneof=direct phone ota agency gds"`
	AgencyID        *uuid.UUID    `json:"agency_id"`
	AgencyReference *string       `json:"agency_reference" binding:"omitempty,max=100"`
	Status          string        `json:"status" binding:"omitempty,oneof=pending confirmed"`
	OptionHours     *int          `json:"option_hours" binding:"omitempty,min=1,max=72"`
}

// ToInput converts the request. Rooms default to 1; an empty channel is
// resolved by the domain from the agency.
func (r CreateReservationRequest) ToInput(idempotencyKey *string) (commands.CreateReservationInput, error) {
	checkIn, err := parseDate(r.CheckIn)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}
	checkOut, err := parseDate(r.CheckOut)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}

	rooms := r.Rooms
	if rooms == 0 {
		rooms = 1
	}

	return commands.CreateReservationInput{
		PropertyID:      r.PropertyID,
		RoomTypeID:      r.RoomTypeID,
		RatePlanID:      r.RatePlanID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          r.Adults,
		Children:        r.Children,
		Rooms:           rooms,
		Guest:           r.Guest.ToInput(),
		Channel:         r.Channel,
		AgencyID:        r.AgencyID,
		AgencyReference: r.AgencyReference,
		Intent:          reservation.Intent(r.Status),
		OptionHours:     r.OptionHours,
		IdempotencyKey:  idempotencyKey,
	}, nil
}

type ConfirmOptionRequest struct {
	Guest *GuestRequest `json:"guest"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type AvailabilityQuery struct {
	PropertyID string `form:"property_id" binding:"required,uuid"`
	RoomTypeID string `form:"room_type_id" binding:"required,uuid"`
	CheckIn    string `form:"check_in" binding:"required"`
	CheckOut   string `form:"check_out" binding:"required"`
}

// Key must only be called after binding has validated both ids.
func (q AvailabilityQuery) Key() inventory.Key {
	return inventory.Key{
		PropertyID: uuid.MustParse(q.PropertyID),
		RoomTypeID: uuid.MustParse(q.RoomTypeID),
	}
}

func (q AvailabilityQuery) Stay() (inventory.StayRange, error) {
	checkIn, err := parseDate(q.CheckIn)
	if err != nil {
		return inventory.StayRange{}, err
	}
	checkOut, err := parseDate(q.CheckOut)
	if err != nil {
		return inventory.StayRange{}, err
	}
	return inventory.NewStayRange(checkIn, checkOut)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, errs.Wrapf(ErrInvalidDate, "%q", s)
	}
	return t, nil
}
