package shared

import (
	"context"

	"github.com/google/uuid"
)

// Actor is the authenticated caller every command runs on behalf of.
type Actor struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
}

type ReservationEvent struct {
	Type             string
	ReservationID    uuid.UUID
	TenantID         uuid.UUID
	PropertyID       uuid.UUID
	BookingReference string
	Status           string
	GuestEmail       string
}

// Notifier dispatches guest/property notifications. Fire-and-forget: callers
// never retry and a failure never affects the booking.
type Notifier interface {
	Notify(ctx context.Context, event ReservationEvent) error
}

// AuditSink records who did what. Best effort.
type AuditSink interface {
	Record(ctx context.Context, action string, entityID uuid.UUID, actor Actor) error
}

const (
	EventReservationCreated   = "reservation.created"
	EventOptionCreated        = "option.created"
	EventOptionConfirmed      = "option.confirmed"
	EventOptionExpired        = "option.expired"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
	EventCheckedIn            = "reservation.checked_in"
	EventCheckedOut           = "reservation.checked_out"
	EventNoShow               = "reservation.no_show"
)
