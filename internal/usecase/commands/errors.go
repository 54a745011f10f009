package commands

import "booking-core/internal/pkg/errs"

var (
	ErrPropertyNotFound     = errs.Category("property not found", errs.ErrNotFound)
	ErrPropertyInactive     = errs.Category("property is not accepting bookings", errs.ErrConflict)
	ErrRoomTypeNotFound     = errs.Category("room type not found", errs.ErrNotFound)
	ErrAgencyNotFound       = errs.Category("agency not found", errs.ErrNotFound)
	ErrAgencyInactive       = errs.Category("agency is not active", errs.ErrConflict)
	ErrReservationNotFound  = errs.Category("reservation not found", errs.ErrNotFound)
	ErrIdempotencyKeyReused = errs.Category("idempotency key reused with a different request", errs.ErrConflict)
	ErrConcurrentUpdate     = errs.Category("reservation was modified concurrently", errs.ErrConflict)
	ErrGuestRequired        = errs.Category("guest details are required", errs.ErrValidation)
)

// notFoundAs swaps a store not-found for the command's own sentinel.
func notFoundAs(err, sentinel error) error {
	if errs.IsNotFound(err) {
		return sentinel
	}
	return err
}
