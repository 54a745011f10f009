package shared

import "booking-core/internal/pkg/errs"

// Markers repositories attach to unique violations so commands can react
// without knowing constraint names. Check them with errs.Is.
var (
	ErrDuplicateIdempotencyKey   = errs.Category("idempotency key already used", errs.ErrConflict)
	ErrDuplicateBookingReference = errs.Category("booking reference already taken", errs.ErrRetryable)
	ErrStaleVersion              = errs.Category("reservation was modified concurrently", errs.ErrConflict)
)
