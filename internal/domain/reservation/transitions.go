package reservation

import (
	"time"

	"booking-core/internal/pkg/errs"
)

func (r *Reservation) IsOptionExpired(now time.Time) bool {
	return r.status == StatusOption && r.optionExpiresAt != nil && !now.Before(*r.optionExpiresAt)
}

// ConfirmOption turns a live hold into a confirmed booking. An expired hold is
// left untouched and ErrOptionExpired is returned; the caller must Expire it.
func (r *Reservation) ConfirmOption(now time.Time, guest *Guest) error {
	if r.status != StatusOption {
		return r.invalidTransition(StatusConfirmed)
	}
	if r.IsOptionExpired(now) {
		return ErrOptionExpired
	}
	if guest != nil {
		r.guest = *guest
	}
	r.status = StatusConfirmed
	r.optionExpiresAt = nil
	r.timestamps.ConfirmedAt = &now
	r.updatedAt = now
	return nil
}

// Expire moves a hold past its deadline to option_expired. The caller releases
// the held inventory in the same unit of work.
func (r *Reservation) Expire(now time.Time) error {
	if r.status != StatusOption {
		return r.invalidTransition(StatusOptionExpired)
	}
	if !r.IsOptionExpired(now) {
		return ErrOptionNotYetExpired
	}
	r.status = StatusOptionExpired
	r.optionExpiresAt = nil
	r.timestamps.ExpiredAt = &now
	r.updatedAt = now
	return nil
}

// Confirm promotes a durable pending booking.
func (r *Reservation) Confirm(now time.Time) error {
	if r.status != StatusPending {
		return r.invalidTransition(StatusConfirmed)
	}
	r.status = StatusConfirmed
	r.timestamps.ConfirmedAt = &now
	r.updatedAt = now
	return nil
}

func (r *Reservation) CheckIn(now time.Time) error {
	if r.status != StatusPending && r.status != StatusConfirmed {
		return r.invalidTransition(StatusCheckedIn)
	}
	r.status = StatusCheckedIn
	r.timestamps.CheckedInAt = &now
	r.updatedAt = now
	return nil
}

func (r *Reservation) CheckOut(now time.Time) error {
	if r.status != StatusCheckedIn {
		return r.invalidTransition(StatusCheckedOut)
	}
	r.status = StatusCheckedOut
	r.timestamps.CheckedOutAt = &now
	r.updatedAt = now
	return nil
}

func (r *Reservation) Cancel(reason string, now time.Time) error {
	if r.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if r.status.IsTerminal() {
		return r.invalidTransition(StatusCancelled)
	}
	normalized, err := normalizeReason(reason)
	if err != nil {
		return err
	}
	r.status = StatusCancelled
	r.optionExpiresAt = nil
	r.cancelReason = normalized
	r.timestamps.CancelledAt = &now
	r.updatedAt = now
	return nil
}

func (r *Reservation) MarkNoShow(now time.Time) error {
	if r.status != StatusPending && r.status != StatusConfirmed {
		return r.invalidTransition(StatusNoShow)
	}
	r.status = StatusNoShow
	r.timestamps.NoShowAt = &now
	r.updatedAt = now
	return nil
}

func (r *Reservation) invalidTransition(to Status) error {
	return errs.Wrapf(ErrInvalidTransition, "%s -> %s", r.status, to)
}
