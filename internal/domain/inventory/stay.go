package inventory

import (
	"time"

	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/pgconv"
)

const MaxStayNights = 365

var (
	ErrInvalidStayRange = errs.Category("check-out must be after check-in", errs.ErrValidation)
	ErrStayTooLong      = errs.Category("stay exceeds maximum length", errs.ErrValidation)
)

// StayRange is the half-open night range [checkIn, checkOut). The check-out
// date itself is never occupied.
type StayRange struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewStayRange(checkIn, checkOut time.Time) (StayRange, error) {
	in := pgconv.DateOnly(checkIn)
	out := pgconv.DateOnly(checkOut)
	if !out.After(in) {
		return StayRange{}, ErrInvalidStayRange
	}
	s := StayRange{checkIn: in, checkOut: out}
	if s.Nights() > MaxStayNights {
		return StayRange{}, ErrStayTooLong
	}
	return s, nil
}

func (s StayRange) CheckIn() time.Time  { return s.checkIn }
func (s StayRange) CheckOut() time.Time { return s.checkOut }

func (s StayRange) Nights() int {
	return int(s.checkOut.Sub(s.checkIn).Hours() / 24)
}

// Dates lists every occupied night in ascending order.
func (s StayRange) Dates() []time.Time {
	dates := make([]time.Time, 0, s.Nights())
	for d := s.checkIn; d.Before(s.checkOut); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func (s StayRange) Contains(date time.Time) bool {
	d := pgconv.DateOnly(date)
	return !d.Before(s.checkIn) && d.Before(s.checkOut)
}

func (s StayRange) Overlaps(other StayRange) bool {
	return s.checkIn.Before(other.checkOut) && other.checkIn.Before(s.checkOut)
}

func (s StayRange) IsZero() bool { return s.checkIn.IsZero() && s.checkOut.IsZero() }
