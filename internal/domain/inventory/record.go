package inventory

import (
	"fmt"
	"time"

	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
)

var (
	ErrInvalidRoomCount   = errs.Category("rooms must be at least 1", errs.ErrValidation)
	ErrInsufficientRooms  = errs.Category("not enough rooms", errs.ErrConflict)
	ErrNothingToRelease   = errs.Category("no sold rooms to release", errs.ErrConflict)
	ErrInvariantViolation = errs.New("inventory invariant violated")
	ErrLedgerMismatch     = errs.New("inventory rows affected do not match night count")
)

// Key identifies one room type's calendar within a property.
type Key struct {
	PropertyID uuid.UUID
	RoomTypeID uuid.UUID
}

func (k Key) String() string {
	return k.PropertyID.String() + "/" + k.RoomTypeID.String()
}

// Record is the per-night counter set for a Key.
type Record struct {
	Date      time.Time
	Total     int
	Available int
	Sold      int
	Blocked   int
}

// NewRecord builds the lazily created record for a date: everything available.
func NewRecord(date time.Time, total int) Record {
	return Record{Date: pgconv.DateOnly(date), Total: total, Available: total}
}

func (r Record) Validate() error {
	if r.Available < 0 || r.Sold < 0 || r.Blocked < 0 {
		return errs.Wrapf(ErrInvariantViolation, "negative counter on %s", FormatDate(r.Date))
	}
	if r.Available+r.Sold+r.Blocked != r.Total {
		return errs.Wrapf(ErrInvariantViolation, "%d+%d+%d != %d on %s",
			r.Available, r.Sold, r.Blocked, r.Total, FormatDate(r.Date))
	}
	return nil
}

func (r Record) Debit(rooms int) (Record, error) {
	if rooms < 1 {
		return r, ErrInvalidRoomCount
	}
	if r.Available < rooms {
		return r, errs.Wrap(ErrInsufficientRooms, shortageReason(r.Date, r.Available, rooms))
	}
	r.Available -= rooms
	r.Sold += rooms
	return r, r.Validate()
}

func (r Record) Release(rooms int) (Record, error) {
	if rooms < 1 {
		return r, ErrInvalidRoomCount
	}
	if r.Sold < rooms {
		return r, errs.Wrapf(ErrNothingToRelease, "%d sold on %s, releasing %d", r.Sold, FormatDate(r.Date), rooms)
	}
	r.Available += rooms
	r.Sold -= rooms
	return r, r.Validate()
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func shortageReason(date time.Time, available, requested int) string {
	return fmt.Sprintf("not enough rooms on %s: %d available, %d requested", FormatDate(date), available, requested)
}
