package inventory

import (
	"time"

	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/pgconv"
)

type Availability struct {
	Available bool
	Reason    string
	// ShortDate is the first night that cannot take the request, nil when Available.
	ShortDate *time.Time
}

// Check evaluates records (one per night of stay, any order) against a request
// for rooms. Missing nights count as unavailable.
func Check(stay StayRange, records []Record, rooms int) Availability {
	byDate := make(map[time.Time]Record, len(records))
	for _, r := range records {
		byDate[pgconv.DateOnly(r.Date)] = r
	}
	for _, d := range stay.Dates() {
		rec, ok := byDate[d]
		if !ok {
			date := d
			return Availability{Reason: "no inventory for " + FormatDate(d), ShortDate: &date}
		}
		if rec.Available < rooms {
			date := d
			return Availability{Reason: shortageReason(d, rec.Available, rooms), ShortDate: &date}
		}
	}
	return Availability{Available: true}
}

// Err converts an unavailable result into the conflict error callers surface.
func (a Availability) Err() error {
	if a.Available {
		return nil
	}
	return errs.Wrap(ErrInsufficientRooms, a.Reason)
}
