package commission

import (
	"time"

	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	KindBooked   EntryKind = "BOOKED"
	KindReversed EntryKind = "REVERSED"
)

var ErrNotBookedEntry = errs.New("only a BOOKED entry can be reversed")

// Entry is one append-only line of an agency's commission ledger. Agency
// totals are the sum of its entries.
type Entry struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	AgencyID      uuid.UUID
	ReservationID uuid.UUID
	Kind          EntryKind
	BookingsDelta int
	Revenue       money.Money
	Commission    money.Money
	CreatedAt     time.Time
}

func NewBookedEntry(tenantID, agencyID, reservationID uuid.UUID, revenue, amount money.Money, now time.Time) Entry {
	return Entry{
		ID:            uuid.New(),
		TenantID:      tenantID,
		AgencyID:      agencyID,
		ReservationID: reservationID,
		Kind:          KindBooked,
		BookingsDelta: 1,
		Revenue:       revenue,
		Commission:    amount,
		CreatedAt:     now,
	}
}

// Reverse copies the booked amounts with the sign flipped.
func (e Entry) Reverse(now time.Time) (Entry, error) {
	if e.Kind != KindBooked {
		return Entry{}, ErrNotBookedEntry
	}
	return Entry{
		ID:            uuid.New(),
		TenantID:      e.TenantID,
		AgencyID:      e.AgencyID,
		ReservationID: e.ReservationID,
		Kind:          KindReversed,
		BookingsDelta: -e.BookingsDelta,
		Revenue:       e.Revenue.Neg(),
		Commission:    e.Commission.Neg(),
		CreatedAt:     now,
	}, nil
}

type Totals struct {
	Bookings   int
	Revenue    decimal.Decimal
	Commission decimal.Decimal
}

func Sum(entries []Entry) Totals {
	t := Totals{Revenue: decimal.Zero, Commission: decimal.Zero}
	for _, e := range entries {
		t.Bookings += e.BookingsDelta
		t.Revenue = t.Revenue.Add(e.Revenue.Amount())
		t.Commission = t.Commission.Add(e.Commission.Amount())
	}
	return t
}
