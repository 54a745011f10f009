package pricing

import (
	"time"

	"booking-core/internal/domain/inventory"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/money"
	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrRateMissing      = errs.Category("no rate for night", errs.ErrValidation)
	ErrCurrencyMismatch = errs.Category("rate currency differs from property currency", errs.ErrValidation)
	ErrNegativeRate     = errs.Category("nightly rate cannot be negative", errs.ErrValidation)
)

type RateKey struct {
	PropertyID uuid.UUID
	RoomTypeID uuid.UUID
	RatePlanID uuid.UUID
}

type NightlyRate struct {
	Date  time.Time
	Price money.Money
}

// Total sums one rate per night of stay and multiplies by rooms. Extra rates
// outside the stay are ignored.
func Total(stay inventory.StayRange, rates []NightlyRate, rooms int, currency string) (money.Money, error) {
	byDate := make(map[time.Time]money.Money, len(rates))
	for _, r := range rates {
		byDate[pgconv.DateOnly(r.Date)] = r.Price
	}

	total := money.Zero(currency)
	for _, d := range stay.Dates() {
		price, ok := byDate[d]
		if !ok {
			return money.Money{}, errs.Wrap(ErrRateMissing, inventory.FormatDate(d))
		}
		if price.IsNegative() {
			return money.Money{}, errs.Wrap(ErrNegativeRate, inventory.FormatDate(d))
		}
		sum, err := total.Add(price)
		if err != nil {
			return money.Money{}, errs.Wrap(ErrCurrencyMismatch, err.Error())
		}
		total = sum
	}
	return total.MulInt(int64(rooms)), nil
}

type Tax struct {
	Rate     decimal.Decimal
	Included bool
}

// WithTax returns the guest-facing total. Tax-inclusive prices are returned as is.
func WithTax(total money.Money, tax Tax) money.Money {
	if tax.Included {
		return total
	}
	return total.Percent(decimal.NewFromInt(100).Add(tax.Rate))
}
