package commission

import (
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	MinRate = decimal.Zero
	MaxRate = decimal.NewFromInt(50)
)

var ErrRateOutOfRange = errs.Category("commission rate must be between 0 and 50", errs.ErrValidation)

// Rate is a commission percentage within [0, 50].
type Rate struct {
	pct decimal.Decimal
}

func NewRate(pct decimal.Decimal) (Rate, error) {
	if pct.LessThan(MinRate) || pct.GreaterThan(MaxRate) {
		return Rate{}, errs.Wrapf(ErrRateOutOfRange, "got %s", pct.String())
	}
	return Rate{pct: pct}, nil
}

func (r Rate) Percent() decimal.Decimal { return r.pct }

// Terms are an agency's commission settings as read from the catalog.
type Terms struct {
	DefaultRate decimal.Decimal
	Overrides   map[uuid.UUID]decimal.Decimal
}

// Resolve picks the property override when one exists, else the agency default.
func Resolve(terms Terms, propertyID uuid.UUID) (Rate, error) {
	if override, ok := terms.Overrides[propertyID]; ok {
		return NewRate(override)
	}
	return NewRate(terms.DefaultRate)
}

// Amount is round(price * rate / 100, 2), half-up.
func Amount(price money.Money, rate Rate) money.Money {
	return price.Percent(rate.pct)
}
