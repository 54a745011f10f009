package money

import (
	"database/sql/driver"
	"strings"

	"booking-core/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const Scale = 2

var (
	ErrNegativeAmount   = errs.Category("money amount cannot be negative", errs.ErrValidation)
	ErrCurrencyMismatch = errs.Category("currency mismatch", errs.ErrValidation)
	ErrInvalidCurrency  = errs.Category("currency must be a 3-letter ISO code", errs.ErrValidation)
)

var hundred = decimal.NewFromInt(100)

// Money is an exact decimal amount in a currency, always rounded half-up to
// two places on construction.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func New(amount decimal.Decimal, currency string) Money {
	return Money{amount: amount.Round(Scale), currency: strings.ToUpper(currency)}
}

func Zero(currency string) Money {
	return New(decimal.Zero, currency)
}

func FromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, errs.Mark(errs.Wrapf(err, "parse amount %q", amount), errs.ErrValidation)
	}
	return New(d, currency), nil
}

// MustFromString is for constants and tests.
func MustFromString(amount, currency string) Money {
	m, err := FromString(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func ValidateCurrency(currency string) error {
	if len(currency) != 3 {
		return ErrInvalidCurrency
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return ErrInvalidCurrency
		}
	}
	return nil
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }
func (m Money) IsNegative() bool        { return m.amount.IsNegative() }
func (m Money) String() string          { return m.amount.StringFixed(Scale) + " " + m.currency }

// StringFixed renders the amount only, e.g. "300.00".
func (m Money) StringFixed() string { return m.amount.StringFixed(Scale) }

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return New(m.amount.Add(other.amount), m.currency), nil
}

func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return New(m.amount.Sub(other.amount), m.currency), nil
}

func (m Money) MulInt(n int64) Money {
	return New(m.amount.Mul(decimal.NewFromInt(n)), m.currency)
}

// Percent returns round(m * pct / 100, 2).
func (m Money) Percent(pct decimal.Decimal) Money {
	return New(m.amount.Mul(pct).Div(hundred), m.currency)
}

func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return errs.Wrapf(ErrCurrencyMismatch, "%s vs %s", m.currency, other.currency)
	}
	return nil
}

// Value stores the amount as NUMERIC; the currency lives in its own column.
func (m Money) Value() (driver.Value, error) {
	return m.amount.StringFixed(Scale), nil
}
