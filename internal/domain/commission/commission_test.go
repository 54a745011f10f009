//go:build unit

package commission_test

import (
	"testing"
	"time"

	"booking-core/internal/domain/commission"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	propertyID := uuid.New()
	otherProperty := uuid.New()

	testCases := []struct {
		name    string
		terms   commission.Terms
		want    string
		wantErr error
	}{
		{
			name:  "agency default",
			terms: commission.Terms{DefaultRate: decimal.NewFromInt(10)},
			want:  "10",
		},
		{
			name: "property override wins",
			terms: commission.Terms{
				DefaultRate: decimal.NewFromInt(10),
				Overrides:   map[uuid.UUID]decimal.Decimal{propertyID: decimal.RequireFromString("12.5")},
			},
			want: "12.5",
		},
		{
			name: "override for another property is ignored",
			terms: commission.Terms{
				DefaultRate: decimal.NewFromInt(8),
				Overrides:   map[uuid.UUID]decimal.Decimal{otherProperty: decimal.NewFromInt(20)},
			},
			want: "8",
		},
		{
			name:  "upper bound inclusive",
			terms: commission.Terms{DefaultRate: decimal.NewFromInt(50)},
			want:  "50",
		},
		{
			name:    "above 50",
			terms:   commission.Terms{DefaultRate: decimal.RequireFromString("50.01")},
			wantErr: commission.ErrRateOutOfRange,
		},
		{
			name: "negative override",
			terms: commission.Terms{
				DefaultRate: decimal.NewFromInt(10),
				Overrides:   map[uuid.UUID]decimal.Decimal{propertyID: decimal.NewFromInt(-1)},
			},
			wantErr: commission.ErrRateOutOfRange,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rate, err := commission.Resolve(tc.terms, propertyID)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.True(t, errs.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(rate.Percent()))
		})
	}
}

func TestAmount(t *testing.T) {
	testCases := []struct {
		price string
		rate  string
		want  string
	}{
		{price: "300.00", rate: "10", want: "30.00"},
		{price: "199.99", rate: "12.5", want: "25.00"},
		{price: "0.10", rate: "5", want: "0.01"},
		{price: "0.09", rate: "5", want: "0.00"},
		{price: "123.45", rate: "0", want: "0.00"},
		{price: "1000.01", rate: "50", want: "500.01"},
	}

	for _, tc := range testCases {
		t.Run(tc.price+"@"+tc.rate, func(t *testing.T) {
			rate, err := commission.NewRate(decimal.RequireFromString(tc.rate))
			require.NoError(t, err)

			got := commission.Amount(money.MustFromString(tc.price, "EUR"), rate)
			assert.Equal(t, tc.want, got.StringFixed())
			assert.Equal(t, "EUR", got.Currency())
		})
	}
}

func TestLedger(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	booked := commission.NewBookedEntry(uuid.New(), uuid.New(), uuid.New(),
		money.MustFromString("300.00", "EUR"), money.MustFromString("30.00", "EUR"), now)

	reversed, err := booked.Reverse(now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, commission.KindReversed, reversed.Kind)
	assert.Equal(t, booked.ReservationID, reversed.ReservationID)
	assert.Equal(t, -1, reversed.BookingsDelta)
	assert.Equal(t, "-300.00", reversed.Revenue.StringFixed())
	assert.Equal(t, "-30.00", reversed.Commission.StringFixed())

	_, err = reversed.Reverse(now)
	require.ErrorIs(t, err, commission.ErrNotBookedEntry)

	totals := commission.Sum([]commission.Entry{booked})
	assert.Equal(t, 1, totals.Bookings)
	assert.True(t, totals.Revenue.Equal(decimal.NewFromInt(300)))
	assert.True(t, totals.Commission.Equal(decimal.NewFromInt(30)))

	totals = commission.Sum([]commission.Entry{booked, reversed})
	assert.Equal(t, 0, totals.Bookings)
	assert.True(t, totals.Revenue.IsZero())
	assert.True(t, totals.Commission.IsZero())
}
