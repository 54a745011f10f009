//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"booking-core/internal/domain/inventory"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/errs"
	"booking-core/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.ReservationBuilder)
	errIs  error
}

func TestNewReservation(t *testing.T) {
	t.Run("confirmed booking", func(t *testing.T) {
		b := builder.NewReservationBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, reservation.StatusConfirmed, actual.Status())
		assert.Equal(t, "BK-260110-ABCDEF", actual.BookingReference())
		assert.Equal(t, 2, actual.Nights())
		assert.Equal(t, 1, actual.Version())
		assert.Nil(t, actual.OptionExpiresAt())
		require.NotNil(t, actual.Timestamps().ConfirmedAt)
		assert.Equal(t, b.Now, *actual.Timestamps().ConfirmedAt)
		assert.Equal(t, reservation.ChannelDirect, actual.Channel())
	})

	t.Run("option sets expiry", func(t *testing.T) {
		b := builder.NewReservationBuilder().AsOption(48)
		actual, err := b.BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusOption, actual.Status())
		require.NotNil(t, actual.OptionExpiresAt())
		assert.Equal(t, b.Now.Add(48*time.Hour), *actual.OptionExpiresAt())
		assert.Nil(t, actual.Timestamps().ConfirmedAt)
	})

	t.Run("agency id defaults channel to agency", func(t *testing.T) {
		agencyID := uuid.New()
		actual, err := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
			b.AgencyID = &agencyID
		}).BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, reservation.ChannelAgency, actual.Channel())
	})

	t.Run("validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "option hours below minimum",
				mutate: func(b *builder.ReservationBuilder) { b.AsOption(0) },
				errIs:  reservation.ErrOptionHoursOutOfRange,
			},
			{
				name:   "option hours above maximum",
				mutate: func(b *builder.ReservationBuilder) { b.AsOption(73) },
				errIs:  reservation.ErrOptionHoursOutOfRange,
			},
			{
				name:   "option hours at maximum",
				mutate: func(b *builder.ReservationBuilder) { b.AsOption(72) },
			},
			{
				name:   "zero rooms",
				mutate: func(b *builder.ReservationBuilder) { b.WithRooms(0) },
				errIs:  inventory.ErrInvalidRoomCount,
			},
			{
				name:   "negative price",
				mutate: func(b *builder.ReservationBuilder) { b.WithPrice("-1.00", "-1.07") },
				errIs:  reservation.ErrNegativePrice,
			},
			{
				name:   "unknown channel",
				mutate: func(b *builder.ReservationBuilder) { b.Channel = "fax" },
				errIs:  reservation.ErrInvalidChannel,
			},
			{
				name:   "agency channel without agency",
				mutate: func(b *builder.ReservationBuilder) { b.Channel = reservation.ChannelAgency },
				errIs:  reservation.ErrAgencyRequired,
			},
			{
				name:   "missing guest name",
				mutate: func(b *builder.ReservationBuilder) { b.GuestName = "  " },
				errIs:  reservation.ErrGuestNameRequired,
			},
			{
				name:   "invalid guest email",
				mutate: func(b *builder.ReservationBuilder) { b.GuestEmail = "not-an-email" },
				errIs:  reservation.ErrInvalidGuestEmail,
			},
			{
				name:   "no adults",
				mutate: func(b *builder.ReservationBuilder) { b.Adults = 0 },
				errIs:  reservation.ErrInvalidParty,
			},
			{
				name: "check-out equals check-in",
				mutate: func(b *builder.ReservationBuilder) {
					b.CheckOut = b.CheckIn
				},
				errIs: inventory.ErrInvalidStayRange,
			},
		})
	})

	t.Run("validation errors carry the validation category", func(t *testing.T) {
		_, err := builder.NewReservationBuilder().WithRooms(0).BuildDomain()
		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.False(t, errs.IsConflict(err))
	})
}

func TestOptionHours(t *testing.T) {
	six, hundred := 6, 100
	testCases := []struct {
		name      string
		requested *int
		property  *int
		want      int
		wantErr   error
	}{
		{name: "fallback", want: 24},
		{name: "property default", property: &six, want: 6},
		{name: "request wins over property", requested: &six, property: &hundred, want: 6},
		{name: "out of range request", requested: &hundred, wantErr: reservation.ErrOptionHoursOutOfRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := reservation.OptionHours(tc.requested, tc.property, 24)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRandomReferenceGenerator(t *testing.T) {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	ref := reservation.RandomReferenceGenerator{}.Generate(now)

	assert.Regexp(t, `^BK-260110-[A-Z2-9]{6}$`, ref)
	assert.NotEqual(t, ref, reservation.RandomReferenceGenerator{}.Generate(now))
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewReservationBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
