package reservation

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
	"time"

	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/money"
	"booking-core/internal/pkg/ptr"

	"github.com/shopspring/decimal"
)

const (
	MinOptionHours = 1
	MaxOptionHours = 72

	maxGuestNameLength       = 200
	maxSpecialRequestsLength = 2000
	maxCancellationReason    = 500
)

var (
	ErrGuestNameRequired     = errs.Category("guest name is required", errs.ErrValidation)
	ErrGuestNameTooLong      = errs.Category("guest name is too long", errs.ErrValidation)
	ErrInvalidGuestEmail     = errs.Category("guest email is invalid", errs.ErrValidation)
	ErrSpecialRequestsLong   = errs.Category("special requests are too long", errs.ErrValidation)
	ErrInvalidParty          = errs.Category("party needs at least one adult and no negative counts", errs.ErrValidation)
	ErrOptionHoursOutOfRange = errs.Category("option hours must be between 1 and 72", errs.ErrValidation)
	ErrReasonTooLong         = errs.Category("cancellation reason is too long", errs.ErrValidation)
)

type Guest struct {
	Name            string
	Email           string
	Phone           string
	Country         string
	SpecialRequests string
}

func NewGuest(name, email, phone, country, specialRequests string) (Guest, error) {
	g := Guest{
		Name:            strings.TrimSpace(name),
		Email:           strings.TrimSpace(email),
		Phone:           strings.TrimSpace(phone),
		Country:         strings.ToUpper(strings.TrimSpace(country)),
		SpecialRequests: strings.TrimSpace(specialRequests),
	}
	if g.Name == "" {
		return Guest{}, ErrGuestNameRequired
	}
	if len(g.Name) > maxGuestNameLength {
		return Guest{}, ErrGuestNameTooLong
	}
	if g.Email != "" {
		if !emailRegex.MatchString(g.Email) {
			return Guest{}, ErrInvalidGuestEmail
		}
	}
	if len(g.SpecialRequests) > maxSpecialRequestsLength {
		return Guest{}, ErrSpecialRequestsLong
	}
	return g, nil
}

// PlaceholderGuest stands in for an option created before the guest is known.
func PlaceholderGuest() Guest {
	return Guest{Name: "TBA"}
}

func (g Guest) IsPlaceholder() bool {
	return g.Name == "TBA" && g.Email == ""
}

type Party struct {
	adults   int
	children int
}

func NewParty(adults, children int) (Party, error) {
	if adults < 1 || children < 0 {
		return Party{}, ErrInvalidParty
	}
	return Party{adults: adults, children: children}, nil
}

func (p Party) Adults() int   { return p.adults }
func (p Party) Children() int { return p.children }
func (p Party) Total() int    { return p.adults + p.children }

// Commission is the agency fee carried on a reservation.
type Commission struct {
	Percentage decimal.Decimal
	Amount     money.Money
	Status     CommissionStatus
	PaidDate   *time.Time
}

// OptionHours resolves the hold length: request first, then property, then fallback.
func OptionHours(requested, propertyDefault *int, fallback int) (int, error) {
	hours := ptr.ValueOr(requested, ptr.ValueOr(propertyDefault, fallback))
	if hours < MinOptionHours || hours > MaxOptionHours {
		return 0, ErrOptionHoursOutOfRange
	}
	return hours, nil
}

type ReferenceGenerator interface {
	Generate(now time.Time) string
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RandomReferenceGenerator produces BK-YYMMDD-XXXXXX codes.
type RandomReferenceGenerator struct{}

func (RandomReferenceGenerator) Generate(now time.Time) string {
	var b strings.Builder
	b.WriteString("BK-")
	b.WriteString(now.UTC().Format("060102"))
	b.WriteByte('-')
	limit := big.NewInt(int64(len(referenceAlphabet)))
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			b.WriteByte(referenceAlphabet[time.Now().UnixNano()%int64(len(referenceAlphabet))])
			continue
		}
		b.WriteByte(referenceAlphabet[n.Int64()])
	}
	return b.String()
}

func normalizeReason(reason string) (*string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, nil
	}
	if len(reason) > maxCancellationReason {
		return nil, ErrReasonTooLong
	}
	return &reason, nil
}
