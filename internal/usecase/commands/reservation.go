package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"booking-core/internal/domain/commission"
	"booking-core/internal/domain/inventory"
	"booking-core/internal/domain/pricing"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/money"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var fallbackTaxRate = decimal.NewFromInt(7)

type GuestInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Country         string `json:"country"`
	SpecialRequests string `json:"special_requests"`
}

type CreateReservationInput struct {
	PropertyID      uuid.UUID          `json:"property_id"`
	RoomTypeID      uuid.UUID          `json:"room_type_id"`
	RatePlanID      uuid.UUID          `json:"rate_plan_id"`
	CheckIn         time.Time          `json:"check_in"`
	CheckOut        time.Time          `json:"check_out"`
	Adults          int                `json:"adults"`
	Children        int                `json:"children"`
	Rooms           int                `json:"rooms"`
	Guest           *GuestInput        `json:"guest"`
	Channel         string             `json:"channel"`
	AgencyID        *uuid.UUID         `json:"agency_id"`
	AgencyReference *string            `json:"agency_reference"`
	Intent          reservation.Intent `json:"intent"`
	OptionHours     *int               `json:"option_hours"`
	IdempotencyKey  *string            `json:"-"`
}

type CreateReservationResult struct {
	Reservation *queries.ReservationView
	IsReplayed  bool
}

type BookingCommands interface {
	// CreateReservation books rooms with the status named by in.Intent
	// (confirmed when empty).
	CreateReservation(ctx context.Context, in CreateReservationInput, actor shared.Actor) (*CreateReservationResult, error)
	// CreateOption places a time-limited hold that consumes inventory.
	CreateOption(ctx context.Context, in CreateReservationInput, actor shared.Actor) (*CreateReservationResult, error)
}

type bookingUseCaseImpl struct {
	uow                shared.UnitOfWork
	factory            *reservation.Factory
	reservationQueries queries.ReservationQueries
	effects            *SideEffects
	metrics            shared.Metrics
	defaultTaxRate     decimal.Decimal
	defaultOptionHours int
	clock              clock.Clock
	logger             *slog.Logger
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	factory *reservation.Factory,
	reservationQueries queries.ReservationQueries,
	effects *SideEffects,
	metrics shared.Metrics,
	cfg config.BookingConfig,
	clk clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	taxRate, err := decimal.NewFromString(cfg.DefaultTaxRate)
	if err != nil {
		logger.Warn("invalid default tax rate, using fallback",
			"value", cfg.DefaultTaxRate,
			"fallback", fallbackTaxRate.String())
		taxRate = fallbackTaxRate
	}
	return &bookingUseCaseImpl{
		uow:                uow,
		factory:            factory,
		reservationQueries: reservationQueries,
		effects:            effects,
		metrics:            metrics,
		defaultTaxRate:     taxRate,
		defaultOptionHours: cfg.DefaultOptionHours,
		clock:              clk,
		logger:             logger,
	}
}

func (uc *bookingUseCaseImpl) CreateOption(ctx context.Context, in CreateReservationInput, actor shared.Actor) (*CreateReservationResult, error) {
	in.Intent = reservation.IntentOption
	return uc.CreateReservation(ctx, in, actor)
}

func (uc *bookingUseCaseImpl) CreateReservation(ctx context.Context, in CreateReservationInput, actor shared.Actor) (*CreateReservationResult, error) {
	if in.Intent == "" {
		in.Intent = reservation.IntentConfirmed
	}
	requestHash := calculateRequestHash(in)

	if in.IdempotencyKey != nil {
		replayed, err := uc.replay(ctx, actor.TenantID, *in.IdempotencyKey, requestHash)
		if err != nil || replayed != nil {
			return replayed, err
		}
	}

	draft, err := uc.validateInput(in)
	if err != nil {
		uc.metrics.BookingRejected("validation")
		return nil, err
	}

	var created *reservation.Reservation
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, derr := uc.book(ctx, tx, in, draft, actor, requestHash)
		if derr != nil {
			return derr
		}
		created = res
		return nil
	})
	if err != nil {
		if in.IdempotencyKey != nil {
			// A concurrent request with the same key may have committed first,
			// leaving this one to fail on the key or on the rooms it took.
			replayed, rerr := uc.replay(ctx, actor.TenantID, *in.IdempotencyKey, requestHash)
			if rerr == nil && replayed != nil {
				return replayed, nil
			}
			if errs.Is(rerr, ErrIdempotencyKeyReused) {
				return nil, rerr
			}
			if rerr != nil {
				uc.logger.Warn("idempotency lookup after failed booking", "error", rerr)
			}
		}
		uc.metrics.BookingRejected(rejectionReason(err))
		return nil, err
	}

	uc.metrics.BookingCreated(string(created.Channel()), created.Status().String())
	eventType := shared.EventReservationCreated
	if created.Status() == reservation.StatusOption {
		eventType = shared.EventOptionCreated
	}
	uc.effects.Dispatch(ctx, eventType, created, actor)

	uc.logger.Info("reservation created",
		"reservation_id", created.ID(),
		"booking_reference", created.BookingReference(),
		"status", created.Status().String(),
		"rooms", created.Rooms())

	return &CreateReservationResult{
		Reservation: queries.NewReservationView(created),
		IsReplayed:  false,
	}, nil
}

type bookingDraft struct {
	stay  inventory.StayRange
	party reservation.Party
	guest reservation.Guest
}

func (uc *bookingUseCaseImpl) validateInput(in CreateReservationInput) (bookingDraft, error) {
	if !in.Intent.IsValid() {
		return bookingDraft{}, reservation.ErrInvalidIntent
	}
	if in.Rooms < 1 {
		return bookingDraft{}, inventory.ErrInvalidRoomCount
	}
	stay, err := inventory.NewStayRange(in.CheckIn, in.CheckOut)
	if err != nil {
		return bookingDraft{}, err
	}
	party, err := reservation.NewParty(in.Adults, in.Children)
	if err != nil {
		return bookingDraft{}, err
	}

	var guest reservation.Guest
	switch {
	case in.Guest != nil:
		guest, err = reservation.NewGuest(in.Guest.Name, in.Guest.Email, in.Guest.Phone, in.Guest.Country, in.Guest.SpecialRequests)
		if err != nil {
			return bookingDraft{}, err
		}
	case in.Intent == reservation.IntentOption:
		guest = reservation.PlaceholderGuest()
	default:
		return bookingDraft{}, ErrGuestRequired
	}
	return bookingDraft{stay: stay, party: party, guest: guest}, nil
}

// book runs every step of a booking inside one unit of work: catalog checks,
// locked availability, pricing, commission, insert, debit and ledger entry.
func (uc *bookingUseCaseImpl) book(
	ctx context.Context,
	tx shared.Tx,
	in CreateReservationInput,
	draft bookingDraft,
	actor shared.Actor,
	requestHash string,
) (*reservation.Reservation, error) {
	property, err := tx.Reads().PropertyByID(ctx, actor.TenantID, in.PropertyID)
	if err != nil {
		return nil, notFoundAs(err, ErrPropertyNotFound)
	}
	if !property.Active {
		return nil, ErrPropertyInactive
	}
	roomType, err := tx.Reads().RoomTypeByID(ctx, property.ID, in.RoomTypeID)
	if err != nil {
		return nil, notFoundAs(err, ErrRoomTypeNotFound)
	}

	var agency *shared.AgencySnapshot
	if in.AgencyID != nil {
		agency, err = tx.Reads().AgencyByID(ctx, actor.TenantID, *in.AgencyID)
		if err != nil {
			return nil, notFoundAs(err, ErrAgencyNotFound)
		}
		if !agency.Active {
			return nil, ErrAgencyInactive
		}
	}

	key := inventory.Key{PropertyID: property.ID, RoomTypeID: roomType.ID}
	availability, err := tx.Inventory().CheckAvailability(ctx, tx.DB(), key, draft.stay, in.Rooms)
	if err != nil {
		return nil, err
	}
	if err := availability.Err(); err != nil {
		return nil, err
	}

	total, err := uc.price(ctx, tx, in, property, draft.stay)
	if err != nil {
		return nil, err
	}
	withTax := pricing.WithTax(total, uc.taxFor(property))

	var resCommission *reservation.Commission
	if agency != nil {
		rate, err := commission.Resolve(agency.Terms(), property.ID)
		if err != nil {
			return nil, err
		}
		resCommission = &reservation.Commission{
			Percentage: rate.Percent(),
			Amount:     commission.Amount(total, rate),
			Status:     reservation.CommissionPending,
		}
	}

	var optionHours int
	if in.Intent == reservation.IntentOption {
		optionHours, err = reservation.OptionHours(in.OptionHours, property.OptionHours, uc.defaultOptionHours)
		if err != nil {
			return nil, err
		}
	}

	res, err := uc.factory.Create(reservation.NewParams{
		TenantID:        actor.TenantID,
		PropertyID:      property.ID,
		RoomTypeID:      roomType.ID,
		RatePlanID:      in.RatePlanID,
		CreatedBy:       actor.UserID,
		IdempotencyKey:  in.IdempotencyKey,
		RequestHash:     requestHash,
		Guest:           draft.guest,
		Stay:            draft.stay,
		Party:           draft.party,
		Rooms:           in.Rooms,
		TotalPrice:      total,
		TotalWithTax:    withTax,
		Intent:          in.Intent,
		OptionHours:     optionHours,
		Channel:         reservation.Channel(in.Channel),
		AgencyID:        in.AgencyID,
		AgencyReference: in.AgencyReference,
		Commission:      resCommission,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Reservations().Create(ctx, tx.DB(), res); err != nil {
		return nil, err
	}
	if err := tx.Inventory().Debit(ctx, tx.DB(), key, draft.stay, in.Rooms); err != nil {
		return nil, err
	}
	if agency != nil {
		entry := commission.NewBookedEntry(actor.TenantID, agency.ID, res.ID(), total, resCommission.Amount, uc.clock.Now())
		if err := tx.Commissions().Append(ctx, tx.DB(), entry); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (uc *bookingUseCaseImpl) price(
	ctx context.Context,
	tx shared.Tx,
	in CreateReservationInput,
	property *shared.PropertySnapshot,
	stay inventory.StayRange,
) (money.Money, error) {
	snapshots, err := tx.Reads().NightlyRates(ctx, shared.RateLookup{
		Rate: pricing.RateKey{PropertyID: property.ID, RoomTypeID: in.RoomTypeID, RatePlanID: in.RatePlanID},
		Stay: stay,
	})
	if err != nil {
		return money.Money{}, err
	}
	rates := make([]pricing.NightlyRate, 0, len(snapshots))
	for _, s := range snapshots {
		rates = append(rates, pricing.NightlyRate{Date: s.Date, Price: money.New(s.Price, s.Currency)})
	}
	return pricing.Total(stay, rates, in.Rooms, property.Currency)
}

func (uc *bookingUseCaseImpl) taxFor(property *shared.PropertySnapshot) pricing.Tax {
	rate := uc.defaultTaxRate
	if property.TaxRate != nil {
		rate = *property.TaxRate
	}
	return pricing.Tax{Rate: rate, Included: property.TaxIncluded}
}

// replay returns the stored result for a key already used by this tenant, nil
// when the key is fresh.
func (uc *bookingUseCaseImpl) replay(ctx context.Context, tenantID uuid.UUID, key, requestHash string) (*CreateReservationResult, error) {
	record, err := uc.uow.CommandReads().IdempotencyByKey(ctx, tenantID, key)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if record.RequestHash != requestHash {
		return nil, ErrIdempotencyKeyReused
	}

	view, err := uc.reservationQueries.GetByIDSystem(ctx, record.ReservationID)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("idempotent replay",
		"reservation_id", record.ReservationID,
		"booking_reference", view.BookingReference)
	return &CreateReservationResult{Reservation: view, IsReplayed: true}, nil
}

func rejectionReason(err error) string {
	switch {
	case errs.Is(err, inventory.ErrInsufficientRooms):
		return "no_availability"
	case errs.IsValidation(err):
		return "validation"
	case errs.IsNotFound(err):
		return "not_found"
	case errs.IsConflict(err):
		return "conflict"
	case errs.IsRetryable(err):
		return "retryable"
	default:
		return "error"
	}
}

func calculateRequestHash(in CreateReservationInput) string {
	data, _ := json.Marshal(in)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
