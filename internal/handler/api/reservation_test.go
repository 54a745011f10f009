//go:build unit

package api_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"booking-core/internal/domain/inventory"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/handler/api"
	reqdto "booking-core/internal/handler/dto/request"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/handler/middleware"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"
	"booking-core/tests/common/httptest"
	"booking-core/tests/common/testutil"
	commandsmock "booking-core/tests/mock/commands"
	queriesmock "booking-core/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockCtrl      *gomock.Controller
	mockBooking   *commandsmock.MockBookingCommands
	mockLifecycle *commandsmock.MockLifecycleCommands
	mockQueries   *queriesmock.MockReservationQueries
	handler       *api.ReservationHandler
	actor         shared.Actor
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockBooking = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockLifecycle = commandsmock.NewMockLifecycleCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockBooking, s.mockLifecycle, s.mockQueries)
	s.actor = shared.Actor{UserID: uuid.New(), TenantID: uuid.New()}

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		middleware.SetActor(c, s.actor, usecase.RoleAgent)
		c.Next()
	}

	s.router.POST("/reservations", authMiddleware, s.handler.CreateReservation)
	s.router.POST("/options", authMiddleware, s.handler.CreateOption)
	s.router.GET("/reservations/:id", authMiddleware, s.handler.GetReservation)
	s.router.GET("/reservations/reference/:reference", authMiddleware, s.handler.GetReservationByReference)
	s.router.POST("/reservations/:id/confirm-option", authMiddleware, s.handler.ConfirmOption)
	s.router.POST("/reservations/:id/confirm", authMiddleware, s.handler.Confirm)
	s.router.POST("/reservations/:id/cancel", authMiddleware, s.handler.Cancel)
	s.router.POST("/reservations/:id/check-in", authMiddleware, s.handler.CheckIn)
	s.router.POST("/reservations/:id/check-out", authMiddleware, s.handler.CheckOut)
	s.router.POST("/reservations/:id/no-show", authMiddleware, s.handler.MarkNoShow)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func validCreateRequest() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		PropertyID: uuid.New(),
		RoomTypeID: uuid.New(),
		RatePlanID: uuid.New(),
		CheckIn:    "2026-03-10",
		CheckOut:   "2026-03-13",
		Adults:     2,
		Guest:      &reqdto.GuestRequest{Name: "Ada Lovelace", Email: "ada@example.com"},
	}
}

func viewWithStatus(status reservation.Status) *queries.ReservationView {
	return &queries.ReservationView{
		ID:               uuid.New(),
		BookingReference: "BK-260310-ABCDEF",
		Status:           status.String(),
		CheckIn:          "2026-03-10",
		CheckOut:         "2026-03-13",
		Nights:           3,
		Rooms:            1,
		TotalPrice:       "300.00",
		TotalWithTax:     "321.00",
		Currency:         "EUR",
		Version:          1,
	}
}

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	s.Run("created", func() {
		view := viewWithStatus(reservation.StatusConfirmed)
		req := validCreateRequest()

		s.mockBooking.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), s.actor).
			DoAndReturn(func(_ any, in commands.CreateReservationInput, _ shared.Actor) (*commands.CreateReservationResult, error) {
				s.Equal(req.PropertyID, in.PropertyID)
				s.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), in.CheckIn)
				s.Equal(time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), in.CheckOut)
				s.Equal(1, in.Rooms, "rooms default to one")
				s.Empty(in.Channel)
				s.Nil(in.IdempotencyKey)
				s.Equal("Ada Lovelace", in.Guest.Name)
				return &commands.CreateReservationResult{Reservation: view}, nil
			})

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations", req, "token")

		var resp resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		s.Equal(view.ID, resp.ID)
		s.False(resp.Replayed)
		httptest.AssertHeaders(s.T(), w, map[string]string{
			"Location":          "/api/reservations/" + view.ID.String(),
			api.HeaderReplayed: "",
		})
	})

	s.Run("replayed with idempotency key", func() {
		view := viewWithStatus(reservation.StatusConfirmed)

		s.mockBooking.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), s.actor).
			DoAndReturn(func(_ any, in commands.CreateReservationInput, _ shared.Actor) (*commands.CreateReservationResult, error) {
				s.Require().NotNil(in.IdempotencyKey)
				s.Equal("booking-42", *in.IdempotencyKey)
				return &commands.CreateReservationResult{Reservation: view, IsReplayed: true}, nil
			})

		w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/reservations", validCreateRequest(),
			map[string]string{middleware.HeaderIdempotencyKey: "booking-42"}, "token")

		var resp resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.True(resp.Replayed)
		httptest.AssertHeaders(s.T(), w, map[string]string{api.HeaderReplayed: "true"})
	})

	s.Run("idempotency key too long", func() {
		w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/reservations", validCreateRequest(),
			map[string]string{middleware.HeaderIdempotencyKey: strings.Repeat("k", 256)}, "token")

		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "invalid idempotency key")
	})

	s.Run("unauthenticated", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations", validCreateRequest(), "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Unauthorized")
	})

	bindCases := []struct {
		name       string
		mutate     func(m map[string]any)
		expectCode int
		expectMsg  string
	}{
		{"missing property", testutil.Field("property_id", nil), http.StatusBadRequest, "Invalid request format"},
		{"no adults", testutil.Field("adults", 0), http.StatusBadRequest, "Invalid request format"},
		{"unknown channel", testutil.Field("channel", "fax"), http.StatusBadRequest, "Invalid request format"},
		{"option status not accepted", testutil.Field("status", "option"), http.StatusBadRequest, "Invalid request format"},
		{"malformed check-in", testutil.Field("check_in", "10/03/2026"), http.StatusUnprocessableEntity, "YYYY-MM-DD"},
	}
	for _, tc := range bindCases {
		s.Run(tc.name, func() {
			body := testutil.DtoMap(s.T(), validCreateRequest(), tc.mutate)

			w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations", body, "token")

			httptest.AssertErrorResponse(s.T(), w, tc.expectCode, tc.expectMsg)
		})
	}

	errorCases := []struct {
		name       string
		err        error
		expectCode int
		expectMsg  string
	}{
		{"room type not found", commands.ErrRoomTypeNotFound, http.StatusNotFound, "room type not found"},
		{"sold out", errs.Wrapf(inventory.ErrInsufficientRooms, "2026-03-11"), http.StatusConflict, "not enough rooms"},
		{"idempotency key reused", commands.ErrIdempotencyKeyReused, http.StatusConflict, "idempotency key reused"},
		{"invalid party", reservation.ErrInvalidParty, http.StatusUnprocessableEntity, "at least one adult"},
		{"contention", errs.Mark(errs.New("serialization failure"), errs.ErrRetryable), http.StatusServiceUnavailable, "retry"},
		{"unexpected", errs.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range errorCases {
		s.Run(tc.name, func() {
			s.mockBooking.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)

			w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations", validCreateRequest(), "token")

			httptest.AssertErrorResponse(s.T(), w, tc.expectCode, tc.expectMsg)
		})
	}

	s.Run("retryable error sets Retry-After", func() {
		s.mockBooking.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errs.ErrRetryable)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations", validCreateRequest(), "token")

		s.Equal(http.StatusServiceUnavailable, w.Code)
		httptest.AssertHeaders(s.T(), w, map[string]string{"Retry-After": "1"})
	})
}

func (s *ReservationHandlerTestSuite) TestCreateOption() {
	s.Run("created without guest", func() {
		view := viewWithStatus(reservation.StatusOption)
		req := validCreateRequest()
		req.Guest = nil
		hours := 48
		req.OptionHours = &hours

		s.mockBooking.EXPECT().CreateOption(gomock.Any(), gomock.Any(), s.actor).
			DoAndReturn(func(_ any, in commands.CreateReservationInput, _ shared.Actor) (*commands.CreateReservationResult, error) {
				s.Nil(in.Guest)
				s.Require().NotNil(in.OptionHours)
				s.Equal(48, *in.OptionHours)
				return &commands.CreateReservationResult{Reservation: view}, nil
			})

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/options", req, "token")

		var resp resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		s.Equal("option", resp.Status)
	})

	s.Run("option hours above limit", func() {
		body := testutil.DtoMap(s.T(), validCreateRequest(), testutil.Field("option_hours", 73))

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/options", body, "token")

		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	s.Run("found", func() {
		view := viewWithStatus(reservation.StatusPending)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor.TenantID, view.ID).Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+view.ID.String(), nil, "token")

		var resp resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Equal(view.BookingReference, resp.BookingReference)
	})

	s.Run("not found", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor.TenantID, id).Return(nil, commands.ErrReservationNotFound)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+id.String(), nil, "token")

		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "reservation not found")
	})

	s.Run("invalid id", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/not-a-uuid", nil, "token")

		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid id format")
	})
}

func (s *ReservationHandlerTestSuite) TestGetReservationByReference() {
	view := viewWithStatus(reservation.StatusConfirmed)
	s.mockQueries.EXPECT().GetByReference(gomock.Any(), s.actor.TenantID, "BK-260310-ABCDEF").Return(view, nil)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/reference/bk-260310-abcdef", nil, "token")

	var resp resdto.ReservationResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
	s.Equal(view.ID, resp.ID)
}

func (s *ReservationHandlerTestSuite) TestConfirmOption() {
	s.Run("with guest details", func() {
		view := viewWithStatus(reservation.StatusConfirmed)
		body := reqdto.ConfirmOptionRequest{Guest: &reqdto.GuestRequest{Name: " Grace Hopper ", Country: "us"}}

		s.mockLifecycle.EXPECT().ConfirmOption(gomock.Any(), view.ID, gomock.Any(), s.actor).
			DoAndReturn(func(_ any, _ uuid.UUID, guest *commands.GuestInput, _ shared.Actor) (*queries.ReservationView, error) {
				s.Require().NotNil(guest)
				s.Equal("Grace Hopper", guest.Name)
				s.Equal("US", guest.Country)
				return view, nil
			})

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+view.ID.String()+"/confirm-option", body, "token")

		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
	})

	s.Run("without body", func() {
		view := viewWithStatus(reservation.StatusConfirmed)
		s.mockLifecycle.EXPECT().ConfirmOption(gomock.Any(), view.ID, (*commands.GuestInput)(nil), s.actor).Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+view.ID.String()+"/confirm-option", nil, "token")

		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
	})

	s.Run("expired hold", func() {
		id := uuid.New()
		s.mockLifecycle.EXPECT().ConfirmOption(gomock.Any(), id, gomock.Any(), s.actor).Return(nil, reservation.ErrOptionExpired)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+id.String()+"/confirm-option", nil, "token")

		httptest.AssertErrorResponse(s.T(), w, http.StatusGone, "option hold has expired")
	})
}

func (s *ReservationHandlerTestSuite) TestCancel() {
	s.Run("passes reason", func() {
		view := viewWithStatus(reservation.StatusCancelled)
		s.mockLifecycle.EXPECT().Cancel(gomock.Any(), view.ID, "guest request", s.actor).Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+view.ID.String()+"/cancel",
			reqdto.CancelReservationRequest{Reason: "guest request"}, "token")

		var resp resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Equal("cancelled", resp.Status)
	})

	s.Run("already cancelled", func() {
		id := uuid.New()
		s.mockLifecycle.EXPECT().Cancel(gomock.Any(), id, "", s.actor).Return(nil, reservation.ErrAlreadyCancelled)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+id.String()+"/cancel", nil, "token")

		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "already cancelled")
	})
}

func (s *ReservationHandlerTestSuite) TestTransitions() {
	cases := []struct {
		path   string
		expect func(id uuid.UUID) *gomock.Call
	}{
		{"confirm", func(id uuid.UUID) *gomock.Call { return s.mockLifecycle.EXPECT().Confirm(gomock.Any(), id, s.actor) }},
		{"check-in", func(id uuid.UUID) *gomock.Call { return s.mockLifecycle.EXPECT().CheckIn(gomock.Any(), id, s.actor) }},
		{"check-out", func(id uuid.UUID) *gomock.Call { return s.mockLifecycle.EXPECT().CheckOut(gomock.Any(), id, s.actor) }},
		{"no-show", func(id uuid.UUID) *gomock.Call { return s.mockLifecycle.EXPECT().MarkNoShow(gomock.Any(), id, s.actor) }},
	}
	for _, tc := range cases {
		s.Run(tc.path+" ok", func() {
			view := viewWithStatus(reservation.StatusConfirmed)
			tc.expect(view.ID).Return(view, nil)

			w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+view.ID.String()+"/"+tc.path, nil, "token")

			httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
		})

		s.Run(tc.path+" invalid transition", func() {
			id := uuid.New()
			tc.expect(id).Return(nil, reservation.ErrInvalidTransition)

			w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+id.String()+"/"+tc.path, nil, "token")

			httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "not in a state")
		})
	}
}
