package api

import (
	"context"
	"net/http"
	"strings"

	reqdto "booking-core/internal/handler/dto/request"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/handler/httperr"
	"booking-core/internal/handler/middleware"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderReplayed       = middleware.HeaderReplayed
	maxIdempotencyKeyLen = 255
)

var (
	errInvalidID             = errs.New("invalid id")
	errInvalidIdempotencyKey = errs.New("invalid idempotency key")
	errMissingActor          = errs.New("actor missing from context")
)

type ReservationHandler struct {
	booking   commands.BookingCommands
	lifecycle commands.LifecycleCommands
	queries   queries.ReservationQueries
}

func NewReservationHandler(booking commands.BookingCommands, lifecycle commands.LifecycleCommands, reservationQueries queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		booking:   booking,
		lifecycle: lifecycle,
		queries:   reservationQueries,
	}
}

type createFunc func(ctx context.Context, in commands.CreateReservationInput, actor shared.Actor) (*commands.CreateReservationResult, error)

// @Summary Create reservation
// @Description Book rooms as confirmed (default) or pending. Repeating a request with the same Idempotency-Key replays the first result.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Success 200 {object} resdto.ReservationResponse "Replayed"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	h.create(c, h.booking.CreateReservation)
}

// @Summary Create option
// @Description Place a time-limited hold on rooms. The hold consumes inventory until it is confirmed, cancelled or expires.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateReservationRequest true "Option request"
// @Success 201 {object} resdto.ReservationResponse
// @Success 200 {object} resdto.ReservationResponse "Replayed"
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /options [post]
func (h *ReservationHandler) CreateOption(c *gin.Context) {
	h.create(c, h.booking.CreateOption)
}

func (h *ReservationHandler) create(c *gin.Context, fn createFunc) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	in, err := req.ToInput(idempotencyKey)
	if err != nil {
		httperr.AbortWithCategory(c, err)
		return
	}

	result, err := fn(c.Request.Context(), in, actor)
	if err != nil {
		httperr.AbortWithCategory(c, err)
		return
	}

	if result.IsReplayed {
		c.Header(HeaderReplayed, "true")
		c.JSON(http.StatusOK, resdto.FromCreateResult(result))
		return
	}
	c.Header(middleware.HeaderLocation, "/api/reservations/"+result.Reservation.ID.String())
	c.JSON(http.StatusCreated, resdto.FromCreateResult(result))
}

// @Summary Get reservation
// @Description Get reservation by ID
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), actor.TenantID, id)
	if err != nil {
		httperr.AbortWithCategory(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Get reservation by booking reference
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Booking reference"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/reference/{reference} [get]
func (h *ReservationHandler) GetReservationByReference(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	reference := strings.ToUpper(strings.TrimSpace(c.Param("reference")))

	view, err := h.queries.GetByReference(c.Request.Context(), actor.TenantID, reference)
	if err != nil {
		httperr.AbortWithCategory(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Confirm option
// @Description Turn an unexpired option into a confirmed reservation. Guest details replace the placeholder guest.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ConfirmOptionRequest false "Guest details"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/confirm-option [post]
func (h *ReservationHandler) ConfirmOption(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req reqdto.ConfirmOptionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
			return
		}
	}

	view, err := h.lifecycle.ConfirmOption(c.Request.Context(), id, req.Guest.ToInput(), actor)
	h.respond(c, view, err)
}

// @Summary Confirm pending reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/confirm [post]
func (h *ReservationHandler) Confirm(c *gin.Context) {
	h.transition(c, h.lifecycle.Confirm)
}

// @Summary Cancel reservation
// @Description Cancel an option, pending or confirmed reservation. Rooms return to inventory and agency commission is reversed.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.CancelReservationRequest false "Cancellation reason"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req reqdto.CancelReservationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
			return
		}
	}

	view, err := h.lifecycle.Cancel(c.Request.Context(), id, req.Reason, actor)
	h.respond(c, view, err)
}

// @Summary Check in
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/check-in [post]
func (h *ReservationHandler) CheckIn(c *gin.Context) {
	h.transition(c, h.lifecycle.CheckIn)
}

// @Summary Check out
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/check-out [post]
func (h *ReservationHandler) CheckOut(c *gin.Context) {
	h.transition(c, h.lifecycle.CheckOut)
}

// @Summary Mark no-show
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/no-show [post]
func (h *ReservationHandler) MarkNoShow(c *gin.Context) {
	h.transition(c, h.lifecycle.MarkNoShow)
}

type transitionFunc func(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error)

func (h *ReservationHandler) transition(c *gin.Context, fn transitionFunc) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	view, err := fn(c.Request.Context(), id, actor)
	h.respond(c, view, err)
}

func (h *ReservationHandler) respond(c *gin.Context, view *queries.ReservationView, err error) {
	if err != nil {
		httperr.AbortWithCategory(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

func getIdempotencyKey(c *gin.Context) (*string, error) {
	key := strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
	if key == "" {
		return nil, nil
	}
	if len(key) > maxIdempotencyKeyLen {
		return nil, errs.Wrapf(errInvalidIdempotencyKey, "longer than %d characters", maxIdempotencyKeyLen)
	}
	return &key, nil
}

func mustActor(c *gin.Context) (shared.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return shared.Actor{}, false
	}
	return actor, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Wrap(errInvalidID, name), "Invalid "+name+" format", nil)
		return uuid.Nil, false
	}
	return id, true
}
