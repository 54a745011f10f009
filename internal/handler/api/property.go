package api

import (
	"net/http"

	"booking-core/internal/domain/inventory"
	reqdto "booking-core/internal/handler/dto/request"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/handler/httperr"
	"booking-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// PropertyHandler serves the read side: availability and booking statistics.
type PropertyHandler struct {
	inventory queries.InventoryQueries
	stats     queries.StatsQueries
}

func NewPropertyHandler(inventoryQueries queries.InventoryQueries, statsQueries queries.StatsQueries) *PropertyHandler {
	return &PropertyHandler{
		inventory: inventoryQueries,
		stats:     statsQueries,
	}
}

// @Summary Room availability
// @Description Per-night inventory for a room type over a stay
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param property_id query string true "Property ID"
// @Param room_type_id query string true "Room type ID"
// @Param check_in query string true "Check-in date (YYYY-MM-DD)"
// @Param check_out query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /inventory [get]
func (h *PropertyHandler) GetAvailability(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var q reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}
	stay, err := q.Stay()
	if err != nil {
		httperr.AbortWithCategory(c, err)
		return
	}

	nights, err := h.inventory.GetAvailability(c.Request.Context(), actor.TenantID, q.Key(), stay)
	if err != nil {
		httperr.AbortWithCategory(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.AvailabilityResponse{
		PropertyID: q.PropertyID,
		RoomTypeID: q.RoomTypeID,
		CheckIn:    inventory.FormatDate(stay.CheckIn()),
		CheckOut:   inventory.FormatDate(stay.CheckOut()),
		Nights:     nights,
	})
}

// @Summary Property statistics
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Success 200 {object} queries.PropertyStats
// @Failure 404 {object} httperr.Response
// @Router /properties/{id}/stats [get]
func (h *PropertyHandler) GetPropertyStats(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	stats, err := h.stats.GetStats(c.Request.Context(), actor.TenantID, id)
	if err != nil {
		httperr.AbortWithCategory(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Agency statistics
// @Description Booking count, revenue and commission derived from the agency commission ledger
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param id path string true "Agency ID"
// @Success 200 {object} queries.AgencyStats
// @Failure 404 {object} httperr.Response
// @Router /agencies/{id}/stats [get]
func (h *PropertyHandler) GetAgencyStats(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	stats, err := h.stats.GetAgencyStats(c.Request.Context(), actor.TenantID, id)
	if err != nil {
		httperr.AbortWithCategory(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
