package api

import (
	"net/http"

	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/handler/httperr"
	"booking-core/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	sweeper commands.SweeperCommands
}

func NewAdminHandler(sweeper commands.SweeperCommands) *AdminHandler {
	return &AdminHandler{sweeper: sweeper}
}

// @Summary Expire lapsed options
// @Description Run one sweep batch immediately instead of waiting for the background sweeper
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SweepResponse
// @Failure 403 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /internal/options/expire [post]
func (h *AdminHandler) ExpireOptions(c *gin.Context) {
	result, err := h.sweeper.ExpireOptions(c.Request.Context())
	if err != nil {
		httperr.AbortWithCategory(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSweepResult(result))
}
