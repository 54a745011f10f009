package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"booking-core/internal/handler/api"
	"booking-core/internal/handler/middleware"
	"booking-core/internal/infra/metrics"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *middleware.Logger,
	prom *metrics.Prometheus,
	reservationHandler *api.ReservationHandler,
	propertyHandler *api.PropertyHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg, logger, prom)
	setupRoutes(engine, cfg, prom, reservationHandler, propertyHandler, adminHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, prom *metrics.Prometheus) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.Metrics(prom))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	cfg config.Config,
	prom *metrics.Prometheus,
	reservationHandler *api.ReservationHandler,
	propertyHandler *api.PropertyHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(prom.Handler()))
	}

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		reservations := apiGroup.Group("/reservations")
		addRoutes(reservations, []route{
			{Method: http.MethodPost, Path: "", Handler: reservationHandler.CreateReservation},
			{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.GetReservation},
			{Method: http.MethodGet, Path: "/reference/:reference", Handler: reservationHandler.GetReservationByReference},
			{Method: http.MethodPost, Path: "/:id/confirm-option", Handler: reservationHandler.ConfirmOption},
			{Method: http.MethodPost, Path: "/:id/confirm", Handler: reservationHandler.Confirm},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: reservationHandler.Cancel},
			{Method: http.MethodPost, Path: "/:id/check-in", Handler: reservationHandler.CheckIn},
			{Method: http.MethodPost, Path: "/:id/check-out", Handler: reservationHandler.CheckOut},
			{Method: http.MethodPost, Path: "/:id/no-show", Handler: reservationHandler.MarkNoShow},
		})

		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/options", Handler: reservationHandler.CreateOption},
			{Method: http.MethodGet, Path: "/inventory", Handler: propertyHandler.GetAvailability},
			{
				Method:  http.MethodGet,
				Path:    "/properties/:id/stats",
				Handler: propertyHandler.GetPropertyStats,
				Mw:      []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(usecase.RoleManager)},
			},
			{
				Method:  http.MethodGet,
				Path:    "/agencies/:id/stats",
				Handler: propertyHandler.GetAgencyStats,
				Mw:      []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(usecase.RoleManager)},
			},
		})

		internal := apiGroup.Group("/internal")
		internal.Use(authMiddleware.RequireRoleAtLeast(usecase.RoleAdmin))
		addRoutes(internal, []route{
			{Method: http.MethodPost, Path: "/options/expire", Handler: adminHandler.ExpireOptions},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
