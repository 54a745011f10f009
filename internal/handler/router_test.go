//go:build unit

package handler_test

import (
	"net/http"
	"testing"
	"time"

	"booking-core/internal/handler"
	"booking-core/internal/handler/api"
	"booking-core/internal/handler/middleware"
	"booking-core/internal/infra/metrics"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/jwt"
	"booking-core/internal/usecase"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"
	"booking-core/tests/common/authtest"
	"booking-core/tests/common/httptest"
	commandsmock "booking-core/tests/mock/commands"
	queriesmock "booking-core/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RouterTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockQueries  *queriesmock.MockReservationQueries
	mockStats    *queriesmock.MockStatsQueries
	mockSweeper  *commandsmock.MockSweeperCommands
	jwtHelper    *authtest.JWTHelper
	actor        shared.Actor
	agentToken   string
	managerToken string
	adminToken   string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	cfg := config.NewTestConfig()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.mockStats = queriesmock.NewMockStatsQueries(s.mockCtrl)
	s.mockSweeper = commandsmock.NewMockSweeperCommands(s.mockCtrl)

	jwtService := jwt.NewService(cfg.JWT.Secret, time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(usecase.NewTokenValidator(jwtService))

	s.router = gin.New()
	handler.NewRouter(
		s.router,
		cfg,
		middleware.NewLogger(cfg.Log),
		metrics.NewPrometheus(),
		api.NewReservationHandler(
			commandsmock.NewMockBookingCommands(s.mockCtrl),
			commandsmock.NewMockLifecycleCommands(s.mockCtrl),
			s.mockQueries,
		),
		api.NewPropertyHandler(queriesmock.NewMockInventoryQueries(s.mockCtrl), s.mockStats),
		api.NewAdminHandler(s.mockSweeper),
		authMiddleware,
	)

	s.jwtHelper = authtest.NewJWTHelper(cfg.JWT)
	s.actor = shared.Actor{UserID: uuid.New(), TenantID: uuid.New()}
	s.agentToken = s.jwtHelper.GenerateToken(s.T(), s.actor, usecase.RoleAgent)
	s.managerToken = s.jwtHelper.GenerateToken(s.T(), s.actor, usecase.RoleManager)
	s.adminToken = s.jwtHelper.GenerateToken(s.T(), s.actor, usecase.RoleAdmin)
}

func (s *RouterTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *RouterTestSuite) TestHealth() {
	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/health", nil, "")

	var resp map[string]string
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
	s.Equal("ok", resp["status"])
}

func (s *RouterTestSuite) TestAuthentication() {
	path := "/api/reservations/" + uuid.NewString()

	s.Run("missing token", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, path, nil, "")

		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Access token required")
	})

	s.Run("expired token", func() {
		token := s.jwtHelper.CreateExpiredToken(s.T(), s.actor, usecase.RoleAgent)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, path, nil, token)

		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("token carries the tenant", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor.TenantID, id).
			Return(&queries.ReservationView{ID: id, TenantID: s.actor.TenantID, Status: "confirmed"}, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/reservations/"+id.String(), nil, s.agentToken)

		var resp queries.ReservationView
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Equal(id, resp.ID)
	})
}

func (s *RouterTestSuite) TestRoleGates() {
	propertyID := uuid.New()
	statsPath := "/api/properties/" + propertyID.String() + "/stats"

	s.Run("agents cannot read property stats", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, statsPath, nil, s.agentToken)

		httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("managers can", func() {
		s.mockStats.EXPECT().GetStats(gomock.Any(), s.actor.TenantID, propertyID).
			Return(&queries.PropertyStats{PropertyID: propertyID, ByStatus: map[string]int{}, Revenue: "0.00", Currency: "EUR"}, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, statsPath, nil, s.managerToken)

		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("managers cannot trigger a sweep", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/internal/options/expire", nil, s.managerToken)

		httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("admins can", func() {
		s.mockSweeper.EXPECT().ExpireOptions(gomock.Any()).Return(commands.SweepResult{Checked: 1, Expired: 1}, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/internal/options/expire", nil, s.adminToken)

		s.Equal(http.StatusOK, w.Code)
	})
}

func (s *RouterTestSuite) TestMetricsEndpoint() {
	_ = httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/health", nil, "")

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/metrics", nil, "")

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `booking_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
