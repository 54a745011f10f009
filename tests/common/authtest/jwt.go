//go:build unit || integration

package authtest

import (
	"testing"
	"time"

	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/jwt"
	"booking-core/internal/usecase"
	"booking-core/internal/usecase/shared"

	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, actor shared.Actor, role usecase.Role) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	service := jwt.NewService(h.cfg.Secret, duration)
	token, err := service.GenerateToken(actor.UserID, actor.TenantID, string(role))
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, actor shared.Actor, role usecase.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, time.Millisecond)
	token, err := service.GenerateToken(actor.UserID, actor.TenantID, string(role))
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
