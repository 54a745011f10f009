package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"booking-core/internal/usecase"
	"booking-core/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxActorKey    = "actor"
	ctxUserRoleKey = "user_role"
)

var roleHierarchy = map[usecase.Role]int{
	usecase.RoleAgent:   1,
	usecase.RoleManager: 2,
	usecase.RoleAdmin:   3,
}

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "Access token required")
			return
		}

		identity, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ctxActorKey, identity.Actor)
		c.Set(ctxUserRoleKey, identity.Role)
		c.Next()
	}
}

func hasMinimumRole(userRole, minRole usecase.Role) bool {
	userLevel, userExists := roleHierarchy[userRole]
	minLevel, minExists := roleHierarchy[minRole]
	return userExists && minExists && userLevel >= minLevel
}

// RequireRoleAtLeast must run after RequireAuth.
func (m *AuthMiddleware) RequireRoleAtLeast(minRole usecase.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"message": "Internal server error"},
			})
			return
		}

		if !hasMinimumRole(role, minRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "Insufficient permissions"},
			})
			return
		}

		c.Next()
	}
}

func GetActor(c *gin.Context) (shared.Actor, bool) {
	v, exists := c.Get(ctxActorKey)
	if !exists {
		return shared.Actor{}, false
	}
	actor, ok := v.(shared.Actor)
	return actor, ok
}

func GetUserRole(c *gin.Context) (usecase.Role, bool) {
	v, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(usecase.Role)
	return role, ok
}

// SetActor is for tests and trusted internal callers that bypass tokens.
func SetActor(c *gin.Context, actor shared.Actor, role usecase.Role) {
	c.Set(ctxActorKey, actor)
	c.Set(ctxUserRoleKey, role)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"message": msg},
	})
}
