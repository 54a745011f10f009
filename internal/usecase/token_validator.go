package usecase

import (
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/jwt"
	"booking-core/internal/usecase/shared"
)

type Role string

const (
	RoleAgent   Role = "agent"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

var ErrUnknownRole = errs.New("unknown role")

func NewRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAgent, RoleManager, RoleAdmin:
		return r, nil
	default:
		return "", errs.Wrapf(ErrUnknownRole, "%q", s)
	}
}

// Identity is what a valid token proves about the caller.
type Identity struct {
	Actor shared.Actor
	Role  Role
}

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (Identity, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (Identity, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return Identity{}, err
	}

	role, err := NewRole(claims.Role)
	if err != nil {
		return Identity{}, err
	}

	return Identity{
		Actor: shared.Actor{UserID: claims.UserID, TenantID: claims.TenantID},
		Role:  role,
	}, nil
}
