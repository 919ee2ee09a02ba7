package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ed-platform/account-service/internal/api/dto"
	"github.com/ed-platform/account-service/internal/domain"
	"github.com/ed-platform/account-service/internal/service"
	apperrors "github.com/ed-platform/account-service/pkg/util"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Phone == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "phone and password required")
	}

	result, err := h.auth.Login(c.Context(), req.Phone, req.Password)
	if err != nil {
		return mapLoginError(err)
	}

	return c.JSON(dto.LoginResponse{
		ResponseCode: "00",
		Message:      "Login successful",
		Data:         dto.LoginData{AccessToken: result.AccessToken},
	})
}

// mapLoginError translates login failures into their wire-level reasons. The
// distinct not-found vs wrong-password messages mirror the upstream contract.
func mapLoginError(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return apperrors.NewUnauthorized("User not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperrors.NewUnauthorized("Password incorrect")
	case errors.Is(err, domain.ErrPasswordResetRequired):
		return apperrors.NewUnauthorized("Reset password required")
	case errors.Is(err, domain.ErrAccountClosed):
		return apperrors.NewUnauthorized("User is closed")
	case errors.Is(err, domain.ErrAccountNotActive):
		return apperrors.NewUnauthorized("User is not active")
	case errors.Is(err, domain.ErrTooManyLoginAttempts):
		return apperrors.NewTooManyRequests("Too many login attempts")
	default:
		return err
	}
}
