package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orderly/orders-api/internal/api/metrics"
	"github.com/orderly/orders-api/internal/core/domain"
	"github.com/orderly/orders-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  successResponse{data=registerResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ValidationErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		observeAuth("register", err)
		return err
	}

	id, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	observeAuth("register", err)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "user registered successfully", registerResponse{UserID: id})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  successResponse{data=loginResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      422   {object}  ValidationErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		observeAuth("login", err)
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	observeAuth("login", err)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "login successful", loginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt,
		User:      toUserResponse(res.User),
	})
}

// Me returns the profile of the authenticated caller.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse{data=meResponse}
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "authenticated", meResponse{User: toUserResponse(user)})
}

// Logout acknowledges a logout. Tokens are stateless, so the client discards it.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  successResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return respond(c, http.StatusOK, "logged out, discard the token on the client", nil)
}

func observeAuth(action string, err error) {
	var ve *domain.ValidationError
	result := "success"
	switch {
	case err == nil:
	case errors.As(err, &ve):
		result = "invalid"
	case errors.Is(err, domain.ErrDuplicateEmail):
		result = "duplicate"
	case errors.Is(err, domain.ErrInvalidCredentials):
		result = "unauthorized"
	default:
		result = "error"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(action, result).Inc()
}
