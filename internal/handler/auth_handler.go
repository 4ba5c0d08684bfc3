package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/metrics"
	"teamdesk/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	metrics     *metrics.Metrics
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: m}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, result)
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password look the same from outside.
		switch apperrors.KindOf(err) {
		case apperrors.KindNotFound, apperrors.KindInvalidCredentials:
			h.metrics.ObserveLogin(metrics.LoginRejected)
			return respondError(apperrors.ErrInvalidCredentials)
		}
		h.metrics.ObserveLogin(metrics.LoginError)
		return respondError(err)
	}
	h.metrics.ObserveLogin(metrics.LoginSuccess)
	return c.JSON(http.StatusOK, result)
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security SessionToken
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Me(c.Request().Context(), session)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user.Profile())
}

// ParseToken adapts session verification to echo-jwt's ParseTokenFunc.
func (h *AuthHandler) ParseToken(_ echo.Context, token string) (interface{}, error) {
	return h.authService.VerifySession(token)
}
