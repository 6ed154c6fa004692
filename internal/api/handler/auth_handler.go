package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dawerha/dawerha-api/internal/api/metrics"
	"github.com/dawerha/dawerha-api/internal/api/snapshot"
	"github.com/dawerha/dawerha-api/internal/core/domain"
	"github.com/dawerha/dawerha-api/internal/core/ports"
)

// AuthHandler owns the login, logout, and session-introspection endpoints.
type AuthHandler struct {
	authService ports.AuthService
	codec       *snapshot.Codec
}

func NewAuthHandler(authService ports.AuthService, codec *snapshot.Codec) *AuthHandler {
	return &AuthHandler{authService: authService, codec: codec}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	RedirectTo string            `json:"redirect_to"`
	Company    *domain.Company   `json:"company,omitempty"`
	Admin      *domain.AdminUser `json:"admin,omitempty"`
	ExpiresAt  string            `json:"expires_at"`
}

// CompanyLogin handles POST /auth/company/login.
//
// @Summary      Company login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/company/login [post]
func (h *AuthHandler) CompanyLogin(c echo.Context) error {
	return h.login(c, domain.UserTypeCompany)
}

// AdminLogin handles POST /auth/admin/login.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, domain.UserTypeAdmin)
}

func (h *AuthHandler) login(c echo.Context, userType string) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), userType, req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(userType, "failure").Inc()
		return err
	}

	// The session row is already durable at this point; only now does the
	// snapshot reach the client.
	if err := h.codec.Write(c, result.Snapshot); err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues(userType, "success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		RedirectTo: result.RedirectTo,
		Company:    result.Company,
		Admin:      result.Admin,
		ExpiresAt:  result.Session.ExpiresAt.UTC().Format(time.RFC3339Nano),
	})
}

// Logout handles POST /auth/logout. Revocation is best effort: the snapshot
// cookie is cleared no matter what the session store says.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if snap, ok := h.codec.Read(c); ok {
		h.authService.Logout(c.Request().Context(), snap.Token)
	}
	h.codec.Clear(c)
	return c.NoContent(http.StatusNoContent)
}

type sessionResponse struct {
	UserType  string `json:"user_type"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	ExpiresAt string `json:"expires_at"`
}

// Session handles GET /auth/session. It revalidates the bearer token against
// the session store, so a row revoked elsewhere reads as logged out here.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	snap, ok := h.codec.Read(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	if !h.authService.ValidateToken(c.Request().Context(), snap.Token) {
		h.codec.Clear(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
	}

	return c.JSON(http.StatusOK, sessionResponse{
		UserType:  snap.UserType,
		UserID:    snap.UserID,
		Email:     snap.Email,
		Name:      snap.Name,
		Role:      snap.Role,
		ExpiresAt: snap.ExpiresAt.UTC().Format(time.RFC3339Nano),
	})
}
