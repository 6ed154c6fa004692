package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, "session expired"
	case errors.Is(err, domain.ErrAccountNotApproved):
		return http.StatusForbidden, "account pending approval"
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusForbidden, "account deactivated"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrCompanyNotActive):
		return http.StatusForbidden, "wheel is not active right now"
	case errors.Is(err, domain.ErrInfluencerNotActive):
		return http.StatusForbidden, "influencer is not active right now"
	case errors.Is(err, domain.ErrCompanyNotFound):
		return http.StatusNotFound, "company not found"
	case errors.Is(err, domain.ErrInfluencerNotFound):
		return http.StatusNotFound, "influencer not found"
	case errors.Is(err, domain.ErrAdminNotFound):
		return http.StatusNotFound, "admin not found"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrSlugTaken):
		return http.StatusConflict, "slug already taken"
	case errors.Is(err, domain.ErrSpinThrottled):
		return http.StatusTooManyRequests, "you already spun recently"
	case errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrVisitorNameRequired),
		errors.Is(err, domain.ErrNoPrizes),
		errors.Is(err, domain.ErrInvalidPrizeConfig),
		errors.Is(err, domain.ErrInvalidSchedule),
		errors.Is(err, domain.ErrInvalidActiveHours),
		errors.Is(err, domain.ErrInvalidCompanyType),
		errors.Is(err, domain.ErrInvalidPlatform),
		errors.Is(err, domain.ErrNoParticipants):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
