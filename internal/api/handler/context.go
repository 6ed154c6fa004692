package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dawerha/dawerha-api/internal/api/middleware"
	"github.com/dawerha/dawerha-api/internal/core/domain"
)

// ctxSession extracts the snapshot injected by the RequireSession guard.
// Its presence proves the guard ran; a handler wired onto a guarded group
// without it is a routing bug, answered with 401 rather than a panic.
func ctxSession(c echo.Context) (domain.SessionSnapshot, error) {
	snap, ok := c.Get(middleware.SessionKey).(domain.SessionSnapshot)
	if !ok || snap.Token == "" {
		return domain.SessionSnapshot{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return snap, nil
}

// requireOwner checks that the company session owns the :id resource.
func requireOwner(c echo.Context, companyID string) (domain.SessionSnapshot, error) {
	snap, err := ctxSession(c)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	if snap.UserType != domain.UserTypeAdmin && snap.UserID != companyID {
		return domain.SessionSnapshot{}, domain.ErrForbidden
	}
	return snap, nil
}
