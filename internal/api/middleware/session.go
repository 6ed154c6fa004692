package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dawerha/dawerha-api/internal/api/metrics"
	"github.com/dawerha/dawerha-api/internal/api/snapshot"
	"github.com/dawerha/dawerha-api/internal/core/domain"
	"github.com/dawerha/dawerha-api/internal/core/ports"
)

// SessionKey is the context key under which RequireSession stores the
// validated snapshot for downstream handlers.
const SessionKey = "session"

// loginPath maps the guarded area to the page an unauthenticated
// browser should land on.
func loginPath(areaUserType string) string {
	if areaUserType == domain.UserTypeAdmin {
		return "/admin/login"
	}
	return "/login"
}

// wantsHTML reports whether the request came from a browser navigation
// rather than an API client. Redirects only make sense for the former.
func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

// RequireSession guards a route group behind a live session of one of the
// allowed user types. The first type names the area and decides which
// login page unauthenticated browsers land on; admins are additionally
// allowed into company areas so ownership checks in the handlers can
// grant them cross-account access. The check runs in two stages: the
// snapshot cookie is read locally first, and only when its user type is
// allowed is the bearer token validated remotely. A snapshot of the
// wrong type is rejected without a remote call, so a logged-in company
// probing admin routes never costs a session lookup.
func RequireSession(codec *snapshot.Codec, auth ports.AuthService, userTypes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap, ok := codec.Read(c)
			if !ok {
				if wantsHTML(c) {
					return c.Redirect(http.StatusFound, loginPath(userTypes[0]))
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			allowed := false
			for _, ut := range userTypes {
				if snap.UserType == ut {
					allowed = true
					break
				}
			}
			if !allowed {
				if wantsHTML(c) {
					return c.Redirect(http.StatusFound, "/")
				}
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}

			if !auth.ValidateToken(c.Request().Context(), snap.Token) {
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				codec.Clear(c)
				if wantsHTML(c) {
					return c.Redirect(http.StatusFound, loginPath(userTypes[0]))
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
			c.Set(SessionKey, *snap)
			return next(c)
		}
	}
}
