// Package snapshot implements the client-side session cache: a single named
// cookie holding a signed copy of the active session. The cookie is the only
// durable client state; every reader must tolerate absence, tampering, and
// expiry, all of which read back as "no snapshot".
package snapshot

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/dawerha/dawerha-api/internal/core/domain"
)

// CookieName is the single client-side slot for the session snapshot.
const CookieName = "dawerha_session"

// Codec signs and parses the snapshot cookie. The payload is an HS256 JWT
// whose claim names mirror the snapshot JSON keys exactly.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Write stores the snapshot in the session cookie. The cookie expires with
// the session; its JWT exp claim enforces the same bound on read.
func (cd *Codec) Write(c echo.Context, snap domain.SessionSnapshot) error {
	claims := jwt.MapClaims{
		"token":     snap.Token,
		"userType":  snap.UserType,
		"userId":    snap.UserID,
		"email":     snap.Email,
		"name":      snap.Name,
		"expiresAt": snap.ExpiresAt.Format(time.RFC3339Nano),
		"exp":       snap.ExpiresAt.Unix(),
	}
	if snap.Role != "" {
		claims["role"] = snap.Role
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cd.secret)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  snap.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read parses the snapshot cookie. Missing, malformed, forged, or expired
// cookies are cleared and reported as absent; Read never fails outward.
func (cd *Codec) Read(c echo.Context) (*domain.SessionSnapshot, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return cd.secret, nil
	})
	if err != nil || !parsed.Valid {
		cd.Clear(c)
		return nil, false
	}

	snap := &domain.SessionSnapshot{
		Token:    stringClaim(claims, "token"),
		UserType: stringClaim(claims, "userType"),
		UserID:   stringClaim(claims, "userId"),
		Email:    stringClaim(claims, "email"),
		Name:     stringClaim(claims, "name"),
		Role:     stringClaim(claims, "role"),
	}
	expiresAt, perr := time.Parse(time.RFC3339Nano, stringClaim(claims, "expiresAt"))
	if perr != nil || snap.Token == "" || snap.UserType == "" {
		cd.Clear(c)
		return nil, false
	}
	snap.ExpiresAt = expiresAt

	if snap.Expired(time.Now().UTC()) {
		cd.Clear(c)
		return nil, false
	}
	return snap, true
}

// Clear removes the snapshot cookie. Clearing an absent cookie is a no-op.
func (cd *Codec) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
