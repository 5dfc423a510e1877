package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
)

// sessionKey is the echo.Context key holding the verified *domain.Session.
const sessionKey = "session"

// SessionVerifier turns a raw token into verified session claims.
type SessionVerifier interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// DeniedFunc renders the response for a request that fails the gate.
type DeniedFunc func(c echo.Context, status int, msg string) error

// DenyJSON rejects a role mismatch with domain.ErrForbidden and anything else
// with an echo.HTTPError. The error handler renders both as {"error": msg}.
func DenyJSON(_ echo.Context, status int, msg string) error {
	if status == http.StatusForbidden {
		return domain.ErrForbidden
	}
	return echo.NewHTTPError(status, msg)
}

// DenyRedirect sends interactive requests to the sign-in page.
func DenyRedirect(to string) DeniedFunc {
	return func(c echo.Context, _ int, _ string) error {
		return c.Redirect(http.StatusSeeOther, to)
	}
}

// Auth validates the session token from the Authorization header or the
// session cookie and stores the claims in the context.
func Auth(verifier SessionVerifier, deny DeniedFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := tokenFromRequest(c)
			if err != nil {
				return deny(c, http.StatusUnauthorized, err.Error())
			}

			session, err := verifier.Authenticate(c.Request().Context(), raw)
			if err != nil {
				return deny(c, http.StatusUnauthorized, "invalid or expired session")
			}

			WithSession(c, session)
			return next(c)
		}
	}
}

// SessionFrom returns the claims stored by Auth, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	s, _ := c.Get(sessionKey).(*domain.Session)
	return s
}

// WithSession stores s the way Auth does.
func WithSession(c echo.Context, s *domain.Session) {
	c.Set(sessionKey, s)
}

func tokenFromRequest(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			return "", errors.New("invalid authorization header")
		}
		return parts[1], nil
	}

	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", errMissingSession
}

var errMissingSession = errors.New("missing session")
