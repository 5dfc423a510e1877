package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/useradmin/user-admin-dashboard/internal/api/middleware"
	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
)

// ctxSession returns the claims injected by the Auth middleware. A missing
// session means the route was mounted without the gate; reject with 401.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s := middleware.SessionFrom(c)
	if s == nil || s.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return s, nil
}

// bindAndValidate decodes the request body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(req); err != nil {
			return err
		}
	}
	return nil
}
