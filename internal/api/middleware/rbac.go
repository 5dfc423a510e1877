package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(deny DeniedFunc, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := SessionFrom(c)
			if session == nil {
				return deny(c, http.StatusUnauthorized, "missing session")
			}
			if _, ok := allowed[session.Role]; !ok {
				return deny(c, http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
