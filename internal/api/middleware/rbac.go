package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// ReadRoles may inspect the session and watches; WriteRoles may also start
// and stop payment watches.
var (
	ReadRoles  = []string{RoleViewer, RoleOperator}
	WriteRoles = []string{RoleOperator}
)

// RBAC admits a request only when the role claim Auth stored under RoleKey is
// one of roles. Tokens without a role claim are refused.
func RBAC(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(string)
			if role == "" || !slices.Contains(roles, role) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
