package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/smmpanel/smm-client/internal/api/middleware"
)

// actor names the caller for audit logs. Without agent auth every caller is
// anonymous.
func actor(c echo.Context) string {
	if sub, _ := c.Get(middleware.SubjectKey).(string); sub != "" {
		return sub
	}
	return "anonymous"
}
