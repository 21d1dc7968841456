package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smmpanel/smm-client/internal/core/domain"
)

// SessionReader returns the stored session or nil.
type SessionReader interface {
	Current(ctx context.Context) *domain.Session
}

// SessionHandler exposes the active client session without its token.
type SessionHandler struct {
	sessions SessionReader
}

func NewSessionHandler(sessions SessionReader) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Get handles GET /api/v1/session.
//
// @Summary      Show the active client session
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	s := h.sessions.Current(c.Request().Context())
	if !s.Authenticated() {
		return c.JSON(http.StatusOK, sessionResponse{Authenticated: false})
	}

	loggedIn := s.LoggedInAt
	resp := sessionResponse{
		Authenticated: true,
		Username:      s.User.Username,
		Email:         s.User.Email,
		DisplayName:   s.User.DisplayName(),
		WalletBalance: s.WalletBalance.StringFixed(2),
		ExpiresAt:     s.ExpiresAt,
	}
	if !loggedIn.IsZero() {
		resp.LoggedInAt = &loggedIn
	}
	return c.JSON(http.StatusOK, resp)
}
