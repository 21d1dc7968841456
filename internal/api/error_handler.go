package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smmpanel/smm-client/internal/core/domain"
)

// errorResponse is the canonical error envelope for all agent errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler renders every error as {"error": "<message>"}. Known
// domain errors get their own status codes; anything else is logged and
// reported as a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrWatchNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrTooManyWatches):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, domain.SessionExpiredMessage
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, "client is not logged in"
	}

	// Backend 5xx and non-error codes surface as 502.
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.StatusCode
		if code < http.StatusBadRequest || code >= http.StatusInternalServerError {
			code = http.StatusBadGateway
		}
		return code, apiErr.Message
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
