package domain

import (
	"errors"
	"net/http"
)

// SessionExpiredMessage is the fixed message reported for every 401 answer,
// whatever the server put in the body.
const SessionExpiredMessage = "Session expired. Please login again."

// DefaultErrorMessage is used when a failed response carries no usable message.
const DefaultErrorMessage = "Request failed"

var (
	ErrSessionExpired     = errors.New("session expired")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNoSession          = errors.New("no session stored")
	ErrCorruptSession     = errors.New("stored session is corrupt")
	ErrValidation         = errors.New("validation failed")
	ErrAuthRejected       = errors.New("authentication rejected")
	ErrUnexpectedResponse = errors.New("unexpected response")
	ErrSuperseded         = errors.New("superseded by a newer request")
	ErrWatchNotFound      = errors.New("payment watch not found")
	ErrTooManyWatches     = errors.New("too many active payment watches")
)

// APIError is a non-2xx answer from the SMM backend. Message has already been
// extracted from the body and is safe to show to the user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrSessionExpired) match any 401 answer.
func (e *APIError) Is(target error) bool {
	return target == ErrSessionExpired && e.StatusCode == http.StatusUnauthorized
}

// StatusOf returns the HTTP status carried by err, or 0 when err did not come
// from the backend.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
