package service

import (
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/smmpanel/smm-client/internal/core/domain"
)

// ackResult is the {success, message} envelope most write endpoints answer
// with. A missing success flag counts as success since the status was 2xx.
type ackResult struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (a ackResult) err() error {
	if a.Success == nil || *a.Success {
		return nil
	}
	msg := a.Message
	if msg == "" {
		msg = domain.DefaultErrorMessage
	}
	return &domain.APIError{StatusCode: http.StatusOK, Message: msg}
}

// authResult is the answer to login and registration.
type authResult struct {
	Success       *bool               `json:"success"`
	Token         string              `json:"token"`
	User          *domain.User        `json:"user"`
	WalletBalance decimal.NullDecimal `json:"wallet_balance"`
	Message       string              `json:"message"`
}

// accepted reports whether the answer opens a session: a token and a user
// must both be present and success, when sent, must be true.
func (r authResult) accepted() bool {
	if r.Success != nil && !*r.Success {
		return false
	}
	return r.Token != "" && r.User != nil
}

func (r authResult) balance() decimal.Decimal {
	if r.WalletBalance.Valid {
		return r.WalletBalance.Decimal
	}
	return decimal.Zero
}

type profileResult struct {
	User *domain.User `json:"user"`
}

type placedOrderResult struct {
	OrderID    domain.ID           `json:"order_id"`
	Charge     decimal.Decimal     `json:"charge"`
	NewBalance decimal.NullDecimal `json:"new_balance"`
	Message    string              `json:"message"`
}

// pathID escapes an id for use as a path segment.
func pathID(id domain.ID) string {
	return url.PathEscape(id.String())
}
