package handler

import (
	"time"

	"github.com/smmpanel/smm-client/internal/infrastructure/queue"
)

// errorResponse documents the envelope rendered by the agent error handler.
type errorResponse struct {
	Error string `json:"error"`
}

type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Username      string     `json:"username,omitempty"`
	Email         string     `json:"email,omitempty"`
	DisplayName   string     `json:"display_name,omitempty"`
	WalletBalance string     `json:"wallet_balance,omitempty"`
	LoggedInAt    *time.Time `json:"logged_in_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

type watchListResponse struct {
	Watches []queue.Watch `json:"watches"`
}

// watchParams binds the order id path segment.
type watchParams struct {
	OrderID string `param:"order_id" json:"order_id" validate:"required,max=64,printascii"`
}
