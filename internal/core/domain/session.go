package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session is the client-held proof of authentication plus the cached profile.
type Session struct {
	Token         string          `json:"token"`
	User          *User           `json:"user"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	LoggedInAt    time.Time       `json:"logged_in_at"`
	// ExpiresAt is only known when the backend issues JWT-shaped tokens.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Authenticated reports whether both a token and a user record are present.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// Clone returns a deep copy so callers cannot mutate a store's state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	if s.ExpiresAt != nil {
		t := *s.ExpiresAt
		c.ExpiresAt = &t
	}
	return &c
}
