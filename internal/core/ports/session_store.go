package ports

import (
	"context"

	"github.com/smmpanel/smm-client/internal/core/domain"
)

// SessionStore persists the single active session of a client profile.
type SessionStore interface {
	// Save overwrites any previously stored session.
	Save(ctx context.Context, s *domain.Session) error
	// Load returns domain.ErrNoSession when nothing is stored and
	// domain.ErrCorruptSession when the stored data cannot be decoded.
	Load(ctx context.Context) (*domain.Session, error)
	// Clear removes the session. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	// Ping checks that the backing storage is reachable.
	Ping(ctx context.Context) error
}

// TokenSource hands the current auth token to the transport and lets it drop
// the session when the backend answers 401.
type TokenSource interface {
	Token(ctx context.Context) string
	Invalidate(ctx context.Context)
}
