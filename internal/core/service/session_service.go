package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
)

// SessionService is the process's view of the stored session. It is the
// only writer of the session store and doubles as the transport's token
// source.
type SessionService struct {
	store  ports.SessionStore
	logger zerolog.Logger
	now    func() time.Time

	// serialises read-modify-write cycles within this process
	mu sync.Mutex
}

var _ ports.TokenSource = (*SessionService)(nil)

func NewSessionService(store ports.SessionStore, logger zerolog.Logger) *SessionService {
	return &SessionService{store: store, logger: logger, now: time.Now}
}

// Open replaces any stored session with a fresh one.
func (s *SessionService) Open(ctx context.Context, token string, user *domain.User, balance decimal.Decimal) (*domain.Session, error) {
	sess := &domain.Session{
		Token:         token,
		User:          user,
		WalletBalance: balance,
		LoggedInAt:    s.now().UTC(),
		ExpiresAt:     tokenExpiry(token),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	ev := s.logger.Info()
	if user != nil {
		ev = ev.Str("username", user.Username)
	}
	ev.Msg("session opened")
	return sess.Clone(), nil
}

// Refresh replaces the cached user record.
func (s *SessionService) Refresh(ctx context.Context, user *domain.User) error {
	return s.update(ctx, func(sess *domain.Session) {
		sess.User = user
	})
}

// UpdateBalance replaces the cached wallet balance.
func (s *SessionService) UpdateBalance(ctx context.Context, balance decimal.Decimal) error {
	return s.update(ctx, func(sess *domain.Session) {
		sess.WalletBalance = balance
	})
}

func (s *SessionService) update(ctx context.Context, mutate func(*domain.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) || errors.Is(err, domain.ErrCorruptSession) {
			return domain.ErrNotAuthenticated
		}
		return err
	}
	mutate(sess)
	return s.store.Save(ctx, sess)
}

// Close drops the session. Closing without a session is not an error.
func (s *SessionService) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info().Msg("session closed")
	return nil
}

// Current returns a copy of the stored session, or nil when there is none
// or it cannot be read.
func (s *SessionService) Current(ctx context.Context) *domain.Session {
	sess, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNoSession) {
			s.logger.Warn().Err(err).Msg("session unreadable")
		}
		return nil
	}
	return sess
}

func (s *SessionService) Token(ctx context.Context) string {
	if sess := s.Current(ctx); sess != nil {
		return sess.Token
	}
	return ""
}

func (s *SessionService) User(ctx context.Context) *domain.User {
	if sess := s.Current(ctx); sess != nil {
		return sess.User
	}
	return nil
}

// IsAuthenticated is true iff both a token and a user are stored.
func (s *SessionService) IsAuthenticated(ctx context.Context) bool {
	return s.Current(ctx).Authenticated()
}

// Invalidate is called by the transport on a 401.
func (s *SessionService) Invalidate(ctx context.Context) {
	if err := s.Close(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear expired session")
		return
	}
	s.logger.Warn().Msg("session expired")
}

// tokenExpiry reads the exp claim of JWT-shaped tokens without verifying
// them. Opaque tokens have no known expiry.
func tokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time.UTC()
	return &t
}
