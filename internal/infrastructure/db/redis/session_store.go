package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
	"github.com/smmpanel/smm-client/internal/infrastructure/session"
)

// SessionStore keeps one profile's session under a single key.
// Key format: smm:session:<profile>
type SessionStore struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
	codec  session.Codec
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore wraps client for the given profile. A zero ttl keeps the
// session until it is cleared.
func NewSessionStore(client redis.Cmdable, profile string, ttl time.Duration, codec session.Codec) *SessionStore {
	return &SessionStore{
		client: client,
		key:    fmt.Sprintf("smm:session:%s", profile),
		ttl:    ttl,
		codec:  codec,
	}
}

func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	data, err := s.codec.Encode(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s.codec.Decode(data)
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
