package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
	"github.com/smmpanel/smm-client/internal/infrastructure/session"
)

const collectionSessions = "client_sessions"

// SessionStore keeps one document per client profile, keyed by profile name.
type SessionStore struct {
	col     *mongo.Collection
	profile string
	ttl     time.Duration
	codec   session.Codec
}

var _ ports.SessionStore = (*SessionStore)(nil)

type sessionDoc struct {
	Profile   string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	Username  string    `bson:"username,omitempty"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewSessionStore(db *mongo.Database, profile string, ttl time.Duration, codec session.Codec) *SessionStore {
	return &SessionStore{
		col:     db.Collection(collectionSessions),
		profile: profile,
		ttl:     ttl,
		codec:   codec,
	}
}

// Save upserts the profile's document.
func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	data, err := s.codec.Encode(sess)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := sessionDoc{Profile: s.profile, Payload: data, UpdatedAt: time.Now().UTC()}
	if sess.User != nil && !s.codec.Sealed() {
		doc.Username = sess.User.Username
	}

	_, err = s.col.ReplaceOne(ctx, bson.M{"_id": s.profile}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc sessionDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": s.profile}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s.ttl > 0 && time.Since(doc.UpdatedAt) > s.ttl {
		return nil, domain.ErrNoSession
	}
	return s.codec.Decode(doc.Payload)
}

func (s *SessionStore) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": s.profile}); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.col.Database().Client().Ping(ctx, nil)
}

// EnsureIndexes adds a TTL index on updated_at when sessions expire.
func (s *SessionStore) EnsureIndexes(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(expireAfterSeconds(s.ttl)),
	}
	_, err := s.col.Indexes().CreateOne(ctx, index)
	return err
}

// expireAfterSeconds converts ttl to whole seconds within the range a TTL
// index accepts.
func expireAfterSeconds(ttl time.Duration) int32 {
	secs := int64(ttl / time.Second)
	switch {
	case secs < 1:
		return 1
	case secs > math.MaxInt32:
		return math.MaxInt32
	}
	return int32(secs)
}
