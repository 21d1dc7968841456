package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/infrastructure/session"
)

// fakeRedis implements the few commands the session store uses.
type fakeRedis struct {
	redis.Cmdable
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	store := NewSessionStore(fake, "work", time.Hour, session.NewCodec(""))

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, domain.ErrNoSession)

	in := &domain.Session{
		Token:         "abc",
		User:          &domain.User{Username: "alice"},
		WalletBalance: decimal.RequireFromString("12.50"),
	}
	require.NoError(t, store.Save(ctx, in))
	require.Contains(t, fake.data, "smm:session:work")
	require.Equal(t, time.Hour, fake.ttls["smm:session:work"])

	out, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc", out.Token)
	require.Equal(t, "alice", out.User.Username)
	require.True(t, out.WalletBalance.Equal(in.WalletBalance))

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	require.ErrorIs(t, err, domain.ErrNoSession)
	require.NoError(t, store.Ping(ctx))
}

func TestSessionStore_CorruptValue(t *testing.T) {
	fake := newFakeRedis()
	fake.data["smm:session:default"] = "{not json"
	store := NewSessionStore(fake, "default", 0, session.NewCodec(""))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrCorruptSession)
}

func TestConfig_Options(t *testing.T) {
	opts, err := Config{Addr: "localhost:6379", DB: 2, Password: "pw"}.options()
	require.NoError(t, err)
	require.Equal(t, "localhost:6379", opts.Addr)
	require.Equal(t, 2, opts.DB)
	require.Equal(t, "pw", opts.Password)

	opts, err = Config{Addr: "redis://:secret@cache:6380/3", DB: 9}.options()
	require.NoError(t, err)
	require.Equal(t, "cache:6380", opts.Addr)
	require.Equal(t, 3, opts.DB)
	require.Equal(t, "secret", opts.Password)

	_, err = Config{Addr: "redis://cache:6380/not-a-db"}.options()
	require.Error(t, err)
}
