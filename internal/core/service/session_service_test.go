package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/infrastructure/session"
)

// brokenStore always fails to decode, like a corrupt session file.
type brokenStore struct {
	*session.MemoryStore
}

func (brokenStore) Load(context.Context) (*domain.Session, error) {
	return nil, domain.ErrCorruptSession
}

func TestSessionService_ReadsAreBestEffort(t *testing.T) {
	svc := NewSessionService(brokenStore{session.NewMemoryStore()}, zerolog.Nop())
	ctx := context.Background()

	if svc.Token(ctx) != "" || svc.User(ctx) != nil || svc.Current(ctx) != nil {
		t.Fatalf("expected empty values from a corrupt store")
	}
	if svc.IsAuthenticated(ctx) {
		t.Fatalf("corrupt store must not authenticate")
	}
	if err := svc.Refresh(ctx, &domain.User{Username: "x"}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSessionService_AuthenticatedNeedsTokenAndUser(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(session.NewMemoryStore(), zerolog.Nop())

	if _, err := svc.Open(ctx, "abc", nil, decimal.Zero); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if svc.IsAuthenticated(ctx) {
		t.Fatalf("token without user must not authenticate")
	}

	if _, err := svc.Open(ctx, "", &domain.User{Username: "alice"}, decimal.Zero); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if svc.IsAuthenticated(ctx) {
		t.Fatalf("user without token must not authenticate")
	}

	if _, err := svc.Open(ctx, "abc", &domain.User{Username: "alice"}, decimal.Zero); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if !svc.IsAuthenticated(ctx) {
		t.Fatalf("expected authenticated")
	}
}

func TestSessionService_UpdatesKeepToken(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(session.NewMemoryStore(), zerolog.Nop())

	if err := svc.UpdateBalance(ctx, decimal.NewFromInt(3)); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated without a session, got %v", err)
	}

	_, _ = svc.Open(ctx, "abc", &domain.User{Username: "alice"}, decimal.NewFromInt(10))
	if err := svc.UpdateBalance(ctx, decimal.RequireFromString("7.25")); err != nil {
		t.Fatalf("UpdateBalance returned error: %v", err)
	}
	if err := svc.Refresh(ctx, &domain.User{Username: "alice", FirstName: "Alice"}); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	cur := svc.Current(ctx)
	if cur.Token != "abc" {
		t.Fatalf("expected token kept, got %q", cur.Token)
	}
	if !cur.WalletBalance.Equal(decimal.RequireFromString("7.25")) {
		t.Fatalf("expected balance 7.25, got %s", cur.WalletBalance)
	}
	if cur.User.FirstName != "Alice" {
		t.Fatalf("expected refreshed user, got %+v", cur.User)
	}
}

func TestSessionService_OpaqueTokenHasNoExpiry(t *testing.T) {
	if exp := tokenExpiry("9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b"); exp != nil {
		t.Fatalf("expected nil expiry, got %v", exp)
	}
}
