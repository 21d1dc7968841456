package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/smmpanel/smm-client/internal/core/domain"
)

// blockingPayments answers CalculateBonus only when released, so tests can
// overlap requests deterministically.
type blockingPayments struct {
	PaymentService
	started chan decimal.Decimal
	release chan struct{}
}

func (p *blockingPayments) CalculateBonus(ctx context.Context, amount decimal.Decimal) (*domain.BonusQuote, error) {
	p.started <- amount
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.release:
	}
	bonus := amount.Mul(decimal.NewFromFloat(0.1))
	return &domain.BonusQuote{Amount: amount, BonusPercentage: decimal.NewFromInt(10), BonusAmount: bonus, TotalAmount: amount.Add(bonus)}, nil
}

func TestBonusQuoter_BelowThresholdSkipsNetwork(t *testing.T) {
	f := newFixture()
	obs := &recordingObserver{}
	q := NewBonusQuoter(NewPaymentService(f.api, f.validate, zerolog.Nop()), decimal.Zero, 0, obs)

	quote, err := q.Quote(context.Background(), decimal.RequireFromString("4.99"))
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if !quote.BonusAmount.IsZero() || !quote.TotalAmount.Equal(decimal.RequireFromString("4.99")) {
		t.Fatalf("expected zero bonus quote, got %+v", quote)
	}
	if len(f.api.calls) != 0 {
		t.Fatalf("expected no network call")
	}
	if obs.bonuses[0] != BonusBelowThreshold {
		t.Fatalf("unexpected observation %v", obs.bonuses)
	}
}

func TestBonusQuoter_SendsExactAmount(t *testing.T) {
	f := newFixture()
	f.api.on("POST", "payments/calculate-bonus/", `{"bonus_percentage":"10","bonus_amount":"2.50","total_amount":"27.50"}`)
	q := NewBonusQuoter(NewPaymentService(f.api, f.validate, zerolog.Nop()), decimal.Zero, 0, nil)

	quote, err := q.Quote(context.Background(), decimal.RequireFromString("25.00"))
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if !quote.TotalAmount.Equal(decimal.RequireFromString("27.5")) {
		t.Fatalf("unexpected quote %+v", quote)
	}
	if body := f.api.last().body; body != `{"amount":25}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestBonusQuoter_NewerCallSupersedesInFlight(t *testing.T) {
	payments := &blockingPayments{started: make(chan decimal.Decimal, 2), release: make(chan struct{})}
	obs := &recordingObserver{}
	q := NewBonusQuoter(payments, decimal.Zero, 0, obs)
	ctx := context.Background()

	firstErr := make(chan error, 1)
	go func() {
		_, err := q.Quote(ctx, decimal.NewFromInt(10))
		firstErr <- err
	}()
	<-payments.started

	secondDone := make(chan domain.BonusQuote, 1)
	go func() {
		quote, err := q.Quote(ctx, decimal.NewFromInt(100))
		if err != nil {
			t.Errorf("second Quote returned error: %v", err)
		}
		secondDone <- quote
	}()

	select {
	case err := <-firstErr:
		if !errors.Is(err, domain.ErrSuperseded) {
			t.Fatalf("expected ErrSuperseded, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("first quote was not cancelled")
	}

	<-payments.started
	close(payments.release)
	quote := <-secondDone
	if !quote.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected quote for 100, got %+v", quote)
	}
}

func TestBonusQuoter_DebounceDropsIntermediateInput(t *testing.T) {
	payments := &blockingPayments{started: make(chan decimal.Decimal, 2), release: make(chan struct{})}
	close(payments.release)
	q := NewBonusQuoter(payments, decimal.Zero, 50*time.Millisecond, nil)
	ctx := context.Background()

	firstErr := make(chan error, 1)
	go func() {
		_, err := q.Quote(ctx, decimal.NewFromInt(6))
		firstErr <- err
	}()
	waitForSeq(q, 1)

	quote, err := q.Quote(ctx, decimal.NewFromInt(60))
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if !quote.Amount.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("unexpected quote %+v", quote)
	}
	if err := <-firstErr; !errors.Is(err, domain.ErrSuperseded) {
		t.Fatalf("expected first call superseded, got %v", err)
	}
	if got := <-payments.started; !got.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected only the last amount to be sent, got %s", got)
	}
	select {
	case extra := <-payments.started:
		t.Fatalf("unexpected extra request for %s", extra)
	default:
	}
}

func waitForSeq(q *BonusQuoter, seq uint64) {
	for {
		q.mu.Lock()
		cur := q.seq
		q.mu.Unlock()
		if cur >= seq {
			return
		}
		time.Sleep(time.Millisecond)
	}
}
