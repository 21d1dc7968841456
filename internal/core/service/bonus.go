package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
)

// DefaultBonusThreshold is the smallest amount the server is asked about.
var DefaultBonusThreshold = decimal.NewFromInt(5)

// Bonus quote results reported to the observer.
const (
	BonusSent           = "sent"
	BonusBelowThreshold = "below_threshold"
	BonusSuperseded     = "superseded"
	BonusError          = "error"
)

// BonusQuoter turns a stream of typed amounts into bonus quotes. Every call
// replaces the previous one: a request still in flight is cancelled and its
// caller gets domain.ErrSuperseded, so a stale answer never wins.
type BonusQuoter struct {
	payments  ports.PaymentService
	threshold decimal.Decimal
	debounce  time.Duration
	observer  ports.Observer

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelCauseFunc
}

func NewBonusQuoter(payments ports.PaymentService, threshold decimal.Decimal, debounce time.Duration, observer ports.Observer) *BonusQuoter {
	if threshold.IsZero() {
		threshold = DefaultBonusThreshold
	}
	return &BonusQuoter{payments: payments, threshold: threshold, debounce: debounce, observer: observer}
}

func (q *BonusQuoter) Quote(ctx context.Context, amount decimal.Decimal) (domain.BonusQuote, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	q.mu.Lock()
	if q.cancel != nil {
		q.cancel(domain.ErrSuperseded)
	}
	q.seq++
	seq := q.seq
	q.cancel = cancel
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		if q.seq == seq {
			q.cancel = nil
		}
		q.mu.Unlock()
		cancel(nil)
	}()

	if amount.LessThan(q.threshold) {
		q.observe(BonusBelowThreshold)
		return domain.NoBonus(amount), nil
	}

	if q.debounce > 0 {
		t := time.NewTimer(q.debounce)
		select {
		case <-ctx.Done():
			t.Stop()
			return domain.BonusQuote{}, q.cause(ctx)
		case <-t.C:
		}
	}

	quote, err := q.payments.CalculateBonus(ctx, amount)
	if err != nil {
		if ctx.Err() != nil {
			return domain.BonusQuote{}, q.cause(ctx)
		}
		q.observe(BonusError)
		return domain.BonusQuote{}, err
	}
	if q.superseded(seq) {
		q.observe(BonusSuperseded)
		return domain.BonusQuote{}, domain.ErrSuperseded
	}

	q.observe(BonusSent)
	return *quote, nil
}

func (q *BonusQuoter) superseded(seq uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.seq != seq
}

func (q *BonusQuoter) cause(ctx context.Context) error {
	err := context.Cause(ctx)
	if errors.Is(err, domain.ErrSuperseded) {
		q.observe(BonusSuperseded)
		return domain.ErrSuperseded
	}
	return err
}

func (q *BonusQuoter) observe(result string) {
	if q.observer != nil {
		q.observer.BonusQuoted(result)
	}
}
