package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
)

// PollPolicy is a fixed-interval, bounded retry policy.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// PaymentPollPolicy checks every 5 seconds for about five minutes.
var PaymentPollPolicy = PollPolicy{Interval: 5 * time.Second, MaxAttempts: 60}

// PollResult is what a poll ended with. Final is false when the attempt cap
// was reached without a final answer.
type PollResult[T any] struct {
	Value    T
	Attempts int
	Final    bool
}

// Poll calls check immediately and then every policy.Interval until check
// reports done, ctx is cancelled, the session expires or MaxAttempts checks
// have run. Reaching the cap is not an error. Other check errors use up an
// attempt and polling goes on.
func Poll[T any](ctx context.Context, policy PollPolicy, check func(context.Context) (T, bool, error)) (PollResult[T], error) {
	var res PollResult[T]

	timer := time.NewTimer(0)
	defer timer.Stop()

	for res.Attempts < policy.MaxAttempts {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-timer.C:
		}

		res.Attempts++
		v, done, err := check(ctx)
		switch {
		case err == nil:
			res.Value = v
			if done {
				res.Final = true
				return res, nil
			}
		case errors.Is(err, domain.ErrSessionExpired):
			return res, err
		case ctx.Err() != nil:
			return res, ctx.Err()
		}

		timer.Reset(policy.Interval)
	}
	return res, nil
}

// Payment poll outcomes reported to the observer.
const (
	OutcomePaid      = "paid"
	OutcomeCancel    = "cancel"
	OutcomeFail      = "fail"
	OutcomeExpired   = "expired"
	OutcomeCancelled = "cancelled"
	OutcomeError     = "error"
)

// PaymentPoller watches one payment until it settles.
type PaymentPoller struct {
	payments ports.PaymentService
	policy   PollPolicy
	observer ports.Observer
	logger   zerolog.Logger
}

func NewPaymentPoller(payments ports.PaymentService, policy PollPolicy, observer ports.Observer, logger zerolog.Logger) *PaymentPoller {
	if policy.Interval <= 0 {
		policy.Interval = PaymentPollPolicy.Interval
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = PaymentPollPolicy.MaxAttempts
	}
	return &PaymentPoller{payments: payments, policy: policy, observer: observer, logger: logger}
}

// Watch polls orderID and hands every answer to onUpdate (which may be nil).
// It returns the last state seen and whether it was final.
func (p *PaymentPoller) Watch(ctx context.Context, orderID domain.ID, onUpdate func(domain.PaymentState)) (PollResult[*domain.PaymentState], error) {
	res, err := Poll(ctx, p.policy, func(ctx context.Context) (*domain.PaymentState, bool, error) {
		state, err := p.payments.Status(ctx, orderID)
		if err != nil {
			p.logger.Debug().Err(err).Str("order_id", orderID.String()).Msg("payment status check failed")
			return nil, false, err
		}
		if onUpdate != nil {
			onUpdate(*state)
		}
		return state, state.Final(), nil
	})

	outcome := p.outcome(res, err)
	if p.observer != nil {
		p.observer.PaymentPolled(outcome)
	}
	p.logger.Info().
		Str("order_id", orderID.String()).
		Str("outcome", outcome).
		Int("attempts", res.Attempts).
		Msg("payment poll finished")
	return res, err
}

func (p *PaymentPoller) outcome(res PollResult[*domain.PaymentState], err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	case err != nil:
		return OutcomeError
	case !res.Final:
		return OutcomeExpired
	}
	switch res.Value.Status {
	case domain.PaymentPaid:
		return OutcomePaid
	case domain.PaymentCancel:
		return OutcomeCancel
	case domain.PaymentFail:
		return OutcomeFail
	}
	// final by server flag with a status outside the known set
	return "final"
}
