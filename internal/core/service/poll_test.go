package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/smmpanel/smm-client/internal/core/domain"
)

var fastPolicy = PollPolicy{Interval: time.Millisecond, MaxAttempts: 60}

func newPoller(f *fixture, obs *recordingObserver) *PaymentPoller {
	payments := NewPaymentService(f.api, f.validate, zerolog.Nop())
	return NewPaymentPoller(payments, fastPolicy, obs, zerolog.Nop())
}

func TestPaymentPoller_StopsOnFinal(t *testing.T) {
	f := newFixture()
	f.api.
		on("GET", "payments/INV-1/status/", `{"status":"pending","is_final":false}`).
		on("GET", "payments/INV-1/status/", `{"status":"pending","is_final":false}`).
		on("GET", "payments/INV-1/status/", `{"status":"paid","is_final":true}`)
	obs := &recordingObserver{}

	var seen []domain.PaymentStatus
	res, err := newPoller(f, obs).Watch(context.Background(), "INV-1", func(s domain.PaymentState) {
		seen = append(seen, s.Status)
	})
	if err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
	if !res.Final || res.Value.Status != domain.PaymentPaid {
		t.Fatalf("expected final paid, got %+v", res)
	}
	if res.Attempts != 3 || len(seen) != 3 {
		t.Fatalf("expected 3 checks, got %d attempts and %d updates", res.Attempts, len(seen))
	}
	if len(obs.payments) != 1 || obs.payments[0] != OutcomePaid {
		t.Fatalf("expected paid outcome, got %v", obs.payments)
	}
}

func TestPaymentPoller_StatusAloneIsFinal(t *testing.T) {
	f := newFixture()
	f.api.on("GET", "payments/9/status/", `{"status":"cancel"}`)

	res, err := newPoller(f, nil).Watch(context.Background(), "9", nil)
	if err != nil || !res.Final || res.Attempts != 1 {
		t.Fatalf("expected final after one check, got %+v, %v", res, err)
	}
}

func TestPaymentPoller_StopsSilentlyAtCap(t *testing.T) {
	f := newFixture()
	f.api.on("GET", "payments/7/status/", `{"status":"pending","is_final":false}`)
	obs := &recordingObserver{}

	res, err := newPoller(f, obs).Watch(context.Background(), "7", nil)
	if err != nil {
		t.Fatalf("cap must not be an error, got %v", err)
	}
	if res.Final {
		t.Fatalf("expected non-final result")
	}
	if got := f.api.count("GET", "payments/7/status/"); got != 60 {
		t.Fatalf("expected exactly 60 checks, got %d", got)
	}
	if obs.payments[0] != OutcomeExpired {
		t.Fatalf("expected expired outcome, got %v", obs.payments)
	}
}

func TestPoll_TransientErrorsUseAttempts(t *testing.T) {
	calls := 0
	res, err := Poll(context.Background(), PollPolicy{Interval: time.Millisecond, MaxAttempts: 5}, func(context.Context) (int, bool, error) {
		calls++
		if calls < 3 {
			return 0, false, errors.New("connection reset")
		}
		return calls, true, nil
	})
	if err != nil || !res.Final || res.Value != 3 || res.Attempts != 3 {
		t.Fatalf("unexpected result %+v, %v", res, err)
	}
}

func TestPoll_SessionExpiredStops(t *testing.T) {
	f := newFixture()
	f.login("abc", "alice")
	f.api.fail("GET", "payments/7/status/", errSessionExpired)

	res, err := newPoller(f, nil).Watch(context.Background(), "7", nil)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if res.Attempts != 1 {
		t.Fatalf("expected to stop after first check, got %d", res.Attempts)
	}
	if f.session.IsAuthenticated(context.Background()) {
		t.Fatalf("expected session cleared")
	}
}

func TestPoll_CancelledByOwner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Poll(ctx, PollPolicy{Interval: time.Hour, MaxAttempts: 10}, func(context.Context) (struct{}, bool, error) {
		calls++
		cancel()
		return struct{}{}, false, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one check, got %d", calls)
	}
}

func TestSMSService_WaitForCode(t *testing.T) {
	f := newFixture()
	f.api.
		on("GET", "sms/rentals/r1/", `{"rental_id":"r1","status":"waiting"}`).
		on("GET", "sms/rentals/r1/", `{"rental_id":"r1","status":"received","code":"481516"}`)

	res, err := NewSMSService(f.api, f.validate).WaitForCode(context.Background(), "r1", fastPolicy)
	if err != nil || !res.Final || res.Value.Code != "481516" {
		t.Fatalf("unexpected result %+v, %v", res, err)
	}
}
