package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/service"
)

// fakePoller blocks until released, then reports the configured outcome.
type fakePoller struct {
	release chan struct{}
	final   bool
	err     error
	calls   chan domain.ID
}

func newFakePoller() *fakePoller {
	return &fakePoller{release: make(chan struct{}), calls: make(chan domain.ID, 16)}
}

func (p *fakePoller) Watch(ctx context.Context, orderID domain.ID, onUpdate func(domain.PaymentState)) (service.PollResult[*domain.PaymentState], error) {
	p.calls <- orderID
	state := &domain.PaymentState{OrderID: orderID, Status: domain.PaymentPending}
	onUpdate(*state)

	select {
	case <-ctx.Done():
		return service.PollResult[*domain.PaymentState]{Value: state, Attempts: 1}, ctx.Err()
	case <-p.release:
	}
	if p.final {
		state = &domain.PaymentState{OrderID: orderID, Status: domain.PaymentPaid, IsFinal: true}
	}
	return service.PollResult[*domain.PaymentState]{Value: state, Attempts: 2, Final: p.final}, p.err
}

func waitForState(t *testing.T, w *Watcher, id domain.ID, want State) Watch {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := w.Get(id)
		if err == nil && got.State == want {
			return got
		}
		time.Sleep(2 * time.Millisecond)
	}
	got, _ := w.Get(id)
	t.Fatalf("watch %s: expected state %s, got %s", id, want, got.State)
	return Watch{}
}

func TestWatcher_StartIsIdempotent(t *testing.T) {
	p := newFakePoller()
	p.final = true
	w := NewWatcher(p, 4, zerolog.Nop())

	first, err := w.Watch("INV-1")
	if err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
	second, err := w.Watch("INV-1")
	if err != nil {
		t.Fatalf("second Watch returned error: %v", err)
	}
	if !first.StartedAt.Equal(second.StartedAt) {
		t.Fatalf("expected the running watch to be returned")
	}
	<-p.calls
	select {
	case id := <-p.calls:
		t.Fatalf("unexpected second poll for %s", id)
	default:
	}

	close(p.release)
	got := waitForState(t, w, "INV-1", StateFinal)
	if got.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", got.Attempts)
	}
	if got.Status != domain.PaymentPaid {
		t.Fatalf("expected status %s, got %s", domain.PaymentPaid, got.Status)
	}
	w.Wait()
}

func TestWatcher_StopCancels(t *testing.T) {
	p := newFakePoller()
	w := NewWatcher(p, 4, zerolog.Nop())

	if _, err := w.Watch("7"); err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
	<-p.calls
	if _, err := w.Stop("7"); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	waitForState(t, w, "7", StateCancelled)
	w.Wait()

	if _, err := w.Stop("missing"); !errors.Is(err, domain.ErrWatchNotFound) {
		t.Fatalf("expected ErrWatchNotFound, got %v", err)
	}
}

func TestWatcher_OwnerContextCancelsAll(t *testing.T) {
	p := newFakePoller()
	w := NewWatcher(p, 4, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	_, _ = w.Watch("a")
	_, _ = w.Watch("b")
	<-p.calls
	<-p.calls
	cancel()
	w.Wait()

	for _, watch := range w.List() {
		if watch.State != StateCancelled {
			t.Fatalf("expected %s cancelled, got %s", watch.OrderID, watch.State)
		}
	}
}

func TestWatcher_Cap(t *testing.T) {
	p := newFakePoller()
	w := NewWatcher(p, 1, zerolog.Nop())

	if _, err := w.Watch("a"); err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
	if _, err := w.Watch("b"); !errors.Is(err, domain.ErrTooManyWatches) {
		t.Fatalf("expected ErrTooManyWatches, got %v", err)
	}
	close(p.release)
	waitForState(t, w, "a", StateExpired)
	if _, err := w.Watch("b"); err != nil {
		t.Fatalf("slot should be free after expiry, got %v", err)
	}
	waitForState(t, w, "b", StateExpired)
	w.Wait()
}

func TestWatcher_FailedPoll(t *testing.T) {
	p := newFakePoller()
	p.err = domain.ErrSessionExpired
	close(p.release)
	w := NewWatcher(p, 1, zerolog.Nop())

	_, _ = w.Watch("x")
	got := waitForState(t, w, "x", StateFailed)
	if got.Error == "" {
		t.Fatalf("expected error text on failed watch")
	}
	w.Wait()
}

// lingeringPoller takes a while to return after its context is cancelled.
type lingeringPoller struct {
	calls chan domain.ID
}

func (p *lingeringPoller) Watch(ctx context.Context, orderID domain.ID, _ func(domain.PaymentState)) (service.PollResult[*domain.PaymentState], error) {
	p.calls <- orderID
	<-ctx.Done()
	time.Sleep(50 * time.Millisecond)
	return service.PollResult[*domain.PaymentState]{Attempts: 1}, ctx.Err()
}

func TestWatcher_RestartAfterStop(t *testing.T) {
	p := &lingeringPoller{calls: make(chan domain.ID, 4)}
	w := NewWatcher(p, 1, zerolog.Nop())

	if _, err := w.Watch("9"); err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
	<-p.calls
	if _, err := w.Stop("9"); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}

	restarted, err := w.Watch("9")
	if err != nil {
		t.Fatalf("restart returned error: %v", err)
	}
	if restarted.State != StateRunning {
		t.Fatalf("expected running, got %s", restarted.State)
	}
	select {
	case <-p.calls:
	case <-time.After(2 * time.Second):
		t.Fatalf("restart did not start a new poll")
	}

	// the first poll finishing late must not overwrite the new watch
	time.Sleep(100 * time.Millisecond)
	if got, _ := w.Get("9"); got.State != StateRunning {
		t.Fatalf("expected restarted watch running, got %s", got.State)
	}

	if _, err := w.Stop("9"); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	w.Wait()
	if got, _ := w.Get("9"); got.State != StateCancelled {
		t.Fatalf("expected cancelled, got %s", got.State)
	}
}
