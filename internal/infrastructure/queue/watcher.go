package queue

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smmpanel/smm-client/internal/api/metrics"
	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/service"
)

const defaultMaxWatches = 8

type State string

const (
	StateRunning   State = "running"
	StateFinal     State = "final"
	StateExpired   State = "expired"
	StateCancelled State = "cancelled"
	StateFailed    State = "failed"
)

// Watch is a snapshot of one payment watch. Status carries the payment
// outcome once State is final.
type Watch struct {
	OrderID   domain.ID            `json:"order_id"`
	State     State                `json:"state"`
	Status    domain.PaymentStatus `json:"status,omitempty"`
	Attempts  int                  `json:"attempts"`
	StartedAt time.Time            `json:"started_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	Error     string               `json:"error,omitempty"`
}

// PaymentPoller is the polling loop a watch runs.
type PaymentPoller interface {
	Watch(ctx context.Context, orderID domain.ID, onUpdate func(domain.PaymentState)) (service.PollResult[*domain.PaymentState], error)
}

type entry struct {
	watch  Watch
	ctx    context.Context
	cancel context.CancelFunc
}

// live reports whether the poll is running and has not been told to stop.
func (e *entry) live() bool {
	return e.watch.State == StateRunning && e.ctx.Err() == nil
}

// Watcher owns the background payment polls. Each order id has at most one
// running watch; every watch is cancelled when the owner context ends.
type Watcher struct {
	poller PaymentPoller
	max    int
	log    zerolog.Logger

	mu      sync.Mutex
	owner   context.Context
	watches map[domain.ID]*entry
	wg      sync.WaitGroup
}

// NewWatcher creates a Watcher running at most maxWatches polls at once.
// If maxWatches <= 0, defaultMaxWatches is used.
func NewWatcher(poller PaymentPoller, maxWatches int, log zerolog.Logger) *Watcher {
	if maxWatches <= 0 {
		maxWatches = defaultMaxWatches
	}
	return &Watcher{
		poller:  poller,
		max:     maxWatches,
		log:     log,
		owner:   context.Background(),
		watches: make(map[domain.ID]*entry),
	}
}

// Start binds all future watches to ctx. Watches started before Start keep
// their previous owner.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.owner = ctx
}

// Watch starts polling orderID. Starting a watch that is already running
// returns the running one; a stopped watch that is still winding down is
// replaced.
func (w *Watcher) Watch(orderID domain.ID) (Watch, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if e, ok := w.watches[orderID]; ok && e.live() {
		return e.watch, nil
	}
	if w.running() >= w.max {
		return Watch{}, domain.ErrTooManyWatches
	}

	ctx, cancel := context.WithCancel(w.owner)
	now := time.Now().UTC()
	e := &entry{
		watch:  Watch{OrderID: orderID, State: StateRunning, StartedAt: now, UpdatedAt: now},
		ctx:    ctx,
		cancel: cancel,
	}
	w.watches[orderID] = e
	metrics.ActiveWatches.Inc()

	w.wg.Add(1)
	go w.run(ctx, e)

	w.log.Info().Str("order_id", orderID.String()).Msg("payment watch started")
	return e.watch, nil
}

// Stop cancels a running watch. Stopping a finished watch is a no-op.
func (w *Watcher) Stop(orderID domain.ID) (Watch, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.watches[orderID]
	if !ok {
		return Watch{}, domain.ErrWatchNotFound
	}
	e.cancel()
	return e.watch, nil
}

func (w *Watcher) Get(orderID domain.ID) (Watch, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.watches[orderID]
	if !ok {
		return Watch{}, domain.ErrWatchNotFound
	}
	return e.watch, nil
}

// List returns every known watch, oldest first.
func (w *Watcher) List() []Watch {
	w.mu.Lock()
	out := make([]Watch, 0, len(w.watches))
	for _, e := range w.watches {
		out = append(out, e.watch)
	}
	w.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// Wait blocks until every watch goroutine has returned.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) running() int {
	n := 0
	for _, e := range w.watches {
		if e.live() {
			n++
		}
	}
	return n
}

func (w *Watcher) run(ctx context.Context, e *entry) {
	defer w.wg.Done()
	defer e.cancel()

	orderID := e.watch.OrderID
	res, err := w.poller.Watch(ctx, orderID, func(s domain.PaymentState) {
		w.mu.Lock()
		e.watch.Status = s.Status
		e.watch.Attempts++
		e.watch.UpdatedAt = time.Now().UTC()
		w.mu.Unlock()
	})

	w.mu.Lock()
	e.watch.Attempts = res.Attempts
	if res.Value != nil {
		e.watch.Status = res.Value.Status
	}
	e.watch.UpdatedAt = time.Now().UTC()
	switch {
	case err == nil && res.Final:
		e.watch.State = StateFinal
	case err == nil:
		e.watch.State = StateExpired
	case errors.Is(err, context.Canceled):
		e.watch.State = StateCancelled
	default:
		e.watch.State = StateFailed
		e.watch.Error = err.Error()
	}
	state := e.watch.State
	w.mu.Unlock()

	metrics.ActiveWatches.Dec()
	w.log.Info().
		Str("order_id", orderID.String()).
		Str("state", string(state)).
		Int("attempts", res.Attempts).
		Msg("payment watch finished")
}
