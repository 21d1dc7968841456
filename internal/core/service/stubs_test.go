package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/validation"
	"github.com/smmpanel/smm-client/internal/infrastructure/session"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type call struct {
	method   string
	endpoint string
	body     string
}

type reply struct {
	body string
	err  error
}

// stubAPI answers calls from a per-route queue of canned replies. The last
// reply of a route is repeated once the queue is drained.
type stubAPI struct {
	mu      sync.Mutex
	routes  map[string][]reply
	calls   []call
	session *SessionService // cleared on 401 replies, like the real transport
}

func newStubAPI() *stubAPI {
	return &stubAPI{routes: make(map[string][]reply)}
}

func (a *stubAPI) on(method, endpoint, body string) *stubAPI {
	key := method + " " + endpoint
	a.routes[key] = append(a.routes[key], reply{body: body})
	return a
}

func (a *stubAPI) fail(method, endpoint string, err error) *stubAPI {
	key := method + " " + endpoint
	a.routes[key] = append(a.routes[key], reply{err: err})
	return a
}

func (a *stubAPI) count(method, endpoint string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.calls {
		if c.method == method && c.endpoint == endpoint {
			n++
		}
	}
	return n
}

func (a *stubAPI) last() call {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[len(a.calls)-1]
}

func (a *stubAPI) do(ctx context.Context, method, endpoint string, body, out any) error {
	var raw string
	if body != nil {
		b, _ := json.Marshal(body)
		raw = string(b)
	}

	a.mu.Lock()
	a.calls = append(a.calls, call{method: method, endpoint: endpoint, body: raw})
	key := method + " " + endpoint
	queue := a.routes[key]
	if len(queue) == 0 {
		a.mu.Unlock()
		return &domain.APIError{StatusCode: http.StatusNotFound, Message: "Not found."}
	}
	r := queue[0]
	if len(queue) > 1 {
		a.routes[key] = queue[1:]
	}
	a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if r.err != nil {
		if domain.StatusOf(r.err) == http.StatusUnauthorized && a.session != nil {
			a.session.Invalidate(ctx)
		}
		return r.err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(r.body), out); err != nil {
		return domain.ErrUnexpectedResponse
	}
	return nil
}

func (a *stubAPI) Get(ctx context.Context, endpoint string, out any) error {
	return a.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (a *stubAPI) Post(ctx context.Context, endpoint string, body, out any) error {
	return a.do(ctx, http.MethodPost, endpoint, body, out)
}

func (a *stubAPI) Put(ctx context.Context, endpoint string, body, out any) error {
	return a.do(ctx, http.MethodPut, endpoint, body, out)
}

func (a *stubAPI) Patch(ctx context.Context, endpoint string, body, out any) error {
	return a.do(ctx, http.MethodPatch, endpoint, body, out)
}

func (a *stubAPI) Delete(ctx context.Context, endpoint string, out any) error {
	return a.do(ctx, http.MethodDelete, endpoint, nil, out)
}

var errSessionExpired = &domain.APIError{StatusCode: http.StatusUnauthorized, Message: domain.SessionExpiredMessage}

type recordingObserver struct {
	mu       sync.Mutex
	payments []string
	bonuses  []string
}

func (o *recordingObserver) PaymentPolled(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.payments = append(o.payments, outcome)
}

func (o *recordingObserver) BonusQuoted(result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bonuses = append(o.bonuses, result)
}

// fixture wires a stub API to a real session service over a memory store.
type fixture struct {
	api      *stubAPI
	session  *SessionService
	validate *validation.Validator
}

func newFixture() *fixture {
	api := newStubAPI()
	sess := NewSessionService(session.NewMemoryStore(), zerolog.Nop())
	api.session = sess
	return &fixture{api: api, session: sess, validate: validation.New()}
}

func (f *fixture) login(token, username string) {
	_, _ = f.session.Open(context.Background(), token, &domain.User{Username: username}, decimal.Zero)
}
