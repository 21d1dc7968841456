package navigation

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

// newTestRouter registers a factory for every screen that echoes the route.
func newTestRouter(authenticated bool) *Router[Route] {
	r := NewRouter[Route](func(context.Context) bool { return authenticated }, zerolog.Nop())
	for _, s := range All() {
		r.Register(s, func(_ context.Context, route Route) (Route, error) {
			return route, nil
		})
	}
	return r
}

func TestRouter_UnknownScreenShowsSplash(t *testing.T) {
	r := newTestRouter(true)

	got, err := r.Navigate(context.Background(), "does-not-exist", nil)
	if err != nil {
		t.Fatalf("Navigate returned error: %v", err)
	}
	if got.Screen != Splash {
		t.Fatalf("expected splash, got %s", got.Screen)
	}
	if r.Current().Screen != Splash {
		t.Fatalf("expected current route splash, got %s", r.Current().Screen)
	}
}

func TestRouter_TypedParamsReachScreen(t *testing.T) {
	r := newTestRouter(true)

	got, err := r.Navigate(context.Background(), string(OrderDetails), OrderDetailsParams{OrderID: "1842"})
	if err != nil {
		t.Fatalf("Navigate returned error: %v", err)
	}
	p, ok := ParamsOf[OrderDetailsParams](got)
	if !ok || p.OrderID != "1842" {
		t.Fatalf("expected order params, got %#v", got.Params)
	}
	if cur, _ := ParamsOf[OrderDetailsParams](r.Current()); cur.OrderID != "1842" {
		t.Fatalf("params must be stored with the current route")
	}
}

func TestRouter_RejectsForeignParams(t *testing.T) {
	r := newTestRouter(true)

	_, err := r.Navigate(context.Background(), string(OrderDetails), TicketDetailsParams{TicketID: "5"})
	if !errors.Is(err, ErrParamsMismatch) {
		t.Fatalf("expected ErrParamsMismatch, got %v", err)
	}
	if r.Current().Screen != Splash {
		t.Fatalf("failed navigation must not change the route")
	}
}

func TestRouter_RequiredParams(t *testing.T) {
	r := newTestRouter(true)

	if _, err := r.Navigate(context.Background(), string(PaymentStatus), nil); !errors.Is(err, ErrMissingParams) {
		t.Fatalf("expected ErrMissingParams, got %v", err)
	}
	if _, err := r.Navigate(context.Background(), string(NewOrder), nil); err != nil {
		t.Fatalf("new-order params are optional, got %v", err)
	}
}

func TestRouter_GuardRedirectsToLogin(t *testing.T) {
	r := newTestRouter(false)

	got, err := r.Navigate(context.Background(), string(Wallet), nil)
	if err != nil {
		t.Fatalf("Navigate returned error: %v", err)
	}
	if got.Screen != Login {
		t.Fatalf("expected login, got %s", got.Screen)
	}

	got, err = r.Navigate(context.Background(), string(VerifyOTP), VerifyOTPParams{Email: "a@b.c"})
	if err != nil || got.Screen != VerifyOTP {
		t.Fatalf("public screens must open without a session: %v, %v", got, err)
	}
}

func TestRouter_MissingFactory(t *testing.T) {
	r := NewRouter[string](nil, zerolog.Nop())
	if _, err := r.Navigate(context.Background(), string(Dashboard), nil); !errors.Is(err, ErrNoFactory) {
		t.Fatalf("expected ErrNoFactory, got %v", err)
	}
}

func TestParse_KnowsEveryScreen(t *testing.T) {
	if len(All()) != 24 {
		t.Fatalf("expected 24 screens, got %d", len(All()))
	}
	if _, ok := Parse("orders"); !ok {
		t.Fatalf("orders should parse")
	}
}
