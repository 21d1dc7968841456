package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrParamsMismatch = errors.New("params belong to another screen")
	ErrMissingParams  = errors.New("screen requires params")
	ErrNoFactory      = errors.New("no factory registered for screen")
)

// Route is the active screen and the params it was opened with.
type Route struct {
	Screen Screen
	Params Params
}

// ParamsOf extracts the typed params of a route.
func ParamsOf[P Params](r Route) (P, bool) {
	p, ok := r.Params.(P)
	return p, ok
}

// Factory builds the view for a route.
type Factory[V any] func(ctx context.Context, r Route) (V, error)

// Guard reports whether protected screens may be shown.
type Guard func(ctx context.Context) bool

// Router resolves screen names to views. There is no history: navigating
// replaces the current route.
type Router[V any] struct {
	mu        sync.RWMutex
	factories map[Screen]Factory[V]
	guard     Guard
	current   Route
	logger    zerolog.Logger
}

func NewRouter[V any](guard Guard, logger zerolog.Logger) *Router[V] {
	return &Router[V]{
		factories: make(map[Screen]Factory[V]),
		guard:     guard,
		current:   Route{Screen: Splash},
		logger:    logger,
	}
}

func (r *Router[V]) Register(s Screen, f Factory[V]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[s] = f
}

// Navigate opens the named screen. Unknown names open the splash screen and
// protected screens open login when the guard refuses. Params must belong
// to the target screen.
func (r *Router[V]) Navigate(ctx context.Context, name string, params Params) (V, error) {
	var zero V

	screen, ok := Parse(name)
	if !ok {
		r.logger.Warn().Str("screen", name).Msg("unknown screen, showing splash")
		screen, params = Splash, nil
	}
	if !screen.Public() && r.guard != nil && !r.guard(ctx) {
		r.logger.Debug().Str("screen", string(screen)).Msg("not authenticated, showing login")
		screen, params = Login, nil
	}

	if params != nil && params.Screen() != screen {
		return zero, fmt.Errorf("%w: %s got %T", ErrParamsMismatch, screen, params)
	}
	if params == nil && screens[screen].needsParams {
		return zero, fmt.Errorf("%w: %s", ErrMissingParams, screen)
	}

	r.mu.RLock()
	factory, ok := r.factories[screen]
	r.mu.RUnlock()
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrNoFactory, screen)
	}

	route := Route{Screen: screen, Params: params}
	view, err := factory(ctx, route)
	if err != nil {
		return zero, err
	}

	r.mu.Lock()
	r.current = route
	r.mu.Unlock()
	return view, nil
}

// Current returns the active route.
func (r *Router[V]) Current() Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}
