// Package app wires configuration, the session store, the API transport and
// the core services into one container shared by smmctl and smm-agent.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/smmpanel/smm-client/internal/api/metrics"
	"github.com/smmpanel/smm-client/internal/core/ports"
	"github.com/smmpanel/smm-client/internal/core/service"
	"github.com/smmpanel/smm-client/internal/core/validation"
	"github.com/smmpanel/smm-client/internal/infrastructure/config"
	mongostore "github.com/smmpanel/smm-client/internal/infrastructure/db/mongo"
	redisstore "github.com/smmpanel/smm-client/internal/infrastructure/db/redis"
	"github.com/smmpanel/smm-client/internal/infrastructure/session"
	"github.com/smmpanel/smm-client/internal/infrastructure/smmapi"
)

// Session store backends accepted in SESSION_BACKEND.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

var ErrUnknownBackend = errors.New("unknown session backend")

// App is the composition root.
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	Store   ports.SessionStore
	Session *service.SessionService
	API     *smmapi.Client

	Auth      *service.AuthService
	Profile   *service.ProfileService
	Orders    *service.OrderService
	Wallet    *service.WalletService
	Payments  *service.PaymentService
	Support   *service.SupportService
	APIKeys   *service.APIKeyService
	SMS       *service.SMSService
	Dashboard *service.DashboardService

	Poller *service.PaymentPoller
	Bonus  *service.BonusQuoter

	closers []func(context.Context) error
}

// New opens the configured session store and builds every service on top
// of it. Close must be called to release store connections.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Log: log, Store: store}
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}

	a.Session = service.NewSessionService(store, log.With().Str("component", "session").Logger())
	a.API = smmapi.New(smmapi.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	}, a.Session, log.With().Str("component", "smmapi").Logger())

	validate := validation.New()
	observer := metrics.Observer{}
	svcLog := log.With().Str("component", "service").Logger()

	a.Auth = service.NewAuthService(a.API, a.Session, validate, svcLog)
	a.Profile = service.NewProfileService(a.API, a.Session, validate, svcLog)
	a.Orders = service.NewOrderService(a.API, a.Session, validate, svcLog)
	a.Wallet = service.NewWalletService(a.API)
	a.Payments = service.NewPaymentService(a.API, validate, svcLog)
	a.Support = service.NewSupportService(a.API, validate, svcLog)
	a.APIKeys = service.NewAPIKeyService(a.API, validate)
	a.SMS = service.NewSMSService(a.API, validate)
	a.Dashboard = service.NewDashboardService(a.API, a.Wallet, a.Orders)

	a.Poller = service.NewPaymentPoller(a.Payments, service.PollPolicy{
		Interval:    cfg.Payment.PollInterval,
		MaxAttempts: cfg.Payment.PollMaxAttempts,
	}, observer, svcLog)
	a.Bonus = service.NewBonusQuoter(a.Payments, decimal.NewFromFloat(cfg.Bonus.Threshold), cfg.Bonus.Debounce, observer)

	return a, nil
}

// Close releases store connections in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// OpenStore builds the session store named by cfg.Session.Backend. The
// returned closer is nil for backends without a connection.
func OpenStore(ctx context.Context, cfg *config.Config) (ports.SessionStore, func(context.Context) error, error) {
	codec := session.NewCodec(cfg.Session.Passphrase)

	switch cfg.Session.Backend {
	case BackendFile, "":
		return session.NewFileStore(cfg.SessionPath(), codec), nil, nil

	case BackendMemory:
		return session.NewMemoryStore(), nil, nil

	case BackendRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open redis session store: %w", err)
		}
		store := redisstore.NewSessionStore(client, cfg.Profile, cfg.Session.TTL, codec)
		return store, func(context.Context) error { return client.Close() }, nil

	case BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open mongo session store: %w", err)
		}
		store := mongostore.NewSessionStore(db, cfg.Profile, cfg.Session.TTL, codec)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("mongo session indexes: %w", err)
		}
		return store, client.Disconnect, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Session.Backend)
}
