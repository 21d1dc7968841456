// Command smm-agent keeps a client session warm and polls payments in the
// background, exposing both over a small local HTTP API.
//
// @title                      smm-agent API
// @version                    1.0
// @description                Local agent for the SMM client: session view and payment watches.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/smmpanel/smm-client/internal/api"
	"github.com/smmpanel/smm-client/internal/api/handler"
	"github.com/smmpanel/smm-client/internal/app"
	"github.com/smmpanel/smm-client/internal/infrastructure/config"
	"github.com/smmpanel/smm-client/internal/infrastructure/queue"
	"github.com/smmpanel/smm-client/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "smm-agent:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, App: "smm-agent"})

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Agent.ShutdownTimeout)
		defer cancel()
		if err := a.Close(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("close session store")
		}
	}()

	watcher := queue.NewWatcher(a.Poller, cfg.Agent.MaxWatches, logger.For("watcher"))

	e := api.NewRouter(api.Deps{
		Sessions: a.Session,
		Watches:  watcher,
		Checks: map[string]handler.Pinger{
			"session_store": a.Store,
			"smm_api":       a.API,
		},
		JWTSecret: cfg.Agent.JWTSecret,
		Log:       logger.For("agent"),
	})

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.Agent.Host, cfg.Agent.Port),
		Handler: e,
	}

	g, ctx := errgroup.WithContext(ctx)
	watcher.Start(ctx)

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("api", cfg.API.BaseURL).Msg("starting smm-agent")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down smm-agent")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Agent.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		watcher.Wait()
		log.Info().Msg("smm-agent stopped")
		return nil
	})

	return g.Wait()
}
