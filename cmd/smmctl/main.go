// Command smmctl is the terminal client for the SMM panel. Every screen of
// the panel is a subcommand:
//
//	smmctl [-api URL] [-profile NAME] <screen> [screen flags]
//
// Running smmctl without a screen, or with an unknown one, shows the splash
// screen with the session state and the list of screens.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/smmpanel/smm-client/internal/app"
	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/navigation"
	"github.com/smmpanel/smm-client/internal/infrastructure/config"
	"github.com/smmpanel/smm-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("smmctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	baseURL := global.String("api", "", "SMM API base URL (overrides API_BASE_URL)")
	profile := global.String("profile", "", "session profile (overrides SMM_PROFILE)")
	logLevel := global.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	if err := global.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}
	if *profile != "" {
		cfg.Profile = *profile
	}

	log := logger.Init(logger.Options{Level: *logLevel, Pretty: true, Output: stderr, App: "smmctl"})

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(context.Background()) }()

	name := string(navigation.Splash)
	rest := global.Args()
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}

	c := newCLI(a, bufio.NewReader(stdin), stdout)
	return c.open(ctx, name, rest)
}

// describe turns an error into the line shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return domain.SessionExpiredMessage
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "not logged in, run: smmctl login -username <name>"
	case errors.Is(err, domain.ErrAuthRejected):
		return strings.TrimPrefix(err.Error(), domain.ErrAuthRejected.Error()+": ")
	case errors.Is(err, navigation.ErrMissingParams):
		return err.Error() + " (see smmctl <screen> -h)"
	}
	return err.Error()
}
