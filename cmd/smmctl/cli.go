package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/smmpanel/smm-client/internal/app"
	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/navigation"
)

// view renders one screen.
type view func(ctx context.Context) error

// input holds every value a screen can take from its flags.
type input struct {
	username, email, password, confirm string
	oldPassword, otp                   string
	firstName, lastName                string

	id       string
	category string
	service  string
	link     string
	quantity int
	comments string

	amount, method, currency, network string
	quoteOnly                         bool

	subject, message, priority string
	reply                      string

	name, revoke string

	rent, country string
	cancel, wait  bool
}

type cli struct {
	app    *app.App
	in     *bufio.Reader
	out    io.Writer
	form   input
	router *navigation.Router[view]
}

func newCLI(a *app.App, in *bufio.Reader, out io.Writer) *cli {
	c := &cli{app: a, in: in, out: out}
	c.router = navigation.NewRouter[view](a.Session.IsAuthenticated, a.Log.With().Str("component", "router").Logger())
	c.registerScreens()
	return c
}

// open parses the screen flags, builds the route params and renders the
// screen the router resolves.
func (c *cli) open(ctx context.Context, name string, args []string) error {
	screen, known := navigation.Parse(name)
	if known {
		fs := flag.NewFlagSet("smmctl "+name, flag.ContinueOnError)
		fs.SetOutput(c.out)
		bindFlags(screen, fs, &c.form)
		if err := fs.Parse(args); err != nil {
			return err
		}
	}
	return c.navigate(ctx, name, c.params(screen))
}

func (c *cli) navigate(ctx context.Context, name string, params navigation.Params) error {
	v, err := c.router.Navigate(ctx, name, params)
	if err != nil {
		return err
	}
	return v(ctx)
}

func bindFlags(s navigation.Screen, fs *flag.FlagSet, in *input) {
	switch s {
	case navigation.Login:
		fs.StringVar(&in.username, "username", "", "account username")
		fs.StringVar(&in.password, "password", "", "password (prompted when empty)")
	case navigation.Register:
		fs.StringVar(&in.username, "username", "", "account username")
		fs.StringVar(&in.email, "email", "", "email address")
		fs.StringVar(&in.password, "password", "", "password (prompted when empty)")
		fs.StringVar(&in.confirm, "confirm", "", "password confirmation (prompted when empty)")
		fs.StringVar(&in.firstName, "first-name", "", "first name")
		fs.StringVar(&in.lastName, "last-name", "", "last name")
	case navigation.ForgotPassword:
		fs.StringVar(&in.email, "email", "", "account email")
	case navigation.VerifyOTP:
		fs.StringVar(&in.email, "email", "", "account email")
		fs.StringVar(&in.otp, "otp", "", "6-digit code from the reset email")
	case navigation.ResetPassword:
		fs.StringVar(&in.email, "email", "", "account email")
		fs.StringVar(&in.otp, "otp", "", "verified 6-digit code")
		fs.StringVar(&in.password, "password", "", "new password (prompted when empty)")
		fs.StringVar(&in.confirm, "confirm", "", "new password confirmation (prompted when empty)")
	case navigation.EditProfile:
		fs.StringVar(&in.firstName, "first-name", "", "first name")
		fs.StringVar(&in.lastName, "last-name", "", "last name")
	case navigation.ChangePassword:
		fs.StringVar(&in.oldPassword, "old", "", "current password (prompted when empty)")
		fs.StringVar(&in.password, "password", "", "new password (prompted when empty)")
		fs.StringVar(&in.confirm, "confirm", "", "new password confirmation (prompted when empty)")
	case navigation.Services:
		fs.StringVar(&in.category, "category", "", "only show this category")
	case navigation.NewOrder:
		fs.StringVar(&in.service, "service", "", "service id")
		fs.StringVar(&in.link, "link", "", "target URL")
		fs.IntVar(&in.quantity, "quantity", 0, "quantity to order")
		fs.StringVar(&in.comments, "comments", "", "optional comments")
	case navigation.OrderDetails:
		fs.StringVar(&in.id, "id", "", "order id")
	case navigation.AddFunds:
		fs.StringVar(&in.amount, "amount", "", "deposit amount")
		fs.StringVar(&in.method, "method", string(domain.PaymentInvoice), "invoice or static")
		fs.StringVar(&in.currency, "currency", "USDT", "payment currency")
		fs.StringVar(&in.network, "network", "TRC20", "payment network")
		fs.BoolVar(&in.quoteOnly, "quote", false, "only show the bonus for the amount")
		fs.BoolVar(&in.wait, "wait", false, "wait for the payment to complete")
	case navigation.PaymentStatus:
		fs.StringVar(&in.id, "id", "", "payment order id")
		fs.BoolVar(&in.wait, "wait", false, "poll until the payment is final")
	case navigation.NewTicket:
		fs.StringVar(&in.subject, "subject", "", "ticket subject")
		fs.StringVar(&in.message, "message", "", "ticket message")
		fs.StringVar(&in.priority, "priority", "", "low, medium or high")
	case navigation.TicketDetails:
		fs.StringVar(&in.id, "id", "", "ticket id")
		fs.StringVar(&in.reply, "reply", "", "post a reply")
		fs.BoolVar(&in.cancel, "close", false, "close the ticket")
	case navigation.APIKeys:
		fs.StringVar(&in.name, "create", "", "create a key with this name")
		fs.StringVar(&in.revoke, "delete", "", "delete the key with this id")
	case navigation.SMS:
		fs.StringVar(&in.rent, "rent", "", "rent a number for this service")
		fs.StringVar(&in.country, "country", "", "country for -rent")
		fs.StringVar(&in.id, "rental", "", "show a rental")
		fs.BoolVar(&in.cancel, "cancel", false, "cancel the rental given by -rental")
		fs.BoolVar(&in.wait, "wait", false, "wait for the SMS code")
	}
}

// params builds the typed route payload from the parsed flags. Screens whose
// payload is missing get nil so the router can refuse them.
func (c *cli) params(s navigation.Screen) navigation.Params {
	in := c.form
	switch s {
	case navigation.VerifyOTP:
		if in.email != "" {
			return navigation.VerifyOTPParams{Email: in.email}
		}
	case navigation.ResetPassword:
		if in.email != "" && in.otp != "" {
			return navigation.ResetPasswordParams{Email: in.email, OTP: in.otp}
		}
	case navigation.NewOrder:
		if in.service != "" {
			return navigation.NewOrderParams{ServiceID: domain.ID(in.service)}
		}
	case navigation.OrderDetails:
		if in.id != "" {
			return navigation.OrderDetailsParams{OrderID: domain.ID(in.id)}
		}
	case navigation.PaymentStatus:
		if in.id != "" {
			return navigation.PaymentStatusParams{OrderID: domain.ID(in.id)}
		}
	case navigation.TicketDetails:
		if in.id != "" {
			return navigation.TicketDetailsParams{TicketID: domain.ID(in.id)}
		}
	}
	return nil
}

// secret returns value or prompts for it on stdin.
func (c *cli) secret(value, prompt string) string {
	if value != "" {
		return value
	}
	fmt.Fprintf(c.out, "%s: ", prompt)
	line, _ := c.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
