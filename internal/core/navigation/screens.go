// Package navigation is the in-memory screen router. Each screen has a fixed
// name and, where it needs one, a typed parameter payload that travels with
// the route.
package navigation

import "github.com/smmpanel/smm-client/internal/core/domain"

type Screen string

const (
	Splash         Screen = "splash"
	Login          Screen = "login"
	Register       Screen = "register"
	ForgotPassword Screen = "forgot-password"
	VerifyOTP      Screen = "verify-otp"
	ResetPassword  Screen = "reset-password"
	Dashboard      Screen = "dashboard"
	Profile        Screen = "profile"
	EditProfile    Screen = "edit-profile"
	ChangePassword Screen = "change-password"
	Services       Screen = "services"
	NewOrder       Screen = "new-order"
	Orders         Screen = "orders"
	OrderDetails   Screen = "order-details"
	Wallet         Screen = "wallet"
	Transactions   Screen = "transactions"
	AddFunds       Screen = "add-funds"
	PaymentStatus  Screen = "payment-status"
	Tickets        Screen = "tickets"
	NewTicket      Screen = "new-ticket"
	TicketDetails  Screen = "ticket-details"
	APIKeys        Screen = "api-keys"
	SMS            Screen = "sms"
	Logout         Screen = "logout"
)

type screenSpec struct {
	// public screens are reachable without a session
	public bool
	// needsParams screens refuse to open without their payload
	needsParams bool
}

var screens = map[Screen]screenSpec{
	Splash:         {public: true},
	Login:          {public: true},
	Register:       {public: true},
	ForgotPassword: {public: true},
	VerifyOTP:      {public: true, needsParams: true},
	ResetPassword:  {public: true, needsParams: true},
	Dashboard:      {},
	Profile:        {},
	EditProfile:    {},
	ChangePassword: {},
	Services:       {},
	NewOrder:       {},
	Orders:         {},
	OrderDetails:   {needsParams: true},
	Wallet:         {},
	Transactions:   {},
	AddFunds:       {},
	PaymentStatus:  {needsParams: true},
	Tickets:        {},
	NewTicket:      {},
	TicketDetails:  {needsParams: true},
	APIKeys:        {},
	SMS:            {},
	Logout:         {},
}

// Parse maps a screen name to a known Screen.
func Parse(name string) (Screen, bool) {
	s := Screen(name)
	_, ok := screens[s]
	return s, ok
}

// All returns every known screen name.
func All() []Screen {
	out := make([]Screen, 0, len(screens))
	for s := range screens {
		out = append(out, s)
	}
	return out
}

// Public reports whether s can be shown without a session.
func (s Screen) Public() bool {
	return screens[s].public
}

// Params is a screen-specific payload. Screen names the only screen that
// accepts it.
type Params interface {
	Screen() Screen
}

type VerifyOTPParams struct {
	Email string
}

func (VerifyOTPParams) Screen() Screen { return VerifyOTP }

type ResetPasswordParams struct {
	Email string
	OTP   string
}

func (ResetPasswordParams) Screen() Screen { return ResetPassword }

// NewOrderParams preselects a service. It is optional.
type NewOrderParams struct {
	ServiceID domain.ID
}

func (NewOrderParams) Screen() Screen { return NewOrder }

type OrderDetailsParams struct {
	OrderID domain.ID
}

func (OrderDetailsParams) Screen() Screen { return OrderDetails }

type PaymentStatusParams struct {
	OrderID domain.ID
	// Payment is the creation answer when the screen is opened right after
	// creating it; nil when resuming a watch.
	Payment *domain.Payment
}

func (PaymentStatusParams) Screen() Screen { return PaymentStatus }

type TicketDetailsParams struct {
	TicketID domain.ID
}

func (TicketDetailsParams) Screen() Screen { return TicketDetails }
