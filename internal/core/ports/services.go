package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/smmpanel/smm-client/internal/core/domain"
)

// AuthService covers login, registration and the OTP password-reset flow.
type AuthService interface {
	Login(ctx context.Context, form domain.LoginForm) (*domain.Session, error)
	Register(ctx context.Context, form domain.RegisterForm) (*domain.Session, error)
	Logout(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, form domain.ResetRequestForm) (string, error)
	VerifyResetOTP(ctx context.Context, form domain.OTPForm) error
	ConfirmPasswordReset(ctx context.Context, form domain.ResetConfirmForm) (string, error)
}

type ProfileService interface {
	Get(ctx context.Context) (*domain.User, error)
	Update(ctx context.Context, form domain.ProfileForm) (*domain.User, error)
	ChangePassword(ctx context.Context, form domain.ChangePasswordForm) error
}

type OrderService interface {
	Services(ctx context.Context) ([]domain.Service, error)
	List(ctx context.Context) ([]domain.Order, error)
	Create(ctx context.Context, form domain.NewOrderForm) (*domain.PlacedOrder, error)
	Status(ctx context.Context, orderID domain.ID) (*domain.Order, error)
}

type WalletService interface {
	Summary(ctx context.Context) (*domain.WalletSummary, error)
	Transactions(ctx context.Context) ([]domain.Transaction, error)
}

type PaymentService interface {
	CalculateBonus(ctx context.Context, amount decimal.Decimal) (*domain.BonusQuote, error)
	Create(ctx context.Context, form domain.PaymentForm) (*domain.Payment, error)
	Status(ctx context.Context, orderID domain.ID) (*domain.PaymentState, error)
}

type SupportService interface {
	List(ctx context.Context) []domain.SupportTicket
	Create(ctx context.Context, form domain.TicketForm) (*domain.SupportTicket, error)
	Get(ctx context.Context, ticketID domain.ID) (*domain.SupportTicket, error)
	Reply(ctx context.Context, ticketID domain.ID, form domain.TicketReplyForm) error
	Close(ctx context.Context, ticketID domain.ID) error
}

type APIKeyService interface {
	List(ctx context.Context) ([]domain.APIKey, error)
	Create(ctx context.Context, form domain.APIKeyForm) (*domain.APIKey, error)
	Delete(ctx context.Context, id domain.ID) error
}

type SMSService interface {
	Offers(ctx context.Context) ([]domain.SMSOffer, error)
	Rent(ctx context.Context, form domain.SMSRentForm) (*domain.SMSRental, error)
	Rental(ctx context.Context, rentalID domain.ID) (*domain.SMSRental, error)
	Cancel(ctx context.Context, rentalID domain.ID) error
}

type DashboardService interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
	Overview(ctx context.Context) (*domain.Overview, error)
}

// Observer receives outcomes of client-side background work so they can be
// instrumented without the core depending on a metrics library.
type Observer interface {
	PaymentPolled(outcome string)
	BonusQuoted(result string)
}
