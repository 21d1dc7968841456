package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
	"github.com/smmpanel/smm-client/internal/core/validation"
)

type PaymentService struct {
	api      ports.Transport
	validate *validation.Validator
	logger   zerolog.Logger
}

var _ ports.PaymentService = (*PaymentService)(nil)

func NewPaymentService(api ports.Transport, validate *validation.Validator, logger zerolog.Logger) *PaymentService {
	return &PaymentService{api: api, validate: validate, logger: logger}
}

type bonusRequest struct {
	Amount json.Number `json:"amount"`
}

type paymentRequest struct {
	Amount        json.Number          `json:"amount"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Currency      string               `json:"currency"`
	Network       string               `json:"network,omitempty"`
}

// CalculateBonus asks the server what a deposit of amount would earn. Amounts
// go out as JSON numbers with their exact decimal digits.
func (s *PaymentService) CalculateBonus(ctx context.Context, amount decimal.Decimal) (*domain.BonusQuote, error) {
	var quote domain.BonusQuote
	if err := s.api.Post(ctx, "payments/calculate-bonus/", bonusRequest{Amount: json.Number(amount.String())}, &quote); err != nil {
		return nil, err
	}
	if quote.Amount.IsZero() {
		quote.Amount = amount
	}
	return &quote, nil
}

func (s *PaymentService) Create(ctx context.Context, form domain.PaymentForm) (*domain.Payment, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}

	req := paymentRequest{
		Amount:        json.Number(form.Amount.String()),
		PaymentMethod: form.Method,
		Currency:      form.Currency,
		Network:       form.Network,
	}
	var payment domain.Payment
	if err := s.api.Post(ctx, "payments/create/", req, &payment); err != nil {
		return nil, err
	}
	if payment.OrderID == "" {
		return nil, domain.ErrUnexpectedResponse
	}
	if payment.Method == "" {
		payment.Method = form.Method
	}
	if payment.Amount.IsZero() {
		payment.Amount = form.Amount
	}
	if payment.Status == "" {
		payment.Status = domain.PaymentPending
	}

	s.logger.Info().
		Str("order_id", payment.OrderID.String()).
		Str("method", string(payment.Method)).
		Msg("payment created")
	return &payment, nil
}

func (s *PaymentService) Status(ctx context.Context, orderID domain.ID) (*domain.PaymentState, error) {
	var state domain.PaymentState
	if err := s.api.Get(ctx, "payments/"+pathID(orderID)+"/status/", &state); err != nil {
		return nil, err
	}
	if state.OrderID == "" {
		state.OrderID = orderID
	}
	return &state, nil
}
