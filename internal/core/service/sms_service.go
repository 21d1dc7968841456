package service

import (
	"context"
	"time"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
	"github.com/smmpanel/smm-client/internal/core/validation"
)

// SMSCodePollPolicy waits up to ten minutes for an activation code.
var SMSCodePollPolicy = PollPolicy{Interval: 5 * time.Second, MaxAttempts: 120}

type SMSService struct {
	api      ports.Transport
	validate *validation.Validator
}

var _ ports.SMSService = (*SMSService)(nil)

func NewSMSService(api ports.Transport, validate *validation.Validator) *SMSService {
	return &SMSService{api: api, validate: validate}
}

func (s *SMSService) Offers(ctx context.Context) ([]domain.SMSOffer, error) {
	var list domain.List[domain.SMSOffer]
	if err := s.api.Get(ctx, "sms/services/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *SMSService) Rent(ctx context.Context, form domain.SMSRentForm) (*domain.SMSRental, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}
	var rental domain.SMSRental
	if err := s.api.Post(ctx, "sms/rent/", form, &rental); err != nil {
		return nil, err
	}
	if rental.RentalID == "" {
		return nil, domain.ErrUnexpectedResponse
	}
	return &rental, nil
}

func (s *SMSService) Rental(ctx context.Context, rentalID domain.ID) (*domain.SMSRental, error) {
	var rental domain.SMSRental
	if err := s.api.Get(ctx, "sms/rentals/"+pathID(rentalID)+"/", &rental); err != nil {
		return nil, err
	}
	return &rental, nil
}

func (s *SMSService) Cancel(ctx context.Context, rentalID domain.ID) error {
	var res ackResult
	if err := s.api.Post(ctx, "sms/rentals/"+pathID(rentalID)+"/cancel/", nil, &res); err != nil {
		return err
	}
	return res.err()
}

// WaitForCode polls the rental until a code arrives or the rental ends.
func (s *SMSService) WaitForCode(ctx context.Context, rentalID domain.ID, policy PollPolicy) (PollResult[*domain.SMSRental], error) {
	return Poll(ctx, policy, func(ctx context.Context) (*domain.SMSRental, bool, error) {
		rental, err := s.Rental(ctx, rentalID)
		if err != nil {
			return nil, false, err
		}
		return rental, rental.HasCode() || rental.Status.Ended(), nil
	})
}
