package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
	"github.com/smmpanel/smm-client/internal/core/validation"
)

type SupportService struct {
	api      ports.Transport
	validate *validation.Validator
	logger   zerolog.Logger
}

var _ ports.SupportService = (*SupportService)(nil)

func NewSupportService(api ports.Transport, validate *validation.Validator, logger zerolog.Logger) *SupportService {
	return &SupportService{api: api, validate: validate, logger: logger}
}

// List never fails: any error is logged and yields an empty list.
func (s *SupportService) List(ctx context.Context) []domain.SupportTicket {
	var list domain.List[domain.SupportTicket]
	if err := s.api.Get(ctx, "tickets/", &list); err != nil {
		s.logger.Warn().Err(err).Msg("ticket list unavailable")
		return []domain.SupportTicket{}
	}
	if list == nil {
		return []domain.SupportTicket{}
	}
	return list
}

func (s *SupportService) Create(ctx context.Context, form domain.TicketForm) (*domain.SupportTicket, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}
	var ticket domain.SupportTicket
	if err := s.api.Post(ctx, "tickets/", form, &ticket); err != nil {
		return nil, err
	}
	if ticket.Subject == "" {
		ticket.Subject = form.Subject
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketOpen
	}
	return &ticket, nil
}

func (s *SupportService) Get(ctx context.Context, ticketID domain.ID) (*domain.SupportTicket, error) {
	var ticket domain.SupportTicket
	if err := s.api.Get(ctx, "tickets/"+pathID(ticketID)+"/", &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *SupportService) Reply(ctx context.Context, ticketID domain.ID, form domain.TicketReplyForm) error {
	if err := s.validate.Struct(form); err != nil {
		return err
	}
	var res ackResult
	if err := s.api.Post(ctx, "tickets/"+pathID(ticketID)+"/reply/", form, &res); err != nil {
		return err
	}
	return res.err()
}

func (s *SupportService) Close(ctx context.Context, ticketID domain.ID) error {
	var res ackResult
	if err := s.api.Post(ctx, "tickets/"+pathID(ticketID)+"/close/", nil, &res); err != nil {
		return err
	}
	return res.err()
}
