package service

import (
	"context"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
)

type WalletService struct {
	api ports.Transport
}

var _ ports.WalletService = (*WalletService)(nil)

func NewWalletService(api ports.Transport) *WalletService {
	return &WalletService{api: api}
}

func (s *WalletService) Summary(ctx context.Context) (*domain.WalletSummary, error) {
	var summary domain.WalletSummary
	if err := s.api.Get(ctx, "wallet/summary/", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *WalletService) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	var list domain.List[domain.Transaction]
	if err := s.api.Get(ctx, "wallet/transactions/", &list); err != nil {
		return nil, err
	}
	return list, nil
}
