package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
)

// recentOrders is how many orders the overview keeps.
const recentOrders = 5

type DashboardService struct {
	api    ports.Transport
	wallet ports.WalletService
	orders ports.OrderService
}

var _ ports.DashboardService = (*DashboardService)(nil)

func NewDashboardService(api ports.Transport, wallet ports.WalletService, orders ports.OrderService) *DashboardService {
	return &DashboardService{api: api, wallet: wallet, orders: orders}
}

func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := s.api.Get(ctx, "dashboard/stats/", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Overview loads stats, wallet and orders concurrently. The first failure
// cancels the rest and is returned.
func (s *DashboardService) Overview(ctx context.Context) (*domain.Overview, error) {
	var (
		stats  *domain.DashboardStats
		wallet *domain.WalletSummary
		orders []domain.Order
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.Stats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		wallet, err = s.wallet.Summary(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orders.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(orders) > recentOrders {
		orders = orders[:recentOrders]
	}
	return &domain.Overview{Stats: *stats, Wallet: *wallet, RecentOrders: orders}, nil
}
