package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
	"github.com/smmpanel/smm-client/internal/core/validation"
)

// OrderService covers the service catalog and order placement. The last
// fetched catalog is kept so new orders can be checked against the
// service's quantity bounds without another call.
type OrderService struct {
	api      ports.Transport
	session  *SessionService
	validate *validation.Validator
	logger   zerolog.Logger

	mu      sync.RWMutex
	catalog map[domain.ID]domain.Service
}

var _ ports.OrderService = (*OrderService)(nil)

func NewOrderService(api ports.Transport, session *SessionService, validate *validation.Validator, logger zerolog.Logger) *OrderService {
	return &OrderService{
		api:      api,
		session:  session,
		validate: validate,
		logger:   logger,
		catalog:  make(map[domain.ID]domain.Service),
	}
}

func (s *OrderService) Services(ctx context.Context) ([]domain.Service, error) {
	var list domain.List[domain.Service]
	if err := s.api.Get(ctx, "services/", &list); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.catalog = make(map[domain.ID]domain.Service, len(list))
	for _, svc := range list {
		s.catalog[svc.ID] = svc
	}
	s.mu.Unlock()

	return list, nil
}

// Lookup returns a service from the last fetched catalog.
func (s *OrderService) Lookup(id domain.ID) (domain.Service, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.catalog[id]
	return svc, ok
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	var list domain.List[domain.Order]
	if err := s.api.Get(ctx, "orders/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Create places an order and updates the cached wallet balance from the
// answer's new_balance.
func (s *OrderService) Create(ctx context.Context, form domain.NewOrderForm) (*domain.PlacedOrder, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}
	if svc, ok := s.Lookup(form.ServiceID); ok {
		if err := svc.CheckQuantity(form.Quantity); err != nil {
			return nil, err
		}
	}

	var res placedOrderResult
	if err := s.api.Post(ctx, "orders/create/", form, &res); err != nil {
		return nil, err
	}

	placed := &domain.PlacedOrder{OrderID: res.OrderID, Charge: res.Charge, Message: res.Message}
	if res.NewBalance.Valid {
		placed.NewBalance = res.NewBalance.Decimal
		if err := s.session.UpdateBalance(ctx, placed.NewBalance); err != nil {
			s.logger.Warn().Err(err).Msg("failed to update cached balance")
		}
	}

	s.logger.Info().
		Str("order_id", placed.OrderID.String()).
		Str("charge", placed.Charge.String()).
		Msg("order placed")
	return placed, nil
}

func (s *OrderService) Status(ctx context.Context, orderID domain.ID) (*domain.Order, error) {
	var order domain.Order
	if err := s.api.Get(ctx, "orders/"+pathID(orderID)+"/status/", &order); err != nil {
		return nil, err
	}
	return &order, nil
}
