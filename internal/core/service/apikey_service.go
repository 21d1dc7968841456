package service

import (
	"context"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
	"github.com/smmpanel/smm-client/internal/core/validation"
)

type APIKeyService struct {
	api      ports.Transport
	validate *validation.Validator
}

var _ ports.APIKeyService = (*APIKeyService)(nil)

func NewAPIKeyService(api ports.Transport, validate *validation.Validator) *APIKeyService {
	return &APIKeyService{api: api, validate: validate}
}

func (s *APIKeyService) List(ctx context.Context) ([]domain.APIKey, error) {
	var list domain.List[domain.APIKey]
	if err := s.api.Get(ctx, "api-keys/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Create returns the new key. Its full value is only shown this once.
func (s *APIKeyService) Create(ctx context.Context, form domain.APIKeyForm) (*domain.APIKey, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}
	var key domain.APIKey
	if err := s.api.Post(ctx, "api-keys/", form, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

func (s *APIKeyService) Delete(ctx context.Context, id domain.ID) error {
	return s.api.Delete(ctx, "api-keys/"+pathID(id)+"/", nil)
}
