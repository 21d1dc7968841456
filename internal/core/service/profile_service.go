package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
	"github.com/smmpanel/smm-client/internal/core/validation"
)

type ProfileService struct {
	api      ports.Transport
	session  *SessionService
	validate *validation.Validator
	logger   zerolog.Logger
}

var _ ports.ProfileService = (*ProfileService)(nil)

func NewProfileService(api ports.Transport, session *SessionService, validate *validation.Validator, logger zerolog.Logger) *ProfileService {
	return &ProfileService{api: api, session: session, validate: validate, logger: logger}
}

// Get fetches the profile and refreshes the cached session user.
func (s *ProfileService) Get(ctx context.Context) (*domain.User, error) {
	var res profileResult
	if err := s.api.Get(ctx, "user/profile/", &res); err != nil {
		return nil, err
	}
	if res.User == nil {
		return nil, domain.ErrUnexpectedResponse
	}
	s.cache(ctx, res.User)
	return res.User, nil
}

// Update changes the display names and patches the cached user to match.
func (s *ProfileService) Update(ctx context.Context, form domain.ProfileForm) (*domain.User, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}
	var res ackResult
	if err := s.api.Patch(ctx, "user/profile/update/", form, &res); err != nil {
		return nil, err
	}
	if err := res.err(); err != nil {
		return nil, err
	}

	user := &domain.User{}
	if cached := s.session.User(ctx); cached != nil {
		user = cached
	}
	user.FirstName = form.FirstName
	user.LastName = form.LastName
	s.cache(ctx, user)
	return user, nil
}

func (s *ProfileService) ChangePassword(ctx context.Context, form domain.ChangePasswordForm) error {
	if err := s.validate.Struct(form); err != nil {
		return err
	}
	var res ackResult
	if err := s.api.Post(ctx, "user/change-password/", form, &res); err != nil {
		return err
	}
	return res.err()
}

func (s *ProfileService) cache(ctx context.Context, user *domain.User) {
	if err := s.session.Refresh(ctx, user); err != nil && !errors.Is(err, domain.ErrNotAuthenticated) {
		s.logger.Warn().Err(err).Msg("failed to refresh cached user")
	}
}
