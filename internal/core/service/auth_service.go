package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/ports"
	"github.com/smmpanel/smm-client/internal/core/validation"
)

// AuthService implements login, registration, logout and the OTP password
// reset flow. Login and registration are the only calls that open a session.
type AuthService struct {
	api      ports.Transport
	session  *SessionService
	validate *validation.Validator
	logger   zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(api ports.Transport, session *SessionService, validate *validation.Validator, logger zerolog.Logger) *AuthService {
	return &AuthService{api: api, session: session, validate: validate, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, form domain.LoginForm) (*domain.Session, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "auth/login/", form)
}

func (s *AuthService) Register(ctx context.Context, form domain.RegisterForm) (*domain.Session, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "auth/register/", form)
}

// authenticate opens a session only when the answer carries both a token and
// a user. Any other answer leaves the stored session as it was.
func (s *AuthService) authenticate(ctx context.Context, endpoint string, body any) (*domain.Session, error) {
	var res authResult
	if err := s.api.Post(ctx, endpoint, body, &res); err != nil {
		return nil, err
	}
	if !res.accepted() {
		msg := res.Message
		if msg == "" {
			msg = domain.DefaultErrorMessage
		}
		s.logger.Warn().Str("endpoint", endpoint).Msg("authentication answer without token or user")
		return nil, fmt.Errorf("%w: %s", domain.ErrAuthRejected, msg)
	}
	return s.session.Open(ctx, res.Token, res.User, res.balance())
}

// Logout tells the backend on a best-effort basis and always drops the local
// session.
func (s *AuthService) Logout(ctx context.Context) error {
	if s.session.Token(ctx) != "" {
		if err := s.api.Post(ctx, "auth/logout/", nil, nil); err != nil {
			s.logger.Debug().Err(err).Msg("server logout failed")
		}
	}
	return s.session.Close(ctx)
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, form domain.ResetRequestForm) (string, error) {
	if err := s.validate.Struct(form); err != nil {
		return "", err
	}
	var res ackResult
	if err := s.api.Post(ctx, "auth/password-reset/", form, &res); err != nil {
		return "", err
	}
	return res.Message, res.err()
}

func (s *AuthService) VerifyResetOTP(ctx context.Context, form domain.OTPForm) error {
	if err := s.validate.Struct(form); err != nil {
		return err
	}
	var res ackResult
	if err := s.api.Post(ctx, "auth/password-reset/verify/", form, &res); err != nil {
		return err
	}
	return res.err()
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, form domain.ResetConfirmForm) (string, error) {
	if err := s.validate.Struct(form); err != nil {
		return "", err
	}
	var res ackResult
	if err := s.api.Post(ctx, "auth/password-reset/confirm/", form, &res); err != nil {
		return "", err
	}
	return res.Message, res.err()
}
