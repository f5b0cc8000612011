package service

import (
	"context"
	"errors"
	"fmt"

	"best-coupon/internal/auth"
	"best-coupon/internal/metrics"
	"best-coupon/internal/model"

	"github.com/rs/zerolog"
)

// authService implements AuthService.
type authService struct {
	store   auth.CredentialStore
	tokens  TokenIssuer
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewAuthService creates a new auth service. tokens may be nil, in which case
// no token is issued on login.
func NewAuthService(store auth.CredentialStore, tokens TokenIssuer, m *metrics.Metrics, logger zerolog.Logger) AuthService {
	return &authService{
		store:   store,
		tokens:  tokens,
		metrics: m,
		logger:  logger.With().Str("service", "auth").Logger(),
	}
}

// Login authenticates the shopper and returns their profile.
func (s *authService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	if email == "" || password == "" {
		return nil, model.ErrMissingCredentials
	}

	profile, err := s.store.Authenticate(ctx, email, password)
	if err != nil {
		s.metrics.ObserveLogin(false)
		if errors.Is(err, model.ErrInvalidCredentials) {
			s.logger.Info().Msg("login rejected")
			return nil, model.ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Msg("failed to authenticate")
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	resp := &model.LoginResponse{
		Success: true,
		User:    profile,
	}

	if s.tokens != nil {
		token, err := s.tokens.Issue(profile)
		if err != nil {
			s.metrics.ObserveLogin(false)
			s.logger.Error().Err(err).Str("user_id", profile.UserID).Msg("failed to issue token")
			return nil, fmt.Errorf("failed to issue token: %w", err)
		}
		resp.Token = token
	}

	s.metrics.ObserveLogin(true)
	s.logger.Info().Str("user_id", profile.UserID).Msg("login succeeded")

	return resp, nil
}
