package auth

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"user-console/internal/adapter/session"
	apperrors "user-console/pkg/errors"
	"user-console/pkg/logger"
)

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// LoginRequest represents the credentials entered on the login view.
type LoginRequest struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// Service implements the login and logout flows.
type Service struct {
	api      Authenticator
	log      *zap.Logger
	validate *validator.Validate
}

// NewService creates a new auth service.
func NewService(api Authenticator, log *zap.Logger) *Service {
	return &Service{api: api, log: log, validate: validator.New()}
}

// Login checks that both credentials are present, authenticates against the
// remote API and stores the token in sess. Nothing is stored on failure.
func (s *Service) Login(ctx context.Context, sess *session.Session, in LoginRequest) error {
	log := logger.WithContext(ctx, s.log)
	log.Info("login attempt", zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return apperrors.NewValidationError("", "Please enter both email and password")
	}

	token, err := s.api.Login(ctx, in.Email, in.Password)
	if err != nil {
		log.Warn("login rejected", zap.String("email", in.Email), zap.Error(err))
		return err
	}

	if err := sess.SetToken(ctx, token); err != nil {
		log.Error("failed to persist token", zap.Error(err))
		return fmt.Errorf("login: %w", err)
	}

	log.Info("login succeeded", zap.String("email", in.Email))
	return nil
}

// Logout removes the token from sess.
func (s *Service) Logout(ctx context.Context, sess *session.Session) error {
	if err := sess.Clear(ctx); err != nil {
		logger.WithContext(ctx, s.log).Error("failed to clear session", zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}
	logger.WithContext(ctx, s.log).Info("logged out")
	return nil
}
