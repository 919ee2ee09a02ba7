package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ed-platform/account-service/internal/auth"
	"github.com/ed-platform/account-service/internal/config"
	"github.com/ed-platform/account-service/internal/domain"
	"github.com/ed-platform/account-service/internal/events"
	"github.com/ed-platform/account-service/internal/repository"
)

// LoginThrottle limits repeated failed logins per phone number.
type LoginThrottle interface {
	Allow(ctx context.Context, phone string) bool
	RecordFailure(ctx context.Context, phone string) error
	Reset(ctx context.Context, phone string) error
}

// AuthService coordinates the login flow: credential lookup, digest check,
// status gate and token issuance.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	throttle   LoginThrottle
	dispatcher events.Dispatcher
	logger     *zap.Logger
	loginTTL   time.Duration
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Throttle    LoginThrottle
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts:   deps.AccountRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret),
		throttle:   deps.Throttle,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		loginTTL:   cfg.Auth.LoginTokenTTL(),
	}
}

// LoginResult carries the issued token back to the handler.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Login authenticates a phone/password pair and issues a bearer token. The
// password digest never leaves this method.
func (s *AuthService) Login(ctx context.Context, phone, password string) (*LoginResult, error) {
	if s.throttle != nil && !s.throttle.Allow(ctx, phone) {
		return nil, domain.ErrTooManyLoginAttempts
	}

	account, err := s.accounts.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.failLogin(ctx, phone, domain.ErrAccountNotFound)
		}
		s.logger.Error("account lookup failed", zap.Error(err))
		return nil, err
	}

	if !auth.VerifyPassword(password, account.PasswordHash) {
		if err := s.accounts.RecordFailedLogin(ctx, account.ID); err != nil {
			s.logger.Warn("failed-login counter update failed", zap.Error(err))
		}
		return nil, s.failLogin(ctx, phone, domain.ErrInvalidCredentials)
	}

	switch account.Status {
	case domain.AccountStatusActive:
	case domain.AccountStatusReset:
		return nil, s.failLogin(ctx, phone, domain.ErrPasswordResetRequired)
	case domain.AccountStatusClosed:
		return nil, s.failLogin(ctx, phone, domain.ErrAccountClosed)
	default:
		return nil, s.failLogin(ctx, phone, domain.ErrAccountNotActive)
	}

	role := ""
	if account.Role != nil {
		role = *account.Role
	}
	claims := auth.IdentityClaims{
		SubjectID: account.ID,
		Phone:     account.Phone,
		Role:      role,
		Name:      account.DisplayName(),
		Language:  string(account.Status),
	}

	token, expiresAt, err := s.tokenMgr.Issue(claims, s.loginTTL)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.RecordLogin(ctx, account.ID); err != nil {
		s.logger.Warn("last-login update failed", zap.Error(err))
	}
	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, phone); err != nil {
			s.logger.Warn("login throttle reset failed", zap.Error(err))
		}
	}
	s.publish(ctx, events.EventLoginSucceeded, events.LoginSucceededPayload{
		AccountID: account.ID,
		Phone:     account.Phone,
	})

	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// TokenManager exposes the underlying manager for guard wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) failLogin(ctx context.Context, phone string, reason error) error {
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, phone); err != nil {
			s.logger.Warn("login throttle update failed", zap.Error(err))
		}
	}
	s.publish(ctx, events.EventLoginFailed, events.LoginFailedPayload{
		Phone:  phone,
		Reason: reason.Error(),
	})
	return reason
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
