package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/laundry-service/internal/auth"
	"github.com/spec-kit/laundry-service/internal/config"
	"github.com/spec-kit/laundry-service/internal/docstore"
	"github.com/spec-kit/laundry-service/internal/domain"
	"github.com/spec-kit/laundry-service/internal/repository"
	apperrors "github.com/spec-kit/laundry-service/pkg/util"
)

// AuthService coordinates operator login.
type AuthService struct {
	operators  repository.OperatorRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, operators repository.OperatorRepository) *AuthService {
	return &AuthService{
		operators:  operators,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login authenticates an operator by mail and password.
func (s *AuthService) Login(ctx context.Context, mail, password string) (*domain.Operator, string, time.Time, error) {
	op, err := s.operators.GetByMail(ctx, mail)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if !op.Active {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("operator disabled")
	}
	if err := auth.ComparePassword(op.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(op.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return op, token, exp, nil
}

// RegisterOperator creates a staff account; used by the seeding command.
func (s *AuthService) RegisterOperator(ctx context.Context, name, mail, password string) (string, error) {
	if _, err := s.operators.GetByMail(ctx, mail); err == nil {
		return "", apperrors.NewValidationError("mail already registered", nil)
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return "", err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", err
	}
	return s.operators.Create(ctx, domain.Operator{
		Name:         name,
		Mail:         mail,
		PasswordHash: hash,
		Active:       true,
	})
}
