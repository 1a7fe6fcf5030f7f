package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"dmserver/internal/domain"
	"dmserver/internal/dto"
	"dmserver/internal/observability/metrics"
	"dmserver/internal/store"

	"github.com/google/uuid"
)

type AuthService struct {
	store  *store.Store
	tokens *TokenService
}

func NewAuthService(st *store.Store, tokens *TokenService) *AuthService {
	return &AuthService{store: st, tokens: tokens}
}

func (a *AuthService) Register(ctx context.Context, r dto.RegisterRequest) (*dto.AuthResponse, error) {
	result := "success"
	defer func() {
		metrics.AuthRegistrationsTotal.WithLabelValues(result).Inc()
	}()

	name := strings.TrimSpace(r.Name)
	email := strings.TrimSpace(r.Email)
	if name == "" || email == "" || r.Password == "" {
		result = "failure"
		return nil, ErrMissingField
	}

	hash, err := HashPassword(r.Password)
	if err != nil {
		result = "failure"
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.Users().GetByEmail(ctx, email); err == nil {
			return domain.ErrEmailTaken
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			if store.IsDuplicateKey(err) {
				return domain.ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return &dto.AuthResponse{User: dto.NewUserInfo(*user), Token: token}, nil
}

func (a *AuthService) Login(ctx context.Context, r dto.LoginRequest) (*dto.AuthResponse, error) {
	result := "success"
	defer func() {
		metrics.AuthLoginsTotal.WithLabelValues(result).Inc()
	}()

	email := strings.TrimSpace(r.Email)
	if email == "" || r.Password == "" {
		result = "failure"
		return nil, ErrMissingField
	}

	user, err := a.store.Users().GetByEmail(ctx, email)
	if err != nil {
		result = "failure"
		if errors.Is(err, store.ErrRecordNotFound) {
			// Don't leak whether the email exists.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := ComparePassword(r.Password, user.PasswordHash)
	if err != nil || !ok {
		result = "failure"
		return nil, domain.ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("user logged in", "user_id", user.ID)
	return &dto.AuthResponse{User: dto.NewUserInfo(*user), Token: token}, nil
}
