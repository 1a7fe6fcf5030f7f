package service

import (
	"fmt"
	"time"

	"dmserver/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenConfig struct {
	Issuer     string
	TTL        time.Duration // bearer validity window
	SigningKey []byte        // HS256 secret
}

// TokenService is the identity verifier: it mints bearer tokens for users
// and converts presented tokens back into a user id.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	return &TokenService{cfg: cfg, now: time.Now}
}

func (t *TokenService) Issue(user *domain.User) (string, error) {
	now := t.now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    t.cfg.Issuer,
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.SigningKey)
}

// Verify returns the user id encoded in the token. Every failure mode
// (malformed, expired, bad signature, wrong issuer) collapses into
// domain.ErrInvalidToken; callers answer 401 uniformly.
func (t *TokenService) Verify(tokenString string) (domain.UserID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", token.Method)
		}
		return t.cfg.SigningKey, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return uuid.Nil, domain.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, domain.ErrInvalidToken
	}
	if t.cfg.Issuer != "" && claims.Issuer != t.cfg.Issuer {
		return uuid.Nil, domain.ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidToken
	}
	return id, nil
}
