package service

import (
	"errors"
	"testing"
	"time"

	"dmserver/internal/domain"

	"github.com/google/uuid"
)

func testUser() *domain.User {
	return &domain.User{ID: uuid.New(), Name: "alice", Email: "alice@x.com"}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(TokenConfig{Issuer: "dmserver", SigningKey: []byte("secret")})
	user := testUser()

	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != user.ID {
		t.Fatalf("expected subject %s, got %s", user.ID, got)
	}
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenService(TokenConfig{Issuer: "dmserver", SigningKey: []byte("secret")})
	user := testUser()

	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Jump past the 7-day validity window.
	svc.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenWrongKey(t *testing.T) {
	issuer := NewTokenService(TokenConfig{Issuer: "dmserver", SigningKey: []byte("secret-a")})
	verifier := NewTokenService(TokenConfig{Issuer: "dmserver", SigningKey: []byte("secret-b")})

	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for bad signature, got %v", err)
	}
}

func TestTokenMalformed(t *testing.T) {
	svc := NewTokenService(TokenConfig{Issuer: "dmserver", SigningKey: []byte("secret")})

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", raw, err)
		}
	}
}

func TestTokenIssuerMismatch(t *testing.T) {
	issuer := NewTokenService(TokenConfig{Issuer: "someone-else", SigningKey: []byte("secret")})
	verifier := NewTokenService(TokenConfig{Issuer: "dmserver", SigningKey: []byte("secret")})

	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for issuer mismatch, got %v", err)
	}
}
