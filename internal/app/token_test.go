package app

import (
	"testing"
	"time"

	"caltrack/internal/domain"
)

func TestTokenService_RequiresSecret(t *testing.T) {
	if _, err := NewTokenService(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	token, expiresIn, err := svc.IssueAccessToken(42, domain.RoleUser)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if expiresIn != int64(AccessTokenTTL.Seconds()) {
		t.Errorf("expected expiresIn %d, got %d", int64(AccessTokenTTL.Seconds()), expiresIn)
	}

	identity, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if identity.ID != 42 {
		t.Errorf("expected id 42, got %d", identity.ID)
	}
	if identity.Role != domain.RoleUser {
		t.Errorf("expected role %q, got %q", domain.RoleUser, identity.Role)
	}
}

func TestTokenService_VerifyRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewTokenService("secret-a")
	verifier, _ := NewTokenService("secret-b")

	token, _, err := issuer.IssueAccessToken(1, domain.RoleUser)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_VerifyRejectsExpired(t *testing.T) {
	svc, _ := NewTokenService("test-secret")
	svc.accessTTL = -time.Minute

	token, _, err := svc.IssueAccessToken(1, domain.RoleUser)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.Verify(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_VerifyRejectsGarbage(t *testing.T) {
	svc, _ := NewTokenService("test-secret")
	if _, err := svc.Verify("not-a-token"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewRefreshToken_Unique(t *testing.T) {
	a, err := NewRefreshToken()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, err := NewRefreshToken()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a == "" || a == b {
		t.Error("refresh tokens should be non-empty and unique")
	}
}
