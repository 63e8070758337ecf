package auth

import (
	"testing"
	"time"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	service, err := NewService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("service init: %v", err)
	}

	csrf, err := GenerateCSRFToken()
	if err != nil {
		t.Fatalf("csrf: %v", err)
	}

	user := models.User{ID: 7, Email: "test@example.com"}
	token, err := service.GenerateToken(user, csrf)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	parsed, err := service.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if parsed.ID != user.ID || parsed.Email != user.Email {
		t.Fatalf("unexpected claims: %+v", parsed)
	}
	if parsed.CSRF != csrf {
		t.Fatalf("csrf mismatch")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewService("secret-one", time.Hour)
	verifier, _ := NewService("secret-two", time.Hour)

	token, err := issuer.GenerateToken(models.User{ID: 1, Email: "a@b.c"}, "csrf")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestNewServiceRequiresSecret(t *testing.T) {
	if _, err := NewService("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
