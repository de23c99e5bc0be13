package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestJWTFlow(t *testing.T) {
	tokens, err := NewTokenManager("test-secret-key-12345", time.Hour)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}

	userID := uuid.New().String()
	email := "test@example.com"

	token, err := tokens.GenerateToken(userID, email, UserTypeAdmin)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	gotID, gotEmail, gotRole, err := tokens.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if gotID != userID {
		t.Fatalf("Expected userID %s, got %s", userID, gotID)
	}
	if gotEmail != email {
		t.Fatalf("Expected email %s, got %s", email, gotEmail)
	}
	if gotRole != UserTypeAdmin {
		t.Fatalf("Expected role admin, got %s", gotRole)
	}
}

func TestJWTRejectsOtherSecret(t *testing.T) {
	a, _ := NewTokenManager("secret-a", time.Hour)
	b, _ := NewTokenManager("secret-b", time.Hour)

	token, err := a.GenerateToken("user-1", "a@example.com", UserTypeCustomer)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := b.ValidateToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	tokens, _ := NewTokenManager("secret", time.Hour)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": "user-1",
		"exp":    time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := tokens.ValidateToken(signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
