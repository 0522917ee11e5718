package auth

import (
	"errors"
	"testing"
	"time"
)

func testManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret-key",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "coaching-center-test",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := testManager()

	token, err := m.GenerateAccessToken(42, "user@example.com", "teacher", 3)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "teacher" {
		t.Errorf("Role = %q, want teacher", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType = %q, want access", claims.TokenType)
	}
	if claims.TokenVersion != 3 {
		t.Errorf("TokenVersion = %d, want 3", claims.TokenVersion)
	}
}

func TestRefreshTokenType(t *testing.T) {
	m := testManager()

	token, err := m.GenerateRefreshToken(7, "user@example.com", "student", 0)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("TokenType = %q, want refresh", claims.TokenType)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	m := testManager()
	token, err := m.GenerateAccessToken(1, "a@b.co", "admin", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	other := NewJWTManager(JWTConfig{Secret: "different-secret", Expiry: time.Hour, Issuer: "coaching-center-test"})
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	m := NewJWTManager(JWTConfig{
		Secret: "test-secret-key",
		Expiry: -time.Minute, // already expired when issued
		Issuer: "coaching-center-test",
	})

	token, err := m.GenerateAccessToken(1, "a@b.co", "admin", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := m.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expired token error = %v, want ErrExpiredToken", err)
	}
}

func TestValidateTokenRejectsWrongIssuer(t *testing.T) {
	issuing := NewJWTManager(JWTConfig{Secret: "test-secret-key", Expiry: time.Hour, Issuer: "someone-else"})
	token, err := issuing.GenerateAccessToken(1, "a@b.co", "admin", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	m := testManager()
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidClaims) {
		t.Errorf("wrong issuer error = %v, want ErrInvalidClaims", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	m := testManager()
	if _, err := m.ValidateToken("not.a.jwt"); err == nil {
		t.Error("garbage token accepted")
	}
}
