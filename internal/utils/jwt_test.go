package utils

import (
	"testing"
	"time"
)

func init() {
	SetJWTSecret("postpilot-test-secret")
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(1, "admin", "admin", 24)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if len(token) < 50 {
		t.Errorf("token seems too short: %d chars", len(token))
	}

	other, _ := GenerateToken(2, "operator", "user", 24)
	if token == other {
		t.Error("different users should produce different tokens")
	}
}

func TestParseToken_RoundTrip(t *testing.T) {
	token, _ := GenerateToken(42, "admin", "admin", 24)

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "admin" {
		t.Errorf("Username = %q, want admin", claims.Username)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

func TestParseToken_Invalid(t *testing.T) {
	for _, token := range []string{
		"",
		"garbage",
		"not.a.token",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature",
	} {
		if _, err := ParseToken(token); err == nil {
			t.Errorf("ParseToken(%q) should return error", token)
		}
	}
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	SetJWTSecret("first-secret")
	token, _ := GenerateToken(1, "admin", "admin", 24)

	SetJWTSecret("rotated-secret")
	_, err := ParseToken(token)

	SetJWTSecret("postpilot-test-secret")

	if err == nil {
		t.Error("tokens signed before a secret rotation must be rejected")
	}
}

func TestGenerateToken_Expiration(t *testing.T) {
	token, _ := GenerateToken(1, "admin", "admin", 1)
	claims, _ := ParseToken(token)

	expiresAt := claims.ExpiresAt.Time
	if expiresAt.Before(time.Now()) {
		t.Error("token should not be expired immediately")
	}

	diff := expiresAt.Sub(time.Now().Add(1 * time.Hour))
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiration is off by more than a minute: %v", diff)
	}
}
