package jwt

import (
	"testing"
	"time"
)

const testSecret = "test-secret-key"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("u1", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", claims.UserID)
	}
	if claims.Issuer != TokenIssuer {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, TokenIssuer)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("u1", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Error("expected verification failure with a different secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("u1", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken(token, testSecret); err == nil {
		t.Error("expected an expired token to be rejected")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", testSecret); err == nil {
		t.Error("expected a malformed token to be rejected")
	}
}
