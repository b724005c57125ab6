package utils

import (
	"strings"
	"testing"
	"time"
)

func TestHashPassword(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	digest, err := HashPassword("secret", salt)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !CheckPassword("secret", salt, digest) {
		t.Errorf("Expected password check to pass")
	}

	if CheckPassword("wrongpassword", salt, digest) {
		t.Errorf("Expected password check to fail")
	}
}

func TestHashPasswordDependsOnSalt(t *testing.T) {
	first, _ := NewSalt()
	second, _ := NewSalt()
	if first == second {
		t.Fatalf("Expected distinct salts")
	}

	a, err := HashPassword("secret", first)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	b, err := HashPassword("secret", second)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if a == b {
		t.Errorf("Expected different digests for different salts")
	}

	again, _ := HashPassword("secret", first)
	if again != a {
		t.Errorf("Expected digest to be deterministic for the same salt")
	}
}

func TestCheckPasswordRejectsMalformedSalt(t *testing.T) {
	if CheckPassword("secret", "%%%not-base64", "digest") {
		t.Errorf("Expected malformed salt to fail the check")
	}
}

func TestJWT(t *testing.T) {
	secret := "supersecret"

	token, err := GenerateToken("ann@x.com", "Ann", secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if claims.Email != "ann@x.com" {
		t.Errorf("Expected Email %s, got %s", "ann@x.com", claims.Email)
	}
	if claims.Name != "Ann" {
		t.Errorf("Expected Name %s, got %s", "Ann", claims.Name)
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != TokenTTL {
		t.Errorf("Expected lifetime %s, got %s", TokenTTL, lifetime)
	}

	_, err = ValidateToken(token, "wrongsecret")
	if err == nil {
		t.Errorf("Expected error with wrong secret")
	}
}

func TestJWTRejectsCorruptedSignature(t *testing.T) {
	token, err := GenerateToken("ann@x.com", "Ann", "supersecret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	lastDot := strings.LastIndex(token, ".")
	signature := []byte(token[lastDot+1:])
	if signature[0] == 'A' {
		signature[0] = 'B'
	} else {
		signature[0] = 'A'
	}
	corrupted := token[:lastDot+1] + string(signature)

	if _, err := ValidateToken(corrupted, "supersecret"); err == nil {
		t.Errorf("Expected corrupted signature to fail validation")
	}
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	token, err := GenerateTokenWithTTL("ann@x.com", "Ann", "supersecret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateTokenWithTTL: %v", err)
	}

	if _, err := ValidateToken(token, "supersecret"); err == nil {
		t.Errorf("Expected expired token to fail validation")
	}
}
