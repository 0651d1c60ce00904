package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/taskflow/internal/auth"
)

const testSecret = "test-secret-key-for-token-unit-tests"

func TestIssueAndValidate_RoundTrip(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, 7*24*time.Hour)

	token, err := issuer.Issue("64f1c0ffee0000000000abcd")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if userID != "64f1c0ffee0000000000abcd" {
		t.Fatalf("expected original user id, got %q", userID)
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	// Negative TTL produces a token whose validity window already elapsed.
	issuer := auth.NewTokenIssuer(testSecret, -time.Minute)

	token, err := issuer.Issue("user1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = issuer.Validate(token)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected token expired error, got %v", err)
	}
}

func TestValidate_JustBeforeExpiry(t *testing.T) {
	// A token with one second of validity left must still be accepted.
	issuer := auth.NewTokenIssuer(testSecret, time.Second)

	token, err := issuer.Issue("user1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate just before expiry: %v", err)
	}
	if userID != "user1" {
		t.Fatalf("expected user1, got %q", userID)
	}
}

func TestValidate_Malformed(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)

	_, err := issuer.Validate("not-a-jwt")
	if err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)
	other := auth.NewTokenIssuer("a-completely-different-signing-key", time.Hour)

	token, err := issuer.Issue("user1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = other.Validate(token)
	if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Fatalf("expected signature error, got %v", err)
	}
}

func TestValidate_TamperedSignature(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)

	token, err := issuer.Issue("user1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tampered := token[:len(token)-5] + "XXXXX"
	if _, err := issuer.Validate(tampered); err == nil {
		t.Fatal("expected error for tampered token")
	}
}
