package security

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSigningSecret = "unit-test-signing-secret"

func TestIssueAndVerifyToken(t *testing.T) {
	issued := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	clock := issued

	issuer, err := NewTokenIssuer(testSigningSecret, "bovino-test", 0, WithClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	if issuer.TTL() != 24*time.Hour {
		t.Fatalf("expected default TTL of 24h, got %s", issuer.TTL())
	}

	signed, err := issuer.Issue("user-123", "rancher")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := issuer.Verify(signed)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if claims.UserID != "user-123" {
		t.Fatalf("unexpected user id: %s", claims.UserID)
	}
	if claims.Role != "rancher" {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
	if claims.Issuer != "bovino-test" {
		t.Fatalf("unexpected issuer: %s", claims.Issuer)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if got := claims.ExpiresAt.Time; !got.Equal(issued.Add(24 * time.Hour)) {
		t.Fatalf("unexpected expiry: %s", got)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	clock := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	issuer, err := NewTokenIssuer(testSigningSecret, "bovino-test", time.Hour, WithClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	signed, err := issuer.Issue("user-123", "")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Still valid just before expiry.
	clock = clock.Add(time.Hour - time.Second)
	if _, err := issuer.Verify(signed); err != nil {
		t.Fatalf("expected token to remain valid before expiry, got %v", err)
	}

	clock = clock.Add(2 * time.Second)
	if _, err := issuer.Verify(signed); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	issuer, err := NewTokenIssuer(testSigningSecret, "bovino-test", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	signed, err := issuer.Issue("user-123", "admin")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Flip one character in the signature segment.
	tampered := signed[:len(signed)-2]
	if strings.HasSuffix(signed, "A") {
		tampered += "BB"
	} else {
		tampered += "AA"
	}

	if _, err := issuer.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	issuer, err := NewTokenIssuer(testSigningSecret, "bovino-test", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	for _, signed := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := issuer.Verify(signed); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", signed, err)
		}
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenIssuer(testSigningSecret, "bovino-test", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	other, err := NewTokenIssuer("a-different-secret", "bovino-test", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	signed, err := issuer.Issue("user-123", "")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := other.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken with wrong secret, got %v", err)
	}
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("  ", "bovino-test", time.Hour); err == nil {
		t.Fatal("expected error for blank secret")
	}
}
