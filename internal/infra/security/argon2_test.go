package security

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("corral-gate-42")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !strings.HasPrefix(hash, "argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("corral-gate-42", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected password to verify against its own hash")
	}

	ok, err = VerifyPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail verification")
	}
}

func TestHashPasswordSaltsEveryHash(t *testing.T) {
	first, err := HashPassword("corral-gate-42")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("corral-gate-42")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	// Each hash draws a fresh random salt, so the encodings must differ.
	if first == second {
		t.Fatal("expected two hashes of the same password to differ")
	}

	for _, hash := range []string{first, second} {
		ok, err := VerifyPassword("corral-gate-42", hash)
		if err != nil {
			t.Fatalf("VerifyPassword returned error: %v", err)
		}
		if !ok {
			t.Fatalf("expected password to verify against hash %s", hash)
		}
	}
}

func TestHashPasswordRejectsOversizedInput(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", maxPasswordLength+1))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestVerifyPasswordFailsClosed(t *testing.T) {
	cases := []struct {
		name     string
		password string
		encoded  string
	}{
		{"empty password", "", "argon2id$v=19$m=65536,t=3,p=4$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{"empty hash", "secret", ""},
		{"garbage hash", "secret", "not-a-hash"},
		{"wrong variant", "secret", "argon2i$v=19$m=65536,t=3,p=4$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{"truncated segments", "secret", "argon2id$v=19$m=65536,t=3,p=4$c2FsdHNhbHQ"},
		{"bad base64 salt", "secret", "argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaGhhc2g"},
		{"oversized password", strings.Repeat("a", maxPasswordLength+1), "argon2id$v=19$m=65536,t=3,p=4$c2FsdHNhbHQ$aGFzaGhhc2g"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := VerifyPassword(tc.password, tc.encoded)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if ok {
				t.Fatal("expected verification to fail")
			}
		})
	}
}

func TestConfigureArgon2RejectsWeakParameters(t *testing.T) {
	defer func() {
		if err := ConfigureArgon2(DefaultArgon2Config()); err != nil {
			t.Fatalf("restore default config: %v", err)
		}
	}()

	weak := Argon2Config{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}
	if err := ConfigureArgon2(weak); err == nil {
		t.Fatal("expected configuration with low memory to be rejected")
	}

	valid := Argon2Config{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}
	if err := ConfigureArgon2(valid); err != nil {
		t.Fatalf("expected minimal valid configuration to be accepted, got %v", err)
	}
}
