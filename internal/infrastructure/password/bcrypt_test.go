package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_UsesCost12(t *testing.T) {
	if Cost != 12 {
		t.Fatalf("expected bcrypt cost 12, got %d", Cost)
	}

	h := NewHasher()
	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != Cost {
		t.Fatalf("stored hash has cost %d, want %d", cost, Cost)
	}
}

func TestHasher_VerifyRoundTrip(t *testing.T) {
	h := NewHasher()
	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatalf("hash equals plaintext")
	}
	if !h.Verify("secret1", hash) {
		t.Fatalf("expected matching password to verify")
	}
	if h.Verify("secret2", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHasher_VerifyMalformedHashIsFalse(t *testing.T) {
	h := NewHasher()
	if h.Verify("secret1", "not-a-bcrypt-hash") {
		t.Fatalf("malformed hash must not verify")
	}
	if h.Verify("", "") {
		t.Fatalf("empty hash must not verify")
	}
}

func TestHasher_RejectsOverlongPassword(t *testing.T) {
	h := NewHasher()
	if _, err := h.Hash(strings.Repeat("x", MaxLength+1)); err != ErrTooLong {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
}
