package security_test

import (
	"testing"

	"github.com/msomdec/taskflow/internal/security"
)

// Cost 4 keeps the tests fast.
const testCost = 4

func TestHashAndVerify_RoundTrip(t *testing.T) {
	hash, err := security.Hash("secret1", testCost)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash must not equal the plaintext")
	}

	ok, err := security.Verify("secret1", hash)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("expected original plaintext to verify")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	hash, err := security.Hash("secret1", testCost)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	ok, err := security.Verify("wrong", hash)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail verification")
	}
}

func TestHash_SaltIsRandomized(t *testing.T) {
	h1, err := security.Hash("samepassword", testCost)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := security.Hash("samepassword", testCost)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 == h2 {
		t.Fatal("expected different hashes for the same plaintext")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	_, err := security.Verify("secret1", "not-a-bcrypt-hash")
	if err == nil {
		t.Fatal("expected error for malformed stored hash")
	}
}
