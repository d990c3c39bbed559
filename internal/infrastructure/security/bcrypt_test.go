package security

import "testing"

func TestHashAndVerify(t *testing.T) {
	h := NewBcryptHasher(4) // minimum cost keeps the test fast
	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !h.Verify("s3cret", hash) {
		t.Fatal("correct password should verify")
	}
	if h.Verify("wrong", hash) {
		t.Fatal("wrong password should not verify")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h := NewBcryptHasher(4)
	a, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password should differ")
	}
}

func TestVerifyGarbageHash(t *testing.T) {
	h := NewBcryptHasher(4)
	if h.Verify("anything", "not-a-bcrypt-hash") {
		t.Fatal("garbage hash must not verify")
	}
}
