package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify_Match(t *testing.T) {
	a := NewArgon2()

	encoded, err := a.Hash("pw123456")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected hash format: %q", encoded)
	}

	ok, err := a.Verify("pw123456", encoded)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatalf("correct password must verify")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	a := NewArgon2()

	encoded, err := a.Hash("pw123456")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := a.Verify("wrong-password", encoded)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatalf("wrong password must not verify")
	}
}

func TestHash_SaltVaries(t *testing.T) {
	a := NewArgon2()

	h1, err := a.Hash("pw123456")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := a.Hash("pw123456")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ by salt")
	}
}

func TestVerify_MalformedHashIsFailureNotError(t *testing.T) {
	a := NewArgon2()

	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=1,p=4$bad!salt$hash",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536$c2FsdA$aGFzaA",
	} {
		ok, err := a.Verify("pw123456", encoded)
		if err != nil {
			t.Fatalf("malformed hash %q must not raise an error, got %v", encoded, err)
		}
		if ok {
			t.Fatalf("malformed hash %q must not verify", encoded)
		}
	}
}
