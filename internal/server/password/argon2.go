// Package password implements one-way password hashing with argon2id.
// Hashes are stored in PHC string format, so parameters travel with the
// hash and can be tightened later without invalidating existing records.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

type Argon2 struct {
	time        uint32
	memory      uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

// NewArgon2 returns a hasher with the service defaults (64 MiB, t=1, p=4).
func NewArgon2() *Argon2 {
	return &Argon2{
		time:        1,
		memory:      64 * 1024,
		parallelism: 4,
		saltLength:  16,
		keyLength:   32,
	}
}

// Hash derives a salted argon2id hash of the password and encodes it as
// $argon2id$v=19$m=...,t=...,p=...$salt$hash.
func (a *Argon2) Hash(password string) (string, error) {
	salt := make([]byte, a.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, a.time, a.memory, a.parallelism, a.keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.memory,
		a.time,
		a.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify recomputes the hash with the parameters embedded in encodedHash and
// compares in constant time. A malformed or empty stored hash is a plain
// verification failure, not an error: callers treat both the same way.
func (a *Argon2) Verify(password, encodedHash string) (bool, error) {
	memory, time, parallelism, salt, hash, ok := decodePHC(encodedHash)
	if !ok {
		return false, nil
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, parallelism, uint32(len(hash)))

	return subtle.ConstantTimeCompare(computed, hash) == 1, nil
}

func decodePHC(encoded string) (memory, time uint32, parallelism uint8, salt, hash []byte, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return 0, 0, 0, nil, nil, false
	}

	var p uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &p); err != nil {
		return 0, 0, 0, nil, nil, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return 0, 0, 0, nil, nil, false
	}

	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return 0, 0, 0, nil, nil, false
	}

	return memory, time, p, salt, hash, true
}
