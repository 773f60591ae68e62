// Package common provides error kinds and small helpers shared by the
// server packages: random token material and numeric one-time codes.
package common

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
)

// MakeRandHexString generates a random hexadecimal string from size random
// bytes, so the resulting string is twice as long as size. It is used for
// opaque refresh tokens, which carry no embedded claims and are only ever
// compared by exact match against the session store.
//
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {

	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// GenerateOTPCode returns a string of length random decimal digits drawn
// from crypto/rand. Each digit is sampled independently, so the result is
// uniform. Codes are not checked for collisions: a code is always looked up
// by email, value, and purpose together.
func GenerateOTPCode(length int) (string, error) {

	var sb strings.Builder
	sb.Grow(length)

	ten := big.NewInt(10)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}

	return sb.String(), nil
}
