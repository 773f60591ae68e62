// Package auth mints and validates the signed access tokens. Access tokens
// are stateless: validity is decided by signature and expiry alone, with no
// store lookup, so they cannot be revoked before their natural expiry.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skurlov/identsvc/internal/common"
)

// KindAccess marks access tokens. The kind claim keeps an opaque refresh
// string from ever being accepted where an access token is expected.
const KindAccess = "access"

// Claims extends the registered JWT claims with the user id, email, and the
// token kind marker.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Email  string `json:"email,omitempty"`
	Kind   string `json:"kind"`
}

// GenerateAccessToken signs an HS256 access token for the user with the
// given validity window.
func GenerateAccessToken(userID, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Email:  email,
		Kind:   KindAccess,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseAccessToken verifies signature, expiry, and kind of an access token
// and returns its claims. Any failure is reported as common.ErrInvalidToken;
// callers have no use for the distinction.
func ParseAccessToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Kind != KindAccess {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
