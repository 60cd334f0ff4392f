package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// issueToken signs an HS256 token for the user, subject set to the
// user id, expiring after ttl.
func issueToken(user *User, secret string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expires := now.Add(ttl)

	claims := tokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expires, nil
}

// parseToken verifies a locally signed token and returns its subject
// user id.
func parseToken(raw, secret string) (uuid.UUID, error) {
	claims := &tokenClaims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}

	return id, nil
}
