package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the default lifetime for access tokens. There is no
// refresh or revocation, so it stays short.
const DefaultTokenTTL = 30 * time.Minute

// Subject is the identity a token is issued for.
type Subject struct {
	ID       string
	Username string
	Role     string
}

// Claims is the access-token claim set:
//
//	{"sub": <id>, "username": <string>, "role": <string>, "iat": <unix>, "exp": <unix>}
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`

	jwt.RegisteredClaims
}

// NewClaims builds the claims for subject s, issued at now and expiring after ttl.
func NewClaims(s Subject, now time.Time, ttl time.Duration) Claims {
	return Claims{
		Username: s.Username,
		Role:     s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// IssuedAtTime returns iat, or the zero time when absent.
func (c Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime returns exp, or the zero time when absent.
func (c Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
