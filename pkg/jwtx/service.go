package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret          = errors.New("jwtx: empty signing secret")
	ErrUnsupportedAlgorithm = errors.New("jwtx: unsupported algorithm")

	ErrInvalidToken = errors.New("jwtx: invalid token")
	ErrTokenExpired = errors.New("jwtx: token expired")
)

// Service issues and validates HMAC-signed access tokens. It holds no mutable
// state after construction and is safe for concurrent use.
type Service struct {
	secret []byte
	method *jwt.SigningMethodHMAC
}

// NewService builds a Service for one of HS256, HS384 or HS512. The algorithm
// is fixed for the lifetime of the Service; tokens signed with anything else
// (including "none") are rejected.
func NewService(secret []byte, algorithm string) (*Service, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	var method *jwt.SigningMethodHMAC
	switch algorithm {
	case jwt.SigningMethodHS256.Alg():
		method = jwt.SigningMethodHS256
	case jwt.SigningMethodHS384.Alg():
		method = jwt.SigningMethodHS384
	case jwt.SigningMethodHS512.Alg():
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &Service{
		secret: key,
		method: method,
	}, nil
}

// Algorithm returns the JOSE name of the signing algorithm.
func (s *Service) Algorithm() string { return s.method.Alg() }

// Issue signs a token for subject valid from now until now+ttl.
func (s *Service) Issue(subject Subject, now time.Time, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("jwtx: non-positive ttl %s", ttl)
	}

	token := jwt.NewWithClaims(s.method, NewClaims(subject, now, ttl))
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature of raw and then checks it is valid at now
// (iat <= now < exp). Expiry is reported as ErrTokenExpired; every other
// failure is ErrInvalidToken.
func (s *Service) Validate(raw string, now time.Time) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	default:
		return Claims{}, ErrInvalidToken
	}

	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
