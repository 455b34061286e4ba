package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/metrics"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/aussiebroadwan/bookshelf/pkg/cryptox"
	"github.com/aussiebroadwan/bookshelf/pkg/jwtx"
	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
)

type AuthService struct {
	Store   store.Store
	Hasher  *cryptox.PasswordHasher
	Tokens  *jwtx.Service
	TTL     time.Duration
	Metrics *metrics.Metrics
	Now     func() time.Time

	dummyOnce sync.Once
	dummyHash string
	hashDummy func(string) (string, error) // Hasher.Hash when nil
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *AuthService) ttl() time.Duration {
	if s.TTL <= 0 {
		return jwtx.DefaultTokenTTL
	}
	return s.TTL
}

// dummy is verified against for unknown usernames so both failure paths cost
// one hash. If hashing fails the fixed unmatchable hash stands in, which costs
// the same to verify.
func (s *AuthService) dummy(ctx context.Context) string {
	s.dummyOnce.Do(func() {
		hash := s.hashDummy
		if hash == nil {
			hash = s.Hasher.Hash
		}
		h, err := hash("not-a-real-password")
		if err != nil {
			slogx.FromContext(ctx).Error("failed to hash dummy password", slog.Any("error", err))
			h = cryptox.UnmatchableHash
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// Login exchanges a username and password for an access token. Unknown users
// and wrong passwords both fail with fault.ErrIncorrectCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Token, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.Hasher.Verify(password, s.dummy(ctx))
		s.Metrics.Login(false)
		l.Info("login failed", slog.String("username", username))
		return domain.Token{}, fault.ErrIncorrectCredentials
	case err != nil:
		return domain.Token{}, classify(ctx, err)
	}

	if !s.Hasher.Verify(password, user.PasswordHash) {
		s.Metrics.Login(false)
		l.Info("login failed", slog.String("username", username))
		return domain.Token{}, fault.ErrIncorrectCredentials
	}

	ttl := s.ttl()
	token, err := s.Tokens.Issue(jwtx.Subject{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}, s.now(), ttl)
	if err != nil {
		l.Error("failed to issue token", slog.String("user_id", user.ID), slog.Any("error", err))
		return domain.Token{}, fault.Unclassified(err)
	}

	s.Metrics.Login(true)
	l.Info("login succeeded", slog.String("user_id", user.ID))
	return domain.Token{
		AccessToken: token,
		TokenType:   domain.TokenTypeBearer,
		ExpiresIn:   int(ttl / time.Second),
	}, nil
}
