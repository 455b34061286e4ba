// Package guard authenticates bearer tokens and authorizes the resolved
// identity. The stages run in a fixed order (extract, authenticate, resolve,
// require active, require role) and stop at the first rejection.
package guard

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/aussiebroadwan/bookshelf/pkg/jwtx"
	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
)

// IdentityLookup resolves a token subject to the identity currently stored.
// Unknown ids return an error matching fault.ErrRowNotFound.
type IdentityLookup interface {
	LookupIdentity(ctx context.Context, id string) (domain.Identity, error)
}

// TokenValidator is the part of *jwtx.Service the chain needs.
type TokenValidator interface {
	Validate(raw string, now time.Time) (jwtx.Claims, error)
}

// Policy is what a route requires beyond a genuine identity.
type Policy struct {
	Active bool
	Roles  []domain.Role
}

var (
	// Authenticated admits any valid token whose subject still exists.
	Authenticated = Policy{}
	// Active additionally requires the account to be enabled.
	Active = Policy{Active: true}
	// Admin requires an enabled admin account.
	Admin = Policy{Active: true, Roles: []domain.Role{domain.RoleAdmin}}
)

// Chain runs the guard stages: header extraction, token validation, identity
// lookup and policy checks.
type Chain struct {
	Tokens TokenValidator
	Lookup IdentityLookup
	Now    func() time.Time
}

func (c *Chain) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Extract returns the token of an "Authorization: Bearer <token>" header.
func Extract(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", fault.ErrUnauthenticated
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fault.ErrUnauthenticated
	}
	return token, nil
}

// Authenticate validates the token. Expired and invalid tokens are both
// reported as unauthenticated.
func (c *Chain) Authenticate(ctx context.Context, token string) (jwtx.Claims, error) {
	claims, err := c.Tokens.Validate(token, c.now())
	if err != nil {
		slogx.FromContext(ctx).Debug("token rejected", "error", err)
		return jwtx.Claims{}, fault.ErrUnauthenticated
	}
	return claims, nil
}

// Resolve looks the subject up. A deleted subject is indistinguishable from a
// bad token.
func (c *Chain) Resolve(ctx context.Context, claims jwtx.Claims) (domain.Identity, error) {
	id, err := c.Lookup.LookupIdentity(ctx, claims.Subject)
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, fault.ErrRowNotFound):
		return domain.Identity{}, fault.ErrUnauthenticated
	default:
		if f, ok := fault.As(err); ok {
			return domain.Identity{}, f
		}
		return domain.Identity{}, fault.Unclassified(err)
	}
}

// RequireActive rejects identities whose account is disabled.
func RequireActive(id domain.Identity) error {
	if !id.Active {
		return fault.ErrAccountInactive
	}
	return nil
}

// RequireRole admits id when its role is one of roles. No roles admits anyone.
func RequireRole(id domain.Identity, roles ...domain.Role) error {
	if len(roles) == 0 || slices.Contains(roles, id.Role) {
		return nil
	}
	return fault.ErrInsufficientRole
}

// Guard runs every stage against an Authorization header value.
func (c *Chain) Guard(ctx context.Context, header string, p Policy) (domain.Identity, error) {
	token, err := Extract(header)
	if err != nil {
		return domain.Identity{}, err
	}

	claims, err := c.Authenticate(ctx, token)
	if err != nil {
		return domain.Identity{}, err
	}

	id, err := c.Resolve(ctx, claims)
	if err != nil {
		return domain.Identity{}, err
	}

	if p.Active {
		if err := RequireActive(id); err != nil {
			return domain.Identity{}, err
		}
	}
	if err := RequireRole(id, p.Roles...); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

type ctxKey struct{}

// WithIdentity stores the admitted identity for IdentityFrom.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom returns the identity admitted by the guard middleware.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(domain.Identity)
	return id, ok
}
