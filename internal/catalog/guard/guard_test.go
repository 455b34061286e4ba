package guard_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/guard"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/metrics"
	"github.com/aussiebroadwan/bookshelf/pkg/httpx"
	"github.com/aussiebroadwan/bookshelf/pkg/jwtx"
	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type lookupFunc func(ctx context.Context, id string) (domain.Identity, error)

func (f lookupFunc) LookupIdentity(ctx context.Context, id string) (domain.Identity, error) {
	return f(ctx, id)
}

// directory is an in-memory identity lookup.
func directory(ids ...domain.Identity) guard.IdentityLookup {
	byID := make(map[string]domain.Identity, len(ids))
	for _, id := range ids {
		byID[id.ID] = id
	}
	return lookupFunc(func(_ context.Context, id string) (domain.Identity, error) {
		if ident, ok := byID[id]; ok {
			return ident, nil
		}
		return domain.Identity{}, fault.NotFound("user", id)
	})
}

var (
	activeAdmin   = domain.Identity{ID: "01ADMIN", Username: "admin", Role: domain.RoleAdmin, Active: true}
	inactiveAdmin = domain.Identity{ID: "01RETIRED", Username: "retired", Role: domain.RoleAdmin, Active: false}
	activeUser    = domain.Identity{ID: "01READER", Username: "reader", Role: domain.RoleUser, Active: true}
	inactiveUser  = domain.Identity{ID: "01BANNED", Username: "banned", Role: domain.RoleUser, Active: false}
)

func newTokens(t *testing.T) *jwtx.Service {
	t.Helper()
	svc, err := jwtx.NewService([]byte("guard-test-secret"), "HS256")
	require.NoError(t, err)
	return svc
}

func issue(t *testing.T, svc *jwtx.Service, id domain.Identity, at time.Time) string {
	t.Helper()
	tok, err := svc.Issue(jwtx.Subject{ID: id.ID, Username: id.Username, Role: string(id.Role)}, at, time.Minute)
	require.NoError(t, err)
	return tok
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"abc.def.ghi", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := guard.Extract(tt.header)
			if !tt.ok {
				require.ErrorIs(t, err, fault.ErrUnauthenticated)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	require.NoError(t, guard.RequireRole(activeUser))
	require.NoError(t, guard.RequireRole(activeAdmin, domain.RoleAdmin))
	require.NoError(t, guard.RequireRole(activeUser, domain.RoleAdmin, domain.RoleUser))
	require.ErrorIs(t, guard.RequireRole(activeUser, domain.RoleAdmin), fault.ErrInsufficientRole)
}

func TestRequireActive(t *testing.T) {
	t.Parallel()

	require.NoError(t, guard.RequireActive(activeUser))
	require.ErrorIs(t, guard.RequireActive(inactiveUser), fault.ErrAccountInactive)
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	_, ok := guard.IdentityFrom(context.Background())
	require.False(t, ok)

	id, ok := guard.IdentityFrom(guard.WithIdentity(context.Background(), activeAdmin))
	require.True(t, ok)
	require.Equal(t, activeAdmin, id)
}

func TestChain_Guard(t *testing.T) {
	t.Parallel()

	tokens := newTokens(t)
	other, err := jwtx.NewService([]byte("someone-else"), "HS256")
	require.NoError(t, err)

	chain := &guard.Chain{
		Tokens: tokens,
		Lookup: directory(activeAdmin, inactiveAdmin, activeUser, inactiveUser),
		Now:    func() time.Time { return epoch },
	}
	ctx := slogx.WithContext(context.Background(), slogx.Discard())

	ghost := domain.Identity{ID: "01GHOST", Username: "ghost", Role: domain.RoleAdmin, Active: true}
	forged, err := other.Issue(jwtx.Subject{ID: activeAdmin.ID, Username: "admin", Role: "admin"}, epoch, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		policy guard.Policy
		want   error
		who    string
	}{
		{"missing header", "", guard.Authenticated, fault.ErrUnauthenticated, ""},
		{"wrong scheme", "Token " + issue(t, tokens, activeUser, epoch), guard.Authenticated, fault.ErrUnauthenticated, ""},
		{"garbage token", "Bearer not-a-jwt", guard.Authenticated, fault.ErrUnauthenticated, ""},
		{"expired token", "Bearer " + issue(t, tokens, activeUser, epoch.Add(-time.Hour)), guard.Authenticated, fault.ErrUnauthenticated, ""},
		{"foreign signature", "Bearer " + forged, guard.Admin, fault.ErrUnauthenticated, ""},
		{"deleted subject", "Bearer " + issue(t, tokens, ghost, epoch), guard.Authenticated, fault.ErrUnauthenticated, ""},
		{"inactive user admitted when only authenticated", "Bearer " + issue(t, tokens, inactiveUser, epoch), guard.Authenticated, nil, inactiveUser.ID},
		{"inactive user on active route", "Bearer " + issue(t, tokens, inactiveUser, epoch), guard.Active, fault.ErrAccountInactive, ""},
		{"inactive admin on admin route", "Bearer " + issue(t, tokens, inactiveAdmin, epoch), guard.Admin, fault.ErrAccountInactive, ""},
		{"inactive user on admin route", "Bearer " + issue(t, tokens, inactiveUser, epoch), guard.Admin, fault.ErrAccountInactive, ""},
		{"user on admin route", "Bearer " + issue(t, tokens, activeUser, epoch), guard.Admin, fault.ErrInsufficientRole, ""},
		{"user on active route", "Bearer " + issue(t, tokens, activeUser, epoch), guard.Active, nil, activeUser.ID},
		{"admin on admin route", "Bearer " + issue(t, tokens, activeAdmin, epoch), guard.Admin, nil, activeAdmin.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := chain.Guard(ctx, tt.header, tt.policy)
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
				require.Equal(t, fault.KindOf(tt.want), fault.KindOf(err))
				require.Equal(t, domain.Identity{}, id)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.who, id.ID)
		})
	}
}

func TestChain_ResolveUsesCurrentRole(t *testing.T) {
	t.Parallel()

	tokens := newTokens(t)
	demoted := activeAdmin
	demoted.Role = domain.RoleUser

	chain := &guard.Chain{
		Tokens: tokens,
		Lookup: directory(demoted),
		Now:    func() time.Time { return epoch },
	}

	// The token still says admin; the stored role wins.
	_, err := chain.Guard(context.Background(), "Bearer "+issue(t, tokens, activeAdmin, epoch), guard.Admin)
	require.ErrorIs(t, err, fault.ErrInsufficientRole)
}

func TestChain_LookupFailureIsUnclassified(t *testing.T) {
	t.Parallel()

	tokens := newTokens(t)
	chain := &guard.Chain{
		Tokens: tokens,
		Lookup: lookupFunc(func(context.Context, string) (domain.Identity, error) {
			return domain.Identity{}, errors.New("database is locked")
		}),
		Now: func() time.Time { return epoch },
	}

	_, err := chain.Guard(context.Background(), "Bearer "+issue(t, tokens, activeUser, epoch), guard.Active)
	require.ErrorIs(t, err, fault.ErrUnclassified)
	require.NotContains(t, err.Error(), "locked")
}

func TestChain_Middleware(t *testing.T) {
	t.Parallel()

	tokens := newTokens(t)
	chain := &guard.Chain{
		Tokens: tokens,
		Lookup: directory(activeUser, inactiveUser),
		Now:    func() time.Time { return epoch },
	}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	var seen domain.Identity
	var seenUserID string
	h := chain.Middleware(guard.Active, m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = guard.IdentityFrom(r.Context())
		seenUserID = httpx.UserIDFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)
		req = req.WithContext(slogx.WithContext(req.Context(), slogx.Discard()))
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("admits", func(t *testing.T) {
		rec := serve("Bearer " + issue(t, tokens, activeUser, epoch))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, activeUser, seen)
		require.Equal(t, activeUser.ID, seenUserID)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := serve("")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		require.Contains(t, rec.Body.String(), `"unauthenticated"`)
	})

	t.Run("inactive", func(t *testing.T) {
		rec := serve("Bearer " + issue(t, tokens, inactiveUser, epoch))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), `"account_inactive"`)
	})

	expected := `
# HELP catalog_guard_rejections_total Total number of requests rejected by the guard chain.
# TYPE catalog_guard_rejections_total counter
catalog_guard_rejections_total{reason="account_inactive"} 1
catalog_guard_rejections_total{reason="unauthenticated"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "catalog_guard_rejections_total"))
}
