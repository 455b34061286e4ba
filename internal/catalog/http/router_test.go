package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cataloghttp "github.com/aussiebroadwan/bookshelf/internal/catalog/http"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/guard"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/metrics"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/service"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store/drivers/sqlite"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/uow"
	"github.com/aussiebroadwan/bookshelf/pkg/catalogsdk"
	"github.com/aussiebroadwan/bookshelf/pkg/cryptox"
	"github.com/aussiebroadwan/bookshelf/pkg/httpx"
	"github.com/aussiebroadwan/bookshelf/pkg/jwtx"
	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	url    string
	client *catalogsdk.SDKClient
	users  *service.UserService
}

func newServer(t *testing.T, limits httpx.RateLimits) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "catalog.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens, err := jwtx.NewService([]byte("router-test-secret"), "HS256")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	hasher := cryptox.NewPasswordHasher("pepper")
	writes := &uow.Coordinator{Store: st, Metrics: m}
	users := &service.UserService{Store: st, Writes: writes, Hasher: hasher}

	router := cataloghttp.NewRouter("test", st,
		&guard.Chain{Tokens: tokens, Lookup: users},
		limits, m, reg, slogx.Discard(),
	)
	router.AuthService = &service.AuthService{Store: st, Hasher: hasher, Tokens: tokens, Metrics: m}
	router.UserService = users
	router.GenreService = &service.GenreService{Store: st, Writes: writes}
	router.CategoryService = &service.CategoryService{Store: st, Writes: writes}
	router.AuthorService = &service.AuthorService{Store: st, Writes: writes}
	router.BookService = &service.BookService{Store: st, Writes: writes}
	router.ReviewService = &service.ReviewService{Store: st, Writes: writes}
	router.FavoriteService = &service.FavoriteService{Store: st, Writes: writes}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{url: srv.URL, client: catalogsdk.NewSDKClient(srv.URL), users: users}
}

// login creates a user with the given role and returns a session for it.
func (s *testServer) login(t *testing.T, username string, role domain.Role) (*catalogsdk.Session, domain.User) {
	t.Helper()
	ctx := slogx.WithContext(context.Background(), slogx.Discard())

	u, err := s.users.Create(ctx, service.NewUser{
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "correct-horse",
		Role:      role,
	})
	require.NoError(t, err)

	sess, err := s.client.Login(context.Background(), username, "correct-horse")
	require.NoError(t, err)
	return sess, u
}

func requireAPIError(t *testing.T, err error, status int, code string) *catalogsdk.APIError {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*catalogsdk.APIError)
	require.True(t, ok, "expected *APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.DefaultRateLimits())
	ctx := context.Background()

	live, err := s.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := s.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.DefaultRateLimits())
	ctx := context.Background()
	sess, u := s.login(t, "ada", domain.RoleUser)

	t.Run("token response", func(t *testing.T) {
		tok, err := s.client.Token(ctx, "ada", "correct-horse")
		require.NoError(t, err)
		require.Equal(t, "bearer", tok.TokenType)
		require.Equal(t, int((30 * time.Minute).Seconds()), tok.ExpiresIn)
	})

	t.Run("me", func(t *testing.T) {
		me, err := sess.Me(ctx)
		require.NoError(t, err)
		require.Equal(t, u.ID, me.ID)
		require.Equal(t, "user", me.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.client.Login(ctx, "ada", "wrong")
		requireAPIError(t, err, http.StatusUnauthorized, catalogsdk.ErrorCodeIncorrectCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := s.client.Login(ctx, "", "")
		apiErr := requireAPIError(t, err, http.StatusBadRequest, catalogsdk.ErrorCodeValidation)
		require.Contains(t, apiErr.Details, "username")
		require.Contains(t, apiErr.Details, "password")
	})
}

func TestGuardedRoutes(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.DefaultRateLimits())
	ctx := context.Background()
	admin, _ := s.login(t, "admin", domain.RoleAdmin)
	user, _ := s.login(t, "reader", domain.RoleUser)

	t.Run("anonymous write is unauthenticated", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, s.url+"/api/v1/genres", strings.NewReader(`{"name":"x"}`))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
	})

	t.Run("forged token is unauthenticated", func(t *testing.T) {
		_, err := s.client.NewSession("not.a.jwt").Me(ctx)
		requireAPIError(t, err, http.StatusUnauthorized, catalogsdk.ErrorCodeUnauthenticated)
	})

	t.Run("user cannot write the catalog", func(t *testing.T) {
		_, err := user.CreateGenre(ctx, catalogsdk.GenreRequest{Name: "Fantasy"})
		requireAPIError(t, err, http.StatusForbidden, catalogsdk.ErrorCodeInsufficientRole)
	})

	t.Run("admin can, once", func(t *testing.T) {
		g, err := admin.CreateGenre(ctx, catalogsdk.GenreRequest{Name: "Fantasy"})
		require.NoError(t, err)
		require.Equal(t, "Fantasy", g.Name)

		_, err = admin.CreateGenre(ctx, catalogsdk.GenreRequest{Name: "Fantasy"})
		apiErr := requireAPIError(t, err, http.StatusConflict, catalogsdk.ErrorCodeUniqueViolation)
		require.Equal(t, "name", apiErr.Field)
	})

	t.Run("user listing is admin only", func(t *testing.T) {
		_, err := user.ListUsers(ctx, catalogsdk.UserFilter{}, catalogsdk.ListOptions{})
		requireAPIError(t, err, http.StatusForbidden, catalogsdk.ErrorCodeInsufficientRole)

		list, err := admin.ListUsers(ctx, catalogsdk.UserFilter{Username: "READ"}, catalogsdk.ListOptions{})
		require.NoError(t, err)
		require.Len(t, list.Users, 1)
		require.Equal(t, "reader", list.Users[0].Username)
	})
}

func TestDeactivation(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.DefaultRateLimits())
	ctx := context.Background()
	admin, _ := s.login(t, "admin", domain.RoleAdmin)
	user, u := s.login(t, "reader", domain.RoleUser)

	g, err := admin.CreateGenre(ctx, catalogsdk.GenreRequest{Name: "Poetry"})
	require.NoError(t, err)
	a, err := admin.CreateAuthor(ctx, catalogsdk.AuthorRequest{FirstName: "Emily", LastName: "Dickinson"})
	require.NoError(t, err)
	b, err := admin.CreateBook(ctx, catalogsdk.BookRequest{Title: "Poems", GenreID: g.ID, AuthorIDs: []string{a.ID}})
	require.NoError(t, err)

	disabled := true
	_, err = admin.UpdateUser(ctx, u.ID, catalogsdk.UpdateUserRequest{Disabled: &disabled})
	require.NoError(t, err)

	// The token issued before deactivation is rejected on active routes.
	_, err = user.CreateReview(ctx, catalogsdk.ReviewRequest{BookID: b.ID, Rating: 5})
	requireAPIError(t, err, http.StatusBadRequest, catalogsdk.ErrorCodeAccountInactive)

	me, err := user.Me(ctx)
	require.NoError(t, err)
	require.True(t, me.Disabled)

	// A role change applies to tokens already issued.
	_, err = admin.AssignRole(ctx, u.ID, "admin")
	require.NoError(t, err)
	_, err = user.CreateGenre(ctx, catalogsdk.GenreRequest{Name: "Drama"})
	requireAPIError(t, err, http.StatusBadRequest, catalogsdk.ErrorCodeAccountInactive)
}

func TestCatalogFlow(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.DefaultRateLimits())
	ctx := context.Background()
	admin, _ := s.login(t, "admin", domain.RoleAdmin)
	alice, aliceUser := s.login(t, "alice", domain.RoleUser)
	bob, _ := s.login(t, "bob", domain.RoleUser)

	g, err := admin.CreateGenre(ctx, catalogsdk.GenreRequest{Name: "Science Fiction"})
	require.NoError(t, err)
	a, err := admin.CreateAuthor(ctx, catalogsdk.AuthorRequest{
		FirstName: "Ursula",
		LastName:  "Le Guin",
		BirthDate: "1929-10-21",
		GenreIDs:  []string{g.ID, g.ID},
	})
	require.NoError(t, err)
	require.Equal(t, "1929-10-21", a.BirthDate)
	require.Equal(t, []string{g.ID}, a.GenreIDs)

	t.Run("unknown author creates nothing", func(t *testing.T) {
		ghost := "01HZZZZZZZZZZZZZZZZZZZZZZZ"
		_, err := admin.CreateBook(ctx, catalogsdk.BookRequest{
			Title:     "Ghost Book",
			GenreID:   g.ID,
			AuthorIDs: []string{a.ID, ghost},
		})
		apiErr := requireAPIError(t, err, http.StatusNotFound, catalogsdk.ErrorCodeForeignKeyViolation)
		require.Equal(t, "author", apiErr.Entity)

		books, err := s.client.ListBooks(ctx, catalogsdk.BookFilter{Title: "Ghost"}, catalogsdk.ListOptions{})
		require.NoError(t, err)
		require.Empty(t, books.Books)
	})

	b, err := admin.CreateBook(ctx, catalogsdk.BookRequest{
		Title:     "The Dispossessed",
		GenreID:   g.ID,
		AuthorIDs: []string{a.ID},
	})
	require.NoError(t, err)

	t.Run("reviews", func(t *testing.T) {
		text := "Anarres!"
		r1, err := alice.CreateReview(ctx, catalogsdk.ReviewRequest{BookID: b.ID, Rating: 5, Text: &text})
		require.NoError(t, err)
		require.Equal(t, aliceUser.ID, r1.UserID)

		_, err = bob.CreateReview(ctx, catalogsdk.ReviewRequest{BookID: b.ID, Rating: 3})
		require.NoError(t, err)

		_, err = bob.CreateReview(ctx, catalogsdk.ReviewRequest{BookID: b.ID, Rating: 6})
		apiErr := requireAPIError(t, err, http.StatusBadRequest, catalogsdk.ErrorCodeValidation)
		require.Contains(t, apiErr.Details, "rating")

		rating := 1
		_, err = bob.UpdateReview(ctx, r1.ID, catalogsdk.UpdateReviewRequest{Rating: &rating})
		requireAPIError(t, err, http.StatusForbidden, catalogsdk.ErrorCodeInsufficientRole)

		info, err := s.client.GetBookInformation(ctx, b.ID)
		require.NoError(t, err)
		require.Equal(t, "Science Fiction", info.Genre.Name)
		require.Len(t, info.Authors, 1)
		require.Equal(t, 2, info.TotalRatings)
		require.Equal(t, 1, info.FiveStarCount)
		require.Equal(t, 1, info.TextReviewCount)
		require.InDelta(t, 4.0, info.AverageRating, 0.001)
		require.Len(t, info.LatestReviews, 2)

		list, err := s.client.ListReviews(ctx, b.ID, catalogsdk.ListOptions{Limit: 1})
		require.NoError(t, err)
		require.Len(t, list.Reviews, 1)
	})

	t.Run("favorites", func(t *testing.T) {
		f, err := alice.AddFavorite(ctx, catalogsdk.FavoriteRequest{BookID: b.ID})
		require.NoError(t, err)
		require.Equal(t, aliceUser.ID, f.UserID)

		_, err = alice.AddFavorite(ctx, catalogsdk.FavoriteRequest{BookID: b.ID})
		apiErr := requireAPIError(t, err, http.StatusConflict, catalogsdk.ErrorCodeUniqueViolation)
		require.Equal(t, "user_id,book_id", apiErr.Field)

		_, err = bob.AddFavorite(ctx, catalogsdk.FavoriteRequest{UserID: aliceUser.ID, BookID: b.ID})
		requireAPIError(t, err, http.StatusForbidden, catalogsdk.ErrorCodeInsufficientRole)

		favs, err := alice.ListFavorites(ctx)
		require.NoError(t, err)
		require.Len(t, favs.Favorites, 1)

		require.NoError(t, alice.RemoveFavorite(ctx, b.ID))
		err = alice.RemoveFavorite(ctx, b.ID)
		requireAPIError(t, err, http.StatusNotFound, catalogsdk.ErrorCodeNotFound)
	})

	t.Run("genre in use cannot be deleted", func(t *testing.T) {
		err := admin.DeleteGenre(ctx, g.ID)
		apiErr := requireAPIError(t, err, http.StatusNotFound, catalogsdk.ErrorCodeForeignKeyViolation)
		require.Equal(t, "book", apiErr.Entity)

		require.NoError(t, admin.DeleteBook(ctx, b.ID))
		require.NoError(t, admin.DeleteGenre(ctx, g.ID))
	})
}

func TestCategories(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.DefaultRateLimits())
	ctx := context.Background()
	admin, _ := s.login(t, "admin", domain.RoleAdmin)
	reader, _ := s.login(t, "reader", domain.RoleUser)

	_, err := reader.CreateCategory(ctx, catalogsdk.CategoryRequest{Name: "Staff picks"})
	requireAPIError(t, err, http.StatusForbidden, catalogsdk.ErrorCodeInsufficientRole)

	c, err := admin.CreateCategory(ctx, catalogsdk.CategoryRequest{Name: "Staff picks"})
	require.NoError(t, err)
	_, err = admin.CreateCategory(ctx, catalogsdk.CategoryRequest{Name: "Staff picks"})
	apiErr := requireAPIError(t, err, http.StatusConflict, catalogsdk.ErrorCodeUniqueViolation)
	require.Equal(t, "name", apiErr.Field)

	renamed, err := admin.RenameCategory(ctx, c.ID, catalogsdk.CategoryRequest{Name: "Shelf favourites"})
	require.NoError(t, err)
	require.Equal(t, "Shelf favourites", renamed.Name)

	g, err := admin.CreateGenre(ctx, catalogsdk.GenreRequest{Name: "Fantasy"})
	require.NoError(t, err)
	a, err := admin.CreateAuthor(ctx, catalogsdk.AuthorRequest{FirstName: "Terry", LastName: "Pratchett"})
	require.NoError(t, err)

	_, err = admin.CreateBook(ctx, catalogsdk.BookRequest{
		Title:      "Lost",
		GenreID:    g.ID,
		CategoryID: ptr("01HZZZZZZZZZZZZZZZZZZZZZZZ"),
		AuthorIDs:  []string{a.ID},
	})
	apiErr = requireAPIError(t, err, http.StatusNotFound, catalogsdk.ErrorCodeForeignKeyViolation)
	require.Equal(t, "category", apiErr.Entity)

	b, err := admin.CreateBook(ctx, catalogsdk.BookRequest{
		Title:       "Mort",
		Description: ptr("Death takes an apprentice."),
		GenreID:     g.ID,
		CategoryID:  &c.ID,
		AuthorIDs:   []string{a.ID},
	})
	require.NoError(t, err)
	require.Equal(t, c.ID, *b.CategoryID)
	require.Equal(t, "Death takes an apprentice.", *b.Description)

	listed, err := s.client.ListBooks(ctx, catalogsdk.BookFilter{CategoryID: c.ID}, catalogsdk.ListOptions{})
	require.NoError(t, err)
	require.Len(t, listed.Books, 1)

	info, err := s.client.GetBookInformation(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, info.Category)
	require.Equal(t, "Shelf favourites", info.Category.Name)

	err = admin.DeleteCategory(ctx, c.ID)
	apiErr = requireAPIError(t, err, http.StatusNotFound, catalogsdk.ErrorCodeForeignKeyViolation)
	require.Equal(t, "book", apiErr.Entity)

	cleared, err := admin.UpdateBook(ctx, b.ID, catalogsdk.UpdateBookRequest{CategoryID: ptr(""), Description: ptr("")})
	require.NoError(t, err)
	require.Nil(t, cleared.CategoryID)
	require.Nil(t, cleared.Description)

	require.NoError(t, admin.DeleteCategory(ctx, c.ID))
	_, err = s.client.GetCategory(ctx, c.ID)
	requireAPIError(t, err, http.StatusNotFound, catalogsdk.ErrorCodeNotFound)

	seeded, err := s.client.ListCategories(ctx, catalogsdk.ListOptions{Limit: 3})
	require.NoError(t, err)
	require.Len(t, seeded.Categories, 3)
	require.Equal(t, "Biographies and memoirs", seeded.Categories[0].Name)
}

func ptr(s string) *string { return &s }

func TestPagination_Invalid(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.DefaultRateLimits())

	resp, err := http.Get(s.url + "/api/v1/books?limit=-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_RateLimited(t *testing.T) {
	t.Parallel()
	limits := httpx.DefaultRateLimits()
	limits.Strict = httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Hour, Burst: 1}
	s := newServer(t, limits)
	ctx := context.Background()

	_, err := s.client.Login(ctx, "ghost", "x")
	requireAPIError(t, err, http.StatusUnauthorized, catalogsdk.ErrorCodeIncorrectCredentials)

	_, err = s.client.Login(ctx, "ghost", "x")
	requireAPIError(t, err, http.StatusTooManyRequests, catalogsdk.ErrorCodeRateLimitExceeded)

	// Another username has its own bucket.
	_, err = s.client.Login(ctx, "other", "x")
	requireAPIError(t, err, http.StatusUnauthorized, catalogsdk.ErrorCodeIncorrectCredentials)

	body := scrape(t, s.url)
	require.Contains(t, body, `catalog_rate_limited_total{profile="strict"} 1`)
	require.Contains(t, body, `catalog_logins_total{outcome="failure"} 2`)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	s := newServer(t, httpx.DefaultRateLimits())
	admin, _ := s.login(t, "admin", domain.RoleAdmin)

	_, err := admin.CreateGenre(context.Background(), catalogsdk.GenreRequest{Name: "Horror"})
	require.NoError(t, err)
	_, err = s.client.NewSession("bogus").CreateGenre(context.Background(), catalogsdk.GenreRequest{Name: "X"})
	require.Error(t, err)

	body := scrape(t, s.url)
	require.Contains(t, body, `catalog_writes_total{op="genre.create",outcome="ok"} 1`)
	require.Contains(t, body, `catalog_guard_rejections_total{reason="unauthenticated"} 1`)
}

func scrape(t *testing.T, base string) string {
	t.Helper()
	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
