package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store/drivers/postgres"
	"github.com/aussiebroadwan/bookshelf/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway postgres container and returns a migrated store.
func startPostgres(t *testing.T) *postgres.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "catalog",
				"POSTGRES_PASSWORD": "catalog",
				"POSTGRES_DB":       "catalog",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://catalog:catalog@%s:%s/catalog?sslmode=disable", host, port.Port())
	s, err := postgres.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestPostgres_Violations(t *testing.T) {
	s := startPostgres(t)
	ctx := context.Background()

	role, err := s.Roles().GetRoleByName(ctx, domain.RoleUser)
	require.NoError(t, err)

	user := domain.User{
		ID:           idx.New().String(),
		Username:     "reader",
		FirstName:    "Re",
		LastName:     "Ader",
		Email:        "reader@example.com",
		PasswordHash: "x",
		RoleID:       role.ID,
	}
	require.NoError(t, s.Users().CreateUser(ctx, user))

	genre := domain.Genre{ID: idx.New().String(), Name: "Mystery"}
	require.NoError(t, s.Genres().CreateGenre(ctx, genre))

	book := domain.Book{ID: idx.New().String(), Title: "The Big Sleep", GenreID: genre.ID}
	require.NoError(t, s.Books().CreateBook(ctx, book))

	t.Run("unique is named by constraint", func(t *testing.T) {
		err := s.Genres().CreateGenre(ctx, domain.Genre{ID: idx.New().String(), Name: "Mystery"})

		var v *store.Violation
		require.True(t, errors.As(err, &v))
		require.Equal(t, store.ViolationUnique, v.Kind)
		require.Equal(t, "genres_name_key", v.Constraint)
		require.Equal(t, "name", store.ResolveConstraint(v).Field)
	})

	t.Run("category in use names the dependent", func(t *testing.T) {
		c := domain.Category{ID: idx.New().String(), Name: "Noir"}
		require.NoError(t, s.Categories().CreateCategory(ctx, c))
		filed := domain.Book{ID: idx.New().String(), Title: "Farewell, My Lovely", GenreID: genre.ID, CategoryID: &c.ID}
		require.NoError(t, s.Books().CreateBook(ctx, filed))

		err := s.Categories().DeleteCategory(ctx, c.ID)
		var v *store.Violation
		require.True(t, errors.As(err, &v))
		require.Equal(t, "books_category_id_fkey", v.Constraint)
		require.Equal(t, store.OpDelete, v.Op)
		require.Equal(t, "book", store.ResolveConstraint(v).Entity)
	})

	t.Run("ghost author rolls back the book", func(t *testing.T) {
		bookID := idx.New().String()
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Books().CreateBook(ctx, domain.Book{ID: bookID, Title: "Ghost", GenreID: genre.ID}); err != nil {
				return err
			}
			return tx.Books().ReplaceAuthors(ctx, bookID, []string{idx.New().String()})
		})

		var v *store.Violation
		require.True(t, errors.As(err, &v))
		require.Equal(t, "author_book_author_id_fkey", v.Constraint)
		require.Equal(t, "author", store.ResolveConstraint(v).Entity)

		_, err = s.Books().GetBookByID(ctx, bookID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("concurrent favorites", func(t *testing.T) {
		const writers = 2
		var (
			wg   sync.WaitGroup
			errs = make([]error, writers)
		)
		for i := range writers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = s.WithTx(ctx, func(tx store.Tx) error {
					return tx.Favorites().AddFavorite(ctx, domain.Favorite{
						ID:     idx.New().String(),
						UserID: user.ID,
						BookID: book.ID,
					})
				})
			}(i)
		}
		wg.Wait()

		var ok, conflicts int
		for _, err := range errs {
			var v *store.Violation
			switch {
			case err == nil:
				ok++
			case errors.As(err, &v):
				require.Equal(t, "favorites_user_id_book_id_key", v.Constraint)
				conflicts++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		require.Equal(t, 1, ok)
		require.Equal(t, 1, conflicts)

		favs, err := s.Favorites().ListFavoritesByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, favs, 1)
	})

	t.Run("stats on numeric average", func(t *testing.T) {
		for _, rating := range []int{5, 4} {
			require.NoError(t, s.Reviews().CreateReview(ctx, domain.Review{
				ID:     idx.New().String(),
				UserID: user.ID,
				BookID: book.ID,
				Rating: rating,
			}))
		}

		stats, err := s.Reviews().Stats(ctx, book.ID)
		require.NoError(t, err)
		require.InDelta(t, 4.5, stats.AverageRating, 0.0001)
		require.Equal(t, 2, stats.TotalRatings)
		require.Equal(t, 1, stats.FiveStarCount)
		require.Equal(t, 0, stats.TextReviewCount)
	})

	t.Run("delete genre in use", func(t *testing.T) {
		err := s.Genres().DeleteGenre(ctx, genre.ID)

		var v *store.Violation
		require.True(t, errors.As(err, &v))
		require.Equal(t, "books_genre_id_fkey", v.Constraint)
		require.Equal(t, "book", store.ResolveConstraint(v).Entity)
	})
}
