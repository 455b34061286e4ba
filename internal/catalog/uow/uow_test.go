package uow_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/metrics"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store/drivers/sqlite"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/uow"
	"github.com/aussiebroadwan/bookshelf/pkg/idx"
	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *sqlite.Store
	coord *uow.Coordinator
	reg   *prometheus.Registry
	ctx   context.Context
	user  domain.User
	genre domain.Genre
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "catalog.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	ctx := slogx.WithContext(context.Background(), slogx.Discard())
	reg := prometheus.NewRegistry()

	role, err := s.Roles().GetRoleByName(ctx, domain.RoleUser)
	require.NoError(t, err)

	user := domain.User{
		ID:           idx.New().String(),
		Username:     "reader",
		Email:        "reader@example.com",
		PasswordHash: "x",
		RoleID:       role.ID,
	}
	require.NoError(t, s.Users().CreateUser(ctx, user))

	genre := domain.Genre{ID: idx.New().String(), Name: "Science Fiction"}
	require.NoError(t, s.Genres().CreateGenre(ctx, genre))

	return &fixture{
		store: s,
		coord: &uow.Coordinator{Store: s, Metrics: metrics.New(reg)},
		reg:   reg,
		ctx:   ctx,
		user:  user,
		genre: genre,
	}
}

func TestClassify(t *testing.T) {
	ctx := slogx.WithContext(context.Background(), slogx.Discard())

	tests := []struct {
		name string
		err  error
		want *fault.Error
	}{
		{
			name: "fault passes through",
			err:  fault.ErrInsufficientRole,
			want: fault.ErrInsufficientRole,
		},
		{
			name: "named unique constraint",
			err:  &store.Violation{Kind: store.ViolationUnique, Table: "users", Constraint: "users_username_key"},
			want: fault.UniqueViolation("username"),
		},
		{
			name: "unique by table default",
			err:  &store.Violation{Kind: store.ViolationUnique, Table: "favorites"},
			want: fault.UniqueViolation("user_id,book_id"),
		},
		{
			name: "foreign key on write names the referenced entity",
			err:  &store.Violation{Kind: store.ViolationForeignKey, Table: "author_book", Constraint: "author_book_author_id_fkey"},
			want: fault.ForeignKeyViolation("author"),
		},
		{
			name: "foreign key on delete names the dependent entity",
			err:  &store.Violation{Kind: store.ViolationForeignKey, Table: "genres", Op: store.OpDelete},
			want: fault.ForeignKeyViolation("book"),
		},
		{
			name: "missing row",
			err:  store.NotFound("book", "01ABC"),
			want: fault.NotFound("book", "01ABC"),
		},
		{
			name: "check violation is unclassified",
			err:  &store.Violation{Kind: store.ViolationCheck, Table: "reviews"},
			want: fault.ErrUnclassified,
		},
		{
			name: "anything else is unclassified",
			err:  errors.New("disk on fire"),
			want: fault.ErrUnclassified,
		},
		{
			name: "cancellation is unclassified",
			err:  context.Canceled,
			want: fault.ErrUnclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := uow.Classify(ctx, tt.err)
			require.Equal(t, tt.want.Kind, got.Kind)
			require.Equal(t, tt.want.Field, got.Field)
			require.Equal(t, tt.want.Entity, got.Entity)
			require.Equal(t, tt.want.Key, got.Key)
		})
	}
}

func TestClassify_NeverLeaksDriverError(t *testing.T) {
	ctx := slogx.WithContext(context.Background(), slogx.Discard())
	cause := errors.New("SQLITE_CONSTRAINT: something internal")

	got := uow.Classify(ctx, cause)
	require.NotErrorIs(t, got, cause)
	require.NotContains(t, got.Error(), "SQLITE")
	require.Equal(t, cause, got.Cause())
}

func TestDo_Commits(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	book := domain.Book{ID: idx.New().String(), Title: "Dune", GenreID: f.genre.ID}
	err := f.coord.Do(f.ctx, "book.create", func(tx store.Tx) error {
		return tx.Books().CreateBook(f.ctx, book)
	})
	require.NoError(t, err)

	got, err := f.store.Books().GetBookByID(f.ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, "Dune", got.Title)

	expected := `
# HELP catalog_writes_total Total number of catalog writes, by operation and outcome.
# TYPE catalog_writes_total counter
catalog_writes_total{op="book.create",outcome="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "catalog_writes_total"))
}

func TestDo_GhostAuthorRollsBackAndRepeats(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	author := domain.Author{ID: idx.New().String(), FirstName: "Frank", LastName: "Herbert"}
	require.NoError(t, f.store.Authors().CreateAuthor(f.ctx, author))

	bookID := idx.New().String()
	write := func() error {
		return f.coord.Do(f.ctx, "book.create", func(tx store.Tx) error {
			if err := tx.Books().CreateBook(f.ctx, domain.Book{ID: bookID, Title: "Dune", GenreID: f.genre.ID}); err != nil {
				return err
			}
			return tx.Books().ReplaceAuthors(f.ctx, bookID, []string{author.ID, idx.New().String()})
		})
	}

	first := write()
	require.ErrorIs(t, first, fault.ForeignKeyViolation("author"))

	_, err := f.store.Books().GetBookByID(f.ctx, bookID)
	require.ErrorIs(t, err, store.ErrNotFound)

	books, err := f.store.Books().ListBooks(f.ctx, domain.BookFilter{AuthorID: author.ID}, domain.Page{})
	require.NoError(t, err)
	require.Empty(t, books)

	second := write()
	require.Equal(t, first, second)
}

func TestDo_CancelledBeforeCommitRollsBack(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ctx, cancel := context.WithCancel(f.ctx)
	defer cancel()

	genre := domain.Genre{ID: idx.New().String(), Name: "Poetry"}
	err := f.coord.Do(ctx, "genre.create", func(tx store.Tx) error {
		if err := tx.Genres().CreateGenre(ctx, genre); err != nil {
			return err
		}
		cancel()
		return nil
	})
	require.ErrorIs(t, err, fault.ErrUnclassified)

	_, err = f.store.Genres().GetGenreByID(f.ctx, genre.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDo_ConcurrentFavorites(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	book := domain.Book{ID: idx.New().String(), Title: "Dune", GenreID: f.genre.ID}
	require.NoError(t, f.store.Books().CreateBook(f.ctx, book))

	const writers = 4
	var (
		wg   sync.WaitGroup
		errs = make([]error, writers)
	)
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.coord.Do(f.ctx, "favorite.add", func(tx store.Tx) error {
				return tx.Favorites().AddFavorite(f.ctx, domain.Favorite{
					ID:     idx.New().String(),
					UserID: f.user.ID,
					BookID: book.ID,
				})
			})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, fault.UniqueViolation("user_id,book_id"))
	}
	require.Equal(t, 1, ok)

	favs, err := f.store.Favorites().ListFavoritesByUser(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
}

func TestRun(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	got, err := uow.Run(f.ctx, f.coord, "genre.create", func(tx store.Tx) (domain.Genre, error) {
		g := domain.Genre{ID: idx.New().String(), Name: "Horror"}
		return g, tx.Genres().CreateGenre(f.ctx, g)
	})
	require.NoError(t, err)
	require.Equal(t, "Horror", got.Name)

	got, err = uow.Run(f.ctx, f.coord, "genre.create", func(tx store.Tx) (domain.Genre, error) {
		g := domain.Genre{ID: idx.New().String(), Name: "Horror"}
		return g, tx.Genres().CreateGenre(f.ctx, g)
	})
	require.ErrorIs(t, err, fault.UniqueViolation("name"))
	require.Equal(t, domain.Genre{}, got)
}
