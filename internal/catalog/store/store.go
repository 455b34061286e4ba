package store

import (
	"context"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories are exposed as methods so a Tx-scoped Store
// hands out repositories bound to the transaction, and nothing can open a
// transaction inside a transaction.
type Store interface {
	Users() Users
	Roles() Roles
	Authors() Authors
	Genres() Genres
	Categories() Categories
	Books() Books
	Reviews() Reviews
	Favorites() Favorites

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
// Tx and WithTx on a Tx return sql.ErrTxDone.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Writes that target a missing row return a *MissingError. Writes rejected by
// the engine return a *Violation.

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used by the login exchange.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// ListUsers returns users matching filter ordered by creation time.
	ListUsers(ctx context.Context, filter domain.UserFilter, page domain.Page) ([]domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser writes the profile fields and disabled flag and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error

	UpdateRole(ctx context.Context, userID, roleID string) error
	UpdatePasswordHash(ctx context.Context, userID, hash string) error

	// DeleteUser cascades to reviews and favorites (per schema).
	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Roles interface {
	GetRoleByName(ctx context.Context, name domain.Role) (domain.RoleRecord, error)
	ListAll(ctx context.Context) ([]domain.RoleRecord, error)
}

type Authors interface {
	// GetAuthorByID returns the author with its genre ids.
	GetAuthorByID(ctx context.Context, id string) (domain.Author, error)
	ListAuthors(ctx context.Context, page domain.Page) ([]domain.Author, error)

	// ListAuthorsByBook returns the authors of a book, without genre ids.
	ListAuthorsByBook(ctx context.Context, bookID string) ([]domain.Author, error)

	CreateAuthor(ctx context.Context, a domain.Author) error
	UpdateAuthor(ctx context.Context, a domain.Author) error
	DeleteAuthor(ctx context.Context, id string) error

	// ReplaceGenres swaps the author's genre set for genreIDs.
	ReplaceGenres(ctx context.Context, authorID string, genreIDs []string) error
}

type Genres interface {
	GetGenreByID(ctx context.Context, id string) (domain.Genre, error)
	ListGenres(ctx context.Context, page domain.Page) ([]domain.Genre, error)
	CreateGenre(ctx context.Context, g domain.Genre) error
	UpdateGenre(ctx context.Context, g domain.Genre) error

	// DeleteGenre fails with a foreign-key violation while books reference it.
	DeleteGenre(ctx context.Context, id string) error
}

type Categories interface {
	GetCategoryByID(ctx context.Context, id string) (domain.Category, error)
	ListCategories(ctx context.Context, page domain.Page) ([]domain.Category, error)
	CreateCategory(ctx context.Context, c domain.Category) error
	UpdateCategory(ctx context.Context, c domain.Category) error

	// DeleteCategory fails with a foreign-key violation while books reference it.
	DeleteCategory(ctx context.Context, id string) error
}

type Books interface {
	// GetBookByID returns the book with its author ids.
	GetBookByID(ctx context.Context, id string) (domain.Book, error)
	ListBooks(ctx context.Context, filter domain.BookFilter, page domain.Page) ([]domain.Book, error)
	CreateBook(ctx context.Context, b domain.Book) error
	UpdateBook(ctx context.Context, b domain.Book) error

	// DeleteBook cascades to author links, reviews and favorites.
	DeleteBook(ctx context.Context, id string) error

	// ReplaceAuthors swaps the book's author set for authorIDs.
	ReplaceAuthors(ctx context.Context, bookID string, authorIDs []string) error
}

type Reviews interface {
	GetReviewByID(ctx context.Context, id string) (domain.Review, error)
	ListReviews(ctx context.Context, filter domain.ReviewFilter, page domain.Page) ([]domain.Review, error)
	CreateReview(ctx context.Context, r domain.Review) error
	UpdateReview(ctx context.Context, r domain.Review) error
	DeleteReview(ctx context.Context, id string) error

	// Stats aggregates the ratings of a book.
	Stats(ctx context.Context, bookID string) (domain.ReviewStats, error)

	// Latest returns the newest reviews of a book with their authors' usernames.
	Latest(ctx context.Context, bookID string, limit int) ([]domain.LatestReview, error)
}

type Favorites interface {
	// AddFavorite fails with a unique violation when the pair already exists.
	// A zero CreatedAt is set to the current time.
	AddFavorite(ctx context.Context, f domain.Favorite) error
	ListFavoritesByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, bookID string) error
}
