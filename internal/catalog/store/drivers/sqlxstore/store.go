// Package sqlxstore implements store.Store on top of jmoiron/sqlx. The
// repositories are shared by every SQL driver; a driver contributes the
// connection, its Dialect and its migrations.
package sqlxstore

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/jmoiron/sqlx"
)

var ErrNoMigrations = errors.New("sqlxstore: migrations are provided by the driver")

// Dialect abstracts what differs between engines once the queries are written
// with ? placeholders.
type Dialect interface {
	// Classify inspects a driver error and reports the constraint violation it
	// carries. constraint is empty when the engine does not name it.
	Classify(err error) (kind store.ViolationKind, constraint string, ok bool)
}

type Store struct {
	db      *sqlx.DB
	dialect Dialect
}

func New(db *sqlx.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB exposes the underlying handle for drivers running migrations.
func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ApplyMigrations is overridden by the driver that embeds Store.
func (s *Store) ApplyMigrations() error { return ErrNoMigrations }

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx, s.dialect), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Ensure rollback is called if we panic or return early with error
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) base() base { return base{q: s.db, dialect: s.dialect} }

func (s *Store) Users() store.Users           { return &usersRepo{s.base()} }
func (s *Store) Roles() store.Roles           { return &rolesRepo{s.base()} }
func (s *Store) Authors() store.Authors       { return &authorsRepo{s.base()} }
func (s *Store) Genres() store.Genres         { return &genresRepo{s.base()} }
func (s *Store) Categories() store.Categories { return &categoriesRepo{s.base()} }
func (s *Store) Books() store.Books           { return &booksRepo{s.base()} }
func (s *Store) Reviews() store.Reviews       { return &reviewsRepo{s.base()} }
func (s *Store) Favorites() store.Favorites   { return &favoritesRepo{s.base()} }
