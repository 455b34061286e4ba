package sqlxstore

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/jmoiron/sqlx"
)

type txStore struct {
	tx      *sqlx.Tx
	dialect Dialect
}

func newTx(tx *sqlx.Tx, dialect Dialect) *txStore {
	return &txStore{tx: tx, dialect: dialect}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // caller commits or rolls back; the DB stays open

// Ping is a no-op; the connection is held by the transaction.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx

func (t *txStore) base() base { return base{q: t.tx, dialect: t.dialect} }

func (t *txStore) Users() store.Users           { return &usersRepo{t.base()} }
func (t *txStore) Roles() store.Roles           { return &rolesRepo{t.base()} }
func (t *txStore) Authors() store.Authors       { return &authorsRepo{t.base()} }
func (t *txStore) Genres() store.Genres         { return &genresRepo{t.base()} }
func (t *txStore) Categories() store.Categories { return &categoriesRepo{t.base()} }
func (t *txStore) Books() store.Books           { return &booksRepo{t.base()} }
func (t *txStore) Reviews() store.Reviews       { return &reviewsRepo{t.base()} }
func (t *txStore) Favorites() store.Favorites   { return &favoritesRepo{t.base()} }
