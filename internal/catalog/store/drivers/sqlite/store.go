package sqlite

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store/drivers/sqlxstore"
	"github.com/jmoiron/sqlx"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const driverName = "sqlite"

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// Store is the sqlite driver: the shared sqlx repositories plus sqlite
// migrations.
type Store struct {
	*sqlxstore.Store
}

var _ store.Store = (*Store)(nil)

// DSN builds a connection string for the database file at path. Foreign keys
// are per connection in sqlite, so they are enabled through the DSN rather
// than a one-off PRAGMA. Transactions take the write lock up front so two
// concurrent writers queue on busy_timeout instead of failing to upgrade.
func DSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")
	q.Set("_time_format", "sqlite")
	return "file:" + path + "?" + q.Encode()
}

// NewStore opens the database at dsn, which is usually built with DSN.
func NewStore(dsn string) (*Store, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	return &Store{Store: sqlxstore.New(db, dialect{})}, nil
}

type dialect struct{}

// Classify reads the extended result code of a *sqlite.Error. sqlite does not
// name the violated constraint, so constraint is always empty.
func (dialect) Classify(err error) (store.ViolationKind, string, bool) {
	var serr *moderncsqlite.Error
	if !errors.As(err, &serr) {
		return 0, "", false
	}

	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return store.ViolationUnique, "", true
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return store.ViolationForeignKey, "", true
	case sqlite3.SQLITE_CONSTRAINT_TRIGGER:
		// ON DELETE RESTRICT reports as a trigger failure. The schema defines
		// no triggers of its own.
		return store.ViolationForeignKey, "", true
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return store.ViolationCheck, "", true
	default:
		return 0, "", false
	}
}
