package sqlxstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/jmoiron/sqlx"
)

// base is embedded by every repository. q is either the *sqlx.DB or the
// *sqlx.Tx of the owning store.
type base struct {
	q       sqlx.ExtContext
	dialect Dialect
}

// get runs a single-row query written with ? placeholders.
func (b base) get(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, b.q, dest, b.q.Rebind(query), args...)
}

func (b base) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, b.q, dest, b.q.Rebind(query), args...)
}

func (b base) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return b.q.ExecContext(ctx, b.q.Rebind(query), args...)
}

// insert runs a named insert, classifying constraint violations against table.
func (b base) insert(ctx context.Context, table, query string, arg any) error {
	_, err := sqlx.NamedExecContext(ctx, b.q, query, arg)
	return b.fail(table, store.OpWrite, err)
}

// update runs a write that must touch exactly one existing row.
func (b base) update(ctx context.Context, table, entity, key, query string, args ...any) error {
	res, err := b.exec(ctx, query, args...)
	if err != nil {
		return b.fail(table, store.OpWrite, err)
	}
	return mustAffect(res, entity, key)
}

func (b base) delete(ctx context.Context, table, entity, key, query string, args ...any) error {
	res, err := b.exec(ctx, query, args...)
	if err != nil {
		return b.fail(table, store.OpDelete, err)
	}
	return mustAffect(res, entity, key)
}

// fail tags a driver error with the table it was raised on when the dialect
// recognises it as a constraint violation.
func (b base) fail(table string, op store.Op, err error) error {
	if err == nil {
		return nil
	}
	if kind, constraint, ok := b.dialect.Classify(err); ok {
		return &store.Violation{
			Kind:       kind,
			Table:      table,
			Constraint: constraint,
			Op:         op,
			Err:        err,
		}
	}
	return err
}

func mustAffect(res sql.Result, entity, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.NotFound(entity, key)
	}
	return nil
}

func mapNotFound(err error, entity, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.NotFound(entity, key)
	}
	return err
}

// where joins conditions with AND, or returns "" when there are none.
func where(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func likeContains(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func pageArgs(page domain.Page) (int, int) {
	p := page.Normalize()
	return p.Limit, p.Offset
}

func now() time.Time { return time.Now().UTC() }

// linkRow is a row of an association table loaded in bulk.
type linkRow struct {
	Owner string `db:"owner"`
	Other string `db:"other"`
}

// loadLinks returns the association rows of the given owners grouped by owner.
// query must select owner and other and contain a single IN (?) clause.
func (b base) loadLinks(ctx context.Context, query string, owners []string) (map[string][]string, error) {
	out := make(map[string][]string, len(owners))
	if len(owners) == 0 {
		return out, nil
	}

	q, args, err := sqlx.In(query, owners)
	if err != nil {
		return nil, err
	}

	var rows []linkRow
	if err := b.selectAll(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.Owner] = append(out[r.Owner], r.Other)
	}
	return out, nil
}
