package sqlxstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
)

type authorRow struct {
	ID        string       `db:"id"`
	FirstName string       `db:"first_name"`
	LastName  string       `db:"last_name"`
	BirthDate sql.NullTime `db:"birth_date"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

func mapAuthor(row authorRow, genreIDs []string) domain.Author {
	a := domain.Author{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		GenreIDs:  genreIDs,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.BirthDate.Valid {
		bd := row.BirthDate.Time
		a.BirthDate = &bd
	}
	return a
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

const (
	selectAuthors    = `SELECT a.id, a.first_name, a.last_name, a.birth_date, a.created_at, a.updated_at FROM authors a`
	selectGenreLinks = `SELECT author_id AS owner, genre_id AS other FROM author_genre WHERE author_id IN (?) ORDER BY genre_id`
)

type authorsRepo struct{ base }

func (r *authorsRepo) GetAuthorByID(ctx context.Context, id string) (domain.Author, error) {
	var row authorRow
	if err := r.get(ctx, &row, selectAuthors+` WHERE a.id = ?`, id); err != nil {
		return domain.Author{}, mapNotFound(err, "author", id)
	}

	links, err := r.loadLinks(ctx, selectGenreLinks, []string{id})
	if err != nil {
		return domain.Author{}, err
	}
	return mapAuthor(row, nonNil(links[id])), nil
}

func (r *authorsRepo) ListAuthors(ctx context.Context, page domain.Page) ([]domain.Author, error) {
	limit, offset := pageArgs(page)

	var rows []authorRow
	if err := r.selectAll(ctx, &rows, selectAuthors+` ORDER BY a.id LIMIT ? OFFSET ?`, limit, offset); err != nil {
		return nil, err
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	links, err := r.loadLinks(ctx, selectGenreLinks, ids)
	if err != nil {
		return nil, err
	}

	authors := make([]domain.Author, len(rows))
	for i, row := range rows {
		authors[i] = mapAuthor(row, nonNil(links[row.ID]))
	}
	return authors, nil
}

func (r *authorsRepo) ListAuthorsByBook(ctx context.Context, bookID string) ([]domain.Author, error) {
	var rows []authorRow
	err := r.selectAll(ctx, &rows,
		selectAuthors+` JOIN author_book ab ON ab.author_id = a.id WHERE ab.book_id = ? ORDER BY a.last_name, a.first_name`,
		bookID)
	if err != nil {
		return nil, err
	}

	authors := make([]domain.Author, len(rows))
	for i, row := range rows {
		authors[i] = mapAuthor(row, nil)
	}
	return authors, nil
}

func (r *authorsRepo) CreateAuthor(ctx context.Context, a domain.Author) error {
	ts := now()
	return r.insert(ctx, "authors", `
INSERT INTO authors (id, first_name, last_name, birth_date, created_at, updated_at)
VALUES (:id, :first_name, :last_name, :birth_date, :created_at, :updated_at)`,
		authorRow{
			ID:        a.ID,
			FirstName: a.FirstName,
			LastName:  a.LastName,
			BirthDate: mapOptionalTime(a.BirthDate),
			CreatedAt: ts,
			UpdatedAt: ts,
		})
}

func (r *authorsRepo) UpdateAuthor(ctx context.Context, a domain.Author) error {
	return r.update(ctx, "authors", "author", a.ID,
		`UPDATE authors SET first_name = ?, last_name = ?, birth_date = ?, updated_at = ? WHERE id = ?`,
		a.FirstName, a.LastName, mapOptionalTime(a.BirthDate), now(), a.ID)
}

func (r *authorsRepo) DeleteAuthor(ctx context.Context, id string) error {
	return r.delete(ctx, "authors", "author", id, `DELETE FROM authors WHERE id = ?`, id)
}

func (r *authorsRepo) ReplaceGenres(ctx context.Context, authorID string, genreIDs []string) error {
	if _, err := r.exec(ctx, `DELETE FROM author_genre WHERE author_id = ?`, authorID); err != nil {
		return r.fail("author_genre", store.OpDelete, err)
	}
	for _, genreID := range genreIDs {
		_, err := r.exec(ctx, `INSERT INTO author_genre (author_id, genre_id) VALUES (?, ?)`, authorID, genreID)
		if err != nil {
			return r.fail("author_genre", store.OpWrite, err)
		}
	}
	return nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
