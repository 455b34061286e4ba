package sqlxstore

import (
	"context"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
)

type bookRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	GenreID     string    `db:"genre_id"`
	CategoryID  *string   `db:"category_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func mapBook(row bookRow, authorIDs []string) domain.Book {
	return domain.Book{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		GenreID:     row.GenreID,
		CategoryID:  row.CategoryID,
		AuthorIDs:   authorIDs,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

const (
	selectBooks       = `SELECT b.id, b.title, b.description, b.genre_id, b.category_id, b.created_at, b.updated_at FROM books b`
	selectAuthorLinks = `SELECT book_id AS owner, author_id AS other FROM author_book WHERE book_id IN (?) ORDER BY author_id`
)

type booksRepo struct{ base }

func (r *booksRepo) GetBookByID(ctx context.Context, id string) (domain.Book, error) {
	var row bookRow
	if err := r.get(ctx, &row, selectBooks+` WHERE b.id = ?`, id); err != nil {
		return domain.Book{}, mapNotFound(err, "book", id)
	}

	links, err := r.loadLinks(ctx, selectAuthorLinks, []string{id})
	if err != nil {
		return domain.Book{}, err
	}
	return mapBook(row, nonNil(links[id])), nil
}

func (r *booksRepo) ListBooks(
	ctx context.Context,
	filter domain.BookFilter,
	page domain.Page,
) ([]domain.Book, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Title != "" {
		conds = append(conds, `LOWER(b.title) LIKE ?`)
		args = append(args, likeContains(filter.Title))
	}
	if filter.GenreID != "" {
		conds = append(conds, `b.genre_id = ?`)
		args = append(args, filter.GenreID)
	}
	if filter.CategoryID != "" {
		conds = append(conds, `b.category_id = ?`)
		args = append(args, filter.CategoryID)
	}
	if filter.AuthorID != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM author_book ab WHERE ab.book_id = b.id AND ab.author_id = ?)`)
		args = append(args, filter.AuthorID)
	}

	limit, offset := pageArgs(page)
	args = append(args, limit, offset)

	var rows []bookRow
	if err := r.selectAll(ctx, &rows, selectBooks+where(conds)+` ORDER BY b.id LIMIT ? OFFSET ?`, args...); err != nil {
		return nil, err
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	links, err := r.loadLinks(ctx, selectAuthorLinks, ids)
	if err != nil {
		return nil, err
	}

	books := make([]domain.Book, len(rows))
	for i, row := range rows {
		books[i] = mapBook(row, nonNil(links[row.ID]))
	}
	return books, nil
}

func (r *booksRepo) CreateBook(ctx context.Context, b domain.Book) error {
	ts := now()
	return r.insert(ctx, "books", `
INSERT INTO books (id, title, description, genre_id, category_id, created_at, updated_at)
VALUES (:id, :title, :description, :genre_id, :category_id, :created_at, :updated_at)`,
		bookRow{
			ID:          b.ID,
			Title:       b.Title,
			Description: b.Description,
			GenreID:     b.GenreID,
			CategoryID:  b.CategoryID,
			CreatedAt:   ts,
			UpdatedAt:   ts,
		})
}

func (r *booksRepo) UpdateBook(ctx context.Context, b domain.Book) error {
	return r.update(ctx, "books", "book", b.ID,
		`UPDATE books SET title = ?, description = ?, genre_id = ?, category_id = ?, updated_at = ? WHERE id = ?`,
		b.Title, b.Description, b.GenreID, b.CategoryID, now(), b.ID)
}

func (r *booksRepo) DeleteBook(ctx context.Context, id string) error {
	return r.delete(ctx, "books", "book", id, `DELETE FROM books WHERE id = ?`, id)
}

func (r *booksRepo) ReplaceAuthors(ctx context.Context, bookID string, authorIDs []string) error {
	if _, err := r.exec(ctx, `DELETE FROM author_book WHERE book_id = ?`, bookID); err != nil {
		return r.fail("author_book", store.OpDelete, err)
	}
	for _, authorID := range authorIDs {
		_, err := r.exec(ctx, `INSERT INTO author_book (author_id, book_id) VALUES (?, ?)`, authorID, bookID)
		if err != nil {
			return r.fail("author_book", store.OpWrite, err)
		}
	}
	return nil
}
