package sqlxstore

import (
	"context"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
)

type genreRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func mapGenre(row genreRow) domain.Genre {
	return domain.Genre{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type genresRepo struct{ base }

func (r *genresRepo) GetGenreByID(ctx context.Context, id string) (domain.Genre, error) {
	var row genreRow
	err := r.get(ctx, &row, `SELECT id, name, created_at, updated_at FROM genres WHERE id = ?`, id)
	if err != nil {
		return domain.Genre{}, mapNotFound(err, "genre", id)
	}
	return mapGenre(row), nil
}

func (r *genresRepo) ListGenres(ctx context.Context, page domain.Page) ([]domain.Genre, error) {
	limit, offset := pageArgs(page)

	var rows []genreRow
	err := r.selectAll(ctx, &rows,
		`SELECT id, name, created_at, updated_at FROM genres ORDER BY name LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}

	genres := make([]domain.Genre, len(rows))
	for i, row := range rows {
		genres[i] = mapGenre(row)
	}
	return genres, nil
}

func (r *genresRepo) CreateGenre(ctx context.Context, g domain.Genre) error {
	ts := now()
	return r.insert(ctx, "genres",
		`INSERT INTO genres (id, name, created_at, updated_at) VALUES (:id, :name, :created_at, :updated_at)`,
		genreRow{ID: g.ID, Name: g.Name, CreatedAt: ts, UpdatedAt: ts})
}

func (r *genresRepo) UpdateGenre(ctx context.Context, g domain.Genre) error {
	return r.update(ctx, "genres", "genre", g.ID,
		`UPDATE genres SET name = ?, updated_at = ? WHERE id = ?`, g.Name, now(), g.ID)
}

func (r *genresRepo) DeleteGenre(ctx context.Context, id string) error {
	return r.delete(ctx, "genres", "genre", id, `DELETE FROM genres WHERE id = ?`, id)
}
