package sqlxstore

import (
	"context"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
)

type categoryRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func mapCategory(row categoryRow) domain.Category {
	return domain.Category(row)
}

const selectCategories = `SELECT id, name, created_at, updated_at FROM categories`

type categoriesRepo struct{ base }

func (r *categoriesRepo) GetCategoryByID(ctx context.Context, id string) (domain.Category, error) {
	var row categoryRow
	if err := r.get(ctx, &row, selectCategories+` WHERE id = ?`, id); err != nil {
		return domain.Category{}, mapNotFound(err, "category", id)
	}
	return mapCategory(row), nil
}

func (r *categoriesRepo) ListCategories(ctx context.Context, page domain.Page) ([]domain.Category, error) {
	limit, offset := pageArgs(page)

	var rows []categoryRow
	if err := r.selectAll(ctx, &rows, selectCategories+` ORDER BY name LIMIT ? OFFSET ?`, limit, offset); err != nil {
		return nil, err
	}

	categories := make([]domain.Category, len(rows))
	for i, row := range rows {
		categories[i] = mapCategory(row)
	}
	return categories, nil
}

func (r *categoriesRepo) CreateCategory(ctx context.Context, c domain.Category) error {
	ts := now()
	return r.insert(ctx, "categories",
		`INSERT INTO categories (id, name, created_at, updated_at) VALUES (:id, :name, :created_at, :updated_at)`,
		categoryRow{ID: c.ID, Name: c.Name, CreatedAt: ts, UpdatedAt: ts})
}

func (r *categoriesRepo) UpdateCategory(ctx context.Context, c domain.Category) error {
	return r.update(ctx, "categories", "category", c.ID,
		`UPDATE categories SET name = ?, updated_at = ? WHERE id = ?`, c.Name, now(), c.ID)
}

func (r *categoriesRepo) DeleteCategory(ctx context.Context, id string) error {
	return r.delete(ctx, "categories", "category", id, `DELETE FROM categories WHERE id = ?`, id)
}
