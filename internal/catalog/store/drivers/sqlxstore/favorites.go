package sqlxstore

import (
	"context"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
)

type favoriteRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	BookID    string    `db:"book_id"`
	CreatedAt time.Time `db:"created_at"`
}

func mapFavorite(row favoriteRow) domain.Favorite {
	return domain.Favorite{
		ID:        row.ID,
		UserID:    row.UserID,
		BookID:    row.BookID,
		CreatedAt: row.CreatedAt,
	}
}

type favoritesRepo struct{ base }

func (r *favoritesRepo) AddFavorite(ctx context.Context, f domain.Favorite) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now()
	}
	return r.insert(ctx, "favorites", `
INSERT INTO favorites (id, user_id, book_id, created_at)
VALUES (:id, :user_id, :book_id, :created_at)`,
		favoriteRow{ID: f.ID, UserID: f.UserID, BookID: f.BookID, CreatedAt: f.CreatedAt})
}

func (r *favoritesRepo) ListFavoritesByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	var rows []favoriteRow
	err := r.selectAll(ctx, &rows,
		`SELECT id, user_id, book_id, created_at FROM favorites WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}

	favorites := make([]domain.Favorite, len(rows))
	for i, row := range rows {
		favorites[i] = mapFavorite(row)
	}
	return favorites, nil
}

func (r *favoritesRepo) RemoveFavorite(ctx context.Context, userID, bookID string) error {
	return r.delete(ctx, "favorites", "favorite", bookID,
		`DELETE FROM favorites WHERE user_id = ? AND book_id = ?`, userID, bookID)
}
