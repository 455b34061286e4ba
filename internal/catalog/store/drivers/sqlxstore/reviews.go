package sqlxstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
)

type reviewRow struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	BookID    string         `db:"book_id"`
	Rating    int            `db:"rating"`
	Text      sql.NullString `db:"text"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func mapReview(row reviewRow) domain.Review {
	r := domain.Review{
		ID:        row.ID,
		UserID:    row.UserID,
		BookID:    row.BookID,
		Rating:    row.Rating,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Text.Valid {
		text := row.Text.String
		r.Text = &text
	}
	return r
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

const selectReviews = `SELECT r.id, r.user_id, r.book_id, r.rating, r.text, r.created_at, r.updated_at FROM reviews r`

type reviewsRepo struct{ base }

func (r *reviewsRepo) GetReviewByID(ctx context.Context, id string) (domain.Review, error) {
	var row reviewRow
	if err := r.get(ctx, &row, selectReviews+` WHERE r.id = ?`, id); err != nil {
		return domain.Review{}, mapNotFound(err, "review", id)
	}
	return mapReview(row), nil
}

func (r *reviewsRepo) ListReviews(
	ctx context.Context,
	filter domain.ReviewFilter,
	page domain.Page,
) ([]domain.Review, error) {
	var (
		conds []string
		args  []any
	)
	if filter.BookID != "" {
		conds = append(conds, `r.book_id = ?`)
		args = append(args, filter.BookID)
	}
	if filter.UserID != "" {
		conds = append(conds, `r.user_id = ?`)
		args = append(args, filter.UserID)
	}

	limit, offset := pageArgs(page)
	args = append(args, limit, offset)

	var rows []reviewRow
	if err := r.selectAll(ctx, &rows, selectReviews+where(conds)+` ORDER BY r.id DESC LIMIT ? OFFSET ?`, args...); err != nil {
		return nil, err
	}

	reviews := make([]domain.Review, len(rows))
	for i, row := range rows {
		reviews[i] = mapReview(row)
	}
	return reviews, nil
}

func (r *reviewsRepo) CreateReview(ctx context.Context, rv domain.Review) error {
	ts := now()
	return r.insert(ctx, "reviews", `
INSERT INTO reviews (id, user_id, book_id, rating, text, created_at, updated_at)
VALUES (:id, :user_id, :book_id, :rating, :text, :created_at, :updated_at)`,
		reviewRow{
			ID:        rv.ID,
			UserID:    rv.UserID,
			BookID:    rv.BookID,
			Rating:    rv.Rating,
			Text:      mapOptionalString(rv.Text),
			CreatedAt: ts,
			UpdatedAt: ts,
		})
}

func (r *reviewsRepo) UpdateReview(ctx context.Context, rv domain.Review) error {
	return r.update(ctx, "reviews", "review", rv.ID,
		`UPDATE reviews SET rating = ?, text = ?, updated_at = ? WHERE id = ?`,
		rv.Rating, mapOptionalString(rv.Text), now(), rv.ID)
}

func (r *reviewsRepo) DeleteReview(ctx context.Context, id string) error {
	return r.delete(ctx, "reviews", "review", id, `DELETE FROM reviews WHERE id = ?`, id)
}

type statsRow struct {
	Average   float64 `db:"average"`
	Total     int     `db:"total"`
	FiveStars int     `db:"five_stars"`
	WithText  int     `db:"with_text"`
}

func (r *reviewsRepo) Stats(ctx context.Context, bookID string) (domain.ReviewStats, error) {
	var row statsRow
	err := r.get(ctx, &row, `
SELECT COALESCE(AVG(rating), 0) AS average,
       COUNT(*) AS total,
       COALESCE(SUM(CASE WHEN rating = 5 THEN 1 ELSE 0 END), 0) AS five_stars,
       COALESCE(SUM(CASE WHEN text IS NOT NULL AND text <> '' THEN 1 ELSE 0 END), 0) AS with_text
FROM reviews
WHERE book_id = ?`, bookID)
	if err != nil {
		return domain.ReviewStats{}, err
	}

	return domain.ReviewStats{
		AverageRating:   row.Average,
		TotalRatings:    row.Total,
		FiveStarCount:   row.FiveStars,
		TextReviewCount: row.WithText,
	}, nil
}

type latestReviewRow struct {
	reviewRow
	Username string `db:"username"`
}

func (r *reviewsRepo) Latest(ctx context.Context, bookID string, limit int) ([]domain.LatestReview, error) {
	var rows []latestReviewRow
	err := r.selectAll(ctx, &rows, `
SELECT r.id, r.user_id, r.book_id, r.rating, r.text, r.created_at, r.updated_at, u.username
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.book_id = ?
ORDER BY r.id DESC
LIMIT ?`, bookID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.LatestReview, len(rows))
	for i, row := range rows {
		out[i] = domain.LatestReview{Review: mapReview(row.reviewRow), Username: row.Username}
	}
	return out, nil
}
