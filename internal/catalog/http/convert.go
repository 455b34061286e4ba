package http

import (
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/pkg/catalogsdk"
)

const dateLayout = "2006-01-02"

func toUser(u domain.User) catalogsdk.UserResponse {
	return catalogsdk.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
		Disabled:  u.Disabled,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toGenre(g domain.Genre) catalogsdk.GenreResponse {
	return catalogsdk.GenreResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func toCategory(c domain.Category) catalogsdk.CategoryResponse {
	return catalogsdk.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toAuthor(a domain.Author) catalogsdk.AuthorResponse {
	out := catalogsdk.AuthorResponse{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		GenreIDs:  nonNil(a.GenreIDs),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.BirthDate != nil {
		out.BirthDate = a.BirthDate.Format(dateLayout)
	}
	return out
}

func toBook(b domain.Book) catalogsdk.BookResponse {
	return catalogsdk.BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		GenreID:     b.GenreID,
		CategoryID:  b.CategoryID,
		AuthorIDs:   nonNil(b.AuthorIDs),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toReview(r domain.Review) catalogsdk.ReviewResponse {
	return catalogsdk.ReviewResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		BookID:    r.BookID,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toFavorite(f domain.Favorite) catalogsdk.FavoriteResponse {
	return catalogsdk.FavoriteResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		BookID:    f.BookID,
		CreatedAt: f.CreatedAt,
	}
}

func toBookInformation(info domain.BookInformation) catalogsdk.BookInformationResponse {
	out := catalogsdk.BookInformationResponse{
		Book:            toBook(info.Book),
		Genre:           toGenre(info.Genre),
		Authors:         mapSlice(info.Authors, toAuthor),
		AverageRating:   info.AverageRating,
		TotalRatings:    info.TotalRatings,
		FiveStarCount:   info.FiveStarCount,
		TextReviewCount: info.TextReviewCount,
		LatestReviews:   make([]catalogsdk.LatestReviewResponse, len(info.LatestReviews)),
	}
	if info.Category != nil {
		c := toCategory(*info.Category)
		out.Category = &c
	}
	for i, r := range info.LatestReviews {
		out.LatestReviews[i] = catalogsdk.LatestReviewResponse{
			ReviewResponse: toReview(r.Review),
			Username:       r.Username,
		}
	}
	return out
}

// mapSlice converts every element; nil input yields an empty slice so lists
// encode as [] rather than null.
func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// parseDate parses a YYYY-MM-DD string already checked by the validator.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
