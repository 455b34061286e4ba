package catalogsdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreateReview reviews a book as the session's user.
func (s *Session) CreateReview(ctx context.Context, req ReviewRequest) (*ReviewResponse, error) {
	var out ReviewResponse
	if err := s.doAuthJSON(ctx, http.MethodPost, "/api/v1/reviews", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateReview changes a review. Only its author or an admin may.
func (s *Session) UpdateReview(ctx context.Context, id string, req UpdateReviewRequest) (*ReviewResponse, error) {
	var out ReviewResponse
	if err := s.doAuthJSON(ctx, http.MethodPatch, "/api/v1/reviews/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteReview(ctx context.Context, id string) error {
	return s.doAuthJSON(ctx, http.MethodDelete, "/api/v1/reviews/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

// AddFavorite marks a book as a favorite of the session's user.
func (s *Session) AddFavorite(ctx context.Context, req FavoriteRequest) (*FavoriteResponse, error) {
	var out FavoriteResponse
	if err := s.doAuthJSON(ctx, http.MethodPost, "/api/v1/favorites", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ListFavorites(ctx context.Context) (*ListFavoritesResponse, error) {
	var out ListFavoritesResponse
	if err := s.doAuthJSON(ctx, http.MethodGet, "/api/v1/favorites", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveFavorite fails with not_found when the book is not a favorite.
func (s *Session) RemoveFavorite(ctx context.Context, bookID string) error {
	return s.doAuthJSON(ctx, http.MethodDelete, "/api/v1/favorites/"+url.PathEscape(bookID), nil, nil, http.StatusNoContent)
}
