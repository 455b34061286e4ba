package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/uow"
	"github.com/aussiebroadwan/bookshelf/pkg/idx"
)

type ReviewService struct {
	Store  store.Store
	Writes *uow.Coordinator
}

func (s *ReviewService) Get(ctx context.Context, id string) (domain.Review, error) {
	r, err := s.Store.Reviews().GetReviewByID(ctx, id)
	return r, classify(ctx, err)
}

// List returns reviews newest first.
func (s *ReviewService) List(ctx context.Context, filter domain.ReviewFilter, page domain.Page) ([]domain.Review, error) {
	reviews, err := s.Store.Reviews().ListReviews(ctx, filter, page)
	return reviews, classify(ctx, err)
}

// Create records a review written by caller.
func (s *ReviewService) Create(ctx context.Context, caller domain.Identity, bookID string, rating int, text *string) (domain.Review, error) {
	return uow.Run(ctx, s.Writes, "review.create", func(tx store.Tx) (domain.Review, error) {
		// Both FKs share one violation code; resolve the author first so a
		// failure names the right entity.
		if _, err := tx.Users().GetUserByID(ctx, caller.ID); err != nil {
			return domain.Review{}, err
		}
		id := idx.New().String()
		err := tx.Reviews().CreateReview(ctx, domain.Review{
			ID:     id,
			UserID: caller.ID,
			BookID: bookID,
			Rating: rating,
			Text:   text,
		})
		if err != nil {
			return domain.Review{}, err
		}
		return tx.Reviews().GetReviewByID(ctx, id)
	})
}

// Update lets the author of a review, or an admin, change it.
func (s *ReviewService) Update(ctx context.Context, caller domain.Identity, id string, patch domain.ReviewPatch) (domain.Review, error) {
	return uow.Run(ctx, s.Writes, "review.update", func(tx store.Tx) (domain.Review, error) {
		r, err := tx.Reviews().GetReviewByID(ctx, id)
		if err != nil {
			return domain.Review{}, err
		}
		if err := ownsReview(caller, r); err != nil {
			return domain.Review{}, err
		}

		if patch.Rating != nil {
			r.Rating = *patch.Rating
		}
		if patch.Text != nil {
			r.Text = patch.Text
		}
		if err := tx.Reviews().UpdateReview(ctx, r); err != nil {
			return domain.Review{}, err
		}
		return tx.Reviews().GetReviewByID(ctx, id)
	})
}

func (s *ReviewService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	return s.Writes.Do(ctx, "review.delete", func(tx store.Tx) error {
		r, err := tx.Reviews().GetReviewByID(ctx, id)
		if err != nil {
			return err
		}
		if err := ownsReview(caller, r); err != nil {
			return err
		}
		return tx.Reviews().DeleteReview(ctx, id)
	})
}

func ownsReview(caller domain.Identity, r domain.Review) error {
	if caller.ID == r.UserID || caller.Role == domain.RoleAdmin {
		return nil
	}
	return fault.ErrInsufficientRole
}

type FavoriteService struct {
	Store  store.Store
	Writes *uow.Coordinator
}

// Add marks bookID as a favorite of caller. owner, when set, must be the
// caller: nobody curates someone else's favorites.
func (s *FavoriteService) Add(ctx context.Context, caller domain.Identity, owner, bookID string) (domain.Favorite, error) {
	if owner != "" && owner != caller.ID {
		return domain.Favorite{}, fault.ErrInsufficientRole
	}

	return uow.Run(ctx, s.Writes, "favorite.add", func(tx store.Tx) (domain.Favorite, error) {
		if _, err := tx.Users().GetUserByID(ctx, caller.ID); err != nil {
			return domain.Favorite{}, err
		}
		f := domain.Favorite{
			ID:        idx.New().String(),
			UserID:    caller.ID,
			BookID:    bookID,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Favorites().AddFavorite(ctx, f); err != nil {
			return domain.Favorite{}, err
		}
		return f, nil
	})
}

func (s *FavoriteService) ListMine(ctx context.Context, caller domain.Identity) ([]domain.Favorite, error) {
	favs, err := s.Store.Favorites().ListFavoritesByUser(ctx, caller.ID)
	return favs, classify(ctx, err)
}

// Remove fails with RowNotFound when the book is not a favorite of caller.
func (s *FavoriteService) Remove(ctx context.Context, caller domain.Identity, bookID string) error {
	return s.Writes.Do(ctx, "favorite.remove", func(tx store.Tx) error {
		return tx.Favorites().RemoveFavorite(ctx, caller.ID, bookID)
	})
}
