package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/guard"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/service"
	"github.com/aussiebroadwan/bookshelf/pkg/catalogsdk"
	"github.com/aussiebroadwan/bookshelf/pkg/httpx"
)

type ReviewsHandler struct {
	ReviewService *service.ReviewService
}

// HandleList handles GET /api/v1/reviews
//
//	@Summary	List reviews
//	@Tags		Reviews
//	@Produce	json
//	@Param		book_id	query		string	false	"Book ID"
//	@Param		user_id	query		string	false	"Reviewer ID"
//	@Param		limit	query		int		false	"Page size (default 50, max 200)"
//	@Param		offset	query		int		false	"Page offset"
//	@Success	200		{object}	catalogsdk.ListReviewsResponse
//	@Router		/api/v1/reviews [get].
func (h *ReviewsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	q := r.URL.Query()
	reviews, err := h.ReviewService.List(r.Context(), domain.ReviewFilter{
		BookID: q.Get("book_id"),
		UserID: q.Get("user_id"),
	}, page)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, catalogsdk.ListReviewsResponse{Reviews: mapSlice(reviews, toReview)})
}

// HandleGet handles GET /api/v1/reviews/{id}
//
//	@Summary	Get review
//	@Tags		Reviews
//	@Produce	json
//	@Param		id	path		string	true	"Review ID"
//	@Success	200	{object}	catalogsdk.ReviewResponse
//	@Failure	404	{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/reviews/{id} [get].
func (h *ReviewsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rv, err := h.ReviewService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toReview(rv))
}

// HandleCreate handles POST /api/v1/reviews
//
//	@Summary	Review a book
//	@Tags		Reviews
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		catalogsdk.ReviewRequest	true	"Review"
//	@Success	201		{object}	catalogsdk.ReviewResponse
//	@Failure	400		{object}	catalogsdk.ErrorResponse	"inactive user or invalid rating"
//	@Failure	404		{object}	catalogsdk.ErrorResponse	"unknown book"
//	@Router		/api/v1/reviews [post].
func (h *ReviewsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.ReviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	caller, _ := guard.IdentityFrom(r.Context())
	rv, err := h.ReviewService.Create(r.Context(), caller, req.BookID, req.Rating, req.Text)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toReview(rv))
}

// HandleUpdate handles PATCH /api/v1/reviews/{id}
//
//	@Summary		Update review
//	@Description	Only the author of the review or an admin may change it.
//	@Tags			Reviews
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"Review ID"
//	@Param			request	body		catalogsdk.UpdateReviewRequest	true	"Fields to change"
//	@Success		200		{object}	catalogsdk.ReviewResponse
//	@Failure		403		{object}	catalogsdk.ErrorResponse
//	@Failure		404		{object}	catalogsdk.ErrorResponse
//	@Router			/api/v1/reviews/{id} [patch].
func (h *ReviewsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.UpdateReviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	caller, _ := guard.IdentityFrom(r.Context())
	rv, err := h.ReviewService.Update(r.Context(), caller, r.PathValue("id"), domain.ReviewPatch{
		Rating: req.Rating,
		Text:   req.Text,
	})
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toReview(rv))
}

// HandleDelete handles DELETE /api/v1/reviews/{id}
//
//	@Summary	Delete review
//	@Tags		Reviews
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Review ID"
//	@Success	204
//	@Failure	403	{object}	catalogsdk.ErrorResponse
//	@Failure	404	{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/reviews/{id} [delete].
func (h *ReviewsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, _ := guard.IdentityFrom(r.Context())
	if err := h.ReviewService.Delete(r.Context(), caller, r.PathValue("id")); err != nil {
		fault.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type FavoritesHandler struct {
	FavoriteService *service.FavoriteService
}

// HandleList handles GET /api/v1/favorites
//
//	@Summary	My favorites
//	@Tags		Favorites
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	catalogsdk.ListFavoritesResponse
//	@Router		/api/v1/favorites [get].
func (h *FavoritesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, _ := guard.IdentityFrom(r.Context())
	favs, err := h.FavoriteService.ListMine(r.Context(), caller)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, catalogsdk.ListFavoritesResponse{Favorites: mapSlice(favs, toFavorite)})
}

// HandleAdd handles POST /api/v1/favorites
//
//	@Summary		Add favorite
//	@Description	user_id may be omitted; when present it must be the caller.
//	@Tags			Favorites
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		catalogsdk.FavoriteRequest	true	"Favorite"
//	@Success		201		{object}	catalogsdk.FavoriteResponse
//	@Failure		403		{object}	catalogsdk.ErrorResponse	"user_id is not the caller"
//	@Failure		404		{object}	catalogsdk.ErrorResponse	"unknown book"
//	@Failure		409		{object}	catalogsdk.ErrorResponse	"already a favorite"
//	@Router			/api/v1/favorites [post].
func (h *FavoritesHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.FavoriteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	caller, _ := guard.IdentityFrom(r.Context())
	f, err := h.FavoriteService.Add(r.Context(), caller, req.UserID, req.BookID)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toFavorite(f))
}

// HandleRemove handles DELETE /api/v1/favorites/{book_id}
//
//	@Summary	Remove favorite
//	@Tags		Favorites
//	@Security	BearerAuth
//	@Param		book_id	path	string	true	"Book ID"
//	@Success	204
//	@Failure	404	{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/favorites/{book_id} [delete].
func (h *FavoritesHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	caller, _ := guard.IdentityFrom(r.Context())
	if err := h.FavoriteService.Remove(r.Context(), caller, r.PathValue("book_id")); err != nil {
		fault.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
