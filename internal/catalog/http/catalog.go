package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/service"
	"github.com/aussiebroadwan/bookshelf/pkg/catalogsdk"
	"github.com/aussiebroadwan/bookshelf/pkg/httpx"
)

type GenresHandler struct {
	GenreService *service.GenreService
}

// HandleList handles GET /api/v1/genres
//
//	@Summary	List genres
//	@Tags		Genres
//	@Produce	json
//	@Param		limit	query		int	false	"Page size (default 50, max 200)"
//	@Param		offset	query		int	false	"Page offset"
//	@Success	200		{object}	catalogsdk.ListGenresResponse
//	@Router		/api/v1/genres [get].
func (h *GenresHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	genres, err := h.GenreService.List(r.Context(), page)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, catalogsdk.ListGenresResponse{Genres: mapSlice(genres, toGenre)})
}

// HandleGet handles GET /api/v1/genres/{id}
//
//	@Summary	Get genre
//	@Tags		Genres
//	@Produce	json
//	@Param		id	path		string	true	"Genre ID"
//	@Success	200	{object}	catalogsdk.GenreResponse
//	@Failure	404	{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/genres/{id} [get].
func (h *GenresHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	g, err := h.GenreService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toGenre(g))
}

// HandleCreate handles POST /api/v1/genres
//
//	@Summary	Create genre
//	@Tags		Genres
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		catalogsdk.GenreRequest	true	"Genre"
//	@Success	201		{object}	catalogsdk.GenreResponse
//	@Failure	409		{object}	catalogsdk.ErrorResponse	"name taken"
//	@Router		/api/v1/genres [post].
func (h *GenresHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.GenreRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	g, err := h.GenreService.Create(r.Context(), req.Name)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toGenre(g))
}

// HandleRename handles PUT /api/v1/genres/{id}
//
//	@Summary	Rename genre
//	@Tags		Genres
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Genre ID"
//	@Param		request	body		catalogsdk.GenreRequest	true	"Genre"
//	@Success	200		{object}	catalogsdk.GenreResponse
//	@Failure	404		{object}	catalogsdk.ErrorResponse
//	@Failure	409		{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/genres/{id} [put].
func (h *GenresHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.GenreRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	g, err := h.GenreService.Rename(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toGenre(g))
}

// HandleDelete handles DELETE /api/v1/genres/{id}
//
//	@Summary		Delete genre
//	@Description	Fails with 404 entity "book" while books still use the genre.
//	@Tags			Genres
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Genre ID"
//	@Success		204
//	@Failure		404	{object}	catalogsdk.ErrorResponse
//	@Router			/api/v1/genres/{id} [delete].
func (h *GenresHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.GenreService.Delete(r.Context(), r.PathValue("id")); err != nil {
		fault.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type CategoriesHandler struct {
	CategoryService *service.CategoryService
}

// HandleList handles GET /api/v1/categories
//
//	@Summary	List categories
//	@Tags		Categories
//	@Produce	json
//	@Param		limit	query		int	false	"Page size (default 50, max 200)"
//	@Param		offset	query		int	false	"Page offset"
//	@Success	200		{object}	catalogsdk.ListCategoriesResponse
//	@Router		/api/v1/categories [get].
func (h *CategoriesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	categories, err := h.CategoryService.List(r.Context(), page)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, catalogsdk.ListCategoriesResponse{Categories: mapSlice(categories, toCategory)})
}

// HandleGet handles GET /api/v1/categories/{id}
//
//	@Summary	Get category
//	@Tags		Categories
//	@Produce	json
//	@Param		id	path		string	true	"Category ID"
//	@Success	200	{object}	catalogsdk.CategoryResponse
//	@Failure	404	{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/categories/{id} [get].
func (h *CategoriesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.CategoryService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCategory(c))
}

// HandleCreate handles POST /api/v1/categories
//
//	@Summary	Create category
//	@Tags		Categories
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		catalogsdk.CategoryRequest	true	"Category"
//	@Success	201		{object}	catalogsdk.CategoryResponse
//	@Failure	409		{object}	catalogsdk.ErrorResponse	"name taken"
//	@Router		/api/v1/categories [post].
func (h *CategoriesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.CategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	c, err := h.CategoryService.Create(r.Context(), req.Name)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCategory(c))
}

// HandleRename handles PATCH /api/v1/categories/{id}
//
//	@Summary	Rename category
//	@Tags		Categories
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Category ID"
//	@Param		request	body		catalogsdk.CategoryRequest	true	"Category"
//	@Success	200		{object}	catalogsdk.CategoryResponse
//	@Failure	404		{object}	catalogsdk.ErrorResponse
//	@Failure	409		{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/categories/{id} [patch].
func (h *CategoriesHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.CategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	c, err := h.CategoryService.Rename(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCategory(c))
}

// HandleDelete handles DELETE /api/v1/categories/{id}
//
//	@Summary		Delete category
//	@Description	Fails with 404 entity "book" while books still use the category.
//	@Tags			Categories
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Category ID"
//	@Success		204
//	@Failure		404	{object}	catalogsdk.ErrorResponse
//	@Router			/api/v1/categories/{id} [delete].
func (h *CategoriesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.CategoryService.Delete(r.Context(), r.PathValue("id")); err != nil {
		fault.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type AuthorsHandler struct {
	AuthorService *service.AuthorService
}

// HandleList handles GET /api/v1/authors
//
//	@Summary	List authors
//	@Tags		Authors
//	@Produce	json
//	@Param		limit	query		int	false	"Page size (default 50, max 200)"
//	@Param		offset	query		int	false	"Page offset"
//	@Success	200		{object}	catalogsdk.ListAuthorsResponse
//	@Router		/api/v1/authors [get].
func (h *AuthorsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	authors, err := h.AuthorService.List(r.Context(), page)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, catalogsdk.ListAuthorsResponse{Authors: mapSlice(authors, toAuthor)})
}

// HandleGet handles GET /api/v1/authors/{id}
//
//	@Summary	Get author
//	@Tags		Authors
//	@Produce	json
//	@Param		id	path		string	true	"Author ID"
//	@Success	200	{object}	catalogsdk.AuthorResponse
//	@Failure	404	{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/authors/{id} [get].
func (h *AuthorsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.AuthorService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAuthor(a))
}

// HandleCreate handles POST /api/v1/authors
//
//	@Summary		Create author
//	@Description	Creates the author and its genre set together; an unknown genre creates nothing.
//	@Tags			Authors
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		catalogsdk.AuthorRequest	true	"Author"
//	@Success		201		{object}	catalogsdk.AuthorResponse
//	@Failure		404		{object}	catalogsdk.ErrorResponse	"unknown genre"
//	@Router			/api/v1/authors [post].
func (h *AuthorsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.AuthorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}
	birth, err := parseDate(req.BirthDate)
	if err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	a, err := h.AuthorService.Create(r.Context(), domain.Author{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: birth,
		GenreIDs:  nonNil(req.GenreIDs),
	})
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAuthor(a))
}

// HandleUpdate handles PATCH /api/v1/authors/{id}
//
//	@Summary	Update author
//	@Tags		Authors
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string							true	"Author ID"
//	@Param		request	body		catalogsdk.UpdateAuthorRequest	true	"Fields to change"
//	@Success	200		{object}	catalogsdk.AuthorResponse
//	@Failure	404		{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/authors/{id} [patch].
func (h *AuthorsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.UpdateAuthorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	patch := domain.AuthorPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		GenreIDs:  req.GenreIDs,
	}
	if req.BirthDate != nil {
		birth, err := parseDate(*req.BirthDate)
		if err != nil {
			httpx.WriteValidationError(w, err)
			return
		}
		patch.BirthDate = birth
	}

	a, err := h.AuthorService.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAuthor(a))
}

// HandleDelete handles DELETE /api/v1/authors/{id}
//
//	@Summary	Delete author
//	@Tags		Authors
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Author ID"
//	@Success	204
//	@Failure	404	{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/authors/{id} [delete].
func (h *AuthorsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthorService.Delete(r.Context(), r.PathValue("id")); err != nil {
		fault.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type BooksHandler struct {
	BookService *service.BookService
}

// HandleList handles GET /api/v1/books
//
//	@Summary	List books
//	@Tags		Books
//	@Produce	json
//	@Param		title		query		string	false	"Title substring"
//	@Param		genre_id	query		string	false	"Genre ID"
//	@Param		category_id	query		string	false	"Category ID"
//	@Param		author_id	query		string	false	"Author ID"
//	@Param		limit		query		int		false	"Page size (default 50, max 200)"
//	@Param		offset		query		int		false	"Page offset"
//	@Success	200			{object}	catalogsdk.ListBooksResponse
//	@Router		/api/v1/books [get].
func (h *BooksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	q := r.URL.Query()
	books, err := h.BookService.List(r.Context(), domain.BookFilter{
		Title:      q.Get("title"),
		GenreID:    q.Get("genre_id"),
		CategoryID: q.Get("category_id"),
		AuthorID:   q.Get("author_id"),
	}, page)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, catalogsdk.ListBooksResponse{Books: mapSlice(books, toBook)})
}

// HandleGet handles GET /api/v1/books/{id}
//
//	@Summary	Get book
//	@Tags		Books
//	@Produce	json
//	@Param		id	path		string	true	"Book ID"
//	@Success	200	{object}	catalogsdk.BookResponse
//	@Failure	404	{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/books/{id} [get].
func (h *BooksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	b, err := h.BookService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBook(b))
}

// HandleInformation handles GET /api/v1/books/{id}/information
//
//	@Summary		Book details
//	@Description	Book with its genre, category, authors, rating statistics and the ten latest reviews.
//	@Tags			Books
//	@Produce		json
//	@Param			id	path		string	true	"Book ID"
//	@Success		200	{object}	catalogsdk.BookInformationResponse
//	@Failure		404	{object}	catalogsdk.ErrorResponse
//	@Router			/api/v1/books/{id}/information [get].
func (h *BooksHandler) HandleInformation(w http.ResponseWriter, r *http.Request) {
	info, err := h.BookService.Information(r.Context(), r.PathValue("id"))
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBookInformation(info))
}

// HandleCreate handles POST /api/v1/books
//
//	@Summary		Create book
//	@Description	Creates the book and its author set together; any unknown author, genre or category creates nothing.
//	@Tags			Books
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		catalogsdk.BookRequest	true	"Book"
//	@Success		201		{object}	catalogsdk.BookResponse
//	@Failure		404		{object}	catalogsdk.ErrorResponse	"unknown author or genre"
//	@Router			/api/v1/books [post].
func (h *BooksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.BookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	b, err := h.BookService.Create(r.Context(), domain.Book{
		Title:       req.Title,
		Description: req.Description,
		GenreID:     req.GenreID,
		CategoryID:  req.CategoryID,
		AuthorIDs:   req.AuthorIDs,
	})
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toBook(b))
}

// HandleUpdate handles PATCH /api/v1/books/{id}
//
//	@Summary	Update book
//	@Tags		Books
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string						true	"Book ID"
//	@Param		request	body		catalogsdk.UpdateBookRequest	true	"Fields to change"
//	@Success	200		{object}	catalogsdk.BookResponse
//	@Failure	404		{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/books/{id} [patch].
func (h *BooksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.UpdateBookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	b, err := h.BookService.Update(r.Context(), r.PathValue("id"), domain.BookPatch{
		Title:       req.Title,
		Description: req.Description,
		GenreID:     req.GenreID,
		CategoryID:  req.CategoryID,
		AuthorIDs:   req.AuthorIDs,
	})
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBook(b))
}

// HandleDelete handles DELETE /api/v1/books/{id}
//
//	@Summary	Delete book
//	@Tags		Books
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Book ID"
//	@Success	204
//	@Failure	404	{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/books/{id} [delete].
func (h *BooksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.BookService.Delete(r.Context(), r.PathValue("id")); err != nil {
		fault.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
