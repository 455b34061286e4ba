package catalogsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (s *Session) CreateGenre(ctx context.Context, req GenreRequest) (*GenreResponse, error) {
	var out GenreResponse
	if err := s.doAuthJSON(ctx, http.MethodPost, "/api/v1/genres", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) RenameGenre(ctx context.Context, id string, req GenreRequest) (*GenreResponse, error) {
	var out GenreResponse
	if err := s.doAuthJSON(ctx, http.MethodPut, "/api/v1/genres/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteGenre(ctx context.Context, id string) error {
	return s.doAuthJSON(ctx, http.MethodDelete, "/api/v1/genres/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

func (s *Session) CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	var out CategoryResponse
	if err := s.doAuthJSON(ctx, http.MethodPost, "/api/v1/categories", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) RenameCategory(ctx context.Context, id string, req CategoryRequest) (*CategoryResponse, error) {
	var out CategoryResponse
	if err := s.doAuthJSON(ctx, http.MethodPatch, "/api/v1/categories/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteCategory(ctx context.Context, id string) error {
	return s.doAuthJSON(ctx, http.MethodDelete, "/api/v1/categories/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

func (s *Session) CreateAuthor(ctx context.Context, req AuthorRequest) (*AuthorResponse, error) {
	var out AuthorResponse
	if err := s.doAuthJSON(ctx, http.MethodPost, "/api/v1/authors", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateAuthor(ctx context.Context, id string, req UpdateAuthorRequest) (*AuthorResponse, error) {
	var out AuthorResponse
	if err := s.doAuthJSON(ctx, http.MethodPatch, "/api/v1/authors/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteAuthor(ctx context.Context, id string) error {
	return s.doAuthJSON(ctx, http.MethodDelete, "/api/v1/authors/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

// CreateBook creates a book and its author set; an unknown author or genre
// creates nothing.
func (s *Session) CreateBook(ctx context.Context, req BookRequest) (*BookResponse, error) {
	var out BookResponse
	if err := s.doAuthJSON(ctx, http.MethodPost, "/api/v1/books", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateBook(ctx context.Context, id string, req UpdateBookRequest) (*BookResponse, error) {
	var out BookResponse
	if err := s.doAuthJSON(ctx, http.MethodPatch, "/api/v1/books/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteBook(ctx context.Context, id string) error {
	return s.doAuthJSON(ctx, http.MethodDelete, "/api/v1/books/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

// GetBookInformation is SDKClient.GetBookInformation through the session's
// client.
func (s *Session) GetBookInformation(ctx context.Context, id string) (*BookInformationResponse, error) {
	return s.client.GetBookInformation(ctx, id)
}
