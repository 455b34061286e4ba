package catalogsdk

import (
	"context"
	"net/url"
)

// BookFilter narrows ListBooks. Empty fields are ignored.
type BookFilter struct {
	Title      string
	GenreID    string
	CategoryID string
	AuthorID   string
}

func (c *SDKClient) GetGenre(ctx context.Context, id string) (*GenreResponse, error) {
	var out GenreResponse
	if err := c.getJSON(ctx, "/api/v1/genres/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) ListGenres(ctx context.Context, opts ListOptions) (*ListGenresResponse, error) {
	var out ListGenresResponse
	if err := c.getJSON(ctx, withQuery("/api/v1/genres", opts, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) GetCategory(ctx context.Context, id string) (*CategoryResponse, error) {
	var out CategoryResponse
	if err := c.getJSON(ctx, "/api/v1/categories/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) ListCategories(ctx context.Context, opts ListOptions) (*ListCategoriesResponse, error) {
	var out ListCategoriesResponse
	if err := c.getJSON(ctx, withQuery("/api/v1/categories", opts, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) GetAuthor(ctx context.Context, id string) (*AuthorResponse, error) {
	var out AuthorResponse
	if err := c.getJSON(ctx, "/api/v1/authors/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) ListAuthors(ctx context.Context, opts ListOptions) (*ListAuthorsResponse, error) {
	var out ListAuthorsResponse
	if err := c.getJSON(ctx, withQuery("/api/v1/authors", opts, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) GetBook(ctx context.Context, id string) (*BookResponse, error) {
	var out BookResponse
	if err := c.getJSON(ctx, "/api/v1/books/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) ListBooks(ctx context.Context, filter BookFilter, opts ListOptions) (*ListBooksResponse, error) {
	path := withQuery("/api/v1/books", opts, map[string]string{
		"title":       filter.Title,
		"genre_id":    filter.GenreID,
		"category_id": filter.CategoryID,
		"author_id":   filter.AuthorID,
	})

	var out ListBooksResponse
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBookInformation returns the book details aggregate: authors, genre,
// rating statistics and the latest reviews.
func (c *SDKClient) GetBookInformation(ctx context.Context, id string) (*BookInformationResponse, error) {
	var out BookInformationResponse
	if err := c.getJSON(ctx, "/api/v1/books/"+url.PathEscape(id)+"/information", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListReviews lists reviews newest first, optionally for one book.
func (c *SDKClient) ListReviews(ctx context.Context, bookID string, opts ListOptions) (*ListReviewsResponse, error) {
	var out ListReviewsResponse
	path := withQuery("/api/v1/reviews", opts, map[string]string{"book_id": bookID})
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) GetReview(ctx context.Context, id string) (*ReviewResponse, error) {
	var out ReviewResponse
	if err := c.getJSON(ctx, "/api/v1/reviews/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
