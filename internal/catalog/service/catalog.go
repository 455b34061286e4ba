package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/uow"
	"github.com/aussiebroadwan/bookshelf/pkg/idx"
)

type GenreService struct {
	Store  store.Store
	Writes *uow.Coordinator
}

func (s *GenreService) Get(ctx context.Context, id string) (domain.Genre, error) {
	g, err := s.Store.Genres().GetGenreByID(ctx, id)
	return g, classify(ctx, err)
}

func (s *GenreService) List(ctx context.Context, page domain.Page) ([]domain.Genre, error) {
	genres, err := s.Store.Genres().ListGenres(ctx, page)
	return genres, classify(ctx, err)
}

func (s *GenreService) Create(ctx context.Context, name string) (domain.Genre, error) {
	return uow.Run(ctx, s.Writes, "genre.create", func(tx store.Tx) (domain.Genre, error) {
		id := idx.New().String()
		if err := tx.Genres().CreateGenre(ctx, domain.Genre{ID: id, Name: name}); err != nil {
			return domain.Genre{}, err
		}
		return tx.Genres().GetGenreByID(ctx, id)
	})
}

func (s *GenreService) Rename(ctx context.Context, id, name string) (domain.Genre, error) {
	return uow.Run(ctx, s.Writes, "genre.update", func(tx store.Tx) (domain.Genre, error) {
		if err := tx.Genres().UpdateGenre(ctx, domain.Genre{ID: id, Name: name}); err != nil {
			return domain.Genre{}, err
		}
		return tx.Genres().GetGenreByID(ctx, id)
	})
}

// Delete fails with a foreign-key fault naming "book" while books use the genre.
func (s *GenreService) Delete(ctx context.Context, id string) error {
	return s.Writes.Do(ctx, "genre.delete", func(tx store.Tx) error {
		return tx.Genres().DeleteGenre(ctx, id)
	})
}

type CategoryService struct {
	Store  store.Store
	Writes *uow.Coordinator
}

func (s *CategoryService) Get(ctx context.Context, id string) (domain.Category, error) {
	c, err := s.Store.Categories().GetCategoryByID(ctx, id)
	return c, classify(ctx, err)
}

func (s *CategoryService) List(ctx context.Context, page domain.Page) ([]domain.Category, error) {
	categories, err := s.Store.Categories().ListCategories(ctx, page)
	return categories, classify(ctx, err)
}

func (s *CategoryService) Create(ctx context.Context, name string) (domain.Category, error) {
	return uow.Run(ctx, s.Writes, "category.create", func(tx store.Tx) (domain.Category, error) {
		id := idx.New().String()
		if err := tx.Categories().CreateCategory(ctx, domain.Category{ID: id, Name: name}); err != nil {
			return domain.Category{}, err
		}
		return tx.Categories().GetCategoryByID(ctx, id)
	})
}

func (s *CategoryService) Rename(ctx context.Context, id, name string) (domain.Category, error) {
	return uow.Run(ctx, s.Writes, "category.update", func(tx store.Tx) (domain.Category, error) {
		if err := tx.Categories().UpdateCategory(ctx, domain.Category{ID: id, Name: name}); err != nil {
			return domain.Category{}, err
		}
		return tx.Categories().GetCategoryByID(ctx, id)
	})
}

// Delete fails with a foreign-key fault naming "book" while books use the
// category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.Writes.Do(ctx, "category.delete", func(tx store.Tx) error {
		return tx.Categories().DeleteCategory(ctx, id)
	})
}

type AuthorService struct {
	Store  store.Store
	Writes *uow.Coordinator
}

func (s *AuthorService) Get(ctx context.Context, id string) (domain.Author, error) {
	a, err := s.Store.Authors().GetAuthorByID(ctx, id)
	return a, classify(ctx, err)
}

func (s *AuthorService) List(ctx context.Context, page domain.Page) ([]domain.Author, error) {
	authors, err := s.Store.Authors().ListAuthors(ctx, page)
	return authors, classify(ctx, err)
}

// Create inserts the author and its genre set in one unit of work; an unknown
// genre rolls back the author too.
func (s *AuthorService) Create(ctx context.Context, a domain.Author) (domain.Author, error) {
	return uow.Run(ctx, s.Writes, "author.create", func(tx store.Tx) (domain.Author, error) {
		a.ID = idx.New().String()
		if err := tx.Authors().CreateAuthor(ctx, a); err != nil {
			return domain.Author{}, err
		}
		if err := tx.Authors().ReplaceGenres(ctx, a.ID, domain.Deduplicate(a.GenreIDs)); err != nil {
			return domain.Author{}, err
		}
		return tx.Authors().GetAuthorByID(ctx, a.ID)
	})
}

func (s *AuthorService) Update(ctx context.Context, id string, patch domain.AuthorPatch) (domain.Author, error) {
	return uow.Run(ctx, s.Writes, "author.update", func(tx store.Tx) (domain.Author, error) {
		a, err := tx.Authors().GetAuthorByID(ctx, id)
		if err != nil {
			return domain.Author{}, err
		}
		if patch.FirstName != nil {
			a.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			a.LastName = *patch.LastName
		}
		if patch.BirthDate != nil {
			a.BirthDate = patch.BirthDate
		}
		if err := tx.Authors().UpdateAuthor(ctx, a); err != nil {
			return domain.Author{}, err
		}
		if patch.GenreIDs != nil {
			if err := tx.Authors().ReplaceGenres(ctx, id, domain.Deduplicate(patch.GenreIDs)); err != nil {
				return domain.Author{}, err
			}
		}
		return tx.Authors().GetAuthorByID(ctx, id)
	})
}

func (s *AuthorService) Delete(ctx context.Context, id string) error {
	return s.Writes.Do(ctx, "author.delete", func(tx store.Tx) error {
		return tx.Authors().DeleteAuthor(ctx, id)
	})
}

type BookService struct {
	Store  store.Store
	Writes *uow.Coordinator
}

func (s *BookService) Get(ctx context.Context, id string) (domain.Book, error) {
	b, err := s.Store.Books().GetBookByID(ctx, id)
	return b, classify(ctx, err)
}

func (s *BookService) List(ctx context.Context, filter domain.BookFilter, page domain.Page) ([]domain.Book, error) {
	books, err := s.Store.Books().ListBooks(ctx, filter, page)
	return books, classify(ctx, err)
}

// Create inserts the book and its author set in one unit of work. Any unknown
// author, genre or category leaves nothing behind.
func (s *BookService) Create(ctx context.Context, b domain.Book) (domain.Book, error) {
	return uow.Run(ctx, s.Writes, "book.create", func(tx store.Tx) (domain.Book, error) {
		b.CategoryID = optional(b.CategoryID)
		b.Description = optional(b.Description)
		if err := categoryExists(ctx, tx, b.CategoryID); err != nil {
			return domain.Book{}, err
		}
		b.ID = idx.New().String()
		if err := tx.Books().CreateBook(ctx, b); err != nil {
			return domain.Book{}, err
		}
		if err := tx.Books().ReplaceAuthors(ctx, b.ID, domain.Deduplicate(b.AuthorIDs)); err != nil {
			return domain.Book{}, err
		}
		return tx.Books().GetBookByID(ctx, b.ID)
	})
}

func (s *BookService) Update(ctx context.Context, id string, patch domain.BookPatch) (domain.Book, error) {
	return uow.Run(ctx, s.Writes, "book.update", func(tx store.Tx) (domain.Book, error) {
		b, err := tx.Books().GetBookByID(ctx, id)
		if err != nil {
			return domain.Book{}, err
		}
		if patch.Title != nil {
			b.Title = *patch.Title
		}
		if patch.GenreID != nil {
			b.GenreID = *patch.GenreID
		}
		if patch.Description != nil {
			b.Description = optional(patch.Description)
		}
		if patch.CategoryID != nil {
			b.CategoryID = optional(patch.CategoryID)
			if err := categoryExists(ctx, tx, b.CategoryID); err != nil {
				return domain.Book{}, err
			}
		}
		if err := tx.Books().UpdateBook(ctx, b); err != nil {
			return domain.Book{}, err
		}
		if patch.AuthorIDs != nil {
			if err := tx.Books().ReplaceAuthors(ctx, id, domain.Deduplicate(patch.AuthorIDs)); err != nil {
				return domain.Book{}, err
			}
		}
		return tx.Books().GetBookByID(ctx, id)
	})
}

// categoryExists reports an unknown category as a foreign-key fault. sqlite
// names only the table of a violation, and books already attributes its
// foreign-key failures to the genre.
func categoryExists(ctx context.Context, tx store.Tx, id *string) error {
	if id == nil {
		return nil
	}
	_, err := tx.Categories().GetCategoryByID(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		return fault.ForeignKeyViolation("category")
	}
	return err
}

// optional maps an empty string to nil.
func optional(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	return s.Writes.Do(ctx, "book.delete", func(tx store.Tx) error {
		return tx.Books().DeleteBook(ctx, id)
	})
}

// Information assembles the book details page from one read transaction so
// the aggregates and the latest reviews agree with each other.
func (s *BookService) Information(ctx context.Context, id string) (domain.BookInformation, error) {
	var info domain.BookInformation
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		book, err := tx.Books().GetBookByID(ctx, id)
		if err != nil {
			return err
		}
		genre, err := tx.Genres().GetGenreByID(ctx, book.GenreID)
		if err != nil {
			return err
		}
		var category *domain.Category
		if book.CategoryID != nil {
			c, err := tx.Categories().GetCategoryByID(ctx, *book.CategoryID)
			if err != nil {
				return err
			}
			category = &c
		}
		authors, err := tx.Authors().ListAuthorsByBook(ctx, id)
		if err != nil {
			return err
		}
		stats, err := tx.Reviews().Stats(ctx, id)
		if err != nil {
			return err
		}
		latest, err := tx.Reviews().Latest(ctx, id, domain.LatestReviewsLimit)
		if err != nil {
			return err
		}

		info = domain.BookInformation{
			Book:            book,
			Genre:           genre,
			Category:        category,
			Authors:         authors,
			AverageRating:   stats.AverageRating,
			TotalRatings:    stats.TotalRatings,
			FiveStarCount:   stats.FiveStarCount,
			TextReviewCount: stats.TextReviewCount,
			LatestReviews:   latest,
		}
		return nil
	})
	if err != nil {
		return domain.BookInformation{}, classify(ctx, err)
	}
	return info, nil
}
