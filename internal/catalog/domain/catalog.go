package domain

import "time"

type Genre struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category is a shelf grouping independent of genre, e.g. "Staff picks".
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Author struct {
	ID        string
	FirstName string
	LastName  string
	BirthDate *time.Time
	GenreIDs  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AuthorPatch struct {
	FirstName *string
	LastName  *string
	BirthDate *time.Time
	GenreIDs  []string // nil leaves the genre set untouched
}

type Book struct {
	ID          string
	Title       string
	Description *string
	GenreID     string
	CategoryID  *string
	AuthorIDs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type BookPatch struct {
	Title       *string
	Description *string
	GenreID     *string
	CategoryID  *string  // empty string clears the category
	AuthorIDs   []string // nil leaves the author set untouched
}

type BookFilter struct {
	Title      string
	GenreID    string
	CategoryID string
	AuthorID   string
}

// BookInformation is the read model behind the book details page.
type BookInformation struct {
	Book            Book
	Genre           Genre
	Category        *Category
	Authors         []Author
	AverageRating   float64
	TotalRatings    int
	FiveStarCount   int
	TextReviewCount int
	LatestReviews   []LatestReview
}

// LatestReviewsLimit is how many reviews BookInformation carries.
const LatestReviewsLimit = 10

type Review struct {
	ID        string
	UserID    string
	BookID    string
	Rating    int
	Text      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReviewPatch struct {
	Rating *int
	Text   *string
}

type ReviewFilter struct {
	BookID string
	UserID string
}

// ReviewStats aggregates the ratings of one book.
type ReviewStats struct {
	AverageRating   float64
	TotalRatings    int
	FiveStarCount   int
	TextReviewCount int
}

type LatestReview struct {
	Review
	Username string
}

type Favorite struct {
	ID        string
	UserID    string
	BookID    string
	CreatedAt time.Time
}

// Deduplicate returns ids with duplicates removed, keeping first occurrences.
func Deduplicate(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
