package catalogsdk

import "time"

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Field            string `json:"field,omitempty"`
	Entity           string `json:"entity,omitempty"`
}

// ValidationErrorResponse is the 400 body for malformed or invalid requests.
type ValidationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

// TokenResponse is the login exchange result.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ============================================================================
// Users
// ============================================================================

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
}

// UpdateUserRequest is a partial update; omitted fields are left untouched.
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=64"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Disabled  *bool   `json:"disabled,omitempty"`
}

type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

type SetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// ============================================================================
// Catalog
// ============================================================================

type GenreRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type GenreResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListGenresResponse struct {
	Genres []GenreResponse `json:"genres"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// AuthorRequest creates an author. BirthDate is YYYY-MM-DD.
type AuthorRequest struct {
	FirstName string   `json:"first_name" validate:"required,max=100"`
	LastName  string   `json:"last_name" validate:"required,max=100"`
	BirthDate string   `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	GenreIDs  []string `json:"genre_ids,omitempty" validate:"omitempty,dive,ulid"`
}

// UpdateAuthorRequest is a partial update. A non-nil GenreIDs replaces the
// whole genre set.
type UpdateAuthorRequest struct {
	FirstName *string  `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string  `json:"last_name,omitempty" validate:"omitempty,max=100"`
	BirthDate *string  `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	GenreIDs  []string `json:"genre_ids,omitempty" validate:"omitempty,dive,ulid"`
}

type AuthorResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate string    `json:"birth_date,omitempty"`
	GenreIDs  []string  `json:"genre_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListAuthorsResponse struct {
	Authors []AuthorResponse `json:"authors"`
}

type BookRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	GenreID     string   `json:"genre_id" validate:"required,ulid"`
	CategoryID  *string  `json:"category_id,omitempty" validate:"omitempty,ulid"`
	AuthorIDs   []string `json:"author_ids" validate:"required,min=1,dive,ulid"`
}

// UpdateBookRequest is a partial update. A non-nil AuthorIDs replaces the
// whole author set. An empty description or category_id clears it.
type UpdateBookRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	GenreID     *string  `json:"genre_id,omitempty" validate:"omitempty,ulid"`
	CategoryID  *string  `json:"category_id,omitempty" validate:"omitempty,len=0|ulid"`
	AuthorIDs   []string `json:"author_ids,omitempty" validate:"omitempty,min=1,dive,ulid"`
}

type BookResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	GenreID     string    `json:"genre_id"`
	CategoryID  *string   `json:"category_id,omitempty"`
	AuthorIDs   []string  `json:"author_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListBooksResponse struct {
	Books []BookResponse `json:"books"`
}

// BookInformationResponse backs the book details page.
type BookInformationResponse struct {
	Book            BookResponse           `json:"book"`
	Genre           GenreResponse          `json:"genre"`
	Category        *CategoryResponse      `json:"category,omitempty"`
	Authors         []AuthorResponse       `json:"authors"`
	AverageRating   float64                `json:"average_rating"`
	TotalRatings    int                    `json:"total_ratings"`
	FiveStarCount   int                    `json:"five_star_count"`
	TextReviewCount int                    `json:"text_review_count"`
	LatestReviews   []LatestReviewResponse `json:"latest_reviews"`
}

// ============================================================================
// Reviews and favorites
// ============================================================================

type ReviewRequest struct {
	BookID string  `json:"book_id" validate:"required,ulid"`
	Rating int     `json:"rating" validate:"required,min=1,max=5"`
	Text   *string `json:"text,omitempty" validate:"omitempty,max=5000"`
}

type UpdateReviewRequest struct {
	Rating *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Text   *string `json:"text,omitempty" validate:"omitempty,max=5000"`
}

type ReviewResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	Rating    int       `json:"rating"`
	Text      *string   `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LatestReviewResponse struct {
	ReviewResponse
	Username string `json:"username"`
}

type ListReviewsResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
}

// FavoriteRequest marks a book as a favorite. UserID may be omitted; when set
// it must be the caller.
type FavoriteRequest struct {
	UserID string `json:"user_id,omitempty" validate:"omitempty,ulid"`
	BookID string `json:"book_id" validate:"required,ulid"`
}

type FavoriteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ListFavoritesResponse struct {
	Favorites []FavoriteResponse `json:"favorites"`
}

// ListOptions is the limit/offset window of a listing. Zero values use the
// server defaults.
type ListOptions struct {
	Limit  int
	Offset int
}
