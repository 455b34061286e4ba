package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/guard"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/metrics"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/service"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/aussiebroadwan/bookshelf/pkg/httpx"
	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/bookshelf/api/catalog" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:generate swag init -g router.go -d ./,../../../pkg/catalogsdk -o ../../../api/catalog --packageName catalog

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	guard    *guard.Chain
	limits   httpx.RateLimits
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	AuthService     *service.AuthService
	UserService     *service.UserService
	GenreService    *service.GenreService
	CategoryService *service.CategoryService
	AuthorService   *service.AuthorService
	BookService     *service.BookService
	ReviewService   *service.ReviewService
	FavoriteService *service.FavoriteService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	chain *guard.Chain,
	limits httpx.RateLimits,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		guard:        chain,
		limits:       limits,
		metrics:      m,
		gatherer:     gatherer,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerGenres()
	r.registerCategories()
	r.registerAuthors()
	r.registerBooks()
	r.registerReviews()
	r.registerFavorites()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Bookshelf Catalog API
//	@version		0.1.0
//	@description	Book catalog with authors, genres, categories, reviews and favorites.
//	@description
//	@description				Access tokens are HS256 JWTs issued by POST /api/v1/auth/token.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/bookshelf
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// rateLimited counts rejections of the named rate-limit profile.
func (r *Router) rateLimited(profile string) httpx.RejectHook {
	return func(*http.Request) { r.metrics.RateLimited(profile) }
}

// public is an anonymous read, limited by IP.
func (r *Router) public(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.RateLimitByIP(r.limits.Public, r.rateLimited("public")),
	)
}

// secured guards h with policy p and limits it per user.
func (r *Router) secured(h http.HandlerFunc, p guard.Policy, limit httpx.RateLimitConfig, profile string) http.Handler {
	return httpx.Chain(h,
		r.guard.Middleware(p, r.metrics),
		httpx.RateLimitByUser(limit, r.rateLimited(profile)),
	)
}

func (r *Router) admin(h http.HandlerFunc) http.Handler {
	return r.secured(h, guard.Admin, r.limits.Moderate, "moderate")
}

func (r *Router) active(h http.HandlerFunc) http.Handler {
	return r.secured(h, guard.Active, r.limits.Lenient, "lenient")
}

func (r *Router) registerAuth() {
	h := &TokenHandler{AuthService: r.AuthService}

	// POST /auth/token - strict rate limit by IP + username to slow brute force
	r.Mux.Handle("POST /api/v1/auth/token",
		httpx.Chain(h,
			httpx.RateLimitByIPAndFormField(r.limits.Strict, "username", r.rateLimited("strict")),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	// Any genuine token may read its own profile, disabled or not.
	r.Mux.Handle("GET /api/v1/users/me", r.secured(h.HandleMe, guard.Authenticated, r.limits.Lenient, "lenient"))

	r.Mux.Handle("GET /api/v1/users", r.admin(h.HandleList))
	r.Mux.Handle("POST /api/v1/users", r.admin(h.HandleCreate))
	r.Mux.Handle("GET /api/v1/users/{id}", r.admin(h.HandleGet))
	r.Mux.Handle("PATCH /api/v1/users/{id}", r.admin(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/v1/users/{id}", r.admin(h.HandleDelete))
	r.Mux.Handle("POST /api/v1/users/{id}/assign-role", r.admin(h.HandleAssignRole))
	r.Mux.Handle("POST /api/v1/users/{id}/set-password", r.admin(h.HandleSetPassword))
}

func (r *Router) registerGenres() {
	h := &GenresHandler{GenreService: r.GenreService}

	r.Mux.Handle("GET /api/v1/genres", r.public(h.HandleList))
	r.Mux.Handle("GET /api/v1/genres/{id}", r.public(h.HandleGet))
	r.Mux.Handle("POST /api/v1/genres", r.admin(h.HandleCreate))
	r.Mux.Handle("PUT /api/v1/genres/{id}", r.admin(h.HandleRename))
	r.Mux.Handle("DELETE /api/v1/genres/{id}", r.admin(h.HandleDelete))
}

func (r *Router) registerCategories() {
	h := &CategoriesHandler{CategoryService: r.CategoryService}

	r.Mux.Handle("GET /api/v1/categories", r.public(h.HandleList))
	r.Mux.Handle("GET /api/v1/categories/{id}", r.public(h.HandleGet))
	r.Mux.Handle("POST /api/v1/categories", r.admin(h.HandleCreate))
	r.Mux.Handle("PATCH /api/v1/categories/{id}", r.admin(h.HandleRename))
	r.Mux.Handle("DELETE /api/v1/categories/{id}", r.admin(h.HandleDelete))
}

func (r *Router) registerAuthors() {
	h := &AuthorsHandler{AuthorService: r.AuthorService}

	r.Mux.Handle("GET /api/v1/authors", r.public(h.HandleList))
	r.Mux.Handle("GET /api/v1/authors/{id}", r.public(h.HandleGet))
	r.Mux.Handle("POST /api/v1/authors", r.admin(h.HandleCreate))
	r.Mux.Handle("PATCH /api/v1/authors/{id}", r.admin(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/v1/authors/{id}", r.admin(h.HandleDelete))
}

func (r *Router) registerBooks() {
	h := &BooksHandler{BookService: r.BookService}

	r.Mux.Handle("GET /api/v1/books", r.public(h.HandleList))
	r.Mux.Handle("GET /api/v1/books/{id}", r.public(h.HandleGet))
	r.Mux.Handle("GET /api/v1/books/{id}/information", r.public(h.HandleInformation))
	r.Mux.Handle("POST /api/v1/books", r.admin(h.HandleCreate))
	r.Mux.Handle("PATCH /api/v1/books/{id}", r.admin(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/v1/books/{id}", r.admin(h.HandleDelete))
}

func (r *Router) registerReviews() {
	h := &ReviewsHandler{ReviewService: r.ReviewService}

	r.Mux.Handle("GET /api/v1/reviews", r.public(h.HandleList))
	r.Mux.Handle("GET /api/v1/reviews/{id}", r.public(h.HandleGet))
	r.Mux.Handle("POST /api/v1/reviews", r.active(h.HandleCreate))
	r.Mux.Handle("PATCH /api/v1/reviews/{id}", r.active(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/v1/reviews/{id}", r.active(h.HandleDelete))
}

func (r *Router) registerFavorites() {
	h := &FavoritesHandler{FavoriteService: r.FavoriteService}

	r.Mux.Handle("GET /api/v1/favorites", r.active(h.HandleList))
	r.Mux.Handle("POST /api/v1/favorites", r.active(h.HandleAdd))
	r.Mux.Handle("DELETE /api/v1/favorites/{book_id}", r.active(h.HandleRemove))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Lenient, r.rateLimited("lenient")),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.limits.Lenient, r.rateLimited("lenient")),
		),
	)
	r.Mux.Handle("GET /metrics",
		httpx.Chain(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}),
			httpx.RateLimitByIP(r.limits.Lenient, r.rateLimited("lenient")),
		),
	)
}
