package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/service"
	"github.com/aussiebroadwan/bookshelf/pkg/catalogsdk"
	"github.com/aussiebroadwan/bookshelf/pkg/httpx"
)

type TokenHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /api/v1/auth/token
//
//	@Summary		Log in
//	@Description	Exchanges a username and password for a bearer access token.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string							true	"Username"
//	@Param			password	formData	string							true	"Password"
//	@Success		200			{object}	catalogsdk.TokenResponse		"access_token, token_type, expires_in"
//	@Failure		400			{object}	catalogsdk.ValidationErrorResponse	"missing form fields"
//	@Failure		401			{object}	catalogsdk.ErrorResponse		"incorrect username or password"
//	@Failure		429			{object}	catalogsdk.ErrorResponse		"rate limit exceeded"
//	@Router			/api/v1/auth/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		httpx.WriteValidationError(w, &httpx.ValidationError{Message: "malformed form body"})
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	details := map[string]string{}
	if username == "" {
		details["username"] = "username is required"
	}
	if password == "" {
		details["password"] = "password is required"
	}
	if len(details) > 0 {
		httpx.WriteValidationError(w, &httpx.ValidationError{Message: "request validation failed", Details: details})
		return
	}

	token, err := h.AuthService.Login(r.Context(), username, password)
	if err != nil {
		fault.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, catalogsdk.TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
	})
}
