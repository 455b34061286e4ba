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

// UsersHandler handles the user management endpoints.
type UsersHandler struct {
	UserService *service.UserService
}

// HandleMe handles GET /api/v1/users/me
//
//	@Summary		Current user
//	@Description	Returns the user behind the bearer token.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	catalogsdk.UserResponse
//	@Failure		401	{object}	catalogsdk.ErrorResponse
//	@Router			/api/v1/users/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := guard.IdentityFrom(r.Context())

	u, err := h.UserService.Get(r.Context(), id.ID)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleList handles GET /api/v1/users
//
//	@Summary		List users
//	@Description	Lists users ordered by username. Filters match case-insensitively as substrings. Admin only.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			username	query		string	false	"Username filter"
//	@Param			first_name	query		string	false	"First name filter"
//	@Param			last_name	query		string	false	"Last name filter"
//	@Param			email		query		string	false	"Email filter"
//	@Param			limit		query		int		false	"Page size (default 50, max 200)"
//	@Param			offset		query		int		false	"Page offset"
//	@Success		200			{object}	catalogsdk.ListUsersResponse
//	@Failure		401			{object}	catalogsdk.ErrorResponse
//	@Failure		403			{object}	catalogsdk.ErrorResponse
//	@Router			/api/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	q := r.URL.Query()
	users, err := h.UserService.List(r.Context(), domain.UserFilter{
		Username:  q.Get("username"),
		FirstName: q.Get("first_name"),
		LastName:  q.Get("last_name"),
		Email:     q.Get("email"),
	}, page)
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, catalogsdk.ListUsersResponse{Users: mapSlice(users, toUser)})
}

// HandleCreate handles POST /api/v1/users
//
//	@Summary		Create user
//	@Description	Creates a user with the given role (user when omitted). Admin only.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		catalogsdk.CreateUserRequest	true	"User"
//	@Success		201		{object}	catalogsdk.UserResponse
//	@Failure		400		{object}	catalogsdk.ValidationErrorResponse
//	@Failure		401		{object}	catalogsdk.ErrorResponse
//	@Failure		403		{object}	catalogsdk.ErrorResponse
//	@Failure		409		{object}	catalogsdk.ErrorResponse	"username taken"
//	@Router			/api/v1/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.CreateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	u, err := h.UserService.Create(r.Context(), service.NewUser{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUser(u))
}

// HandleGet handles GET /api/v1/users/{id}
//
//	@Summary	Get user
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	catalogsdk.UserResponse
//	@Failure	404	{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleUpdate handles PATCH /api/v1/users/{id}
//
//	@Summary	Update user
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string							true	"User ID"
//	@Param		request	body		catalogsdk.UpdateUserRequest	true	"Fields to change"
//	@Success	200		{object}	catalogsdk.UserResponse
//	@Failure	404		{object}	catalogsdk.ErrorResponse
//	@Failure	409		{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/users/{id} [patch].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.UpdateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	u, err := h.UserService.Update(r.Context(), r.PathValue("id"), domain.UserPatch{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Disabled:  req.Disabled,
	})
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleDelete handles DELETE /api/v1/users/{id}
//
//	@Summary	Delete user
//	@Tags		Users
//	@Security	BearerAuth
//	@Param		id	path	string	true	"User ID"
//	@Success	204
//	@Failure	404	{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.Delete(r.Context(), r.PathValue("id")); err != nil {
		fault.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAssignRole handles POST /api/v1/users/{id}/assign-role
//
//	@Summary		Assign role
//	@Description	Takes effect on the user's next request; existing tokens are re-checked against the stored role.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"User ID"
//	@Param			request	body		catalogsdk.AssignRoleRequest	true	"Role"
//	@Success		200		{object}	catalogsdk.UserResponse
//	@Failure		404		{object}	catalogsdk.ErrorResponse
//	@Router			/api/v1/users/{id}/assign-role [post].
func (h *UsersHandler) HandleAssignRole(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.AssignRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	u, err := h.UserService.AssignRole(r.Context(), r.PathValue("id"), domain.Role(req.Role))
	if err != nil {
		fault.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleSetPassword handles POST /api/v1/users/{id}/set-password
//
//	@Summary	Set password
//	@Tags		Users
//	@Accept		json
//	@Security	BearerAuth
//	@Param		id		path	string							true	"User ID"
//	@Param		request	body	catalogsdk.SetPasswordRequest	true	"New password"
//	@Success	204
//	@Failure	404	{object}	catalogsdk.ErrorResponse
//	@Router		/api/v1/users/{id}/set-password [post].
func (h *UsersHandler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	var req catalogsdk.SetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteValidationError(w, err)
		return
	}

	if err := h.UserService.SetPassword(r.Context(), r.PathValue("id"), req.Password); err != nil {
		fault.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
