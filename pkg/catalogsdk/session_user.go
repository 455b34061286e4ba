package catalogsdk

import (
	"context"
	"net/http"
	"net/url"
)

// UserFilter narrows ListUsers. Set fields match case-insensitively as
// substrings.
type UserFilter struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

// Me returns the user behind the session token.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	var out UserResponse
	if err := s.doAuthJSON(ctx, http.MethodGet, "/api/v1/users/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser creates a user. Requires an active admin.
func (s *Session) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	var out UserResponse
	if err := s.doAuthJSON(ctx, http.MethodPost, "/api/v1/users", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) GetUser(ctx context.Context, id string) (*UserResponse, error) {
	var out UserResponse
	if err := s.doAuthJSON(ctx, http.MethodGet, "/api/v1/users/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ListUsers(ctx context.Context, filter UserFilter, opts ListOptions) (*ListUsersResponse, error) {
	path := withQuery("/api/v1/users", opts, map[string]string{
		"username":   filter.Username,
		"first_name": filter.FirstName,
		"last_name":  filter.LastName,
		"email":      filter.Email,
	})

	var out ListUsersResponse
	if err := s.doAuthJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	var out UserResponse
	if err := s.doAuthJSON(ctx, http.MethodPatch, "/api/v1/users/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteUser(ctx context.Context, id string) error {
	return s.doAuthJSON(ctx, http.MethodDelete, "/api/v1/users/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

func (s *Session) AssignRole(ctx context.Context, id, role string) (*UserResponse, error) {
	var out UserResponse
	path := "/api/v1/users/" + url.PathEscape(id) + "/assign-role"
	if err := s.doAuthJSON(ctx, http.MethodPost, path, AssignRoleRequest{Role: role}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) SetPassword(ctx context.Context, id, password string) error {
	path := "/api/v1/users/" + url.PathEscape(id) + "/set-password"
	return s.doAuthJSON(ctx, http.MethodPost, path, SetPasswordRequest{Password: password}, nil, http.StatusNoContent)
}
