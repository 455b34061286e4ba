package fault_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		status    int
		body      string
		challenge bool
	}{
		{
			name:      "unauthenticated",
			err:       fault.ErrUnauthenticated,
			status:    http.StatusUnauthorized,
			body:      `{"error":"unauthenticated","error_description":"Not authenticated."}`,
			challenge: true,
		},
		{
			name:      "incorrect credentials",
			err:       fault.ErrIncorrectCredentials,
			status:    http.StatusUnauthorized,
			body:      `{"error":"incorrect_credentials","error_description":"Incorrect username or password."}`,
			challenge: true,
		},
		{
			name:   "inactive",
			err:    fault.ErrAccountInactive,
			status: http.StatusBadRequest,
			body:   `{"error":"account_inactive","error_description":"Inactive user."}`,
		},
		{
			name:   "role",
			err:    fault.ErrInsufficientRole,
			status: http.StatusForbidden,
			body:   `{"error":"insufficient_role","error_description":"The user doesn't have enough privileges."}`,
		},
		{
			name:   "unique names the field",
			err:    fault.UniqueViolation("username"),
			status: http.StatusConflict,
			body:   `{"error":"unique_violation","error_description":"A record with this value already exists.","field":"username"}`,
		},
		{
			name:   "foreign key names the entity",
			err:    fault.ForeignKeyViolation("author"),
			status: http.StatusNotFound,
			body:   `{"error":"foreign_key_violation","error_description":"A referenced record does not exist.","entity":"author"}`,
		},
		{
			name:   "not found names the entity only",
			err:    fault.NotFound("book", "01J"),
			status: http.StatusNotFound,
			body:   `{"error":"not_found","error_description":"Record not found.","entity":"book"}`,
		},
		{
			name:   "raw error hides its text",
			err:    errors.New("pq: relation does not exist"),
			status: http.StatusInternalServerError,
			body:   `{"error":"unclassified","error_description":"Internal server error."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(slogx.WithContext(context.Background(), slogx.Discard()))
			rec := httptest.NewRecorder()

			fault.Write(rec, req, tt.err)

			require.Equal(t, tt.status, rec.Code)
			require.JSONEq(t, tt.body, rec.Body.String())
			if tt.challenge {
				require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			} else {
				require.Empty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
