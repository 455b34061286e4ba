package fault

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/bookshelf/pkg/httpx"
	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
)

// StatusCode is the HTTP status a kind maps to.
func (k Kind) StatusCode() int {
	switch k {
	case KindUnauthenticated, KindIncorrectCredentials:
		return http.StatusUnauthorized
	case KindAccountInactive:
		return http.StatusBadRequest
	case KindInsufficientRole:
		return http.StatusForbidden
	case KindUniqueViolation:
		return http.StatusConflict
	case KindForeignKeyViolation, KindRowNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

var descriptions = map[Kind]string{
	KindUnauthenticated:      "Not authenticated.",
	KindIncorrectCredentials: "Incorrect username or password.",
	KindAccountInactive:      "Inactive user.",
	KindInsufficientRole:     "The user doesn't have enough privileges.",
	KindUniqueViolation:      "A record with this value already exists.",
	KindForeignKeyViolation:  "A referenced record does not exist.",
	KindRowNotFound:          "Record not found.",
	KindUnclassified:         "Internal server error.",
}

// Write renders err as an error response. Errors that are not faults are
// treated as unclassified. Auth faults carry no detail beyond their kind.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	f, ok := As(err)
	if !ok {
		f = Unclassified(err)
	}

	if f.Kind == KindUnclassified {
		cause := f.Cause()
		if cause == nil {
			cause = err
		}
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", cause))
	}

	body := httpx.ErrorResponse{
		Error:            f.Kind.String(),
		ErrorDescription: descriptions[f.Kind],
	}
	switch f.Kind {
	case KindUniqueViolation:
		body.Field = f.Field
	case KindForeignKeyViolation, KindRowNotFound:
		body.Entity = f.Entity
	}

	httpx.WriteError(w, f.Kind.StatusCode(), body)
}
