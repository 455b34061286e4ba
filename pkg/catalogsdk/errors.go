package catalogsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes returned in the "error" (or "code") field.
const (
	ErrorCodeUnauthenticated      = "unauthenticated"
	ErrorCodeIncorrectCredentials = "incorrect_credentials"
	ErrorCodeAccountInactive      = "account_inactive"
	ErrorCodeInsufficientRole     = "insufficient_role"
	ErrorCodeUniqueViolation      = "unique_violation"
	ErrorCodeForeignKeyViolation  = "foreign_key_violation"
	ErrorCodeNotFound             = "not_found"
	ErrorCodeUnclassified         = "unclassified"
	ErrorCodeValidation           = "validation_error"
	ErrorCodeRateLimitExceeded    = "rate_limit_exceeded"
)

// APIError is any non-2xx response from the catalog service.
type APIError struct {
	StatusCode  int
	Code        string
	Description string

	// Field is the conflicting column on unique violations.
	Field string
	// Entity is the missing record on not-found and foreign-key failures.
	Entity string
	// Details maps request fields to messages on validation errors.
	Details map[string]string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "catalogsdk: %d %s", e.StatusCode, e.Code)
	if e.Description != "" {
		b.WriteString(": " + e.Description)
	}
	if e.Field != "" {
		b.WriteString(" (field " + e.Field + ")")
	}
	if e.Entity != "" {
		b.WriteString(" (entity " + e.Entity + ")")
	}
	return b.String()
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse converts an error response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
			Field:       errResp.Field,
			Entity:      errResp.Entity,
		}
	}

	var valErr ValidationErrorResponse
	if err := json.Unmarshal(body, &valErr); err == nil && valErr.Code != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        valErr.Code,
			Description: valErr.Message,
			Details:     valErr.Details,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        http.StatusText(resp.StatusCode),
		Description: strings.TrimSpace(string(body)),
	}
}
