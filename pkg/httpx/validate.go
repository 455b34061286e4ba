package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/aussiebroadwan/bookshelf/pkg/idx"
	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("ulid", func(fl validator.FieldLevel) bool {
		return idx.Valid(fl.Field().String())
	})
	return v
}

// ValidationError is returned when a request fails to decode or validate.
type ValidationError struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *ValidationError) Error() string { return "httpx: " + e.Message }

// Validate checks v against its `validate` struct tags.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &ValidationError{Message: err.Error()}
	}

	details := make(map[string]string, len(ve))
	for _, fe := range ve {
		details[fieldPath(fe)] = fieldError(fe)
	}
	return &ValidationError{Message: "request validation failed", Details: details}
}

// DecodeJSON decodes a single JSON object from the request body into v and
// validates it.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return &ValidationError{Message: "malformed JSON body: " + err.Error()}
	}
	if dec.More() {
		return &ValidationError{Message: "body must contain a single JSON object"}
	}
	return Validate(v)
}

// WriteValidationError writes err as a 400 validation_error body.
func WriteValidationError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		ve = &ValidationError{Message: err.Error()}
	}
	WriteJSON(w, http.StatusBadRequest, struct {
		Code string `json:"code"`
		*ValidationError
	}{Code: "validation_error", ValidationError: ve})
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "ulid":
		return field + " must be a valid id"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
