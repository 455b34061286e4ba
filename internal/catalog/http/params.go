package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/domain"
	"github.com/aussiebroadwan/bookshelf/pkg/httpx"
)

// parsePage reads the limit and offset query parameters.
func parsePage(r *http.Request) (domain.Page, error) {
	q := r.URL.Query()
	var page domain.Page

	details := map[string]string{}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			details["limit"] = "limit must be a positive integer"
		}
		page.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			details["offset"] = "offset must be a non-negative integer"
		}
		page.Offset = n
	}
	if len(details) > 0 {
		return domain.Page{}, &httpx.ValidationError{Message: "invalid pagination", Details: details}
	}
	return page.Normalize(), nil
}
