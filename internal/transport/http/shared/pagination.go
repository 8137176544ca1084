package shared

import (
	"net/http"
	"strconv"
)

// Pagination is the listing window requested through ?limit= and
// ?offset=.
type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads the window from the query string. Missing or
// malformed values fall back to defaultLimit and zero; limit is
// clamped to maxLimit.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	page := Pagination{Limit: defaultLimit}
	if v := queryInt(r, "limit"); v > 0 {
		page.Limit = v
	}
	if v := queryInt(r, "offset"); v > 0 {
		page.Offset = v
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
