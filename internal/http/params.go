package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"toheoje/internal/view"
)

const maxPanelLimit = 1000

var errInvalidLimit = errors.New("limit must be a positive integer")

// ParseLimit reads the limit query parameter. A missing value yields def;
// larger values are capped.
func ParseLimit(query url.Values, def int) (int, error) {
	v := strings.TrimSpace(query.Get("limit"))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, errInvalidLimit
	}
	return min(n, maxPanelLimit), nil
}

// ParseState builds the district view state of a request: the district from
// the path, then the mode from the view query parameter.
func ParseState(r *http.Request) view.State {
	var st view.State
	st = st.Select(strings.TrimSpace(r.PathValue("district")))
	return st.WithMode(view.ParseMode(r.URL.Query().Get("view")))
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 {
			return -1
		}
		return r
	}, s)
}
