package results

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ParseDataViewInput normalizes the raw data-view request parameters.
// Missing or malformed values degrade to their defaults; this never
// fails a request. sortDir 1 means ascending, anything else descending.
func ParseDataViewInput(q url.Values) (PageSpec, SortSpec, string) {
	limit := parseIntDefault(q.Get("limit"), defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	page := PageSpec{
		Offset: parseIntDefault(q.Get("offset"), 0),
		Limit:  limit,
	}
	sort := SortSpec{
		Field:     parseIntDefault(q.Get("sortBy"), 0),
		Ascending: parseIntDefault(q.Get("sortDir"), 0) == 1,
	}
	return page, sort, firstFilter(q)
}

// firstFilter picks the free-text filter out of the filters array, which
// clients send under slightly different key spellings.
func firstFilter(q url.Values) string {
	for _, key := range []string{"filters[]", "filters[0]", "filters"} {
		if vs, ok := q[key]; ok && len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
	}
	return ""
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
