package results

import "strings"

// sortFields returns the sortable columns for a mode. Index 0 is the
// varying dimension's display column. Per-content views sort and filter
// learners by login name while displaying display_name, mirroring how
// admins look users up.
func sortFields(m Mode) []sortField {
	name := "u.username"
	if m == ByUser {
		name = "c.title"
	}
	return []sortField{
		{column: name, reverse: true},
		{column: "r.score"},
		{column: "r.max_score"},
		{column: "r.opened"},
		{column: "r.finished"},
	}
}

// BuildQuerySpec resolves a view scope plus sanitized inputs into the
// column set, join set, predicate and order clause for one of the two
// list shapes. All user-supplied values end up in Args, never in query
// text. The order clause carries a single key: ties fall back to storage
// order, which is not guaranteed stable.
func BuildQuerySpec(scope Scope, page PageSpec, sort SortSpec, filter string) QuerySpec {
	spec := QuerySpec{Page: page}

	var filterColumn string
	switch scope.Mode {
	case ByContent:
		spec.ExtraColumns = []string{"r.user_id", "u.display_name"}
		spec.Joins = []string{"LEFT JOIN users u ON r.user_id = u.id"}
		spec.Where = "r.content_id = $1"
		filterColumn = "u.username"
	case ByUser:
		spec.ExtraColumns = []string{"r.content_id", "c.title"}
		spec.Joins = []string{"LEFT JOIN contents c ON r.content_id = c.id"}
		spec.Where = "r.user_id = $1"
		filterColumn = "c.title"
	}
	spec.Args = []any{scope.ID}

	if filter != "" {
		// LOWER on both sides keeps the substring match case-insensitive
		// on every supported driver.
		spec.Where += " AND LOWER(" + filterColumn + ") LIKE $2"
		spec.Args = append(spec.Args, "%"+strings.ToLower(filter)+"%")
	}

	spec.OrderBy = orderBy(sort, sortFields(scope.Mode))
	return spec
}

// orderBy resolves the requested sort index and direction against the
// mode's field list. Out-of-range indexes fall back to 0. Fields flagged
// reverse apply the negation of the requested direction.
func orderBy(sort SortSpec, fields []sortField) string {
	idx := sort.Field
	if idx < 0 || idx >= len(fields) {
		idx = 0
	}
	f := fields[idx]

	asc := sort.Ascending
	if f.reverse {
		asc = !asc
	}
	dir := "DESC"
	if asc {
		dir = "ASC"
	}
	return "ORDER BY " + f.column + " " + dir
}
