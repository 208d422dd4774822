package store

import (
	"fmt"
	"strings"
)

// ListFilter narrows and pages a resource listing. Zero values mean
// "no constraint" except Limit, which callers must set.
type ListFilter struct {
	// Status filters by lifecycle status; empty means any.
	Status string

	// Featured filters by the featured flag when non-nil.
	Featured *bool

	Offset int
	Limit  int

	// Sort is a resource-specific sort key. Unknown keys fall back to the
	// default ordering; keys never reach SQL unvalidated.
	Sort string
}

// defaultOrderBy is the shared display ordering: explicit order first,
// newest records breaking ties.
const defaultOrderBy = "display_order ASC, created_at DESC"

// orderBy resolves a sort key against a per-resource whitelist.
func orderBy(sortKeys map[string]string, key string) string {
	if clause, ok := sortKeys[key]; ok {
		return clause
	}
	return defaultOrderBy
}

// whereClause renders shared filter conditions, returning the SQL fragment
// (possibly empty) and its arguments.
func whereClause(filter ListFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		conds = append(conds, fmt.Sprintf("featured = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
