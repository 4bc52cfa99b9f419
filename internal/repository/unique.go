package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// fieldMatch is one predicate of a uniqueness probe. fold compares
// case-insensitively, which is how codes and emails are declared unique.
type fieldMatch struct {
	column string
	value  interface{}
	fold   bool
}

func match(column string, value interface{}) fieldMatch {
	return fieldMatch{column: column, value: value}
}

func matchFold(column string, value interface{}) fieldMatch {
	return fieldMatch{column: column, value: value, fold: true}
}

// existsWhere runs a SELECT 1 conflict probe. Scope columns (e.g. a course
// name within its level) are passed as additional matches so the scoping is
// part of the query, never a post-filter. excludeID skips the row being
// updated, preventing a false self-conflict.
func existsWhere(ctx context.Context, store *Store, table string, excludeID string, matches ...fieldMatch) (bool, error) {
	var (
		clauses []string
		args    []interface{}
	)
	for _, m := range matches {
		if m.fold {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) = LOWER($%d)", m.column, len(args)+1))
		} else {
			clauses = append(clauses, fmt.Sprintf("%s = $%d", m.column, len(args)+1))
		}
		args = append(args, m.value)
	}
	if excludeID != "" {
		clauses = append(clauses, fmt.Sprintf("id <> $%d", len(args)+1))
		args = append(args, excludeID)
	}

	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s LIMIT 1", table, strings.Join(clauses, " AND "))

	var one int
	if err := store.Get(ctx, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("uniqueness probe on %s: %w", table, err)
	}
	return true, nil
}
