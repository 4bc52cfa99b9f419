package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/colegiosys/colegio-api/internal/models"
)

// listQuery assembles the data and count queries for a list endpoint. User
// input only ever lands in the argument list; sort columns come from the
// allow-list and fall back to the declared default.
type listQuery struct {
	table       string
	columns     string
	conditions  []string
	args        []interface{}
	searchCols  []string
	defaultSort string
	sorts       map[string]bool
	params      models.ListParams
}

func newListQuery(table, columns, defaultSort string, allowedSorts []string) *listQuery {
	sorts := make(map[string]bool, len(allowedSorts))
	for _, s := range allowedSorts {
		sorts[s] = true
	}
	return &listQuery{
		table:       table,
		columns:     columns,
		defaultSort: defaultSort,
		sorts:       sorts,
	}
}

// equals adds an equality filter over a fixed column.
func (q *listQuery) equals(column string, value interface{}) *listQuery {
	q.conditions = append(q.conditions, fmt.Sprintf("%s = $%d", column, len(q.args)+1))
	q.args = append(q.args, value)
	return q
}

// searchable declares the text columns covered by the free-text search.
func (q *listQuery) searchable(columns ...string) *listQuery {
	q.searchCols = columns
	return q
}

// paginate records the uniform list parameters.
func (q *listQuery) paginate(params models.ListParams) *listQuery {
	q.params = params
	return q
}

func (q *listQuery) predicate() string {
	where := "WHERE 1=1"
	if len(q.conditions) > 0 {
		where += " AND " + strings.Join(q.conditions, " AND ")
	}
	if q.params.Search != "" && len(q.searchCols) > 0 {
		n := len(q.args) + 1
		parts := make([]string, len(q.searchCols))
		for i, col := range q.searchCols {
			parts[i] = fmt.Sprintf("LOWER(%s) LIKE $%d", col, n)
		}
		where += fmt.Sprintf(" AND (%s)", strings.Join(parts, " OR "))
		q.args = append(q.args, "%"+strings.ToLower(q.params.Search)+"%")
	}
	return where
}

// build returns the data query, the count query over the same predicate, and
// the shared argument list, plus the effective page and limit after clamping
// against the given bounds.
func (q *listQuery) build(limits ListLimits) (string, string, []interface{}, int, int) {
	where := q.predicate()

	sortBy := q.params.SortBy
	if !q.sorts[sortBy] {
		sortBy = q.defaultSort
	}
	order := strings.ToUpper(q.params.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := q.params.Page
	if page < 1 {
		page = 1
	}
	limit := q.params.Limit
	if limit <= 0 {
		limit = limits.Default
	}
	if limit > limits.Max {
		limit = limits.Max
	}
	offset := (page - 1) * limit

	dataQuery := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		q.columns, q.table, where, sortBy, order, limit, offset)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", q.table, where)

	return dataQuery, countQuery, q.args, page, limit
}

// runList executes the data query and the count query over the same
// predicate, filling dest. The returned pagination is computed from the
// effective page and limit, so the envelope always describes the rows
// actually served.
func runList(ctx context.Context, store *Store, q *listQuery, dest interface{}) (*models.Pagination, error) {
	dataQuery, countQuery, args, page, limit := q.build(store.limits)

	if err := store.Select(ctx, dest, dataQuery, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", q.table, err)
	}

	var total int
	if err := store.Get(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("count %s: %w", q.table, err)
	}

	return models.NewPagination(page, limit, total), nil
}
