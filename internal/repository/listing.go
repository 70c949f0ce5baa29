package repository

import (
	"fmt"
	"strings"

	"github.com/noah-isme/college-site-api/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type listQuery struct {
	where  string
	args   []interface{}
	order  string
	limit  int
	offset int
}

// buildListQuery turns an admin filter into SQL fragments. searchCols are the
// lowercased columns matched by the search term; sorts maps accepted sort keys
// to columns.
func buildListQuery(filter models.ListFilter, searchCols []string, sorts map[string]string, defaultSort string) listQuery {
	q := listQuery{where: "WHERE 1=1"}

	if term := strings.TrimSpace(filter.Search); term != "" && len(searchCols) > 0 {
		q.args = append(q.args, "%"+strings.ToLower(term)+"%")
		parts := make([]string, len(searchCols))
		for i, col := range searchCols {
			parts[i] = fmt.Sprintf("LOWER(COALESCE(%s, '')) LIKE $1", col)
		}
		q.where += " AND (" + strings.Join(parts, " OR ") + ")"
	}

	column, ok := sorts[filter.SortBy]
	if !ok {
		column = sorts[defaultSort]
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	q.order = column + " " + order

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	q.limit = size
	q.offset = (page - 1) * size
	return q
}
