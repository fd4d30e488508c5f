package sqlite

import (
	"context"
	"fmt"
	"strings"

	"go.einride.tech/aip/ordering"

	"github.com/kong/gridctl/internal/datagrid"
)

// Paths maps column ids to the JSON path holding their value inside a stored
// record, e.g. "actor.email". Columns without an entry read the top-level
// field named after the column id.
type Paths map[string]string

func (p Paths) jsonPath(columnID string) string {
	path := columnID
	if v, ok := p[columnID]; ok && strings.TrimSpace(v) != "" {
		path = strings.TrimSpace(v)
	}
	if strings.HasPrefix(path, "$") {
		return path
	}
	return "$." + path
}

// Page is one server-side page of records and the size of the filtered set.
type Page struct {
	Rows  []datagrid.Row
	Total int
}

// List evaluates q against the stored records of page. Filters, sorting and
// pagination follow the same rules as the in-memory pipeline: includes
// filters match case-insensitive substrings, equals filters whole values,
// and missing values sort last in both directions.
func (s *Store) List(
	ctx context.Context,
	page string,
	q datagrid.Query,
	cols []datagrid.Column,
	paths Paths,
) (Page, error) {
	if err := s.ready(ctx); err != nil {
		return Page{}, err
	}

	where, args := buildWhere(page, q, cols, paths)
	orderBy, orderArgs, err := buildOrderBy(q.Sorting, cols, paths)
	if err != nil {
		return Page{}, err
	}

	var total int
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE `+where, args...,
	).Scan(&total); err != nil {
		return Page{}, fmt.Errorf("count %s: %w", page, err)
	}

	pg := q.Pagination
	if pg.PageSize <= 0 {
		pg.PageSize = datagrid.DefaultPageSize
	}
	query := `SELECT data FROM records WHERE ` + where + ` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	queryArgs := append(append(args, orderArgs...), pg.PageSize, pg.Offset())

	s.logger.Debug("list query",
		"page", page,
		"where", where,
		"order_by", q.Sorting.OrderBy(),
		"page_index", pg.PageIndex,
		"page_size", pg.PageSize,
	)

	rows, err := s.sqlDB.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return Page{}, fmt.Errorf("list %s: %w", page, err)
	}
	out, err := scanRows(rows)
	if err != nil {
		return Page{}, err
	}
	return Page{Rows: out, Total: total}, nil
}

func buildWhere(page string, q datagrid.Query, cols []datagrid.Column, paths Paths) (string, []any) {
	clauses := []string{"page = ?"}
	args := []any{page}

	// The global search covers every data column, like the local pipeline;
	// column filters only the filterable ones.
	data := make([]datagrid.Column, 0, len(cols))
	for _, c := range cols {
		if !c.Synthetic() {
			data = append(data, c)
		}
	}

	if needle := strings.TrimSpace(q.GlobalFilter); needle != "" && len(data) > 0 {
		ors := make([]string, 0, len(data))
		for _, c := range data {
			ors = append(ors, textExpr+` LIKE ? ESCAPE '\'`)
			args = append(args, textArgs(paths.jsonPath(c.ID), likePattern(needle))...)
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	for _, f := range q.ColumnFilters {
		want := strings.TrimSpace(f.Value)
		if want == "" {
			continue
		}
		col, ok := findColumn(data, f.ColumnID)
		if !ok || !col.Filterable() {
			continue
		}
		if col.Filter == datagrid.FilterEquals {
			clauses = append(clauses, textExpr+` = ?`)
			args = append(args, textArgs(paths.jsonPath(col.ID), strings.ToLower(want))...)
			continue
		}
		clauses = append(clauses, textExpr+` LIKE ? ESCAPE '\'`)
		args = append(args, textArgs(paths.jsonPath(col.ID), likePattern(want))...)
	}

	return strings.Join(clauses, " AND "), args
}

// textExpr is the lowercased text form of one field. JSON booleans read as
// true and false, matching the local pipeline.
const textExpr = `LOWER(CASE json_type(data, ?) ` +
	`WHEN 'true' THEN 'true' WHEN 'false' THEN 'false' ` +
	`ELSE COALESCE(CAST(json_extract(data, ?) AS TEXT), '') END)`

// textArgs returns the parameters of textExpr followed by the compared value.
func textArgs(path string, value any) []any {
	return []any{path, path, value}
}

func buildOrderBy(state datagrid.SortState, cols []datagrid.Column, paths Paths) (string, []any, error) {
	const fallback = "seq"
	if len(state) == 0 {
		return fallback, nil, nil
	}

	sortable := make([]string, 0, len(cols))
	for _, c := range cols {
		if !c.Synthetic() && c.Sortable() {
			sortable = append(sortable, c.ID)
		}
	}

	var ob ordering.OrderBy
	if err := ob.UnmarshalString(state.OrderBy()); err != nil {
		return "", nil, fmt.Errorf("parse sort: %w", err)
	}
	if err := ob.ValidateForPaths(sortable...); err != nil {
		return "", nil, fmt.Errorf("invalid sort: %w", err)
	}

	parts := make([]string, 0, len(ob.Fields)*2+1)
	args := make([]any, 0, len(ob.Fields)*2)
	for _, f := range ob.Fields {
		path := paths.jsonPath(f.Path)
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		parts = append(parts,
			`json_extract(data, ?) IS NULL`,
			`json_extract(data, ?) COLLATE NOCASE `+dir,
		)
		args = append(args, path, path)
	}
	parts = append(parts, fallback)
	return strings.Join(parts, ", "), args, nil
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

func findColumn(cols []datagrid.Column, id string) (datagrid.Column, bool) {
	for _, c := range cols {
		if c.ID == id {
			return c, true
		}
	}
	return datagrid.Column{}, false
}
