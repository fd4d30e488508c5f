package datagrid

import "strings"

// Manual marks pipeline stages the caller has already applied. Each flag is
// independent: a server that paginates but leaves filtering to the client
// sets only Pagination.
type Manual struct {
	Filtering  bool
	Sorting    bool
	Pagination bool
}

// Query is one evaluation of the pipeline.
type Query struct {
	GlobalFilter  string
	ColumnFilters FilterState
	Sorting       SortState
	Pagination    Pagination
	Manual        Manual
	// TotalRows and PageCount come from the caller when pagination is manual.
	// PageCount wins when both are set.
	TotalRows int
	PageCount int
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Rows is the visible window.
	Rows []Row
	// Filtered holds every row that passed filtering, in sorted order.
	Filtered []Row
	// FilteredCount is the number of matching rows across all pages.
	FilteredCount int
	PageCount     int
}

// Run applies global filter, column filters, sort and pagination in that
// order, skipping each stage the query marks as manual.
func Run(rows []Row, cols []Column, q Query) Result {
	filtered := rows
	if !q.Manual.Filtering {
		filtered = applyGlobalFilter(filtered, cols, q.GlobalFilter)
		filtered = applyColumnFilters(filtered, cols, q.ColumnFilters)
	}

	sorted := filtered
	if !q.Manual.Sorting {
		sorted = sortRows(filtered, cols, q.Sorting)
	}

	res := Result{Filtered: sorted, FilteredCount: len(sorted)}
	page := q.Pagination.normalized()

	if q.Manual.Pagination {
		res.Rows = sorted
		if q.TotalRows > 0 {
			res.FilteredCount = q.TotalRows
		}
		switch {
		case q.PageCount > 0:
			res.PageCount = q.PageCount
		default:
			res.PageCount = PageCount(res.FilteredCount, page.PageSize)
		}
		return res
	}

	res.Rows = pageWindow(sorted, page)
	res.PageCount = PageCount(len(sorted), page.PageSize)
	return res
}

// SearchText is the string projection the global filter matches against:
// every non-synthetic column value joined by spaces.
func SearchText(row Row, cols []Column) string {
	var sb strings.Builder
	for _, c := range cols {
		if c.synthetic {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(Stringify(c.Value(row)))
	}
	return sb.String()
}

func applyGlobalFilter(rows []Row, cols []Column, query string) []Row {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(SearchText(row, cols)), needle) {
			out = append(out, row)
		}
	}
	return out
}

func applyColumnFilters(rows []Row, cols []Column, filters FilterState) []Row {
	if len(filters) == 0 {
		return rows
	}
	type active struct {
		col  Column
		want string
	}
	preds := make([]active, 0, len(filters))
	for _, f := range filters {
		col, ok := findColumn(cols, f.ColumnID)
		if !ok || col.synthetic {
			continue
		}
		preds = append(preds, active{col: col, want: f.Value})
	}
	if len(preds) == 0 {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		keep := true
		for _, p := range preds {
			if !matchFilter(p.col.filterKind(), Stringify(p.col.Value(row)), p.want) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}
