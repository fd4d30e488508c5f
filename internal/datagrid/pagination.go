package datagrid

// PageSizes is the fixed page-size menu offered by the footer.
var PageSizes = []int{10, 20, 30, 50, 100}

// DefaultPageSize is used when the caller does not choose one.
const DefaultPageSize = 10

// Pagination is a zero-based page index and a page size.
type Pagination struct {
	PageIndex int
	PageSize  int
}

// Offset is the index of the first row on the page.
func (p Pagination) Offset() int {
	if p.PageIndex < 0 || p.PageSize <= 0 {
		return 0
	}
	return p.PageIndex * p.PageSize
}

func (p Pagination) normalized() Pagination {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageIndex < 0 {
		p.PageIndex = 0
	}
	return p
}

// PageCount is ceil(total / size).
func PageCount(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// NextPageSize returns the menu entry after current, wrapping around. Sizes
// outside the menu restart at the first entry.
func NextPageSize(current int) int {
	for i, s := range PageSizes {
		if s == current {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return PageSizes[0]
}

// PrevPageSize returns the menu entry before current, wrapping around.
func PrevPageSize(current int) int {
	for i, s := range PageSizes {
		if s == current {
			return PageSizes[(i-1+len(PageSizes))%len(PageSizes)]
		}
	}
	return PageSizes[0]
}

func pageWindow(rows []Row, p Pagination) []Row {
	p = p.normalized()
	start := p.Offset()
	if start >= len(rows) {
		return []Row{}
	}
	end := start + p.PageSize
	if end > len(rows) {
		end = len(rows)
	}
	out := make([]Row, end-start)
	copy(out, rows[start:end])
	return out
}
