package giftaid

// Paginator derives the visible slice of the current result set.
// The page number is reset whenever the source changes and kept across Next/Prev.
type Paginator struct {
	pageSize   int
	page       int
	totalPages int
	records    []Record
}

// NewPaginator creates a paginator with a fixed page size
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{
		pageSize:   pageSize,
		page:       1,
		totalPages: 1,
	}
}

// SetSource replaces the paginated records and goes back to the first page
func (p *Paginator) SetSource(records []Record) {
	p.records = records
	p.page = 1
	p.totalPages = (len(records) + p.pageSize - 1) / p.pageSize
	if p.totalPages < 1 {
		p.totalPages = 1
	}
}

// CurrentSlice returns the records of the current page
func (p *Paginator) CurrentSlice() []Record {
	if len(p.records) == 0 {
		return []Record{}
	}
	start := (p.page - 1) * p.pageSize
	end := start + p.pageSize
	if end > len(p.records) {
		end = len(p.records)
	}
	if start >= end {
		return []Record{}
	}
	return p.records[start:end]
}

// CurrentIDs returns the ids of the current page
func (p *Paginator) CurrentIDs() []string {
	slice := p.CurrentSlice()
	ids := make([]string, len(slice))
	for i, record := range slice {
		ids[i] = record.ID
	}
	return ids
}

// Next advances one page; it reports whether the page changed
func (p *Paginator) Next() bool {
	if p.page < p.totalPages {
		p.page++
		return true
	}
	return false
}

// Prev goes back one page; it reports whether the page changed
func (p *Paginator) Prev() bool {
	if p.page > 1 {
		p.page--
		return true
	}
	return false
}

func (p *Paginator) Page() int       { return p.page }
func (p *Paginator) PageSize() int   { return p.pageSize }
func (p *Paginator) TotalPages() int { return p.totalPages }

// IsPrevDisabled reports whether the first page is shown
func (p *Paginator) IsPrevDisabled() bool {
	return p.page <= 1
}

// IsNextDisabled reports whether the last page is shown
func (p *Paginator) IsNextDisabled() bool {
	return p.page >= p.totalPages
}

// Window returns the current page metadata
func (p *Paginator) Window() PageWindow {
	return PageWindow{
		Page:           p.page,
		PageSize:       p.pageSize,
		TotalPages:     p.totalPages,
		TotalRecords:   len(p.records),
		IsPrevDisabled: p.IsPrevDisabled(),
		IsNextDisabled: p.IsNextDisabled(),
	}
}
