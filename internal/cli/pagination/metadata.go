package pagination

// PaginationMeta describes a page of results. CurrentPage is 1-based.
//
//nolint:revive // PaginationMeta is the canonical name for this exported type.
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// NewPaginationMeta builds metadata from a backend page envelope, where
// wirePage is 0-based.
func NewPaginationMeta(wirePage, pageSize, totalPages int, totalItems int64) PaginationMeta {
	current := max(0, wirePage) + 1
	return PaginationMeta{
		CurrentPage: current,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasPrevious: current > 1,
		HasNext:     current < totalPages,
	}
}

// Range returns the 1-based first and last item numbers of the page, or zeros
// when the page holds nothing.
func (m PaginationMeta) Range() (first, last int64) {
	if m.TotalItems == 0 || m.PageSize <= 0 {
		return 0, 0
	}
	first = int64(m.CurrentPage-1)*int64(m.PageSize) + 1
	if first > m.TotalItems {
		return 0, 0
	}
	return first, min(first+int64(m.PageSize)-1, m.TotalItems)
}
