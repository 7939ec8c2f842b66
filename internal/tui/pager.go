package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// PageLoader fetches one page. page is 0-based, as on the wire.
type PageLoader func(page, size int) tea.Cmd

// Pager tracks server-side paging. Pages are 1-based for display and 0-based
// on the wire. Every change of page re-invokes the loader.
type Pager struct {
	page          int
	size          int
	totalPages    int
	totalElements int64
	loader        PageLoader
}

// NewPager creates a pager on the first page. A size below one is raised to one.
func NewPager(size int, loader PageLoader) *Pager {
	return &Pager{size: max(1, size), loader: loader}
}

// Page is the current 0-based page.
func (p *Pager) Page() int { return p.page }

// DisplayPage is the current 1-based page.
func (p *Pager) DisplayPage() int { return p.page + 1 }

// Size is the page size.
func (p *Pager) Size() int { return p.size }

// TotalPages is the page count reported by the last load.
func (p *Pager) TotalPages() int { return p.totalPages }

// TotalElements is the row count reported by the last load.
func (p *Pager) TotalElements() int64 { return p.totalElements }

// SetTotals records the totals of a loaded page envelope.
func (p *Pager) SetTotals(totalElements int64, totalPages int) {
	p.totalElements = max(0, totalElements)
	p.totalPages = max(0, totalPages)
}

// HasNext reports whether a later page exists.
func (p *Pager) HasNext() bool { return p.page+1 < p.totalPages }

// HasPrev reports whether an earlier page exists.
func (p *Pager) HasPrev() bool { return p.page > 0 }

// Next moves one page forward. It is a no-op on the last page.
func (p *Pager) Next() tea.Cmd {
	if !p.HasNext() {
		return nil
	}
	p.page++
	return p.Load()
}

// Prev moves one page back. It is a no-op on the first page.
func (p *Pager) Prev() tea.Cmd {
	if !p.HasPrev() {
		return nil
	}
	p.page--
	return p.Load()
}

// GoTo jumps to a 1-based page. Pages outside 1..TotalPages are ignored.
func (p *Pager) GoTo(displayPage int) tea.Cmd {
	if displayPage < 1 || displayPage > p.totalPages || displayPage-1 == p.page {
		return nil
	}
	p.page = displayPage - 1
	return p.Load()
}

// Reset returns to the first page and reloads.
func (p *Pager) Reset() tea.Cmd {
	p.page = 0
	return p.Load()
}

// SetSize changes the page size and returns to the first page.
func (p *Pager) SetSize(size int) tea.Cmd {
	p.size = max(1, size)
	return p.Reset()
}

// Load invokes the loader for the current page.
func (p *Pager) Load() tea.Cmd {
	if p.loader == nil {
		return nil
	}
	return p.loader(p.page, p.size)
}

// DisplayRange returns the 1-based first and last row numbers shown on the
// current page. Both are zero when there are no rows.
func (p *Pager) DisplayRange() (start, end int) {
	if p.totalElements == 0 {
		return 0, 0
	}
	first := p.page * p.size
	if int64(first) >= p.totalElements {
		return 0, 0
	}
	return first + 1, int(min(int64(first+p.size), p.totalElements))
}

// StartIndex is the absolute index of the first row of the current page.
func (p *Pager) StartIndex() int {
	return p.page * p.size
}
