package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

// DebounceMsg is emitted when a debounce delay elapses. Only the message
// carrying the latest tag is acted upon.
type DebounceMsg struct {
	id  string
	tag int
}

// Debouncer collapses bursts of triggers into a single event fired after the
// last trigger has been quiet for the delay.
type Debouncer struct {
	id    string
	delay time.Duration
	tag   int
}

// NewDebouncer creates a debouncer. id keeps several debouncers in one model apart.
func NewDebouncer(id string, delay time.Duration) *Debouncer {
	return &Debouncer{id: id, delay: max(0, delay)}
}

// Trigger supersedes any pending event and schedules a new one.
func (d *Debouncer) Trigger() tea.Cmd {
	d.tag++
	msg := DebounceMsg{id: d.id, tag: d.tag}
	if d.delay == 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d.delay, func(time.Time) tea.Msg { return msg })
}

// Cancel drops any pending event.
func (d *Debouncer) Cancel() {
	d.tag++
}

// Fires reports whether msg is this debouncer's latest event.
func (d *Debouncer) Fires(msg tea.Msg) bool {
	dm, ok := msg.(DebounceMsg)
	return ok && dm.id == d.id && dm.tag == d.tag
}

// Filters are the browse screen's search inputs.
type Filters struct {
	Query  string
	Status string
	From   string
	To     string
	Sort   string
	Dir    string
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Params maps the filters onto search parameters for resource. The free-text
// query searches by name where the resource supports it, otherwise by code.
func (f Filters) Params(r inventory.Resource, page, size int) inventory.SearchParams {
	p := inventory.SearchParams{
		Status:    f.Status,
		From:      f.From,
		To:        f.To,
		SortField: f.Sort,
		SortDir:   f.Dir,
		Page:      page,
		Size:      size,
	}
	if r.Filters.Name != "" {
		p.Name = f.Query
	} else {
		p.Code = f.Query
	}
	return p
}
