package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type loadCall struct{ page, size int }

func recordingLoader(calls *[]loadCall) PageLoader {
	return func(page, size int) tea.Cmd {
		*calls = append(*calls, loadCall{page, size})
		return func() tea.Msg { return nil }
	}
}

func TestPager_Navigation(t *testing.T) {
	var calls []loadCall
	p := NewPager(20, recordingLoader(&calls))
	p.SetTotals(45, 3)

	assert.Equal(t, 1, p.DisplayPage())
	assert.Nil(t, p.Prev(), "prev on the first page is a no-op")

	assert.NotNil(t, p.Next())
	assert.NotNil(t, p.Next())
	assert.Nil(t, p.Next(), "next on the last page is a no-op")
	assert.Equal(t, 2, p.Page())
	assert.Equal(t, 3, p.DisplayPage())

	assert.NotNil(t, p.Prev())
	assert.Equal(t, []loadCall{{1, 20}, {2, 20}, {1, 20}}, calls)
}

func TestPager_GoTo(t *testing.T) {
	var calls []loadCall
	p := NewPager(10, recordingLoader(&calls))
	p.SetTotals(95, 10)

	tests := []struct {
		name     string
		target   int
		wantPage int
		wantLoad bool
	}{
		{name: "valid page", target: 4, wantPage: 3, wantLoad: true},
		{name: "same page", target: 4, wantPage: 3, wantLoad: false},
		{name: "zero", target: 0, wantPage: 3, wantLoad: false},
		{name: "past the end", target: 11, wantPage: 3, wantLoad: false},
		{name: "last page", target: 10, wantPage: 9, wantLoad: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(calls)
			cmd := p.GoTo(tt.target)
			assert.Equal(t, tt.wantPage, p.Page())
			assert.Equal(t, tt.wantLoad, cmd != nil)
			assert.Equal(t, tt.wantLoad, len(calls) > before)
		})
	}
}

func TestPager_ResetAndSize(t *testing.T) {
	var calls []loadCall
	p := NewPager(0, recordingLoader(&calls))
	assert.Equal(t, 1, p.Size(), "size is raised to one")

	p.SetTotals(100, 100)
	p.GoTo(50)
	p.Reset()
	assert.Equal(t, 0, p.Page())

	p.GoTo(3)
	p.SetSize(25)
	assert.Equal(t, 0, p.Page())
	assert.Equal(t, loadCall{0, 25}, calls[len(calls)-1])
}

func TestPager_DisplayRange(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		total     int64
		pages     int
		page      int
		wantStart int
		wantEnd   int
	}{
		{name: "empty", size: 20, total: 0, pages: 0, page: 1, wantStart: 0, wantEnd: 0},
		{name: "first page", size: 20, total: 45, pages: 3, page: 1, wantStart: 1, wantEnd: 20},
		{name: "middle page", size: 20, total: 45, pages: 3, page: 2, wantStart: 21, wantEnd: 40},
		{name: "short last page", size: 20, total: 45, pages: 3, page: 3, wantStart: 41, wantEnd: 45},
		{name: "exact fit", size: 15, total: 30, pages: 2, page: 2, wantStart: 16, wantEnd: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPager(tt.size, nil)
			p.SetTotals(tt.total, tt.pages)
			p.GoTo(tt.page)
			start, end := p.DisplayRange()
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestPager_StaleTotals(t *testing.T) {
	p := NewPager(10, nil)
	p.SetTotals(50, 5)
	p.GoTo(5)
	p.SetTotals(12, 2)

	start, end := p.DisplayRange()
	assert.Zero(t, start, "a page beyond the new total shows no range")
	assert.Zero(t, end)
	assert.False(t, p.HasNext())
	assert.True(t, p.HasPrev())
}

func TestPager_NilLoader(t *testing.T) {
	p := NewPager(10, nil)
	p.SetTotals(30, 3)
	assert.Nil(t, p.Next())
	assert.Equal(t, 1, p.Page())
}
