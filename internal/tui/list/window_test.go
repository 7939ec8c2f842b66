package listview_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	listview "github.com/stockdesk/stockdesk/internal/tui/list"
)

// TestComputeWindow_ConcreteScenario checks the reference geometry of the dashboard tables.
func TestComputeWindow_ConcreteScenario(t *testing.T) {
	w := listview.ComputeWindow(1000, 48, 560, 8, 2400)

	assert.Equal(t, 42, w.Start)
	assert.Equal(t, 70, w.End)
	assert.Equal(t, 28, w.Len())
	assert.Equal(t, 2016, w.LeadingSpacer)
	assert.Equal(t, 44640, w.TrailingSpacer)
	assert.True(t, w.Virtualized)
}

// TestComputeWindow_MatchesFormula compares the integer implementation against the
// floating point definition over a grid of geometries and offsets.
func TestComputeWindow_MatchesFormula(t *testing.T) {
	geometries := []struct {
		total, rowHeight, viewport, overscan int
	}{
		{total: 1000, rowHeight: 48, viewport: 560, overscan: 8},
		{total: 100, rowHeight: 1, viewport: 20, overscan: 0},
		{total: 57, rowHeight: 3, viewport: 10, overscan: 2},
		{total: 25, rowHeight: 2, viewport: 7, overscan: 5},
	}

	for _, g := range geometries {
		extent := g.total * g.rowHeight
		for s := 0; s <= max(0, extent-g.viewport); s += max(1, g.rowHeight/2) {
			w := listview.ComputeWindow(g.total, g.rowHeight, g.viewport, g.overscan, s)

			wantStart := int(math.Max(0, math.Floor(float64(s)/float64(g.rowHeight))-float64(g.overscan)))
			wantEnd := int(math.Min(float64(g.total),
				math.Ceil(float64(s+g.viewport)/float64(g.rowHeight))+float64(g.overscan)))

			assert.Equal(t, wantStart, w.Start, "start for %+v at %d", g, s)
			assert.Equal(t, wantEnd, w.End, "end for %+v at %d", g, s)
			assert.LessOrEqual(t, 0, w.Start)
			assert.LessOrEqual(t, w.Start, w.End)
			assert.LessOrEqual(t, w.End, g.total)
			assert.Equal(t, extent, w.LeadingSpacer+w.Len()*g.rowHeight+w.TrailingSpacer,
				"extent for %+v at %d", g, s)
		}
	}
}

func TestComputeWindow_Degenerate(t *testing.T) {
	tests := []struct {
		name                                      string
		total, rowHeight, viewport, overscan, top int
	}{
		{name: "zero row height", total: 10, rowHeight: 0, viewport: 5, overscan: 1},
		{name: "negative row height", total: 10, rowHeight: -4, viewport: 5, overscan: 1},
		{name: "zero viewport", total: 10, rowHeight: 1, viewport: 0, overscan: 1},
		{name: "no rows", total: 0, rowHeight: 1, viewport: 5, overscan: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := listview.ComputeWindow(tt.total, tt.rowHeight, tt.viewport, tt.overscan, tt.top)
			assert.Equal(t, 0, w.Start)
			assert.Equal(t, 0, w.End)
			assert.Equal(t, 0, w.LeadingSpacer)
			assert.Equal(t, 0, w.TrailingSpacer)
		})
	}
}

func TestComputeWindow_ClampsInputs(t *testing.T) {
	t.Run("negative offset behaves like the top", func(t *testing.T) {
		assert.Equal(t,
			listview.ComputeWindow(100, 1, 10, 2, 0),
			listview.ComputeWindow(100, 1, 10, 2, -50))
	})

	t.Run("negative overscan behaves like zero", func(t *testing.T) {
		assert.Equal(t,
			listview.ComputeWindow(100, 1, 10, 0, 30),
			listview.ComputeWindow(100, 1, 10, -3, 30))
	})

	t.Run("offset past the end keeps the extent", func(t *testing.T) {
		w := listview.ComputeWindow(10, 2, 4, 0, 500)
		assert.Equal(t, 0, w.Len())
		assert.Equal(t, 20, w.LeadingSpacer+w.TrailingSpacer)
	})
}

func TestFullWindow(t *testing.T) {
	w := listview.FullWindow(15)
	assert.Equal(t, 0, w.Start)
	assert.Equal(t, 15, w.End)
	assert.False(t, w.Virtualized)
	assert.True(t, w.Contains(14))
	assert.False(t, w.Contains(15))

	assert.Equal(t, 0, listview.FullWindow(-1).Len())
}
