package listview

// Window is the contiguous index range [Start, End) of rows that are rendered for a
// given scroll offset, together with the spacer heights that stand in for the rows
// outside of it.
//
// LeadingSpacer + (End-Start)*rowHeight + TrailingSpacer always equals the full
// extent of the list (rows * rowHeight).
type Window struct {
	Start          int
	End            int
	LeadingSpacer  int
	TrailingSpacer int

	// Virtualized is false when every row is rendered without an internal scroll region.
	Virtualized bool
}

// Len returns the number of rows inside the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// Contains reports whether the absolute row index is rendered by this window.
func (w Window) Contains(index int) bool {
	return index >= w.Start && index < w.End
}

// ComputeWindow derives the rendered range for a list of total rows of uniform
// rowHeight inside a viewport of viewportHeight, scrolled to scrollTop, with overscan
// extra rows on each edge:
//
//	start = max(0, floor(scrollTop/rowHeight) - overscan)
//	end   = min(total, ceil((scrollTop+viewportHeight)/rowHeight) + overscan)
//
// Degenerate geometry (rowHeight <= 0 or viewportHeight <= 0) yields an empty window
// rather than a negative range. Callers that own the geometry should reject it up front
// (see Config.Validate).
func ComputeWindow(total, rowHeight, viewportHeight, overscan, scrollTop int) Window {
	if total <= 0 || rowHeight <= 0 || viewportHeight <= 0 {
		return Window{Virtualized: true}
	}
	if overscan < 0 {
		overscan = 0
	}
	if scrollTop < 0 {
		scrollTop = 0
	}

	start := max(0, scrollTop/rowHeight-overscan)
	end := min(total, ceilDiv(scrollTop+viewportHeight, rowHeight)+overscan)

	// A stale offset past the end of the list renders nothing but keeps the extent intact.
	if start > end {
		start = end
	}

	return Window{
		Start:          start,
		End:            end,
		LeadingSpacer:  start * rowHeight,
		TrailingSpacer: (total - end) * rowHeight,
		Virtualized:    true,
	}
}

// FullWindow is the window used by the small-list fallback: every row is rendered and
// no spacer is needed.
func FullWindow(total int) Window {
	if total < 0 {
		total = 0
	}
	return Window{Start: 0, End: total}
}

// ceilDiv returns ceil(a/b) for a >= 0 and b > 0.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
