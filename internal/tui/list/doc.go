// Package listview provides a windowed table component for Bubble Tea TUI applications.
//
// VirtualTableModel renders large row sets inside a fixed-height scroll region by
// materializing only the rows that intersect the viewport plus an overscan margin:
//   - The rendered range is a pure function of the scroll offset (see ComputeWindow)
//   - Leading and trailing spacers keep the scrollbar proportional to the full extent
//   - Rows keep their absolute index and a stable key whatever the window
//   - Small lists (Config.VirtualizeAbove) are rendered in full, without internal scrolling
//
// Rows are a type parameter. Key extraction is explicit: positional by default, or
// IDKey for row types that implement Identified.
package listview
