package listview

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// wheelStep is the number of lines a single mouse wheel notch scrolls.
const wheelStep = 3

// Scrollbar glyphs.
const (
	scrollTrack = "│"
	scrollThumb = "┃"
)

// RowRenderer renders the cells of a row, one per column in column order.
// index is the row's absolute position in the full row slice, not its position
// inside the rendered window.
type RowRenderer[T any] func(row T, index int) []string

// KeyFunc extracts a stable, unique key for a row.
type KeyFunc[T any] func(row T, index int) string

// Identified is implemented by rows that carry a backend identifier.
type Identified interface {
	RowID() int64
}

// IDKey keys a row by its identifier, independent of its position.
func IDKey[T Identified](row T, _ int) string {
	return strconv.FormatInt(row.RowID(), 10)
}

// RenderedRow is one row of a Frame.
type RenderedRow struct {
	Index int
	Key   string
	Cells []string
}

// Frame is the render plan for a single pass: the rows that are materialized, their
// keys, and the spacer heights standing in for the rows that are not.
type Frame struct {
	Window Window
	Rows   []RenderedRow

	// ShowEmpty is set when there are no rows and the table is not loading.
	ShowEmpty    bool
	EmptyMessage string

	// TotalHeight is the full extent of the list: rows * rowHeight.
	TotalHeight int
}

// VirtualTableModel renders a table whose body is windowed: only the rows that
// intersect the viewport, plus an overscan margin on each side, are rendered. Lists at
// or below Config.VirtualizeAbove rows are rendered in full without an internal scroll
// region.
//
// The scroll offset is the only viewport state. The rendered window is a pure function
// of the rows, the configuration and that offset.
type VirtualTableModel[T any] struct {
	columns   []Column
	rows      []T
	renderRow RowRenderer[T]
	keyFunc   KeyFunc[T]
	cfg       Config
	keys      KeyMap

	scrollTop int
	cursor    int
	loading   bool
	focused   bool
}

// NewVirtualTableModel creates a table over rows. A nil rows slice is treated as empty.
// It returns an error when the configuration describes degenerate geometry.
func NewVirtualTableModel[T any](
	columns []Column,
	rows []T,
	renderRow RowRenderer[T],
	cfg Config,
) (*VirtualTableModel[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if renderRow == nil {
		return nil, ErrMissingRenderer
	}

	m := &VirtualTableModel[T]{
		columns:   columns,
		rows:      rows,
		renderRow: renderRow,
		cfg:       cfg,
		keys:      DefaultKeyMap(),
		focused:   true,
	}
	m.keyFunc = m.positionalKey
	return m, nil
}

// WithKeyFunc replaces the default positional key extraction.
func (m *VirtualTableModel[T]) WithKeyFunc(fn KeyFunc[T]) *VirtualTableModel[T] {
	if fn == nil {
		m.keyFunc = m.positionalKey
	} else {
		m.keyFunc = fn
	}
	return m
}

// positionalKey keys a row by its absolute position offset by Config.StartIndex.
func (m *VirtualTableModel[T]) positionalKey(_ T, index int) string {
	return strconv.Itoa(index + m.cfg.StartIndex)
}

// Init implements tea.Model.
func (m *VirtualTableModel[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and mouse wheel scrolling.
func (m *VirtualTableModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *VirtualTableModel[T]) handleKey(msg tea.KeyMsg) {
	if len(m.rows) == 0 {
		return
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.SetCursor(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		m.SetCursor(m.cursor + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.SetCursor(m.cursor - m.rowsPerPage())
	case key.Matches(msg, m.keys.PageDown):
		m.SetCursor(m.cursor + m.rowsPerPage())
	case key.Matches(msg, m.keys.Home):
		m.SetCursor(0)
	case key.Matches(msg, m.keys.End):
		m.SetCursor(len(m.rows) - 1)
	case key.Matches(msg, m.keys.ScrollUp):
		m.ScrollBy(-m.cfg.RowHeight)
	case key.Matches(msg, m.keys.ScrollDown):
		m.ScrollBy(m.cfg.RowHeight)
	}
}

func (m *VirtualTableModel[T]) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	//nolint:exhaustive // Only wheel events scroll the table.
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ScrollBy(-wheelStep)
	case tea.MouseButtonWheelDown:
		m.ScrollBy(wheelStep)
	}
}

// rowsPerPage is the number of whole rows that fit in the viewport.
func (m *VirtualTableModel[T]) rowsPerPage() int {
	return max(1, m.cfg.ViewportHeight/m.cfg.RowHeight)
}

// Virtualized reports whether the current row count is above the fallback threshold.
func (m *VirtualTableModel[T]) Virtualized() bool {
	return len(m.rows) > m.cfg.VirtualizeAbove
}

// totalHeight is the full extent of the list.
func (m *VirtualTableModel[T]) totalHeight() int {
	return len(m.rows) * m.cfg.RowHeight
}

// maxScrollTop is the largest offset that still fills the viewport.
func (m *VirtualTableModel[T]) maxScrollTop() int {
	if !m.Virtualized() {
		return 0
	}
	return max(0, m.totalHeight()-m.cfg.ViewportHeight)
}

// Window returns the rendered index range for the current scroll offset.
func (m *VirtualTableModel[T]) Window() Window {
	if !m.Virtualized() {
		return FullWindow(len(m.rows))
	}
	return ComputeWindow(len(m.rows), m.cfg.RowHeight, m.cfg.ViewportHeight, m.cfg.Overscan, m.scrollTop)
}

// Frame materializes the rows of the current window.
func (m *VirtualTableModel[T]) Frame() Frame {
	f := Frame{
		EmptyMessage: m.cfg.EmptyMessage,
		TotalHeight:  m.totalHeight(),
	}
	if len(m.rows) == 0 {
		f.ShowEmpty = !m.loading
		f.Window = Window{Virtualized: false}
		return f
	}

	f.Window = m.Window()
	f.Rows = make([]RenderedRow, 0, f.Window.Len())
	for i := f.Window.Start; i < f.Window.End; i++ {
		row := m.rows[i]
		f.Rows = append(f.Rows, RenderedRow{
			Index: i,
			Key:   m.keyFunc(row, i),
			Cells: m.renderRow(row, i),
		})
	}
	return f
}

// View renders the header and the windowed body.
func (m *VirtualTableModel[T]) View() string {
	header := headerStyle.Render(m.headerLine())
	body := m.bodyView(m.Frame())
	if body == "" {
		return header
	}
	return header + "\n" + body
}

func (m *VirtualTableModel[T]) headerLine() string {
	labels := make([]string, len(m.columns))
	for i, c := range m.columns {
		labels[i] = c.Label
	}
	return joinCells(m.columns, labels)
}

func (m *VirtualTableModel[T]) bodyView(f Frame) string {
	width := tableWidth(m.columns)

	if f.ShowEmpty {
		return emptyStyle.Width(width).Align(lipgloss.Center).Render(f.EmptyMessage)
	}
	if len(f.Rows) == 0 && !f.Window.Virtualized {
		return ""
	}

	lines := make([]string, 0, len(f.Rows)*m.cfg.RowHeight)
	blank := strings.Repeat(" ", width)
	for _, r := range f.Rows {
		line := joinCells(m.columns, r.Cells)
		if r.Index == m.cursor && m.focused {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
		for range m.cfg.RowHeight - 1 {
			lines = append(lines, blank)
		}
	}

	if !f.Window.Virtualized {
		return strings.Join(lines, "\n")
	}

	// Clip the materialized rows to the viewport. The leading spacer is the part of the
	// extent above the first rendered row.
	offset := m.scrollTop - f.Window.LeadingSpacer
	visible := make([]string, 0, m.cfg.ViewportHeight)
	for i := range m.cfg.ViewportHeight {
		idx := offset + i
		if idx >= 0 && idx < len(lines) {
			visible = append(visible, lines[idx])
		} else {
			visible = append(visible, blank)
		}
	}

	bar := m.scrollbar(f.TotalHeight)
	for i := range visible {
		visible[i] = lipgloss.NewStyle().Width(width).MaxWidth(width).Render(visible[i]) + " " + bar[i]
	}
	return strings.Join(visible, "\n")
}

// scrollbar returns one glyph per viewport line, with a thumb proportional to the
// viewport's share of the total extent.
func (m *VirtualTableModel[T]) scrollbar(total int) []string {
	vp := m.cfg.ViewportHeight
	bar := make([]string, vp)
	for i := range bar {
		bar[i] = scrollbarStyle.Render(scrollTrack)
	}
	if total <= 0 {
		return bar
	}

	thumb := min(vp, max(1, vp*vp/total))
	top := 0
	if scrollable := total - vp; scrollable > 0 {
		top = m.scrollTop * (vp - thumb) / scrollable
	}
	top = min(max(0, top), vp-thumb)
	for i := top; i < top+thumb; i++ {
		bar[i] = scrollThumbStyle.Render(scrollThumb)
	}
	return bar
}

// SetRows replaces the data. Depending on Config.ResetScrollOnDataChange the scroll
// offset either returns to the top or is kept and clamped to the new extent.
func (m *VirtualTableModel[T]) SetRows(rows []T) {
	m.rows = rows
	if m.cfg.ResetScrollOnDataChange {
		m.scrollTop = 0
		m.cursor = 0
		return
	}
	m.clampScroll()
	m.cursor = min(max(0, m.cursor), max(0, len(m.rows)-1))
}

// Rows returns the current data.
func (m *VirtualTableModel[T]) Rows() []T {
	return m.rows
}

// SetLoading toggles the loading flag; while loading the empty message is suppressed.
func (m *VirtualTableModel[T]) SetLoading(loading bool) {
	m.loading = loading
}

// Loading reports whether the table is flagged as loading.
func (m *VirtualTableModel[T]) Loading() bool {
	return m.loading
}

// SetStartIndex sets the offset applied to positional keys.
func (m *VirtualTableModel[T]) SetStartIndex(start int) {
	m.cfg.StartIndex = max(0, start)
}

// SetViewportHeight resizes the scroll region. Heights below one line are raised to one.
func (m *VirtualTableModel[T]) SetViewportHeight(height int) {
	m.cfg.ViewportHeight = max(1, height)
	m.clampScroll()
}

// SetVirtualizeAbove changes the fallback threshold. Lists longer than n rows
// scroll inside the viewport; the cursor is kept in view.
func (m *VirtualTableModel[T]) SetVirtualizeAbove(n int) {
	m.cfg.VirtualizeAbove = max(0, n)
	m.clampScroll()
	m.SetCursor(m.cursor)
}

// SetEmptyMessage replaces the empty-state message.
func (m *VirtualTableModel[T]) SetEmptyMessage(msg string) {
	m.cfg.EmptyMessage = msg
}

// Focus enables keyboard and mouse handling.
func (m *VirtualTableModel[T]) Focus() { m.focused = true }

// Blur disables keyboard and mouse handling.
func (m *VirtualTableModel[T]) Blur() { m.focused = false }

// ScrollTop returns the current scroll offset.
func (m *VirtualTableModel[T]) ScrollTop() int {
	return m.scrollTop
}

// SetScrollTop moves the scroll offset, clamped to the scrollable extent.
func (m *VirtualTableModel[T]) SetScrollTop(offset int) {
	m.scrollTop = offset
	m.clampScroll()
}

// ScrollBy moves the scroll offset by delta lines.
func (m *VirtualTableModel[T]) ScrollBy(delta int) {
	m.SetScrollTop(m.scrollTop + delta)
}

// ResetScroll returns to the top of the list.
func (m *VirtualTableModel[T]) ResetScroll() {
	m.scrollTop = 0
	m.cursor = 0
}

func (m *VirtualTableModel[T]) clampScroll() {
	m.scrollTop = min(max(0, m.scrollTop), m.maxScrollTop())
}

// Cursor returns the absolute index of the highlighted row.
func (m *VirtualTableModel[T]) Cursor() int {
	return m.cursor
}

// SetCursor highlights the row at index, clamped to the data, and scrolls just enough
// to keep it inside the viewport.
func (m *VirtualTableModel[T]) SetCursor(index int) {
	if len(m.rows) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(0, index), len(m.rows)-1)

	if !m.Virtualized() {
		return
	}
	top := m.cursor * m.cfg.RowHeight
	bottom := top + m.cfg.RowHeight
	switch {
	case top < m.scrollTop:
		m.scrollTop = top
	case bottom > m.scrollTop+m.cfg.ViewportHeight:
		m.scrollTop = bottom - m.cfg.ViewportHeight
	}
	m.clampScroll()
}

// SelectedRow returns the highlighted row, or nil when the table is empty.
func (m *VirtualTableModel[T]) SelectedRow() *T {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

// RowKey returns the key of the row at absolute index.
func (m *VirtualTableModel[T]) RowKey(index int) string {
	if index < 0 || index >= len(m.rows) {
		return ""
	}
	return m.keyFunc(m.rows[index], index)
}

// ItemCount returns the number of rows.
func (m *VirtualTableModel[T]) ItemCount() int {
	return len(m.rows)
}

// Config returns the active configuration.
func (m *VirtualTableModel[T]) Config() Config {
	return m.cfg
}

// Columns returns the column configuration.
func (m *VirtualTableModel[T]) Columns() []Column {
	return m.columns
}

// KeyMap returns the navigation bindings, for help rendering.
func (m *VirtualTableModel[T]) KeyMap() KeyMap {
	return m.keys
}
