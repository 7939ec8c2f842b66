package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stockdesk/stockdesk/internal/api"
	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/logging"
	listview "github.com/stockdesk/stockdesk/internal/tui/list"
)

// SearchFunc loads one page of a resource.
type SearchFunc[T inventory.Record] func(ctx context.Context, p inventory.SearchParams) (api.Page[T], error)

// BrowserOptions configures a ResourceViewModel.
type BrowserOptions struct {
	PageSize       int
	Table          listview.Config
	SearchDebounce time.Duration
	PreserveScroll bool
	Filters        Filters
}

// DefaultBrowserOptions returns the options used when no configuration is given.
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		PageSize:       20, //nolint:mnd // Backend default page size.
		Table:          listview.DefaultConfig(),
		SearchDebounce: 300 * time.Millisecond, //nolint:mnd // Typing pause before searching.
	}
}

type pageLoadedMsg[T inventory.Record] struct {
	seq  int
	page api.Page[T]
	err  error
}

const searchDebounceID = "search"

// pageSizes are the sizes cycled by the [ and ] keys.
var pageSizes = []int{10, 20, 50, 100}

// ResourceViewModel is the interactive browse screen for one resource: a
// windowed table over one backend page, server-side paging, a debounced search
// box and a detail panel.
type ResourceViewModel[T inventory.Record] struct {
	ctx      context.Context
	resource inventory.Resource
	search   SearchFunc[T]

	state ViewState
	table *listview.VirtualTableModel[T]
	pager *Pager

	// virtualizeAbove is the configured threshold; fitTable may lower it.
	virtualizeAbove int

	filters   Filters
	input     textinput.Model
	searching bool
	debounce  *Debouncer

	jump    textinput.Model
	jumping bool

	loading  *LoadingState
	inFlight bool
	cancel   context.CancelFunc
	seq      int

	selected T
	width    int
	height   int
	err      error
}

// NewResourceViewModel creates a browse screen. Nothing is fetched until Init.
func NewResourceViewModel[T inventory.Record](
	ctx context.Context,
	resource inventory.Resource,
	search SearchFunc[T],
	opts BrowserOptions,
) (*ResourceViewModel[T], error) {
	if search == nil {
		return nil, errors.New("search function is required")
	}

	cfg := opts.Table
	cfg.ResetScrollOnDataChange = !opts.PreserveScroll

	m := &ResourceViewModel[T]{
		ctx:      ctx,
		resource: resource,
		search:   search,
		state:    ViewStateLoading,
		filters:  opts.Filters,
		input:    newSearchInput(resource, opts.Filters.Query),
		jump:     newJumpInput(),
		debounce: NewDebouncer(searchDebounceID, opts.SearchDebounce),
		loading:  NewLoadingState(),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.loading.SetMessage("Loading " + strings.ToLower(resource.Title) + "...")

	table, err := listview.NewVirtualTableModel(columnsFor(resource), nil, m.renderRow, cfg)
	if err != nil {
		return nil, fmt.Errorf("building %s table: %w", resource.Name, err)
	}
	m.table = table.WithKeyFunc(listview.IDKey[T])
	m.table.SetEmptyMessage(m.emptyMessage())
	m.virtualizeAbove = cfg.VirtualizeAbove

	m.pager = NewPager(opts.PageSize, m.load)
	return m, nil
}

func newJumpInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "page"
	ti.CharLimit = jumpInputCharLimit
	ti.Width = jumpInputCharLimit + 1
	return ti
}

// fitTable sizes the table to the terminal. The fallback threshold is capped at
// the rows that fit, so a page that would overflow the screen scrolls instead.
func (m *ResourceViewModel[T]) fitTable(height int) {
	vp := max(1, height-chromeHeight)
	m.table.SetViewportHeight(vp)
	m.table.SetVirtualizeAbove(min(m.virtualizeAbove, vp/m.table.Config().RowHeight))
}

func newSearchInput(r inventory.Resource, value string) textinput.Model {
	ti := textinput.New()
	field := "code"
	if r.Filters.Name != "" {
		field = "name"
	}
	ti.Placeholder = "Search " + strings.ToLower(r.Title) + " by " + field + "..."
	ti.CharLimit = searchInputCharLimit
	ti.Width = searchInputWidth
	ti.SetValue(value)
	return ti
}

func columnsFor(r inventory.Resource) []listview.Column {
	cols := make([]listview.Column, 0, len(r.Fields))
	for _, f := range r.Fields {
		c := listview.Column{Key: f.Key, Label: f.Label, Width: f.Width}
		if f.Numeric {
			c.Align = listview.AlignRight
		}
		cols = append(cols, c)
	}
	return cols
}

func (m *ResourceViewModel[T]) renderRow(row T, _ int) []string {
	cells := row.Cells()
	for i, f := range m.resource.Fields {
		if f.Key == "status" && i < len(cells) {
			cells[i] = StatusStyle(cells[i]).Render(cells[i])
		}
	}
	return cells
}

// load cancels any in-flight fetch and starts a new one for page.
func (m *ResourceViewModel[T]) load(page, size int) tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.seq++
	seq := m.seq
	params := m.filters.Params(m.resource, page, size)
	search := m.search

	logging.FromContext(m.ctx).Debug().
		Ctx(m.ctx).
		Str("component", "tui").
		Str("operation", "load_page").
		Str("resource", m.resource.Name).
		Int("page", page).
		Int("size", size).
		Msg("loading page")

	m.err = nil
	m.table.SetLoading(true)
	fetch := func() tea.Msg {
		p, err := search(ctx, params)
		return pageLoadedMsg[T]{seq: seq, page: p, err: err}
	}
	if m.inFlight {
		return fetch
	}
	m.inFlight = true
	return tea.Batch(fetch, m.loading.Init())
}

// Init starts the first load.
func (m *ResourceViewModel[T]) Init() tea.Cmd {
	return m.pager.Load()
}

// Update handles messages and updates the model state.
func (m *ResourceViewModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fitTable(msg.Height)
		return m, nil
	case pageLoadedMsg[T]:
		return m.handlePageLoaded(msg)
	case DebounceMsg:
		if m.debounce.Fires(msg) {
			return m, m.applySearch()
		}
		return m, nil
	}

	if m.inFlight {
		if cmd := m.loading.Update(msg); cmd != nil {
			return m, cmd
		}
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == ViewStateList && !m.searching && !m.jumping {
			_, cmd := m.table.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if keyMsg.String() == keyCtrlC {
		return m.quit()
	}

	if m.searching {
		return m.handleSearchKey(keyMsg)
	}
	if m.jumping {
		return m.handleJumpKey(keyMsg)
	}

	switch m.state {
	case ViewStateLoading:
		if keyMsg.String() == keyQuit {
			return m.quit()
		}
		return m, nil
	case ViewStateList:
		return m.handleListKey(keyMsg)
	case ViewStateDetail:
		return m.handleDetailKey(keyMsg)
	case ViewStateError:
		return m.handleErrorKey(keyMsg)
	case ViewStateQuitting:
		return m, nil
	default:
		return m, nil
	}
}

func (m *ResourceViewModel[T]) handlePageLoaded(msg pageLoadedMsg[T]) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq {
		// superseded
		return m, nil
	}
	m.inFlight = false
	m.table.SetLoading(false)
	if msg.err != nil {
		m.err = msg.err
		m.state = ViewStateError
		return m, nil
	}

	m.pager.SetTotals(msg.page.TotalElements, msg.page.TotalPages)
	m.table.SetEmptyMessage(m.emptyMessage())
	m.table.SetStartIndex(m.pager.StartIndex())
	m.table.SetRows(msg.page.Content)
	if m.state != ViewStateDetail {
		m.state = ViewStateList
	}
	return m, nil
}

func (m *ResourceViewModel[T]) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit:
		return m.quit()
	case keyEnter:
		if row := m.table.SelectedRow(); row != nil {
			m.selected = *row
			m.state = ViewStateDetail
		}
		return m, nil
	case keySlash:
		m.searching = true
		m.input.Focus()
		return m, textinput.Blink
	case keyNext:
		return m, m.pager.Next()
	case keyPrev:
		return m, m.pager.Prev()
	case keyJump:
		if m.pager.TotalPages() <= 1 {
			return m, nil
		}
		m.jumping = true
		m.jump.SetValue("")
		m.jump.Focus()
		return m, textinput.Blink
	case keySmaller:
		return m, m.resizePage(-1)
	case keyLarger:
		return m, m.resizePage(1)
	case keyReset:
		return m, m.ResetFilters()
	case keyEsc:
		if m.filters.Query != "" {
			m.input.SetValue("")
			return m, m.applySearch()
		}
		return m, nil
	default:
		_, cmd := m.table.Update(msg)
		return m, cmd
	}
}

func (m *ResourceViewModel[T]) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		m.searching = false
		m.input.Blur()
		m.debounce.Cancel()
		if m.input.Value() == m.filters.Query {
			return m, nil
		}
		return m, m.applySearch()
	case keyEsc:
		m.searching = false
		m.input.Blur()
		m.debounce.Cancel()
		m.input.SetValue(m.filters.Query)
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		return m, tea.Batch(cmd, m.debounce.Trigger())
	}
	return m, cmd
}

func (m *ResourceViewModel[T]) handleJumpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		m.jumping = false
		m.jump.Blur()
		page, err := strconv.Atoi(m.jump.Value())
		if err != nil {
			return m, nil
		}
		m.table.ResetScroll()
		return m, m.pager.GoTo(page)
	case keyEsc:
		m.jumping = false
		m.jump.Blur()
		return m, nil
	}
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if r < '0' || r > '9' {
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

// resizePage steps to the next smaller (dir < 0) or larger page size and
// reloads from the first page. Sizes outside pageSizes snap to the nearest step.
func (m *ResourceViewModel[T]) resizePage(dir int) tea.Cmd {
	current := m.pager.Size()
	next := current
	if dir > 0 {
		for _, s := range pageSizes {
			if s > current {
				next = s
				break
			}
		}
	} else {
		for i := len(pageSizes) - 1; i >= 0; i-- {
			if pageSizes[i] < current {
				next = pageSizes[i]
				break
			}
		}
	}
	if next == current {
		return nil
	}
	m.table.ResetScroll()
	return m.pager.SetSize(next)
}

func (m *ResourceViewModel[T]) emptyMessage() string {
	title := strings.ToLower(m.resource.Title)
	if m.filters.IsZero() {
		return fmt.Sprintf("No %s yet.", title)
	}
	return fmt.Sprintf("No %s match the current filters.", title)
}

func (m *ResourceViewModel[T]) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit:
		return m.quit()
	case keyEsc, keyEnter, "backspace":
		m.state = ViewStateList
	}
	return m, nil
}

func (m *ResourceViewModel[T]) handleErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit:
		return m.quit()
	case keyReset:
		return m, m.pager.Load()
	case keyEsc:
		if m.table.ItemCount() > 0 {
			m.err = nil
			m.state = ViewStateList
		}
	}
	return m, nil
}

// applySearch commits the search box and reloads from the first page.
func (m *ResourceViewModel[T]) applySearch() tea.Cmd {
	m.filters.Query = strings.TrimSpace(m.input.Value())
	m.table.ResetScroll()
	return m.pager.Reset()
}

// ResetFilters clears the search box and every filter, returns to the first
// page and reloads.
func (m *ResourceViewModel[T]) ResetFilters() tea.Cmd {
	m.debounce.Cancel()
	m.filters = Filters{}
	m.input.SetValue("")
	m.err = nil
	m.table.ResetScroll()
	return m.pager.Reset()
}

func (m *ResourceViewModel[T]) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.state = ViewStateQuitting
	return m, tea.Quit
}

// State returns the current view state.
func (m *ResourceViewModel[T]) State() ViewState { return m.state }

// Filters returns the filters of the last issued search.
func (m *ResourceViewModel[T]) Filters() Filters { return m.filters }

// Pager returns the paging state.
func (m *ResourceViewModel[T]) Pager() *Pager { return m.pager }

// Table returns the underlying table.
func (m *ResourceViewModel[T]) Table() *listview.VirtualTableModel[T] { return m.table }

// Err returns the error of the last failed load.
func (m *ResourceViewModel[T]) Err() error { return m.err }

// Selected returns the row shown in the detail panel.
func (m *ResourceViewModel[T]) Selected() T { return m.selected }

// Loading reports whether a fetch is in flight.
func (m *ResourceViewModel[T]) Loading() bool { return m.inFlight }

// View renders the current state.
func (m *ResourceViewModel[T]) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), "", m.loading.View())
	case ViewStateError:
		return m.renderError()
	case ViewStateDetail:
		return m.renderDetail()
	case ViewStateList:
		return m.renderList()
	default:
		return ""
	}
}

func (m *ResourceViewModel[T]) renderHeader() string {
	title := HeaderStyle.Render(strings.ToUpper(m.resource.Title))
	if m.filters.IsZero() {
		return title
	}
	var parts []string
	if m.filters.Query != "" {
		parts = append(parts, fmt.Sprintf("search %q", m.filters.Query))
	}
	if m.filters.Status != "" {
		parts = append(parts, "status "+strings.ToUpper(m.filters.Status))
	}
	if m.filters.From != "" || m.filters.To != "" {
		parts = append(parts, fmt.Sprintf("dates %s..%s", m.filters.From, m.filters.To))
	}
	if m.filters.Sort != "" {
		parts = append(parts, "sort "+m.filters.Sort+" "+m.filters.Dir)
	}
	return title + "  " + SubtleStyle.Render(strings.Join(parts, ", "))
}

func (m *ResourceViewModel[T]) renderList() string {
	sections := []string{m.renderHeader(), m.table.View(), m.renderStatusBar()}
	switch {
	case m.jumping:
		sections = append(sections, LabelStyle.Render(fmt.Sprintf("Go to page (1-%d): ", m.pager.TotalPages()))+m.jump.View())
	case m.searching || m.input.Value() != "":
		sections = append(sections, LabelStyle.Render("Search: ")+m.input.View())
	}
	sections = append(sections, SubtleStyle.Render(
		"enter detail • / search • n/p page • : jump • [/] size • r reset • q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *ResourceViewModel[T]) renderStatusBar() string {
	start, end := m.pager.DisplayRange()
	status := fmt.Sprintf("Rows %d-%d of %d • Page %d/%d",
		start, end, m.pager.TotalElements(), m.pager.DisplayPage(), max(1, m.pager.TotalPages()))
	if m.inFlight {
		status += "  " + m.loading.View()
	}
	return SubtleStyle.Render(status)
}

func (m *ResourceViewModel[T]) renderError() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(CriticalStyle.Render("Error: " + m.err.Error()))
	b.WriteString("\n")
	if api.IsAuthError(m.err) {
		b.WriteString(WarningStyle.Render("Your session is missing or expired. Run `stockdesk login` and try again."))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render("r retry • esc back • q quit"))
	return b.String()
}

func (m *ResourceViewModel[T]) renderDetail() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(strings.ToUpper(m.resource.Title) + " DETAIL"))
	b.WriteString("\n\n")

	labelWidth := 0
	for _, f := range m.resource.Fields {
		labelWidth = max(labelWidth, lipgloss.Width(f.Label))
	}
	cells := m.selected.Cells()
	for i, f := range m.resource.Fields {
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		style := ValueStyle
		if f.Key == "status" {
			style = StatusStyle(value)
		}
		b.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s  ", labelWidth, f.Label)))
		b.WriteString(style.Render(value))
		b.WriteString("\n")
	}
	b.WriteString(SubtleStyle.Render("\nPress ESC to return"))
	return BoxStyle.Width(max(m.width-borderPadding, 20)).Render(b.String()) //nolint:mnd // Minimum box width.
}
