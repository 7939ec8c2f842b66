package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stockdesk/stockdesk/internal/api"
	"github.com/stockdesk/stockdesk/internal/insights"
	"github.com/stockdesk/stockdesk/internal/logging"
)

// MarkdownFetcher produces the Markdown shown by a ReportViewModel.
type MarkdownFetcher func(ctx context.Context) (string, error)

type reportLoadedMsg struct {
	markdown string
	err      error
}

// ReportViewModel shows one insights panel in a scrollable viewport.
type ReportViewModel struct {
	ctx   context.Context
	title string
	fetch MarkdownFetcher
	style string

	state    ViewState
	viewport viewport.Model
	loading  *LoadingState
	markdown string

	width  int
	height int
	err    error
}

// NewReportViewModel creates a report screen. style is a glamour style name.
func NewReportViewModel(ctx context.Context, title string, fetch MarkdownFetcher, style string) (*ReportViewModel, error) {
	if fetch == nil {
		return nil, errors.New("report fetcher is required")
	}
	m := &ReportViewModel{
		ctx:      ctx,
		title:    title,
		fetch:    fetch,
		style:    style,
		state:    ViewStateLoading,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		loading:  NewLoadingState(),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.loading.SetMessage("Generating " + strings.ToLower(title) + "...")
	return m, nil
}

func (m *ReportViewModel) fetchCmd() tea.Cmd {
	ctx, fetch := m.ctx, m.fetch
	return func() tea.Msg {
		md, err := fetch(ctx)
		return reportLoadedMsg{markdown: md, err: err}
	}
}

// Init starts the spinner and the fetch.
func (m *ReportViewModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.fetchCmd())
}

// Update handles messages and updates the model state.
func (m *ReportViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chromeHeight)
		m.render()
		return m, nil
	case reportLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = ViewStateError
			return m, nil
		}
		m.markdown = msg.markdown
		m.state = ViewStateList
		m.render()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case keyQuit, keyCtrlC, keyEsc:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyReset:
			if m.state != ViewStateLoading {
				m.state = ViewStateLoading
				m.err = nil
				return m, tea.Batch(m.loading.Init(), m.fetchCmd())
			}
			return m, nil
		}
	}

	if m.state == ViewStateLoading {
		return m, m.loading.Update(msg)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ReportViewModel) render() {
	if m.markdown == "" {
		return
	}
	log := logging.FromContext(m.ctx)
	m.viewport.SetContent(insights.Render(m.markdown, m.width-2, m.style, *log)) //nolint:mnd // Scrollbar margin.
}

// State returns the current view state.
func (m *ReportViewModel) State() ViewState { return m.state }

// Err returns the error of the last failed fetch.
func (m *ReportViewModel) Err() error { return m.err }

// View renders the current state.
func (m *ReportViewModel) View() string {
	header := HeaderStyle.Render(strings.ToUpper(m.title))
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return lipgloss.JoinVertical(lipgloss.Left, header, "", m.loading.View())
	case ViewStateError:
		body := CriticalStyle.Render("Error: " + m.err.Error())
		if api.IsAuthError(m.err) {
			body += "\n" + WarningStyle.Render("Your session is missing or expired. Run `stockdesk login` and try again.")
		}
		return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", SubtleStyle.Render("r retry • q quit"))
	default:
		footer := SubtleStyle.Render("↑/↓ scroll • r regenerate • q quit")
		return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
	}
}
