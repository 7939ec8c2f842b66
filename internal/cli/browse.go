package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stockdesk/stockdesk/internal/config"
	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/tui"
	listview "github.com/stockdesk/stockdesk/internal/tui/list"
)

// ErrNotATerminal is returned by interactive commands when stdout is not a terminal.
var ErrNotATerminal = errors.New("this command needs an interactive terminal")

// NewBrowseCmd creates the interactive browse command.
func NewBrowseCmd() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "browse <resource>",
		Short: "Browse a resource interactively",
		Long: `Opens an interactive table over a resource with server-side paging and search.

Keys: ↑/↓ move, enter details, / search, n/p next/previous page, r reset filters, q quit.`,
		Example: `  # Browse products
  stockdesk browse products

  # Browse exports starting from a filter
  stockdesk browse exports --status PENDING --sort createdAt:desc`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: inventory.ResourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, args[0], &flags)
		},
	}

	flags.register(cmd)
	return cmd
}

// browserOptions maps the table configuration onto browser options.
func browserOptions(cfg *config.Config, filters tui.Filters) tui.BrowserOptions {
	opts := tui.DefaultBrowserOptions()
	opts.Filters = filters
	if cfg == nil {
		return opts
	}
	if cfg.Output.PageSize > 0 {
		opts.PageSize = cfg.Output.PageSize
	}
	table := listview.DefaultConfig()
	if cfg.Table.RowHeight > 0 {
		table.RowHeight = cfg.Table.RowHeight
	}
	if cfg.Table.Overscan >= 0 {
		table.Overscan = cfg.Table.Overscan
	}
	if cfg.Table.VirtualizeAbove >= 0 {
		table.VirtualizeAbove = cfg.Table.VirtualizeAbove
	}
	opts.Table = table
	opts.SearchDebounce = cfg.Table.SearchDebounce()
	opts.PreserveScroll = cfg.Table.PreserveScroll
	return opts
}

func runBrowse(cmd *cobra.Command, name string, flags *searchFlags) error {
	ctx := cmd.Context()

	filters, err := flags.filters()
	if err != nil {
		return err
	}

	svc, err := newServices(cmd)
	if err != nil {
		return err
	}
	browser, err := svc.Browser(name)
	if err != nil {
		return err
	}

	if !tui.IsTTY(os.Stdout) {
		return fmt.Errorf("%w; use `stockdesk list %s` instead", ErrNotATerminal, browser.Resource().Name)
	}

	model, err := tui.NewResourceViewModel[inventory.Record](
		ctx, browser.Resource(), browser.SearchRecords, browserOptions(config.GetGlobalConfig(), filters))
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err = p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run interactive browser: %w", err)
	}
	return nil
}
