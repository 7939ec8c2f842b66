package listview

import (
	"errors"
	"fmt"
)

// Default geometry. Heights are in terminal lines.
const (
	DefaultRowHeight       = 1
	DefaultViewportHeight  = 20
	DefaultOverscan        = 8
	DefaultVirtualizeAbove = 20
	DefaultEmptyMessage    = "No data"
)

// Configuration errors returned by Config.Validate.
var (
	ErrInvalidRowHeight       = errors.New("row height must be > 0")
	ErrInvalidViewportHeight  = errors.New("viewport height must be > 0")
	ErrInvalidOverscan        = errors.New("overscan must be >= 0")
	ErrInvalidVirtualizeAbove = errors.New("virtualize threshold must be >= 0")
	ErrInvalidStartIndex      = errors.New("start index must be >= 0")
	ErrMissingRenderer        = errors.New("row renderer is required")
)

// Config holds the geometry and behavior switches of a VirtualTableModel.
type Config struct {
	// RowHeight is the uniform height of every row. Variable row heights are not supported.
	RowHeight int

	// ViewportHeight is the height of the scroll region, header excluded.
	ViewportHeight int

	// Overscan is the number of extra rows rendered beyond each edge of the visible window.
	Overscan int

	// VirtualizeAbove is the row count at or below which windowing is skipped and every
	// row is rendered directly without an internal scroll region.
	VirtualizeAbove int

	// StartIndex offsets positional row keys, so keys stay unique across pages of an
	// externally paginated set.
	StartIndex int

	// EmptyMessage is shown as a single full-width row when there are no rows and the
	// table is not loading.
	EmptyMessage string

	// ResetScrollOnDataChange resets the scroll offset and cursor whenever SetRows
	// replaces the data. When false the offset is kept and only clamped to the new extent.
	ResetScrollOnDataChange bool
}

// DefaultConfig returns the default table configuration.
func DefaultConfig() Config {
	return Config{
		RowHeight:       DefaultRowHeight,
		ViewportHeight:  DefaultViewportHeight,
		Overscan:        DefaultOverscan,
		VirtualizeAbove: DefaultVirtualizeAbove,
		EmptyMessage:    DefaultEmptyMessage,
	}
}

// Validate rejects geometry the window math cannot work with.
func (c Config) Validate() error {
	switch {
	case c.RowHeight <= 0:
		return fmt.Errorf("%w: got %d", ErrInvalidRowHeight, c.RowHeight)
	case c.ViewportHeight <= 0:
		return fmt.Errorf("%w: got %d", ErrInvalidViewportHeight, c.ViewportHeight)
	case c.Overscan < 0:
		return fmt.Errorf("%w: got %d", ErrInvalidOverscan, c.Overscan)
	case c.VirtualizeAbove < 0:
		return fmt.Errorf("%w: got %d", ErrInvalidVirtualizeAbove, c.VirtualizeAbove)
	case c.StartIndex < 0:
		return fmt.Errorf("%w: got %d", ErrInvalidStartIndex, c.StartIndex)
	}
	return nil
}
