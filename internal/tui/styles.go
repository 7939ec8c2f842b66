package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

// Palette.
//
//nolint:gochecknoglobals // Shared style palette.
var (
	ColorHeader   = lipgloss.Color("86")
	ColorLabel    = lipgloss.Color("245")
	ColorValue    = lipgloss.Color("252")
	ColorMuted    = lipgloss.Color("241")
	ColorBorder   = lipgloss.Color("62")
	ColorSpinner  = lipgloss.Color("205")
	ColorOK       = lipgloss.Color("42")
	ColorWarning  = lipgloss.Color("214")
	ColorCritical = lipgloss.Color("196")
)

// Shared styles.
//
//nolint:gochecknoglobals // Shared style palette.
var (
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	OKStyle       = lipgloss.NewStyle().Foreground(ColorOK)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCritical)
	BoxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// StatusStyle colours a receipt or check status.
func StatusStyle(status string) lipgloss.Style {
	switch strings.ToUpper(status) {
	case inventory.StatusApproved, inventory.StatusImported, inventory.StatusExported, "ACTIVE":
		return OKStyle
	case inventory.StatusPending:
		return WarningStyle
	case inventory.StatusCancelled, inventory.StatusRejected, "INACTIVE":
		return CriticalStyle
	default:
		return ValueStyle
	}
}
