package insights

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"
)

// Glamour style names.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

const minWrapWidth = 20

// Render turns markdown into terminal output wrapped at width. When the
// renderer cannot be built or fails, the raw markdown is returned.
func Render(markdown string, width int, style string, log zerolog.Logger) string {
	if style == "" {
		style = StyleDark
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(max(width, minWrapWidth)),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return markdown
	}
	return strings.TrimRight(out, "\n") + "\n"
}
