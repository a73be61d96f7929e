package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/abelbrown/rfd/internal/ranking"
)

// Colors used in decorated output. Basic ANSI colours so they follow the
// user's terminal theme.
var (
	colorFavorable = lipgloss.Color("2")  // Green
	colorWarning   = lipgloss.Color("1")  // Red
	colorNeutral   = lipgloss.Color("4")  // Blue
	colorDetail    = lipgloss.Color("11") // Bright yellow
	colorDealer    = lipgloss.Color("5")  // Magenta
	colorNew       = lipgloss.Color("9")  // Bright red
	colorMuted     = lipgloss.Color("8")  // Gray
)

// styles is the set of lipgloss styles bound to one output renderer.
type styles struct {
	vote     map[ranking.Bucket]lipgloss.Style
	dealer   lipgloss.Style
	newTitle lipgloss.Style
	detail   lipgloss.Style
	url      lipgloss.Style
	user     lipgloss.Style
	header   lipgloss.Style
	footer   lipgloss.Style
}

// newStyles binds styles to w. With color false every style renders plain
// text; otherwise the profile is detected from w.
func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return stylesFor(r)
}

func stylesFor(r *lipgloss.Renderer) styles {
	return styles{
		vote: map[ranking.Bucket]lipgloss.Style{
			ranking.Positive: r.NewStyle().Foreground(colorFavorable),
			ranking.Neutral:  r.NewStyle().Foreground(colorNeutral),
			ranking.Negative: r.NewStyle().Foreground(colorWarning),
		},
		dealer:   r.NewStyle().Foreground(colorDealer),
		newTitle: r.NewStyle().Foreground(colorNew).Bold(true),
		detail:   r.NewStyle().Foreground(colorDetail),
		url:      r.NewStyle().Foreground(colorNeutral),
		user:     r.NewStyle().Bold(true),
		header:   r.NewStyle().Bold(true).Reverse(true).Padding(0, 1),
		footer:   r.NewStyle().Foreground(colorMuted),
	}
}
