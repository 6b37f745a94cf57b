package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Ink indices on the canvas. Curve i uses inkSeries+i.
const (
	inkField = iota
	inkMarker
	inkSeries
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Panel   lipgloss.Style
	Title   lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
	KeyHint lipgloss.Style
	theme   Theme
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Title),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		Muted: lipgloss.NewStyle().
			Foreground(t.Muted),
		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Warning),
		KeyHint: lipgloss.NewStyle().
			Foreground(t.Muted).
			Italic(true),
		theme: t,
	}
}

// Inks returns one style per canvas ink for n curves.
func (s Styles) Inks(n int) []lipgloss.Style {
	inks := []lipgloss.Style{
		lipgloss.NewStyle().Foreground(s.theme.Field),
		lipgloss.NewStyle().Foreground(s.theme.Muted),
	}
	for i := 0; i < n; i++ {
		inks = append(inks, lipgloss.NewStyle().Foreground(s.theme.SeriesColor(i)))
	}
	return inks
}

// Swatch is a short colored bar used in legends.
func (s Styles) Swatch(i int) string {
	return lipgloss.NewStyle().Foreground(s.theme.SeriesColor(i)).Render("━━")
}

// Separator draws a muted rule of the given width.
func (s Styles) Separator(width int) string {
	if width < 5 {
		return s.Muted.Render(strings.Repeat("─", max(width, 0)))
	}
	left := (width - 3) / 2
	right := width - 3 - left
	return s.Muted.Render(strings.Repeat("─", left) + " ◆ " + strings.Repeat("─", right))
}
