package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/slopefield/internal/plot"
)

// Viewer pages through the panels of a finished figure. It never
// recomputes anything; it only re-renders on resize or theme change.
type Viewer struct {
	fig           *plot.Figure
	page          int
	all           bool
	help          bool
	theme         Theme
	width, height int
}

func NewViewer(fig *plot.Figure, theme Theme) Viewer {
	return Viewer{fig: fig, theme: theme, width: 100, height: 32}
}

// Show runs the viewer until the user quits.
func Show(fig *plot.Figure, theme Theme) error {
	_, err := tea.NewProgram(NewViewer(fig, theme), tea.WithAltScreen()).Run()
	return err
}

func (v Viewer) Init() tea.Cmd { return nil }

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return v, tea.Quit
		case "right", "l", "n", " ":
			if v.page < len(v.fig.Axes)-1 {
				v.page++
			}
		case "left", "h", "p":
			if v.page > 0 {
				v.page--
			}
		case "a":
			v.all = !v.all
		case "t":
			v.theme = NextTheme(v.theme)
		case "?":
			v.help = !v.help
		}
	}
	return v, nil
}

func (v Viewer) View() string {
	st := NewStyles(v.theme)
	var b strings.Builder

	if len(v.fig.Axes) == 0 {
		return st.Muted.Render("empty figure") + "\n"
	}

	if v.all {
		w, h := v.panelSize(v.fig.Rows, v.fig.Cols)
		b.WriteString(RenderFigure(v.fig, w, h, st))
	} else {
		if v.fig.Title != "" {
			b.WriteString(st.Header.Render(v.fig.Title))
			b.WriteByte('\n')
		}
		w, h := v.panelSize(1, 1)
		b.WriteString(RenderAxes(v.fig.Axes[v.page], w, h, st))
	}
	b.WriteByte('\n')

	status := fmt.Sprintf("panel %d/%d  theme %s", v.page+1, len(v.fig.Axes), v.theme.Name)
	if v.all {
		status = fmt.Sprintf("%d panels  theme %s", len(v.fig.Axes), v.theme.Name)
	}
	b.WriteString(st.Muted.Render(status))
	b.WriteByte('\n')
	if v.help {
		b.WriteString(st.KeyHint.Render("←/→ page  A all panels  T theme  ? help  Q quit"))
	} else {
		b.WriteString(st.KeyHint.Render("? help"))
	}
	return b.String()
}

// panelSize splits the window among rows x cols panels, leaving room for
// borders, titles and legends.
func (v Viewer) panelSize(rows, cols int) (int, int) {
	w := v.width/cols - 16
	h := (v.height-4)/rows - 9
	return max(w, 20), max(h, 5)
}
