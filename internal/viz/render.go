package viz

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/slopefield/internal/plot"
)

// seriesColors is the asciigraph palette; terminal panels drawn on the
// Braille canvas use the theme instead.
var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan, asciigraph.Yellow, asciigraph.Magenta,
	asciigraph.Green, asciigraph.Red, asciigraph.Blue,
}

// RenderFigure draws every panel of f, row by row. width and height size
// the plot area of each panel in terminal cells.
func RenderFigure(f *plot.Figure, width, height int, st Styles) string {
	var rows []string
	for r := 0; r < f.Rows; r++ {
		var cells []string
		for c := 0; c < f.Cols; c++ {
			i := r*f.Cols + c
			if i >= len(f.Axes) {
				break
			}
			cells = append(cells, RenderAxes(f.Axes[i], width, height, st))
		}
		if len(cells) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		}
	}
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if f.Title != "" {
		body = st.Header.Render(f.Title) + "\n" + body
	}
	return body
}

// RenderAxes draws one framed panel: title, plot area, x range, legend and
// notes.
func RenderAxes(a *plot.Axes, width, height int, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(a.Title))
	b.WriteByte('\n')

	if chart, ok := lineChart(a, width, height); ok {
		b.WriteString(chart)
	} else {
		b.WriteString(canvasPanel(a, width, height, st))
	}
	b.WriteByte('\n')

	if legend := legend(a, st); legend != "" {
		b.WriteString(lipgloss.NewStyle().Width(width + 8).Render(legend))
		b.WriteByte('\n')
	}
	for _, n := range a.Notes {
		b.WriteString(st.Muted.Render(n))
		b.WriteByte('\n')
	}
	return st.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// lineChart uses asciigraph for panels that hold only finite curves
// sampled on one shared grid.
func lineChart(a *plot.Axes, width, height int) (string, bool) {
	if len(a.Arrows) > 0 || len(a.HLines) > 0 || len(a.Lines) == 0 || a.XLim != nil {
		return "", false
	}
	x0 := a.Lines[0].X
	data := make([][]float64, len(a.Lines))
	for i, l := range a.Lines {
		if len(l.X) != len(x0) || len(l.X) < 2 {
			return "", false
		}
		for k := range l.X {
			if l.X[k] != x0[k] || !finite(l.Y[k]) {
				return "", false
			}
		}
		data[i] = l.Y
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("%s ∈ [%s, %s]", axisName(a.XLabel, "x"), num(x0[0]), num(x0[len(x0)-1]))),
	}
	if len(data) > 1 {
		colors := make([]asciigraph.AnsiColor, len(data))
		for i := range colors {
			colors[i] = seriesColors[i%len(seriesColors)]
		}
		opts = append(opts, asciigraph.SeriesColors(colors...))
	}
	return asciigraph.PlotMany(data, opts...), true
}

func canvasPanel(a *plot.Axes, width, height int, st Styles) string {
	xr, yr := a.Limits()
	c := Draw(a, width, height)

	top, bottom := num(yr.Max), num(yr.Min)
	pad := max(len(top), len(bottom))
	rows := strings.Split(c.Render(st.Inks(len(a.Lines))), "\n")

	var b strings.Builder
	for i, row := range rows {
		label := ""
		switch i {
		case 0:
			label = top
		case len(rows) - 1:
			label = bottom
		case len(rows) / 2:
			label = axisName(a.YLabel, "")
		}
		fmt.Fprintf(&b, "%*s │%s\n", pad, label, row)
	}

	left, right := num(xr.Min), num(xr.Max)
	name := axisName(a.XLabel, "")
	gap := width - len(left) - len(right) - len(name)
	fmt.Fprintf(&b, "%*s └%s\n", pad, "", strings.Repeat("─", width))
	if gap >= 2 {
		fmt.Fprintf(&b, "%*s  %s%s%s%s%s", pad, "", left,
			strings.Repeat(" ", gap/2), name, strings.Repeat(" ", gap-gap/2), right)
	} else {
		fmt.Fprintf(&b, "%*s  %s .. %s", pad, "", left, right)
	}
	return b.String()
}

// Draw rasterizes a onto a width x height Braille canvas: arrows first,
// then marker lines, then curves, each clipped to the axes limits.
func Draw(a *plot.Axes, width, height int) *Canvas {
	c := NewCanvas(width, height)
	xr, yr := a.Limits()
	w, h := c.Pixels()
	tf := transform{x: xr, y: yr, w: w, h: h}

	c.Pen(inkField)
	drawArrows(c, tf, a.Arrows)

	c.Pen(inkMarker)
	for _, hl := range a.HLines {
		if !yr.Contains(hl.Y) {
			continue
		}
		_, py := tf.px(xr.Min, hl.Y)
		if hl.Dashed {
			c.DrawDashed(0, py, w-1, py, 2)
		} else {
			c.DrawLine(0, py, w-1, py)
		}
	}

	for i, l := range a.Lines {
		c.Pen(inkSeries + i)
		for _, seg := range l.Segments() {
			if len(seg.X) == 1 {
				if xr.Contains(seg.X[0]) && yr.Contains(seg.Y[0]) {
					c.Set(tf.px(seg.X[0], seg.Y[0]))
				}
				continue
			}
			for k := 1; k < len(seg.X); k++ {
				x0, y0, x1, y1, ok := plot.Clip(seg.X[k-1], seg.Y[k-1], seg.X[k], seg.Y[k], xr, yr)
				if !ok {
					continue
				}
				px0, py0 := tf.px(x0, y0)
				px1, py1 := tf.px(x1, y1)
				c.DrawLine(px0, py0, px1, py1)
			}
		}
	}
	return c
}

// drawArrows draws each arrow as a short stroke centered on its sample
// point. Stroke length follows the sample spacing.
func drawArrows(c *Canvas, tf transform, arrows []plot.Arrow) {
	if len(arrows) == 0 {
		return
	}
	xs, ys := map[float64]bool{}, map[float64]bool{}
	for _, ar := range arrows {
		xs[ar.X] = true
		ys[ar.Y] = true
	}
	length := 0.7 * math.Min(float64(tf.w)/float64(len(xs)), float64(tf.h)/float64(len(ys)))
	length = math.Max(length, 2)

	sx := float64(tf.w-1) / tf.x.Span()
	sy := float64(tf.h-1) / tf.y.Span()
	for _, ar := range arrows {
		if !tf.x.Contains(ar.X) || !tf.y.Contains(ar.Y) {
			continue
		}
		du, dv := ar.U*sx, -ar.V*sy
		n := math.Hypot(du, dv)
		if n == 0 || !finite(n) {
			continue
		}
		du, dv = du/n*length/2, dv/n*length/2
		cx, cy := tf.fx(ar.X, ar.Y)
		c.DrawLine(round(cx-du), round(cy-dv), round(cx+du), round(cy+dv))
	}
}

type transform struct {
	x, y plot.Range
	w, h int
}

func (t transform) fx(x, y float64) (float64, float64) {
	return (x - t.x.Min) / t.x.Span() * float64(t.w-1),
		(t.y.Max - y) / t.y.Span() * float64(t.h-1)
}

func (t transform) px(x, y float64) (int, int) {
	fx, fy := t.fx(x, y)
	return round(fx), round(fy)
}

func legend(a *plot.Axes, st Styles) string {
	var items []string
	for i, l := range a.Lines {
		if l.Label != "" {
			items = append(items, st.Swatch(i)+" "+l.Label)
		}
	}
	for _, h := range a.HLines {
		mark := "──"
		if h.Dashed {
			mark = "╌╌"
		}
		items = append(items, st.Muted.Render(mark+" "+h.Label))
	}
	return strings.Join(items, "  ")
}

func axisName(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func round(v float64) int {
	return int(math.Round(v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
