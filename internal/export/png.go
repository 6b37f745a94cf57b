package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/slopefield/internal/plot"
)

var (
	arrowColor  = drawing.ColorFromHex("555555")
	markerColor = drawing.ColorFromHex("888888")
)

// PanelChart builds a go-chart line chart for one panel. Arrows become
// two-point series, marker lines become dashed series across the x range,
// and curves are clipped to the panel limits.
func PanelChart(a *plot.Axes, width, height int) chart.Chart {
	xr, yr := a.Limits()
	var series []chart.Series

	for _, seg := range arrowSegments(a.Arrows, xr, yr) {
		series = append(series, chart.ContinuousSeries{
			XValues: seg[0],
			YValues: seg[1],
			Style:   chart.Style{StrokeColor: arrowColor, StrokeWidth: 1},
		})
	}
	for _, h := range a.HLines {
		if !yr.Contains(h.Y) {
			continue
		}
		style := chart.Style{StrokeColor: markerColor, StrokeWidth: 1}
		if h.Dashed {
			style.StrokeDashArray = []float64{5, 5}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    h.Label,
			XValues: []float64{xr.Min, xr.Max},
			YValues: []float64{h.Y, h.Y},
			Style:   style,
		})
	}
	for i, l := range a.Lines {
		width := l.Width
		if width == 0 {
			width = 1.5
		}
		style := chart.Style{StrokeColor: drawing.ColorFromHex(Palette[i%len(Palette)]), StrokeWidth: width}
		name := l.Label
		for _, run := range clippedRuns(l, xr, yr) {
			series = append(series, chart.ContinuousSeries{
				Name:    name,
				XValues: run[0],
				YValues: run[1],
				Style:   style,
			})
			name = ""
		}
	}

	graph := chart.Chart{
		Title:  a.Title,
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  a.XLabel,
			Range: &chart.ContinuousRange{Min: xr.Min, Max: xr.Max},
		},
		YAxis: chart.YAxis{
			Name:  a.YLabel,
			Range: &chart.ContinuousRange{Min: yr.Min, Max: yr.Max},
		},
		Series: series,
	}
	if a.Grid {
		grid := chart.Style{StrokeColor: drawing.ColorFromHex("dddddd"), StrokeWidth: 1}
		graph.XAxis.GridMajorStyle = grid
		graph.YAxis.GridMajorStyle = grid
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

// WritePNGs writes one PNG per panel into dir and returns the file paths.
func WritePNGs(dir string, f *plot.Figure, width, height int) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	var paths []string
	for i, a := range f.Axes {
		graph := PanelChart(a, width, height)
		if len(graph.Series) == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%02d-%s.png", i+1, slug(a.Title)))
		file, err := os.Create(path)
		if err != nil {
			return paths, err
		}
		err = graph.Render(chart.PNG, file)
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, fmt.Errorf("rendering %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func arrowSegments(arrows []plot.Arrow, xr, yr plot.Range) [][2][]float64 {
	if len(arrows) == 0 {
		return nil
	}
	xs, ys := map[float64]bool{}, map[float64]bool{}
	for _, ar := range arrows {
		xs[ar.X] = true
		ys[ar.Y] = true
	}
	// half-length in panel fractions, converted per axis below
	half := 0.3 / float64(max(len(xs), len(ys)))

	var out [][2][]float64
	for _, ar := range arrows {
		du, dv := ar.U/xr.Span(), ar.V/yr.Span()
		n := math.Hypot(du, dv)
		if n == 0 {
			continue
		}
		dx := du / n * half * xr.Span()
		dy := dv / n * half * yr.Span()
		out = append(out, [2][]float64{
			{ar.X - dx, ar.X + dx},
			{ar.Y - dy, ar.Y + dy},
		})
	}
	return out
}

// clippedRuns splits a curve into finite runs and clips each to the
// limits. A run that leaves the limits is broken where it exits.
func clippedRuns(l plot.Line, xr, yr plot.Range) [][2][]float64 {
	var out [][2][]float64
	for _, seg := range l.Segments() {
		var xs, ys []float64
		flush := func() {
			if len(xs) > 1 {
				out = append(out, [2][]float64{xs, ys})
			}
			xs, ys = nil, nil
		}
		for k := 1; k < len(seg.X); k++ {
			x0, y0, x1, y1, ok := plot.Clip(seg.X[k-1], seg.Y[k-1], seg.X[k], seg.Y[k], xr, yr)
			if !ok {
				flush()
				continue
			}
			if len(xs) == 0 || xs[len(xs)-1] != x0 || ys[len(ys)-1] != y0 {
				flush()
				xs, ys = append(xs, x0), append(ys, y0)
			}
			xs, ys = append(xs, x1), append(ys, y1)
		}
		flush()
	}
	return out
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "panel"
	}
	return out
}
