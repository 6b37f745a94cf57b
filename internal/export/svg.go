// Package export writes finished figures to files: SVG and PNG images, and
// the sampled curves as CSV or JSON.
package export

import (
	"fmt"
	"html"
	"math"
	"os"
	"strings"

	"github.com/san-kum/slopefield/internal/plot"
)

// Palette is the series color cycle shared by the image writers.
var Palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

const (
	svgTitle  = 32
	svgLeft   = 56
	svgRight  = 16
	svgTop    = 28
	svgBottom = 44
)

// FigureToSVG lays the panels out on a grid of panelWidth x panelHeight
// cells. Arrows are drawn as <line class="arrow">, each curve as one
// <path class="curve"> with a subpath per finite run.
func FigureToSVG(f *plot.Figure, panelWidth, panelHeight int) string {
	width := f.Cols * panelWidth
	height := svgTitle + f.Rows*panelHeight

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">
<defs>
<marker id="head" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="4" markerHeight="4" orient="auto"><path d="M0,0 L10,5 L0,10 z" fill="#333333"/></marker>
</defs>
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height)

	if f.Title != "" {
		fmt.Fprintf(&sb, `<text x="%d" y="22" font-size="16" text-anchor="middle">%s</text>
`, width/2, html.EscapeString(f.Title))
	}

	for i, a := range f.Axes {
		row, col := f.Position(i)
		fmt.Fprintf(&sb, `<g transform="translate(%d,%d)">
`, col*panelWidth, svgTitle+row*panelHeight)
		writePanel(&sb, a, i, panelWidth, panelHeight)
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteSVG renders f and writes it to path.
func WriteSVG(path string, f *plot.Figure, panelWidth, panelHeight int) error {
	return os.WriteFile(path, []byte(FigureToSVG(f, panelWidth, panelHeight)), 0644)
}

type frame struct {
	x, y plot.Range
	w, h float64
	left float64
	top  float64
}

func (fr frame) pos(x, y float64) (float64, float64) {
	return fr.left + (x-fr.x.Min)/fr.x.Span()*fr.w,
		fr.top + (fr.y.Max-y)/fr.y.Span()*fr.h
}

func writePanel(sb *strings.Builder, a *plot.Axes, idx, width, height int) {
	xr, yr := a.Limits()
	fr := frame{
		x: xr, y: yr,
		w:    float64(width - svgLeft - svgRight),
		h:    float64(height - svgTop - svgBottom),
		left: svgLeft,
		top:  svgTop,
	}
	clipID := fmt.Sprintf("clip%d", idx)

	fmt.Fprintf(sb, `<clipPath id="%s"><rect x="%g" y="%g" width="%g" height="%g"/></clipPath>
<rect class="frame" x="%g" y="%g" width="%g" height="%g" fill="none" stroke="#000000"/>
<text x="%g" y="18" font-size="13" text-anchor="middle">%s</text>
`, clipID, fr.left, fr.top, fr.w, fr.h,
		fr.left, fr.top, fr.w, fr.h,
		fr.left+fr.w/2, html.EscapeString(a.Title))

	// ranges and labels
	bottom := fr.top + fr.h
	fmt.Fprintf(sb, `<g font-size="10" fill="#333333">
<text x="%g" y="%g" text-anchor="start">%s</text>
<text x="%g" y="%g" text-anchor="end">%s</text>
<text x="%g" y="%g" text-anchor="end">%s</text>
<text x="%g" y="%g" text-anchor="end">%s</text>
</g>
`, fr.left, bottom+14, num(xr.Min),
		fr.left+fr.w, bottom+14, num(xr.Max),
		fr.left-4, bottom, num(yr.Min),
		fr.left-4, fr.top+10, num(yr.Max))
	if a.XLabel != "" {
		fmt.Fprintf(sb, `<text x="%g" y="%g" font-size="12" text-anchor="middle">%s</text>
`, fr.left+fr.w/2, bottom+32, html.EscapeString(a.XLabel))
	}
	if a.YLabel != "" {
		fmt.Fprintf(sb, `<text transform="translate(16,%g) rotate(-90)" font-size="12" text-anchor="middle">%s</text>
`, fr.top+fr.h/2, html.EscapeString(a.YLabel))
	}

	fmt.Fprintf(sb, `<g clip-path="url(#%s)">
`, clipID)
	if a.Grid {
		for k := 1; k < 5; k++ {
			gx := fr.left + fr.w*float64(k)/5
			gy := fr.top + fr.h*float64(k)/5
			fmt.Fprintf(sb, `<line class="grid" x1="%.1f" y1="%g" x2="%.1f" y2="%g" stroke="#dddddd"/>
<line class="grid" x1="%g" y1="%.1f" x2="%g" y2="%.1f" stroke="#dddddd"/>
`, gx, fr.top, gx, bottom, fr.left, gy, fr.left+fr.w, gy)
		}
	}
	writeArrows(sb, a.Arrows, fr)
	for _, h := range a.HLines {
		_, y := fr.pos(xr.Min, h.Y)
		dash := ""
		if h.Dashed {
			dash = ` stroke-dasharray="6 4"`
		}
		fmt.Fprintf(sb, `<line class="equilibrium" x1="%g" y1="%.2f" x2="%g" y2="%.2f" stroke="#555555"%s><title>%s</title></line>
`, fr.left, y, fr.left+fr.w, y, dash, html.EscapeString(h.Label))
	}
	for i, l := range a.Lines {
		writeCurve(sb, l, fr, Palette[i%len(Palette)])
	}
	sb.WriteString("</g>\n")

	writeLegend(sb, a, fr)
}

func writeArrows(sb *strings.Builder, arrows []plot.Arrow, fr frame) {
	if len(arrows) == 0 {
		return
	}
	xs, ys := map[float64]bool{}, map[float64]bool{}
	for _, ar := range arrows {
		xs[ar.X] = true
		ys[ar.Y] = true
	}
	length := 0.6 * math.Min(fr.w/float64(len(xs)), fr.h/float64(len(ys)))

	sx, sy := fr.w/fr.x.Span(), fr.h/fr.y.Span()
	sb.WriteString(`<g stroke="#333333" stroke-width="1">` + "\n")
	for _, ar := range arrows {
		du, dv := ar.U*sx, -ar.V*sy
		n := math.Hypot(du, dv)
		if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			continue
		}
		du, dv = du/n*length/2, dv/n*length/2
		cx, cy := fr.pos(ar.X, ar.Y)
		fmt.Fprintf(sb, `<line class="arrow" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" marker-end="url(#head)"/>
`, cx-du, cy-dv, cx+du, cy+dv)
	}
	sb.WriteString("</g>\n")
}

// writeCurve emits one path per curve. Long excursions are clipped to a
// band around the panel so coordinates stay bounded.
func writeCurve(sb *strings.Builder, l plot.Line, fr frame, color string) {
	band := func(r plot.Range) plot.Range {
		return plot.Range{Min: r.Min - r.Span(), Max: r.Max + r.Span()}
	}
	xb, yb := band(fr.x), band(fr.y)

	var d strings.Builder
	for _, seg := range l.Segments() {
		if len(seg.X) == 1 {
			x, y := fr.pos(seg.X[0], seg.Y[0])
			fmt.Fprintf(&d, "M%.2f,%.2f h0.01 ", x, y)
			continue
		}
		penDown := false
		for k := 1; k < len(seg.X); k++ {
			x0, y0, x1, y1, ok := plot.Clip(seg.X[k-1], seg.Y[k-1], seg.X[k], seg.Y[k], xb, yb)
			if !ok {
				penDown = false
				continue
			}
			px0, py0 := fr.pos(x0, y0)
			px1, py1 := fr.pos(x1, y1)
			if !penDown || x0 != seg.X[k-1] || y0 != seg.Y[k-1] {
				fmt.Fprintf(&d, "M%.2f,%.2f ", px0, py0)
			}
			fmt.Fprintf(&d, "L%.2f,%.2f ", px1, py1)
			penDown = x1 == seg.X[k] && y1 == seg.Y[k]
		}
	}

	width := l.Width
	if width == 0 {
		width = 1.5
	}
	dash := ""
	if l.Dashed {
		dash = ` stroke-dasharray="6 4"`
	}
	fmt.Fprintf(sb, `<path class="curve" fill="none" stroke="%s" stroke-width="%g"%s d="%s"><title>%s</title></path>
`, color, width, dash, strings.TrimSpace(d.String()), html.EscapeString(l.Label))
}

func writeLegend(sb *strings.Builder, a *plot.Axes, fr frame) {
	y := fr.top + 14
	for i, l := range a.Lines {
		if l.Label == "" {
			continue
		}
		x := fr.left + fr.w - 110
		fmt.Fprintf(sb, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="2"/><text x="%g" y="%g" font-size="10">%s</text>
`, x, y-3, x+16, y-3, Palette[i%len(Palette)], x+20, y, html.EscapeString(l.Label))
		y += 13
	}
}

func num(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
