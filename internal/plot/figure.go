// Package plot holds explicit figure and axes objects. Renderers in viz and
// export read them; nothing in this package draws.
package plot

import "math"

// Figure is a grid of panels filled row by row.
type Figure struct {
	Title      string
	Rows, Cols int
	Axes       []*Axes
}

func NewFigure(title string, rows, cols int) *Figure {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return &Figure{Title: title, Rows: rows, Cols: cols}
}

// Add appends a panel. Adding past Rows*Cols grows the figure by a row.
func (f *Figure) Add(title string) *Axes {
	a := &Axes{Title: title}
	f.Axes = append(f.Axes, a)
	for len(f.Axes) > f.Rows*f.Cols {
		f.Rows++
	}
	return a
}

// Position returns the row and column of panel i.
func (f *Figure) Position(i int) (row, col int) {
	return i / f.Cols, i % f.Cols
}

// Range is a closed interval on one axis.
type Range struct {
	Min, Max float64
}

func (r Range) Span() float64 { return r.Max - r.Min }

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Arrow is a unit direction drawn at (X, Y).
type Arrow struct {
	X, Y float64
	U, V float64
}

type Line struct {
	Label  string
	X, Y   []float64
	Width  float64
	Dashed bool
}

// HLine marks a constant value across the whole panel.
type HLine struct {
	Y      float64
	Label  string
	Dashed bool
}

type Axes struct {
	Title          string
	XLabel, YLabel string
	XLim, YLim     *Range
	Grid           bool
	Arrows         []Arrow
	Lines          []Line
	HLines         []HLine
	// Notes are free text shown beside the panel, such as a closed form.
	Notes []string
}

func (a *Axes) SetXLim(min, max float64) { a.XLim = &Range{min, max} }
func (a *Axes) SetYLim(min, max float64) { a.YLim = &Range{min, max} }

// Quiver adds direction arrows. Non-finite arrows are dropped.
func (a *Axes) Quiver(arrows ...Arrow) {
	for _, ar := range arrows {
		if finite(ar.X) && finite(ar.Y) && finite(ar.U) && finite(ar.V) {
			a.Arrows = append(a.Arrows, ar)
		}
	}
}

// Plot adds a curve. x and y must have the same length.
func (a *Axes) Plot(l Line) {
	if len(l.X) != len(l.Y) {
		panic("plot: x and y lengths differ")
	}
	a.Lines = append(a.Lines, l)
}

func (a *Axes) AxHLine(y float64, label string, dashed bool) {
	a.HLines = append(a.HLines, HLine{Y: y, Label: label, Dashed: dashed})
}

func (a *Axes) Note(s string) { a.Notes = append(a.Notes, s) }

// Limits returns the explicit limits or, for an unset axis, the extent of
// the finite data padded by 5%. A degenerate extent widens to one unit.
func (a *Axes) Limits() (x, y Range) {
	xs := Range{math.Inf(1), math.Inf(-1)}
	ys := xs
	grow := func(r *Range, v float64) {
		if finite(v) {
			r.Min = math.Min(r.Min, v)
			r.Max = math.Max(r.Max, v)
		}
	}
	for _, ar := range a.Arrows {
		grow(&xs, ar.X)
		grow(&ys, ar.Y)
	}
	for _, l := range a.Lines {
		for i := range l.X {
			if finite(l.X[i]) && finite(l.Y[i]) {
				grow(&xs, l.X[i])
				grow(&ys, l.Y[i])
			}
		}
	}
	for _, h := range a.HLines {
		grow(&ys, h.Y)
	}

	x, y = pad(xs), pad(ys)
	if a.XLim != nil {
		x = *a.XLim
	}
	if a.YLim != nil {
		y = *a.YLim
	}
	return x, y
}

func pad(r Range) Range {
	if r.Min > r.Max {
		return Range{-1, 1}
	}
	if r.Span() == 0 {
		return Range{r.Min - 1, r.Max + 1}
	}
	m := r.Span() * 0.05
	return Range{r.Min - m, r.Max + m}
}

// Segments splits l into runs of consecutive finite points. Runs with a
// single point are kept so isolated samples still show up as dots.
func (l Line) Segments() []Line {
	var out []Line
	start := -1
	flush := func(end int) {
		if start >= 0 {
			seg := l
			seg.X, seg.Y = l.X[start:end], l.Y[start:end]
			out = append(out, seg)
			start = -1
		}
	}
	for i := range l.X {
		if finite(l.X[i]) && finite(l.Y[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(l.X))
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
