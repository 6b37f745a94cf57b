package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/slopefield/internal/plot"
)

func fieldFigure() *plot.Figure {
	f := plot.NewFigure("dy/dt = y(y - 2)(y + 1)", 1, 1)
	a := f.Add("(d) (1 + x)dy - dx = 0  =>  dy/dx = 1/(1+x)")
	a.XLabel, a.YLabel = "t", "y"
	a.SetXLim(0, 2)
	a.SetYLim(-3, 4)
	for _, t := range []float64{0, 1, 2} {
		for _, y := range []float64{-2, 0, 2} {
			a.Quiver(plot.Arrow{X: t, Y: y, U: 1 / math.Sqrt2, V: 1 / math.Sqrt2})
		}
	}
	a.Quiver(plot.Arrow{X: 1, Y: 1, U: math.NaN(), V: math.NaN()})
	a.AxHLine(2, "y = 2 (unstable)", true)
	a.AxHLine(0, "y = 0 (stable)", false)
	a.Plot(plot.Line{Label: "y(0) = 0.5", X: []float64{0, 1, 2}, Y: []float64{0.5, 0.1, 0.01}})
	a.Plot(plot.Line{Label: "y(0) = 2.2", X: []float64{0, 0.2, 0.4, 2}, Y: []float64{2.2, 5, 1e7, math.NaN()}})
	return f
}

func TestFigureToSVG(t *testing.T) {
	svg := FigureToSVG(fieldFigure(), 480, 400)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatal("expected a complete SVG document")
	}
	if got := strings.Count(svg, `<line class="arrow"`); got != 9 {
		t.Errorf("expected 9 arrows, got %d", got)
	}
	if got := strings.Count(svg, `<path class="curve"`); got != 2 {
		t.Errorf("expected 2 curves, got %d", got)
	}
	if got := strings.Count(svg, `<line class="equilibrium"`); got != 2 {
		t.Errorf("expected 2 equilibrium lines, got %d", got)
	}
	if got := strings.Count(svg, `stroke-dasharray`); got != 1 {
		t.Errorf("expected 1 dashed line, got %d", got)
	}
	if strings.Contains(svg, "NaN") || strings.Contains(svg, "e+") {
		t.Error("non-finite or unclipped coordinates leaked into the SVG")
	}
	if !strings.Contains(svg, "=&gt;") {
		t.Error("titles should be escaped")
	}
}

func TestFigureToSVGLayout(t *testing.T) {
	f := plot.NewFigure("", 2, 3)
	for i := 0; i < 6; i++ {
		f.Add("").Plot(plot.Line{X: []float64{0, 1}, Y: []float64{0, 1}})
	}
	svg := FigureToSVG(f, 100, 80)

	if !strings.Contains(svg, `width="300" height="192"`) {
		t.Error("expected a 300x192 canvas")
	}
	if !strings.Contains(svg, `translate(200,112)`) {
		t.Error("expected the last panel at column 2, row 1")
	}
}

func TestWriteSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.svg")
	if err := WriteSVG(path, fieldFigure(), 480, 400); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("<?xml")) {
		t.Error("expected an SVG file")
	}
}

func TestWritePNGs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "png")
	f := fieldFigure()
	f.Add("(a) dx/dt = t³, x(1) = 2").Plot(plot.Line{Label: "a", X: []float64{0.1, 1, 3}, Y: []float64{1.75, 2, 22}})

	paths, err := WritePNGs(dir, f, 400, 300)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 files, got %d", len(paths))
	}
	if filepath.Base(paths[1]) != "02-a-dx-dt-t-x-1-2.png" {
		t.Errorf("unexpected file name %s", filepath.Base(paths[1]))
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Errorf("%s is not a PNG", p)
		}
	}
}

func TestClippedRuns(t *testing.T) {
	xr, yr := plot.Range{Min: 0, Max: 10}, plot.Range{Min: 0, Max: 10}
	l := plot.Line{
		X: []float64{1, 2, 3, 4, 5},
		Y: []float64{1, 20, 20, 2, math.NaN()},
	}

	runs := clippedRuns(l, xr, yr)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	in := func(r plot.Range, v float64) bool { return v >= r.Min-1e-9 && v <= r.Max+1e-9 }
	for _, r := range runs {
		for i := range r[0] {
			if !in(xr, r[0][i]) || !in(yr, r[1][i]) {
				t.Errorf("point (%f, %f) outside limits", r[0][i], r[1][i])
			}
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{"(a) dx/dt = t³, x(1) = 2", "a-dx-dt-t-x-1-2"},
		{"dy/dx = 1 - sin(y)", "dy-dx-1-sin-y"},
		{"", "panel"},
		{"???", "panel"},
	}
	for _, tt := range tests {
		if got := slug(tt.in); got != tt.expected {
			t.Errorf("slug(%q): got %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, fieldFigure()); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 1+3+4 {
		t.Fatalf("expected 8 records, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "panel,series,x,y" {
		t.Errorf("unexpected header %v", records[0])
	}
	if last := records[len(records)-1]; last[1] != "y(0) = 2.2" || last[3] != "NaN" {
		t.Errorf("expected NaN tail, got %v", last)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, fieldFigure()); err != nil {
		t.Fatalf("write: %v", err)
	}

	var data struct {
		Title  string
		Panels []struct {
			Arrows     int
			Equilibria []struct{ Value float64 }
			Curves     []struct {
				Label string
				Y     []*float64
			}
		}
	}
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(data.Panels) != 1 {
		t.Fatalf("expected 1 panel, got %d", len(data.Panels))
	}
	p := data.Panels[0]
	if p.Arrows != 9 {
		t.Errorf("expected 9 arrows, got %d", p.Arrows)
	}
	if len(p.Equilibria) != 2 {
		t.Errorf("expected 2 equilibria, got %d", len(p.Equilibria))
	}
	y := p.Curves[1].Y
	if y[len(y)-1] != nil {
		t.Error("NaN should encode as null")
	}
	if *y[0] != 2.2 {
		t.Errorf("got %f, expected 2.2", *y[0])
	}
}
