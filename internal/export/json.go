package export

import (
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/slopefield/internal/plot"
)

// Float encodes non-finite values as null.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

type ExportData struct {
	Title  string      `json:"title,omitempty"`
	Panels []PanelData `json:"panels"`
}

type PanelData struct {
	Title      string       `json:"title"`
	XLabel     string       `json:"xlabel,omitempty"`
	YLabel     string       `json:"ylabel,omitempty"`
	Curves     []CurveData  `json:"curves"`
	Equilibria []MarkerData `json:"equilibria,omitempty"`
	Arrows     int          `json:"arrows,omitempty"`
	Notes      []string     `json:"notes,omitempty"`
}

type CurveData struct {
	Label string  `json:"label"`
	X     []Float `json:"x"`
	Y     []Float `json:"y"`
}

type MarkerData struct {
	Value Float  `json:"value"`
	Label string `json:"label"`
}

func NewExportData(f *plot.Figure) ExportData {
	data := ExportData{Title: f.Title, Panels: make([]PanelData, 0, len(f.Axes))}
	for _, a := range f.Axes {
		p := PanelData{
			Title:  a.Title,
			XLabel: a.XLabel,
			YLabel: a.YLabel,
			Curves: make([]CurveData, 0, len(a.Lines)),
			Arrows: len(a.Arrows),
			Notes:  a.Notes,
		}
		for _, l := range a.Lines {
			p.Curves = append(p.Curves, CurveData{Label: l.Label, X: floats(l.X), Y: floats(l.Y)})
		}
		for _, h := range a.HLines {
			p.Equilibria = append(p.Equilibria, MarkerData{Value: Float(h.Y), Label: h.Label})
		}
		data.Panels = append(data.Panels, p)
	}
	return data
}

// WriteJSON writes the curves of f as indented JSON.
func WriteJSON(w io.Writer, f *plot.Figure) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(f))
}

func floats(vs []float64) []Float {
	out := make([]Float, len(vs))
	for i, v := range vs {
		out[i] = Float(v)
	}
	return out
}
