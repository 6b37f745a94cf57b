package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/slopefield/internal/plot"
)

// WriteCSV writes every curve of f in long form: one row per sample with
// the panel title, the curve label, x and y. Samples past a stopping point
// are written as NaN.
func WriteCSV(out io.Writer, f *plot.Figure) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"panel", "series", "x", "y"}); err != nil {
		return err
	}
	for _, a := range f.Axes {
		for _, l := range a.Lines {
			for i := range l.X {
				row := []string{
					a.Title,
					l.Label,
					strconv.FormatFloat(l.X[i], 'g', -1, 64),
					strconv.FormatFloat(l.Y[i], 'g', -1, 64),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}
	w.Flush()
	return w.Error()
}
