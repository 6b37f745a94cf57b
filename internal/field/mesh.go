package field

import (
	"fmt"

	"github.com/san-kum/slopefield/internal/dynamo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linspace returns n evenly spaced samples over [start, end], both ends
// included. A single sample sits at start.
func Linspace(start, end float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	return floats.Span(out, start, end)
}

// Mesh is a rectangular grid of (t, y) samples. Rows index y and columns
// index t, the same layout numpy's meshgrid produces.
type Mesh struct {
	Ts, Ys []float64
	T, Y   *mat.Dense
}

// NewMesh builds an nt x ny mesh over b.
func NewMesh(b dynamo.Bounds, nt, ny int) (*Mesh, error) {
	if nt < 1 || ny < 1 {
		return nil, fmt.Errorf("%w: resolution %dx%d", dynamo.ErrInvalidGrid, nt, ny)
	}
	if !b.Valid() {
		return nil, fmt.Errorf("%w: bounds %+v", dynamo.ErrInvalidGrid, b)
	}

	m := &Mesh{
		Ts: Linspace(b.TMin, b.TMax, nt),
		Ys: Linspace(b.YMin, b.YMax, ny),
		T:  mat.NewDense(ny, nt, nil),
		Y:  mat.NewDense(ny, nt, nil),
	}
	for i, y := range m.Ys {
		for j, t := range m.Ts {
			m.T.Set(i, j, t)
			m.Y.Set(i, j, y)
		}
	}
	return m, nil
}

// Dims returns (rows, cols) = (ny, nt).
func (m *Mesh) Dims() (int, int) {
	return m.T.Dims()
}

// At returns the mesh point at row i, column j.
func (m *Mesh) At(i, j int) (float64, float64) {
	return m.T.At(i, j), m.Y.At(i, j)
}
