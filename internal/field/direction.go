// Package field builds direction fields: grids of unit-length arrows that
// show which way a differential equation pushes each (t, y) point.
package field

import (
	"math"

	"github.com/san-kum/slopefield/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// DirectionField holds normalized components sampled on a Mesh. U and V have
// the mesh's shape. A sample whose raw vector is (0, 0) normalizes to NaN.
type DirectionField struct {
	Mesh *Mesh
	U, V *mat.Dense
}

// Generate samples f on an nt x ny mesh over b and normalizes every arrow to
// unit length.
func Generate(b dynamo.Bounds, nt, ny int, f dynamo.Planar) (*DirectionField, error) {
	mesh, err := NewMesh(b, nt, ny)
	if err != nil {
		return nil, err
	}

	rows, cols := mesh.Dims()
	df := &DirectionField{
		Mesh: mesh,
		U:    mat.NewDense(rows, cols, nil),
		V:    mat.NewDense(rows, cols, nil),
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			u, v := Direction(f, mesh.T.At(i, j), mesh.Y.At(i, j))
			df.U.Set(i, j, u)
			df.V.Set(i, j, v)
		}
	}
	return df, nil
}

// Direction evaluates f at (t, y) and divides by the Euclidean magnitude.
// There is no zero guard: a (0, 0) sample yields NaN components.
func Direction(f dynamo.Planar, t, y float64) (float64, float64) {
	dt, dy := f(t, y)
	n := math.Hypot(dt, dy)
	return dt / n, dy / n
}

// Arrow is one finite sample of a direction field.
type Arrow struct {
	T, Y float64
	U, V float64
}

// Arrows returns the finite samples in row-major order. Degenerate samples
// are skipped.
func (d *DirectionField) Arrows() []Arrow {
	rows, cols := d.Mesh.Dims()
	out := make([]Arrow, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			u, v := d.U.At(i, j), d.V.At(i, j)
			if !finite(u) || !finite(v) {
				continue
			}
			t, y := d.Mesh.At(i, j)
			out = append(out, Arrow{T: t, Y: y, U: u, V: v})
		}
	}
	return out
}

// Degenerate lists the (row, col) indices whose normalized vector is not
// finite.
func (d *DirectionField) Degenerate() [][2]int {
	var out [][2]int
	rows, cols := d.Mesh.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if !finite(d.U.At(i, j)) || !finite(d.V.At(i, j)) {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
