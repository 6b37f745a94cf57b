package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidRange indicates a search interval that is empty or too coarse.
var ErrInvalidRange = errors.New("analysis: invalid search range")

// Stability of an equilibrium of dy/dt = g(y).
type Stability int

const (
	// Stable: nearby solutions move toward the equilibrium.
	Stable Stability = iota
	// Unstable: nearby solutions move away on both sides.
	Unstable
	// SemiStable: attracting on one side, repelling on the other.
	SemiStable
)

func (s Stability) String() string {
	switch s {
	case Stable:
		return "stable"
	case Unstable:
		return "unstable"
	case SemiStable:
		return "semi-stable"
	}
	return fmt.Sprintf("Stability(%d)", int(s))
}

type Equilibrium struct {
	Value     float64
	Stability Stability
}

const (
	bisectIters = 200
	tangentTol  = 1e-9
)

// FindEquilibria locates the zeros of g in [lo, hi] by sampling it at
// evenly spaced points. Sign changes are refined by bisection. Zeros where
// g touches the axis without crossing are found as local minima of |g|,
// refined by ternary search and accepted when |g| drops below 1e-9.
// The result is sorted by value.
func FindEquilibria(g func(float64) float64, lo, hi float64, samples int) ([]Equilibrium, error) {
	if samples < 3 || !(lo < hi) {
		return nil, fmt.Errorf("%w: [%v, %v] with %d samples", ErrInvalidRange, lo, hi, samples)
	}

	ys := floats.Span(make([]float64, samples), lo, hi)
	gs := make([]float64, samples)
	for i, y := range ys {
		gs[i] = g(y)
	}

	var roots []float64
	for i, v := range gs {
		if v == 0 {
			roots = append(roots, ys[i])
		}
	}
	for i := 0; i+1 < samples; i++ {
		a, b := gs[i], gs[i+1]
		if a == 0 || b == 0 || math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		if math.Signbit(a) != math.Signbit(b) {
			roots = append(roots, bisect(g, ys[i], ys[i+1]))
		}
	}
	for i := 1; i+1 < samples; i++ {
		l, m, r := math.Abs(gs[i-1]), math.Abs(gs[i]), math.Abs(gs[i+1])
		if m == 0 || !(m < l && m <= r) {
			continue
		}
		if math.Signbit(gs[i-1]) != math.Signbit(gs[i]) || math.Signbit(gs[i]) != math.Signbit(gs[i+1]) {
			continue
		}
		if y, ok := tangentZero(g, ys[i-1], ys[i+1]); ok {
			roots = append(roots, y)
		}
	}

	step := (hi - lo) / float64(samples-1)
	roots = dedupe(roots, step*1e-3)

	eqs := make([]Equilibrium, len(roots))
	for i, y := range roots {
		eqs[i] = Equilibrium{Value: y, Stability: stability(g, y, step/4)}
	}
	return eqs, nil
}

func bisect(g func(float64) float64, a, b float64) float64 {
	ga := g(a)
	for i := 0; i < bisectIters; i++ {
		m := a + (b-a)/2
		if m == a || m == b {
			break
		}
		gm := g(m)
		if gm == 0 {
			return m
		}
		if math.Signbit(gm) == math.Signbit(ga) {
			a, ga = m, gm
		} else {
			b = m
		}
	}
	return a + (b-a)/2
}

func tangentZero(g func(float64) float64, a, b float64) (float64, bool) {
	abs := func(y float64) float64 { return math.Abs(g(y)) }
	for i := 0; i < bisectIters && b-a > 1e-15*(1+math.Abs(a)); i++ {
		m1 := a + (b-a)/3
		m2 := b - (b-a)/3
		if abs(m1) < abs(m2) {
			b = m2
		} else {
			a = m1
		}
	}
	y := a + (b-a)/2
	return y, abs(y) < tangentTol
}

func dedupe(roots []float64, tol float64) []float64 {
	if len(roots) == 0 {
		return nil
	}
	sort.Float64s(roots)
	out := roots[:1]
	for _, y := range roots[1:] {
		if y-out[len(out)-1] > tol {
			out = append(out, y)
		}
	}
	return out
}

func stability(g func(float64) float64, y, delta float64) Stability {
	below, above := g(y-delta), g(y+delta)
	switch {
	case below > 0 && above < 0:
		return Stable
	case below < 0 && above > 0:
		return Unstable
	}
	return SemiStable
}
