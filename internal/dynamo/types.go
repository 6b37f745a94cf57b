package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// MaxAbs returns the largest absolute component.
func (s State) MaxAbs() float64 {
	m := 0.0
	for _, v := range s {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// Scalar is the right-hand side of dy/dt = g(y, t). The argument order
// follows the usual odeint convention.
type Scalar func(y, t float64) float64

// System adapts g to a one-dimensional System.
func (g Scalar) System() System {
	return func(t float64, y State) State {
		return State{g(y[0], t)}
	}
}

// Planar returns the direction field (1, g(y, t)): time flows forward at
// unit speed along the horizontal axis.
func (g Scalar) Planar() Planar {
	return func(t, y float64) (float64, float64) {
		return 1, g(y, t)
	}
}

// Autonomous drops the time argument. Only meaningful when g ignores t.
func (g Scalar) Autonomous() func(float64) float64 {
	return func(y float64) float64 { return g(y, 0) }
}

// Planar maps a point (t, y) to a raw direction (dt, dy).
type Planar func(t, y float64) (float64, float64)

// System is the right-hand side of a vector ODE dY/dt = f(t, Y).
type System func(t float64, y State) State

// Bounds is a rectangle in the (t, y) plane.
type Bounds struct {
	TMin, TMax float64
	YMin, YMax float64
}

func (b Bounds) Valid() bool {
	return b.TMin <= b.TMax && b.YMin <= b.YMax &&
		!math.IsNaN(b.TMin) && !math.IsNaN(b.TMax) &&
		!math.IsNaN(b.YMin) && !math.IsNaN(b.YMax)
}

// Contains reports whether (t, y) lies inside b, edges included.
func (b Bounds) Contains(t, y float64) bool {
	return t >= b.TMin && t <= b.TMax && y >= b.YMin && y <= b.YMax
}
