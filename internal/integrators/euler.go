package integrators

import "github.com/san-kum/slopefield/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f dynamo.System, t float64, x dynamo.State, dt float64) dynamo.State {
	dx := f(t, x)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
