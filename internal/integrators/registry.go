package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/slopefield/internal/dynamo"
)

// Stepper advances a state by one step of size dt.
type Stepper interface {
	Step(f dynamo.System, t float64, x dynamo.State, dt float64) dynamo.State
}

// AdaptiveStepper also estimates its local error.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(f dynamo.System, t float64, x dynamo.State, dt, tol float64) (dynamo.State, float64, float64)
}

// DefaultMethod is the adaptive Dormand-Prince scheme.
const DefaultMethod = "dopri5"

var methods = map[string]func() Stepper{
	"dopri5": func() Stepper { return NewRK45() },
	"rk45":   func() Stepper { return NewRK45() },
	"rk4":    func() Stepper { return NewRK4() },
	"euler":  func() Stepper { return NewEuler() },
}

// New returns a fresh stepper for the named method.
func New(name string) (Stepper, error) {
	if name == "" {
		name = DefaultMethod
	}
	fn, ok := methods[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Methods())
	}
	return fn(), nil
}

// Methods lists registered method names in sorted order.
func Methods() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
