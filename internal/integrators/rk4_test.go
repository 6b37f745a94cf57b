package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/slopefield/internal/dynamo"
)

func oscillator(t float64, x dynamo.State) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func oscillatorEnergy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(oscillator, float64(i)*dt, x, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	decay := func(t float64, x dynamo.State) dynamo.State { return dynamo.State{-x[0]} }
	integ := NewEuler()

	errAt := func(dt float64) float64 {
		x := dynamo.State{1.0}
		n := int(math.Round(1 / dt))
		for i := 0; i < n; i++ {
			x = integ.Step(decay, float64(i)*dt, x, dt)
		}
		return math.Abs(x[0] - math.Exp(-1))
	}

	coarse, fine := errAt(0.01), errAt(0.005)
	ratio := coarse / fine
	if ratio < 1.8 || ratio > 2.2 {
		t.Errorf("halving dt should halve the error: got ratio %f, expected ~2", ratio)
	}
}

func TestStepperTimeDependent(t *testing.T) {
	// dx/dt = 3t^2 has x(t) = t^3 + x0; RK4 is exact for cubic integrands.
	f := func(t float64, x dynamo.State) dynamo.State { return dynamo.State{3 * t * t} }
	integ := NewRK4()

	x := dynamo.State{0}
	dt := 0.1
	for i := 0; i < 20; i++ {
		x = integ.Step(f, float64(i)*dt, x, dt)
	}
	if math.Abs(x[0]-8) > 1e-9 {
		t.Errorf("got %f, expected 8", x[0])
	}
}
