// Package integrators advances ODE solutions along a time grid.
//
// [Solve] plays the role of odeint: given a right-hand side, an initial
// value and a strictly monotonic time grid it returns one value per grid
// point. Numeric trouble (blow-up, step-size underflow, an exhausted step
// budget) is never fatal. It stops the integration, fills the remaining
// samples with NaN and is reported as a [Warning].
package integrators

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/san-kum/slopefield/internal/dynamo"
)

// Options configures a single Solve call.
type Options struct {
	Method      string
	Tolerance   float64
	InitialStep float64
	MinStep     float64
	MaxStep     float64
	MaxSteps    int
	// Blowup is the magnitude beyond which the solution counts as diverged.
	Blowup float64
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Method:    DefaultMethod,
		Tolerance: 1e-8,
		MinStep:   1e-14,
		MaxStep:   0.05,
		MaxSteps:  200000,
		Blowup:    1e6,
		Logger:    slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

// Quiet returns a copy of o whose warnings are recorded on the Solution but
// not logged. Use it only at call sites expected to diverge.
func (o Options) Quiet() Options {
	o.Logger = slog.New(slog.DiscardHandler)
	return o
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Method == "" {
		o.Method = d.Method
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.MinStep <= 0 {
		o.MinStep = d.MinStep
	}
	if o.MaxStep <= 0 {
		o.MaxStep = d.MaxStep
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = d.MaxSteps
	}
	if o.Blowup <= 0 {
		o.Blowup = d.Blowup
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}

// Warning records why an integration stopped early.
type Warning struct {
	Step int
	Time float64
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("t=%.6g step %d: %v", w.Time, w.Step, w.Err)
}

type Stats struct {
	Steps       int
	Rejected    int
	Evaluations int
}

// Solution holds one state per requested time. Samples past a stopping
// point are NaN.
type Solution struct {
	Times    []float64
	States   []dynamo.State
	Warnings []Warning
	Stats    Stats
}

// Component returns the i-th state component across all samples.
func (s *Solution) Component(i int) []float64 {
	out := make([]float64, len(s.States))
	for k, st := range s.States {
		if i < len(st) {
			out[k] = st[i]
		} else {
			out[k] = math.NaN()
		}
	}
	return out
}

// Values returns the first component; for scalar problems, the solution.
func (s *Solution) Values() []float64 {
	return s.Component(0)
}

// Diverged reports whether integration stopped before the end of the grid.
func (s *Solution) Diverged() bool {
	return len(s.Warnings) > 0
}

// Solve integrates dy/dt = g(y, t) with y(times[0]) = y0.
func Solve(g dynamo.Scalar, y0 float64, times []float64, opts Options) (*Solution, error) {
	return SolveSystem(g.System(), dynamo.State{y0}, times, opts)
}

// SolveSystem integrates dY/dt = f(t, Y) with Y(times[0]) = y0.
func SolveSystem(f dynamo.System, y0 dynamo.State, times []float64, opts Options) (*Solution, error) {
	if err := checkGrid(times); err != nil {
		return nil, err
	}
	if len(y0) == 0 {
		return nil, fmt.Errorf("%w: empty initial state", dynamo.ErrDimensionMismatch)
	}
	if !y0.IsValid() {
		return nil, dynamo.ErrInvalidState
	}

	opts = opts.withDefaults()
	stepper, err := New(opts.Method)
	if err != nil {
		return nil, err
	}

	sol := &Solution{
		Times:  append([]float64(nil), times...),
		States: make([]dynamo.State, len(times)),
	}
	counted := func(t float64, y dynamo.State) dynamo.State {
		sol.Stats.Evaluations++
		return f(t, y)
	}
	if got := len(counted(times[0], y0)); got != len(y0) {
		return nil, fmt.Errorf("%w: state %d, derivative %d", dynamo.ErrDimensionMismatch, len(y0), got)
	}

	r := &run{f: counted, stepper: stepper, opts: opts, sol: sol}
	r.integrate(y0.Clone())
	return sol, nil
}

func checkGrid(times []float64) error {
	if len(times) == 0 {
		return fmt.Errorf("%w: empty time grid", dynamo.ErrInvalidGrid)
	}
	if len(times) == 1 {
		return nil
	}
	dir := math.Copysign(1, times[1]-times[0])
	for i := 1; i < len(times); i++ {
		d := times[i] - times[i-1]
		if d == 0 || math.IsNaN(d) || math.Copysign(1, d) != dir {
			return fmt.Errorf("%w: time grid not strictly monotonic at index %d", dynamo.ErrInvalidGrid, i)
		}
	}
	return nil
}

type run struct {
	f       dynamo.System
	stepper Stepper
	opts    Options
	sol     *Solution
}

func (r *run) integrate(y dynamo.State) {
	times := r.sol.Times
	r.sol.States[0] = y.Clone()
	if len(times) == 1 {
		return
	}

	dir := math.Copysign(1, times[len(times)-1]-times[0])
	h := r.opts.InitialStep
	if h <= 0 {
		h = math.Min(math.Abs(times[1]-times[0]), r.opts.MaxStep)
	}
	t := times[0]

	for k := 1; k < len(times); k++ {
		var err error
		if adaptive, ok := r.stepper.(AdaptiveStepper); ok {
			y, h, err = r.advanceAdaptive(adaptive, t, times[k], y, h, dir)
		} else {
			y, err = r.advanceFixed(t, times[k], y)
		}
		if err != nil {
			r.stop(k, err)
			return
		}
		t = times[k]
		r.sol.States[k] = y.Clone()
	}
}

func (r *run) advanceAdaptive(s AdaptiveStepper, t, target float64, y dynamo.State, h, dir float64) (dynamo.State, float64, error) {
	for dir*(target-t) > 0 {
		if r.sol.Stats.Steps+r.sol.Stats.Rejected >= r.opts.MaxSteps {
			return y, h, &dynamo.StepError{Step: r.sol.Stats.Steps, Time: t, State: y, Wrapped: dynamo.ErrTooManySteps}
		}

		remaining := math.Abs(target - t)
		size := math.Min(math.Min(h, r.opts.MaxStep), remaining)
		last := size == remaining
		if !last && size < r.opts.MinStep {
			return y, h, &dynamo.StepError{Step: r.sol.Stats.Steps, Time: t, State: y, Wrapped: dynamo.ErrStepTooSmall}
		}

		yNew, hNext, ratio := s.StepAdaptive(r.f, t, y, dir*size, r.opts.Tolerance)
		if ratio > 1 || !yNew.IsValid() {
			r.sol.Stats.Rejected++
			h = math.Abs(hNext)
			if !yNew.IsValid() || h >= size {
				h = size / 4
			}
			if h < r.opts.MinStep {
				return y, h, &dynamo.StepError{Step: r.sol.Stats.Steps, Time: t, State: y, Wrapped: dynamo.ErrStepTooSmall}
			}
			continue
		}

		r.sol.Stats.Steps++
		if last {
			t = target
		} else {
			t += dir * size
		}
		y = yNew
		h = math.Abs(hNext)

		if y.MaxAbs() > r.opts.Blowup {
			return y, h, &dynamo.StepError{Step: r.sol.Stats.Steps, Time: t, State: y, Wrapped: dynamo.ErrUnstable}
		}
	}
	return y, h, nil
}

func (r *run) advanceFixed(t, target float64, y dynamo.State) (dynamo.State, error) {
	n := int(math.Ceil(math.Abs(target-t) / r.opts.MaxStep))
	if n < 1 {
		n = 1
	}
	h := (target - t) / float64(n)
	for i := 0; i < n; i++ {
		if r.sol.Stats.Steps >= r.opts.MaxSteps {
			return y, &dynamo.StepError{Step: r.sol.Stats.Steps, Time: t, State: y, Wrapped: dynamo.ErrTooManySteps}
		}
		y = r.stepper.Step(r.f, t, y, h)
		t += h
		r.sol.Stats.Steps++
		if !y.IsValid() {
			return y, &dynamo.StepError{Step: r.sol.Stats.Steps, Time: t, State: y, Wrapped: dynamo.ErrInvalidState}
		}
		if y.MaxAbs() > r.opts.Blowup {
			return y, &dynamo.StepError{Step: r.sol.Stats.Steps, Time: t, State: y, Wrapped: dynamo.ErrUnstable}
		}
	}
	return y, nil
}

// stop fills samples k.. with NaN and records the warning.
func (r *run) stop(k int, err error) {
	dim := len(r.sol.States[0])
	for i := k; i < len(r.sol.States); i++ {
		nan := make(dynamo.State, dim)
		for j := range nan {
			nan[j] = math.NaN()
		}
		r.sol.States[i] = nan
	}

	w := Warning{Step: r.sol.Stats.Steps, Time: r.sol.Times[k-1], Err: err}
	var se *dynamo.StepError
	if errors.As(err, &se) {
		w.Time = se.Time
	}
	r.sol.Warnings = append(r.sol.Warnings, w)
	r.opts.Logger.Warn("integration stopped early",
		"t", w.Time,
		"steps", r.sol.Stats.Steps,
		"rejected", r.sol.Stats.Rejected,
		"err", err,
	)
}
