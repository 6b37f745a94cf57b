package ivp

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/slopefield/internal/symbolic"
)

// GeneralSolution is Dep = RHS with one free constant.
type GeneralSolution struct {
	ODE      ODE
	RHS      symbolic.Expr
	Constant string
}

// NewGeneralSolution wraps a known family of solutions.
func NewGeneralSolution(ode ODE, rhs symbolic.Expr, constant string) *GeneralSolution {
	return &GeneralSolution{ODE: ode, RHS: rhs, Constant: constant}
}

// Dsolve finds the general solution of ode. Two classes are solved:
//
//   - right-hand side free of the dependent variable: y = ∫f dx + C1
//   - linear in it, y' = a(x)*y + b(x): y = e^A (∫b e^-A dx + C1), A = ∫a dx
func Dsolve(ode ODE) (*GeneralSolution, error) {
	if err := ode.Validate(); err != nil {
		return nil, err
	}
	x, y := ode.Indep, ode.Dep
	c := symbolic.S(Constant)

	if !symbolic.Has(ode.RHS, y) {
		F, err := symbolic.Integrate(ode.RHS, x)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoClosedForm, err)
		}
		return NewGeneralSolution(ode, symbolic.AddOf(F, c), Constant), nil
	}

	a := ode.RHS.Diff(y)
	if symbolic.Has(a, y) {
		return nil, fmt.Errorf("%w: %s is not linear in %s", ErrNoClosedForm, ode, y)
	}
	b := ode.RHS.Sub(y, symbolic.N(0))

	A, err := symbolic.Integrate(a, x)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoClosedForm, err)
	}
	I, err := symbolic.Integrate(symbolic.MulOf(b, symbolic.ExpOf(symbolic.Neg(A))), x)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoClosedForm, err)
	}
	rhs := symbolic.Expand(symbolic.MulOf(symbolic.ExpOf(A), symbolic.AddOf(I, c)))
	return NewGeneralSolution(ode, rhs, Constant), nil
}

func (g *GeneralSolution) String() string {
	return fmt.Sprintf("%s(%s) = %s", g.ODE.Dep, g.ODE.Indep, g.RHS)
}

// AtInitial substitutes the initial point into the general solution. The
// result still contains the constant.
func (g *GeneralSolution) AtInitial(ic InitialCondition) symbolic.Expr {
	return g.RHS.Sub(g.ODE.Indep, ic.At)
}

// SolveConstant solves AtInitial(ic) = ic.Value for the constant. Linear
// occurrences are solved exactly; quadratic ones through the discriminant.
// Zero solutions yield ErrNoConstant and several yield an *AmbiguityError.
// An initial point where the solution is undefined yields symbolic.ErrDomain.
func (g *GeneralSolution) SolveConstant(ic InitialCondition) (symbolic.Expr, error) {
	name := g.Constant
	c := symbolic.S(name)
	zero := symbolic.N(0)
	eq := symbolic.Minus(g.AtInitial(ic), ic.Value)

	d1 := eq.Diff(name)
	if !symbolic.Has(d1, name) {
		slope, err := symbolic.Float(d1, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot isolate %s in %s = %s", ErrNoClosedForm, name, g.AtInitial(ic), ic.Value)
		}
		if slope == 0 {
			residual, err := symbolic.Float(eq, nil)
			if err == nil && math.Abs(residual) <= 1e-12 {
				return nil, &AmbiguityError{Constant: name}
			}
			return nil, fmt.Errorf("%w: %s = %s", ErrNoConstant, g.AtInitial(ic), ic.Value)
		}
		value := symbolic.Neg(symbolic.Div(eq.Sub(name, zero), d1))
		if _, err := symbolic.Float(value, nil); errors.Is(err, symbolic.ErrDomain) {
			return nil, fmt.Errorf("initial condition %s%s: %w", g.ODE.Dep, ic, err)
		}
		return value, nil
	}

	d2 := d1.Diff(name)
	if symbolic.Has(d2, name) {
		return nil, fmt.Errorf("%w: cannot isolate %s in %s", ErrNoClosedForm, c, eq)
	}
	qa, errA := symbolic.Float(d2, nil)
	qb, errB := symbolic.Float(d1.Sub(name, zero), nil)
	qc, errC := symbolic.Float(eq.Sub(name, zero), nil)
	for _, err := range []error{errA, errB, errC} {
		if errors.Is(err, symbolic.ErrDomain) {
			return nil, fmt.Errorf("initial condition %s%s: %w", g.ODE.Dep, ic, err)
		}
	}
	if errA != nil || errB != nil || errC != nil {
		return nil, fmt.Errorf("%w: non-numeric coefficients in %s", ErrNoClosedForm, eq)
	}
	qa /= 2
	if qa == 0 {
		return nil, fmt.Errorf("%w: cannot isolate %s in %s", ErrNoClosedForm, c, eq)
	}

	disc := qb*qb - 4*qa*qc
	scale := math.Max(qb*qb, math.Abs(4*qa*qc))
	switch {
	case math.Abs(disc) <= 1e-12*scale:
		return symbolic.NFloat(-qb / (2 * qa)), nil
	case disc < 0:
		return nil, fmt.Errorf("%w: %s = 0 has no real root", ErrNoConstant, eq)
	}
	sq := math.Sqrt(disc)
	return nil, &AmbiguityError{
		Constant: name,
		Candidates: []symbolic.Expr{
			symbolic.NFloat((-qb - sq) / (2 * qa)),
			symbolic.NFloat((-qb + sq) / (2 * qa)),
		},
	}
}

// Particular substitutes value for the constant. It may be called any
// number of times on the same general solution.
func (g *GeneralSolution) Particular(value symbolic.Expr) (*ParticularSolution, error) {
	rhs := g.RHS.Sub(g.Constant, value)
	fn, err := symbolic.Compile(rhs, g.ODE.Indep)
	if err != nil {
		return nil, err
	}
	return &ParticularSolution{ODE: g.ODE, RHS: rhs, Constant: value, fn: fn}, nil
}

// WithConstant fixes the constant without an initial condition.
func (g *GeneralSolution) WithConstant(v int64) (*ParticularSolution, error) {
	return g.Particular(symbolic.N(v))
}

// ParticularSolution is Dep = RHS with the constant resolved.
type ParticularSolution struct {
	ODE      ODE
	RHS      symbolic.Expr
	Constant symbolic.Expr
	fn       symbolic.Compiled
}

func (p *ParticularSolution) String() string {
	return fmt.Sprintf("%s(%s) = %s", p.ODE.Dep, p.ODE.Indep, p.RHS)
}

// At evaluates the solution at one point.
func (p *ParticularSolution) At(x float64) (float64, error) {
	return p.fn(x)
}

// Sample evaluates the solution at each grid point. A point outside the
// domain aborts sampling with an error naming that point.
func (p *ParticularSolution) Sample(grid []float64) ([]float64, error) {
	out := make([]float64, len(grid))
	for i, x := range grid {
		v, err := p.fn(x)
		if err != nil {
			return nil, fmt.Errorf("sampling %s at %s=%g: %w", p.RHS, p.ODE.Indep, x, err)
		}
		out[i] = v
	}
	return out, nil
}
