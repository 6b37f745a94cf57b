// Package ivp solves first-order initial value problems in closed form.
//
// [Solve] follows a fixed sequence: find the general solution with one free
// constant, substitute the initial point, solve for the constant, substitute
// it back, then sample the result on a numeric grid.
package ivp

import (
	"fmt"
	"math"

	"github.com/san-kum/slopefield/internal/symbolic"
)

// Constant is the name of the free integration constant.
const Constant = "C1"

// ODE is d(Dep)/d(Indep) = RHS.
type ODE struct {
	Indep string
	Dep   string
	RHS   symbolic.Expr
}

// ParseODE builds an ODE from text and validates it.
func ParseODE(indep, dep, rhs string) (ODE, error) {
	e, err := symbolic.Parse(rhs)
	if err != nil {
		return ODE{}, fmt.Errorf("%w: %v", ErrInvalidODE, err)
	}
	ode := ODE{Indep: indep, Dep: dep, RHS: e}
	return ode, ode.Validate()
}

func (o ODE) Validate() error {
	if o.Indep == "" || o.Dep == "" || o.Indep == o.Dep {
		return fmt.Errorf("%w: variables %q and %q", ErrInvalidODE, o.Indep, o.Dep)
	}
	if o.Indep == Constant || o.Dep == Constant {
		return fmt.Errorf("%w: %s is reserved", ErrInvalidODE, Constant)
	}
	if o.RHS == nil {
		return fmt.Errorf("%w: missing right-hand side", ErrInvalidODE)
	}
	for _, name := range symbolic.FreeSymbols(o.RHS) {
		if name != o.Indep && name != o.Dep {
			return fmt.Errorf("%w: unknown symbol %s in %s", ErrInvalidODE, name, o.RHS)
		}
	}
	return nil
}

func (o ODE) String() string {
	return fmt.Sprintf("d%s/d%s = %s", o.Dep, o.Indep, o.RHS)
}

// Scalar returns the right-hand side as g(y, t). Points outside the domain
// of the expression evaluate to NaN.
func (o ODE) Scalar() (func(y, t float64) float64, error) {
	fn, err := symbolic.Compile(o.RHS, o.Dep, o.Indep)
	if err != nil {
		return nil, err
	}
	return func(y, t float64) float64 {
		v, err := fn(y, t)
		if err != nil {
			return math.NaN()
		}
		return v
	}, nil
}

// InitialCondition pins Dep(At) = Value.
type InitialCondition struct {
	At    symbolic.Expr
	Value symbolic.Expr
}

// IC builds an initial condition from exact rationals.
func IC(at, value *symbolic.Num) InitialCondition {
	return InitialCondition{At: at, Value: value}
}

func (ic InitialCondition) String() string {
	return fmt.Sprintf("(%s, %s)", ic.At, ic.Value)
}

// Solve returns the particular solution through ic.
func Solve(ode ODE, ic InitialCondition) (*ParticularSolution, error) {
	gen, err := Dsolve(ode)
	if err != nil {
		return nil, err
	}
	c, err := gen.SolveConstant(ic)
	if err != nil {
		return nil, err
	}
	return gen.Particular(c)
}
