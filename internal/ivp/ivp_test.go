package ivp

import (
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/san-kum/slopefield/internal/symbolic"
)

func mustODE(t *testing.T, indep, dep, rhs string) ODE {
	t.Helper()
	ode, err := ParseODE(indep, dep, rhs)
	if err != nil {
		t.Fatalf("ParseODE(%q): %v", rhs, err)
	}
	return ode
}

func TestSolveCubicForcing(t *testing.T) {
	ode := mustODE(t, "t", "x", "t^3")

	gen, err := Dsolve(ode)
	if err != nil {
		t.Fatal(err)
	}
	if !gen.RHS.Equal(symbolic.MustParse("t^4/4 + C1")) {
		t.Errorf("general solution got %s, expected t^4/4 + C1", gen.RHS)
	}

	ic := IC(symbolic.N(1), symbolic.N(2))
	c, err := gen.SolveConstant(ic)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Equal(symbolic.F(7, 4)) {
		t.Errorf("constant got %s, expected 7/4", c)
	}

	p, err := gen.Particular(c)
	if err != nil {
		t.Fatal(err)
	}
	if !p.RHS.Equal(symbolic.MustParse("t^4/4 + 7/4")) {
		t.Errorf("particular solution got %s", p.RHS)
	}

	v, err := p.At(2)
	if err != nil {
		t.Fatal(err)
	}
	if v != 5.75 {
		t.Errorf("x(2) got %f, expected 5.75", v)
	}
}

func TestInitialConditionRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		indep  string
		dep    string
		rhs    string
		at     string
		value  string
		exact  bool
		sample float64
		want   float64
	}{
		{"cubic forcing", "t", "x", "t^3", "1", "2", true, 2, 5.75},
		{"sine", "x", "y", "sin(x)", "pi/2", "3", true, math.Pi, 4},
		{"power plus reciprocal", "t", "x", "2*t + 1/t", "1", "2", true, 2, 5 + math.Ln2},
		{"x log x", "x", "y", "x*ln(x)", "1", "3", true, 2, 2*math.Ln2 - 1 + 3.25},
		{"growth", "x", "y", "y", "0", "1", false, 1, math.E},
		{"decay", "x", "y", "-2*y", "0", "3", false, 0.5, 3 / math.E},
		{"forced linear", "x", "y", "y + x", "0", "0", false, 1, math.E - 2},
		{"irrational initial value", "x", "y", "cos(x)", "0", "0.5", true, math.Pi / 2, 1.5},
		{"negated sum", "x", "y", "x*(x - (x^2 + 1)) + x*(x - x^2 + 1)", "0", "0", true, 1, 1.0 / 6},
		{"log of shifted argument", "x", "y", "ln(x + 1)", "0", "0", true, 1, 2*math.Ln2 - 1},
		{"exp substitution", "x", "y", "(y + 1)*x", "0", "0", true, 1, math.Exp(0.5) - 1},
		{"sine forcing", "x", "y", "-y + sin(x)", "0", "0", true, 1, (math.Sin(1)-math.Cos(1))/2 + math.Exp(-1)/2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ode := mustODE(t, tt.indep, tt.dep, tt.rhs)
			ic := InitialCondition{At: symbolic.MustParse(tt.at), Value: symbolic.MustParse(tt.value)}

			p, err := Solve(ode, ic)
			if err != nil {
				t.Fatal(err)
			}

			at := p.RHS.Sub(ode.Indep, ic.At)
			if tt.exact && !at.Equal(ic.Value) {
				t.Errorf("symbolic check: solution at %s is %s, expected %s", ic.At, at, ic.Value)
			}

			x0, _ := symbolic.Float(ic.At, nil)
			y0, _ := symbolic.Float(ic.Value, nil)
			got, err := p.At(x0)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-y0) > 1e-12 {
				t.Errorf("numeric check: got %f, expected %f", got, y0)
			}

			v, err := p.At(tt.sample)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(v-tt.want) > 1e-9 {
				t.Errorf("%s(%v) got %.12f, expected %.12f", ode.Dep, tt.sample, v, tt.want)
			}
		})
	}
}

func TestSolutionSurvivesReparse(t *testing.T) {
	tests := []struct {
		rhs  string
		at   float64
		want float64
	}{
		{"x*(x - (x^2 + 1)) + x*(x - x^2 + 1)", 2, -8.0 / 3},
		{"ln(x + 1)", 1, 2*math.Ln2 - 1},
		{"-y + sin(x)", 2, (math.Sin(2)-math.Cos(2))/2 + math.Exp(-2)/2},
	}
	for _, tt := range tests {
		t.Run(tt.rhs, func(t *testing.T) {
			p, err := Solve(mustODE(t, "x", "y", tt.rhs), IC(symbolic.N(0), symbolic.N(0)))
			if err != nil {
				t.Fatal(err)
			}
			again, err := symbolic.Parse(p.RHS.String())
			if err != nil {
				t.Fatalf("re-parse %q: %v", p.RHS, err)
			}
			for _, e := range []symbolic.Expr{p.RHS, again} {
				v, err := symbolic.Float(e, map[string]float64{"x": tt.at})
				if err != nil {
					t.Fatal(err)
				}
				if math.Abs(v-tt.want) > 1e-9 {
					t.Errorf("%s at x=%v got %.12f, expected %.12f", e, tt.at, v, tt.want)
				}
			}
		})
	}
}

func TestSolutionSatisfiesODE(t *testing.T) {
	for _, rhs := range []string{"x*exp(x)", "1/(1 + x)", "y + x", "3*y", "x^2*y", "cos(x)*y", "(y + 1)*x", "-y + sin(x)", "2*y + cos(3*x)"} {
		t.Run(rhs, func(t *testing.T) {
			ode := mustODE(t, "x", "y", rhs)
			gen, err := Dsolve(ode)
			if err != nil {
				t.Fatal(err)
			}
			p, err := gen.WithConstant(2)
			if err != nil {
				t.Fatal(err)
			}

			residual := symbolic.Minus(p.RHS.Diff("x"), ode.RHS.Sub("y", p.RHS))
			for _, x := range []float64{0.1, 0.4, 1.1} {
				r, err := symbolic.Float(residual, map[string]float64{"x": x})
				if err != nil {
					t.Fatal(err)
				}
				if math.Abs(r) > 1e-9 {
					t.Errorf("residual at x=%v got %e for %s", x, r, p)
				}
			}
		})
	}
}

func TestSampleMatchesQuadrature(t *testing.T) {
	tests := []struct {
		rhs    string
		lo, hi float64
		f      func(float64) float64
	}{
		{"x*exp(x)", -1, 2, func(x float64) float64 { return x * math.Exp(x) }},
		{"1/(1 + x)", -0.9, 3, func(x float64) float64 { return 1 / (1 + x) }},
		{"x*ln(x)", 0.1, 3, func(x float64) float64 { return x * math.Log(x) }},
	}

	for _, tt := range tests {
		t.Run(tt.rhs, func(t *testing.T) {
			gen, err := Dsolve(mustODE(t, "x", "y", tt.rhs))
			if err != nil {
				t.Fatal(err)
			}
			p, err := gen.WithConstant(0)
			if err != nil {
				t.Fatal(err)
			}

			grid := floats.Span(make([]float64, 100), tt.lo, tt.hi)
			ys, err := p.Sample(grid)
			if err != nil {
				t.Fatal(err)
			}
			if len(ys) != len(grid) {
				t.Fatalf("got %d samples, expected %d", len(ys), len(grid))
			}

			got := ys[len(ys)-1] - ys[0]
			want := quad.Fixed(tt.f, tt.lo, tt.hi, 40, nil, 0)
			if math.Abs(got-want) > 1e-6 {
				t.Errorf("F(b)-F(a) got %f, quadrature %f", got, want)
			}
		})
	}
}

func TestGeneralSolutionReuse(t *testing.T) {
	gen, err := Dsolve(mustODE(t, "x", "y", "sin(x)"))
	if err != nil {
		t.Fatal(err)
	}
	for _, y0 := range []int64{-1, 0, 3} {
		c, err := gen.SolveConstant(IC(symbolic.N(0), symbolic.N(y0)))
		if err != nil {
			t.Fatal(err)
		}
		p, err := gen.Particular(c)
		if err != nil {
			t.Fatal(err)
		}
		if v, _ := p.At(0); v != float64(y0) {
			t.Errorf("y(0) got %f, expected %d", v, y0)
		}
	}
}

func TestSolveConstantAmbiguity(t *testing.T) {
	ode := mustODE(t, "x", "y", "2*(x + y)")
	square := NewGeneralSolution(ode, symbolic.MustParse("(x + C1)^2"), Constant)

	_, err := square.SolveConstant(IC(symbolic.N(0), symbolic.N(4)))
	var amb *AmbiguityError
	if !errors.As(err, &amb) {
		t.Fatalf("got %v, expected *AmbiguityError", err)
	}
	if !errors.Is(err, ErrAmbiguousConstant) {
		t.Error("AmbiguityError should match ErrAmbiguousConstant")
	}
	if len(amb.Candidates) != 2 {
		t.Fatalf("got %d candidates, expected 2", len(amb.Candidates))
	}
	lo, _ := symbolic.Float(amb.Candidates[0], nil)
	hi, _ := symbolic.Float(amb.Candidates[1], nil)
	if math.Abs(lo+2) > 1e-12 || math.Abs(hi-2) > 1e-12 {
		t.Errorf("candidates got %v, %v, expected -2, 2", lo, hi)
	}

	_, err = square.SolveConstant(IC(symbolic.N(0), symbolic.N(-1)))
	if !errors.Is(err, ErrNoConstant) {
		t.Errorf("got %v, expected ErrNoConstant", err)
	}

	c, err := square.SolveConstant(IC(symbolic.N(1), symbolic.N(0)))
	if err != nil {
		t.Fatalf("double root should be unique: %v", err)
	}
	if v, _ := symbolic.Float(c, nil); math.Abs(v+1) > 1e-12 {
		t.Errorf("constant got %v, expected -1", v)
	}

	flat := NewGeneralSolution(ode, symbolic.MustParse("x^2"), Constant)
	_, err = flat.SolveConstant(IC(symbolic.N(1), symbolic.N(1)))
	if !errors.As(err, &amb) || len(amb.Candidates) != 0 {
		t.Errorf("got %v, expected ambiguity with no candidates", err)
	}
	_, err = flat.SolveConstant(IC(symbolic.N(1), symbolic.N(2)))
	if !errors.Is(err, ErrNoConstant) {
		t.Errorf("got %v, expected ErrNoConstant", err)
	}
}

func TestDsolveFailures(t *testing.T) {
	tests := []struct {
		name string
		rhs  string
		err  error
	}{
		{"nonlinear", "y^2", ErrNoClosedForm},
		{"no antiderivative", "exp(x^2)", ErrNoClosedForm},
		{"nonlinear in function", "sin(y)", ErrNoClosedForm},
		{"unknown symbol", "k*y", ErrInvalidODE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ode := ODE{Indep: "x", Dep: "y", RHS: symbolic.MustParse(tt.rhs)}
			if _, err := Dsolve(ode); !errors.Is(err, tt.err) {
				t.Errorf("got %v, expected %v", err, tt.err)
			}
		})
	}

	if _, err := ParseODE("x", "x", "x"); !errors.Is(err, ErrInvalidODE) {
		t.Errorf("got %v, expected ErrInvalidODE", err)
	}
	if _, err := ParseODE("x", "y", "x +"); !errors.Is(err, ErrInvalidODE) {
		t.Errorf("got %v, expected ErrInvalidODE", err)
	}
}

func TestSampleDomainError(t *testing.T) {
	p, err := Solve(mustODE(t, "t", "x", "2*t + 1/t"), IC(symbolic.N(1), symbolic.N(2)))
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Sample([]float64{1, 0.5, 0, 1})
	if !errors.Is(err, symbolic.ErrDomain) {
		t.Fatalf("got %v, expected ErrDomain", err)
	}
	if !strings.Contains(err.Error(), "t=0") {
		t.Errorf("error should name the grid point: %v", err)
	}
}

func TestSolveConstantAtSingularity(t *testing.T) {
	_, err := Solve(mustODE(t, "t", "x", "2*t + 1/t"), IC(symbolic.N(0), symbolic.N(2)))
	if !errors.Is(err, symbolic.ErrDomain) {
		t.Fatalf("got %v, expected ErrDomain", err)
	}
	if !strings.Contains(err.Error(), "initial condition x(0, 2)") {
		t.Errorf("error should name the initial condition: %v", err)
	}
}

func TestScalar(t *testing.T) {
	g, err := mustODE(t, "t", "y", "1 - sin(y)").Scalar()
	if err != nil {
		t.Fatal(err)
	}
	if v := g(math.Pi/2, 0); v != 0 {
		t.Errorf("g(pi/2) got %f, expected 0", v)
	}

	h, err := mustODE(t, "t", "y", "ln(y)").Scalar()
	if err != nil {
		t.Fatal(err)
	}
	if v := h(-1, 0); !math.IsNaN(v) {
		t.Errorf("out-of-domain value got %f, expected NaN", v)
	}
}
