package symbolic

import (
	"errors"
	"fmt"
)

// ErrNotIntegrable indicates that no integration rule matched.
var ErrNotIntegrable = errors.New("symbolic: no antiderivative found")

const maxPartsDepth = 20

// Integrate returns an antiderivative of e with respect to x, without an
// integration constant. Supported forms, after expansion and linearity:
//
//   - constants and powers of a linear argument, including 1/(a*x + b)
//   - sin, cos, exp, sinh, cosh and ln of a linear argument
//   - c^(a*x + b)
//   - x^n times any of sin, cos, exp, sinh, cosh of a linear argument
//   - x^n * ln(x)
//   - c*u'(x)*exp(u(x)) for any differentiable u
//   - exp of a linear argument times sin or cos of a linear argument
func Integrate(e Expr, x string) (Expr, error) {
	r, ok := integrate(Expand(e), x)
	if !ok {
		return nil, fmt.Errorf("%w: %s d%s", ErrNotIntegrable, e, x)
	}
	return r, nil
}

func integrate(e Expr, x string) (Expr, bool) {
	if !Has(e, x) {
		return MulOf(e, S(x)), true
	}
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			r, ok := integrate(t, x)
			if !ok {
				return nil, false
			}
			terms[i] = r
		}
		return AddOf(terms...), true
	case *Mul:
		var consts, deps []Expr
		for _, f := range v.factors {
			if Has(f, x) {
				deps = append(deps, f)
			} else {
				consts = append(consts, f)
			}
		}
		if len(consts) > 0 {
			r, ok := integrate(MulOf(deps...), x)
			if !ok {
				return nil, false
			}
			return MulOf(append(consts, r)...), true
		}
		if r, ok := integrateExpSubstitution(deps, x); ok {
			return r, true
		}
		if len(deps) == 2 {
			if r, ok := integrateExpTrig(deps[0], deps[1], x); ok {
				return r, true
			}
			return integrateByParts(deps[0], deps[1], x)
		}
		return nil, false
	}
	return integrateSingle(e, x)
}

func integrateSingle(e Expr, x string) (Expr, bool) {
	switch v := e.(type) {
	case *Sym:
		return MulOf(F(1, 2), PowOf(v, N(2))), true
	case *Pow:
		if !Has(v.exp, x) {
			a, ok := linearSlope(v.base, x)
			if !ok {
				return nil, false
			}
			n, ok := v.exp.(*Num)
			if !ok {
				return nil, false
			}
			if n.IsNegOne() {
				return Div(LnOf(AbsOf(v.base)), a), true
			}
			m := numAdd(n, N(1))
			return Div(PowOf(v.base, m), MulOf(m, a)), true
		}
		if !Has(v.base, x) {
			a, ok := linearSlope(v.exp, x)
			if !ok {
				return nil, false
			}
			return Div(v, MulOf(a, LnOf(v.base))), true
		}
	case *Func:
		a, ok := linearSlope(v.arg, x)
		if !ok {
			return nil, false
		}
		u := v.arg
		switch v.name {
		case "sin":
			return Div(Neg(CosOf(u)), a), true
		case "cos":
			return Div(SinOf(u), a), true
		case "exp":
			return Div(v, a), true
		case "sinh":
			return Div(CoshOf(u), a), true
		case "cosh":
			return Div(SinhOf(u), a), true
		case "ln":
			return Div(Minus(MulOf(u, v), u), a), true
		}
	}
	return nil, false
}

// integrateByParts handles p(x)*f(x) where p is x^n for a positive integer
// n. For f in sin, cos, exp, sinh, cosh it repeatedly integrates f and
// differentiates p until p vanishes. For f = ln(x) it uses a single step.
func integrateByParts(f1, f2 Expr, x string) (Expr, bool) {
	p, f := f1, f2
	if !isMonomial(p, x) {
		p, f = f2, f1
	}
	if !isMonomial(p, x) {
		return nil, false
	}
	fn, ok := f.(*Func)
	if !ok {
		return nil, false
	}

	switch fn.name {
	case "sin", "cos", "exp", "sinh", "cosh":
		var terms []Expr
		sign := N(1)
		antideriv := f
		for depth := 0; ; depth++ {
			if depth > maxPartsDepth {
				return nil, false
			}
			var ok bool
			antideriv, ok = integrate(antideriv, x)
			if !ok {
				return nil, false
			}
			terms = append(terms, MulOf(sign, p, antideriv))
			p = p.Diff(x)
			if n, isNum := p.(*Num); isNum && n.IsZero() {
				break
			}
			sign = numNeg(sign)
		}
		return AddOf(terms...), true
	case "ln":
		if sym, ok := fn.arg.(*Sym); !ok || sym.name != x {
			return nil, false
		}
		// ∫p ln x = P ln x - ∫P/x
		prim, ok := integrate(p, x)
		if !ok {
			return nil, false
		}
		rest, ok := integrate(Expand(Div(prim, S(x))), x)
		if !ok {
			return nil, false
		}
		return Minus(MulOf(prim, fn), rest), true
	}
	return nil, false
}

// integrateExpSubstitution handles c*u'*exp(u): the remaining factors must
// be a constant multiple of u'.
func integrateExpSubstitution(deps []Expr, x string) (Expr, bool) {
	if len(deps) < 2 {
		return nil, false
	}
	for i, f := range deps {
		fn, ok := f.(*Func)
		if !ok || fn.name != "exp" {
			continue
		}
		du := fn.arg.Diff(x)
		if n, ok := du.(*Num); ok && n.IsZero() {
			continue
		}
		rest := make([]Expr, 0, len(deps)-1)
		rest = append(rest, deps[:i]...)
		rest = append(rest, deps[i+1:]...)
		ratio := Div(MulOf(rest...), du)
		if Has(ratio, x) {
			continue
		}
		return MulOf(ratio, fn), true
	}
	return nil, false
}

// integrateExpTrig handles exp(p)*sin(q) and exp(p)*cos(q) for linear p
// and q with slopes a and b:
//
//	∫e^p sin q = e^p (a sin q - b cos q) / (a² + b²)
//	∫e^p cos q = e^p (a cos q + b sin q) / (a² + b²)
func integrateExpTrig(f1, f2 Expr, x string) (Expr, bool) {
	e, ok1 := f1.(*Func)
	t, ok2 := f2.(*Func)
	if !ok1 || !ok2 {
		return nil, false
	}
	if e.name != "exp" {
		e, t = t, e
	}
	if e.name != "exp" || (t.name != "sin" && t.name != "cos") {
		return nil, false
	}
	a, ok := linearSlope(e.arg, x)
	if !ok {
		return nil, false
	}
	b, ok := linearSlope(t.arg, x)
	if !ok {
		return nil, false
	}

	q := t.arg
	var body Expr
	if t.name == "sin" {
		body = Minus(MulOf(a, SinOf(q)), MulOf(b, CosOf(q)))
	} else {
		body = AddOf(MulOf(a, CosOf(q)), MulOf(b, SinOf(q)))
	}
	norm := AddOf(PowOf(a, N(2)), PowOf(b, N(2)))
	return Div(MulOf(e, body), norm), true
}

// isMonomial reports e = x or e = x^n for a positive integer n.
func isMonomial(e Expr, x string) bool {
	switch v := e.(type) {
	case *Sym:
		return v.name == x
	case *Pow:
		sym, ok := v.base.(*Sym)
		if !ok || sym.name != x {
			return false
		}
		n, ok := v.exp.(*Num)
		return ok && n.IsInteger() && n.IsPositive()
	}
	return false
}

// linearSlope returns a when u = a*x + b with a free of x and non-zero.
func linearSlope(u Expr, x string) (Expr, bool) {
	a := u.Diff(x)
	if Has(a, x) {
		return nil, false
	}
	if n, ok := a.(*Num); ok && n.IsZero() {
		return nil, false
	}
	return a, true
}
