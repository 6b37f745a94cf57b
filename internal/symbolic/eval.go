package symbolic

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDomain indicates evaluation outside a function's real domain,
	// such as ln(0) or 1/0.
	ErrDomain = errors.New("symbolic: math domain error")

	// ErrUnbound indicates a symbol with no value during evaluation.
	ErrUnbound = errors.New("symbolic: unbound symbol")
)

// Float evaluates e numerically with symbol values taken from env.
func Float(e Expr, env map[string]float64) (float64, error) {
	return evalFloat(e, func(name string) (float64, bool) {
		v, ok := env[name]
		return v, ok
	})
}

// Compiled evaluates an expression at positional argument values.
type Compiled func(args ...float64) (float64, error)

// Compile binds the free symbols of e to argument positions. Every free
// symbol must be named.
func Compile(e Expr, names ...string) (Compiled, error) {
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}
	for _, name := range FreeSymbols(e) {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %s in %s", ErrUnbound, name, e)
		}
	}
	return func(args ...float64) (float64, error) {
		if len(args) != len(names) {
			return 0, fmt.Errorf("symbolic: got %d arguments, expected %d", len(args), len(names))
		}
		return evalFloat(e, func(name string) (float64, bool) {
			i, ok := index[name]
			if !ok {
				return 0, false
			}
			return args[i], true
		})
	}, nil
}

func evalFloat(e Expr, lookup func(string) (float64, bool)) (float64, error) {
	switch v := e.(type) {
	case *Num:
		return v.Float64(), nil
	case *Const:
		return v.val, nil
	case *Sym:
		x, ok := lookup(v.name)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnbound, v.name)
		}
		return x, nil
	case *Add:
		sum := 0.0
		for _, t := range v.terms {
			x, err := evalFloat(t, lookup)
			if err != nil {
				return 0, err
			}
			sum += x
		}
		return sum, nil
	case *Mul:
		prod := 1.0
		for _, f := range v.factors {
			x, err := evalFloat(f, lookup)
			if err != nil {
				return 0, err
			}
			prod *= x
		}
		return prod, nil
	case *Pow:
		b, err := evalFloat(v.base, lookup)
		if err != nil {
			return 0, err
		}
		x, err := evalFloat(v.exp, lookup)
		if err != nil {
			return 0, err
		}
		return power(b, x)
	case *Func:
		x, err := evalFloat(v.arg, lookup)
		if err != nil {
			return 0, err
		}
		return apply(v.name, x)
	}
	return 0, fmt.Errorf("symbolic: cannot evaluate %T", e)
}

func power(b, x float64) (float64, error) {
	if b == 0 && x < 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrDomain)
	}
	if b < 0 && x != math.Trunc(x) {
		return 0, fmt.Errorf("%w: %g^%g", ErrDomain, b, x)
	}
	return math.Pow(b, x), nil
}

func apply(name string, x float64) (float64, error) {
	switch name {
	case "sin":
		return math.Sin(x), nil
	case "cos":
		return math.Cos(x), nil
	case "tan":
		return math.Tan(x), nil
	case "exp":
		return math.Exp(x), nil
	case "ln":
		if x <= 0 {
			return 0, fmt.Errorf("%w: ln(%g)", ErrDomain, x)
		}
		return math.Log(x), nil
	case "abs":
		return math.Abs(x), nil
	case "asin":
		if x < -1 || x > 1 {
			return 0, fmt.Errorf("%w: asin(%g)", ErrDomain, x)
		}
		return math.Asin(x), nil
	case "acos":
		if x < -1 || x > 1 {
			return 0, fmt.Errorf("%w: acos(%g)", ErrDomain, x)
		}
		return math.Acos(x), nil
	case "atan":
		return math.Atan(x), nil
	case "sinh":
		return math.Sinh(x), nil
	case "cosh":
		return math.Cosh(x), nil
	case "tanh":
		return math.Tanh(x), nil
	}
	return 0, fmt.Errorf("symbolic: unknown function %s", name)
}
