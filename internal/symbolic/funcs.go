package symbolic

import (
	"math/big"
	"sort"
)

// Func is a named elementary function applied to one argument.
type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr  { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr  { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr  { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr  { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr   { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr  { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr { return funcOf("tanh", arg).Simplify() }

var functions = map[string]func(Expr) Expr{
	"sin":  SinOf,
	"cos":  CosOf,
	"tan":  TanOf,
	"exp":  ExpOf,
	"ln":   LnOf,
	"log":  LnOf,
	"sqrt": SqrtOf,
	"abs":  AbsOf,
	"asin": AsinOf,
	"acos": AcosOf,
	"atan": AtanOf,
	"sinh": SinhOf,
	"cosh": CoshOf,
	"tanh": TanhOf,
}

// Apply calls the named function. ok is false for unknown names.
func Apply(name string, arg Expr) (Expr, bool) {
	fn, ok := functions[name]
	if !ok {
		return nil, false
	}
	return fn(arg), true
}

// Functions lists the names Apply accepts.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *Func) Name() string { return f.name }
func (f *Func) Arg() Expr    { return f.arg }

// Simplify applies exact identities only. Values such as sin(1) stay
// symbolic.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	n, isNum := arg.(*Num)
	zero := isNum && n.IsZero()

	switch f.name {
	case "sin", "tan", "sinh", "tanh", "asin", "atan":
		if zero {
			return N(0)
		}
	case "cos", "cosh":
		if zero {
			return N(1)
		}
	case "exp":
		if zero {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "ln":
		if isNum && n.IsOne() {
			return N(0)
		}
		if c, ok := arg.(*Const); ok && c == E {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "abs":
		if isNum {
			if n.IsNegative() {
				return numNeg(n)
			}
			return n
		}
		if _, ok := arg.(*Const); ok {
			return arg
		}
		if inner, ok := arg.(*Func); ok && (inner.name == "abs" || inner.name == "exp") {
			return inner
		}
		if c, rest := splitCoeff(arg); c.IsNegative() {
			return MulOf(numNeg(c), AbsOf(rest))
		} else if !c.IsOne() {
			return MulOf(c, AbsOf(rest))
		}
	}

	if f.name == "sin" || f.name == "cos" {
		if k, ok := halfPiMultiple(arg); ok {
			return quarterTurn(f.name, k)
		}
	}
	return &Func{name: f.name, arg: arg}
}

// halfPiMultiple reports arg = k*pi/2 for integer k.
func halfPiMultiple(arg Expr) (int64, bool) {
	var c *Num
	switch v := arg.(type) {
	case *Const:
		if v != Pi {
			return 0, false
		}
		c = N(1)
	case *Mul:
		if len(v.factors) != 2 {
			return 0, false
		}
		coeff, ok := v.factors[0].(*Num)
		if !ok || v.factors[1] != Expr(Pi) {
			return 0, false
		}
		c = coeff
	default:
		return 0, false
	}
	twice := new(big.Rat).Mul(c.val, big.NewRat(2, 1))
	if !twice.IsInt() || !twice.Num().IsInt64() {
		return 0, false
	}
	return twice.Num().Int64(), true
}

func quarterTurn(name string, k int64) Expr {
	k = ((k % 4) + 4) % 4
	sin := [4]int64{0, 1, 0, -1}
	if name == "cos" {
		k = (k + 1) % 4
	}
	return N(sin[k])
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) Sub(name string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(name, value)).Simplify()
}

func (f *Func) Diff(name string) Expr {
	du := f.arg.Diff(name)
	if n, ok := du.(*Num); ok && n.IsZero() {
		return N(0)
	}
	u := f.arg
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(u)
	case "cos":
		outer = Neg(SinOf(u))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(u), N(2)))
	case "exp":
		outer = f
	case "ln":
		outer = PowOf(u, N(-1))
	case "abs":
		outer = MulOf(u, PowOf(AbsOf(u), N(-1)))
	case "asin":
		outer = PowOf(Minus(N(1), PowOf(u, N(2))), F(-1, 2))
	case "acos":
		outer = Neg(PowOf(Minus(N(1), PowOf(u, N(2))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(u, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(u)
	case "cosh":
		outer = SinhOf(u)
	case "tanh":
		outer = Minus(N(1), PowOf(TanhOf(u), N(2)))
	}
	return MulOf(outer, du)
}

func (f *Func) Eval() (*Num, bool) { return nil, false }

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}
