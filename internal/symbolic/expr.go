// Package symbolic is a small exact-arithmetic expression kernel: enough
// algebra to solve first-order initial value problems in closed form.
//
// Expressions are immutable trees. Every constructor returns a simplified,
// canonical form, so two expressions that simplify to the same tree compare
// Equal and print identically. Numbers are exact rationals (math/big.Rat);
// transcendental values such as sin(1) or pi stay symbolic until Float.
package symbolic

import (
	"math"
	"math/big"
	"sort"
	"strings"
)

type Expr interface {
	Simplify() Expr
	String() string
	// Sub replaces every occurrence of the named symbol with value.
	Sub(name string, value Expr) Expr
	Diff(name string) Expr
	// Eval returns the exact rational value of a constant expression.
	Eval() (*Num, bool)
	Equal(other Expr) bool
}

// Num is an exact rational number.
type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// F returns p/q. It panics when q is zero.
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NRat copies r.
func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

// NFloat converts f exactly. It returns nil for NaN and infinities.
func NFloat(f float64) *Num {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &Num{val: new(big.Rat).SetFloat64(f)}
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }

func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// smallInt returns n as an int when it is an integer of modest size.
func (n *Num) smallInt(limit int64) (int64, bool) {
	if !n.val.IsInt() || !n.val.Num().IsInt64() {
		return 0, false
	}
	v := n.val.Num().Int64()
	if v > limit || v < -limit {
		return 0, false
	}
	return v, true
}

// Sym is a named variable.
type Sym struct{ name string }

func S(name string) *Sym { return &Sym{name: name} }

func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Eval() (*Num, bool)    { return nil, false }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }

func (s *Sym) Sub(name string, value Expr) Expr {
	if s.name == name {
		return value.Simplify()
	}
	return s
}

func (s *Sym) Diff(name string) Expr {
	if s.name == name {
		return N(1)
	}
	return N(0)
}

// Const is a named irrational constant.
type Const struct {
	name string
	val  float64
}

var (
	Pi = &Const{name: "pi", val: math.Pi}
	E  = &Const{name: "e", val: math.E}
)

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Eval() (*Num, bool)    { return nil, false }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) Float64() float64      { return c.val }

// Neg returns -e.
func Neg(e Expr) Expr { return MulOf(N(-1), e) }

// Div returns a/b.
func Div(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

// Minus returns a-b.
func Minus(a, b Expr) Expr { return AddOf(a, Neg(b)) }

// Has reports whether the named symbol occurs in e.
func Has(e Expr, name string) bool {
	switch v := e.(type) {
	case *Sym:
		return v.name == name
	case *Add:
		for _, t := range v.terms {
			if Has(t, name) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if Has(f, name) {
				return true
			}
		}
	case *Pow:
		return Has(v.base, name) || Has(v.exp, name)
	case *Func:
		return Has(v.arg, name)
	}
	return false
}

// FreeSymbols lists the symbol names in e, sorted.
func FreeSymbols(e Expr) []string {
	seen := map[string]struct{}{}
	collectSymbols(e, seen)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Key returns a fully parenthesized prefix form of e. Structurally equal
// expressions share a key and distinct ones never do, which makes it the
// grouping key for like terms and equal bases.
func Key(e Expr) string {
	var sb strings.Builder
	writeKey(&sb, e)
	return sb.String()
}

func writeKey(sb *strings.Builder, e Expr) {
	list := func(op string, xs []Expr) {
		sb.WriteString(op + "(")
		for i, x := range xs {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeKey(sb, x)
		}
		sb.WriteByte(')')
	}
	switch v := e.(type) {
	case *Num:
		sb.WriteString("#" + v.val.RatString())
	case *Sym:
		sb.WriteString("$" + v.name)
	case *Const:
		sb.WriteString("%" + v.name)
	case *Add:
		list("+", v.terms)
	case *Mul:
		list("*", v.factors)
	case *Pow:
		list("^", []Expr{v.base, v.exp})
	case *Func:
		list(v.name, []Expr{v.arg})
	default:
		sb.WriteString("?" + e.String())
	}
}
