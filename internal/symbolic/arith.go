package symbolic

import (
	"sort"
	"strings"
)

// Add is a sum of terms.
type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

func (a *Add) Terms() []Expr { return a.terms }

// Simplify flattens nested sums, folds numbers and collects like terms:
// 2*x + 3*x becomes 5*x.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	constant := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			constant = numAdd(constant, n)
			continue
		}
		c, rest := splitCoeff(t)
		key := Key(rest)
		if prev, ok := coeffs[key]; ok {
			coeffs[key] = numAdd(prev, c)
		} else {
			coeffs[key] = c
			rests[key] = rest
		}
	}

	keys := make([]string, 0, len(coeffs))
	printed := make(map[string]string, len(coeffs))
	for k, rest := range rests {
		keys = append(keys, k)
		printed[k] = rest.String()
	}
	sort.Slice(keys, func(i, j int) bool {
		if printed[keys[i]] != printed[keys[j]] {
			return printed[keys[i]] < printed[keys[j]]
		}
		return keys[i] < keys[j]
	})

	result := make([]Expr, 0, len(keys)+1)
	for _, k := range keys {
		c := coeffs[k]
		if c.IsZero() {
			continue
		}
		if c.IsOne() {
			result = append(result, rests[k])
		} else {
			result = append(result, MulOf(c, rests[k]))
		}
	}
	if !constant.IsZero() {
		result = append(result, constant)
	}

	switch len(result) {
	case 0:
		return N(0)
	case 1:
		return result[0]
	}
	return &Add{terms: result}
}

// splitCoeff separates the numeric coefficient of a product.
func splitCoeff(e Expr) (*Num, Expr) {
	m, ok := e.(*Mul)
	if !ok {
		return N(1), e
	}
	c, ok := m.factors[0].(*Num)
	if !ok {
		return N(1), e
	}
	rest := m.factors[1:]
	if len(rest) == 1 {
		return c, rest[0]
	}
	return c, &Mul{factors: rest}
}

func (a *Add) String() string {
	var sb strings.Builder
	for i, t := range a.terms {
		c, _ := splitCoeff(t)
		n, isNum := t.(*Num)
		negative := c.IsNegative() || (isNum && n.IsNegative())
		switch {
		case i == 0:
			sb.WriteString(t.String())
		case negative:
			sb.WriteString(" - ")
			if neg, ok := Neg(t).(*Add); ok {
				sb.WriteString("(" + neg.String() + ")")
			} else {
				sb.WriteString(Neg(t).String())
			}
		default:
			sb.WriteString(" + ")
			sb.WriteString(t.String())
		}
	}
	return sb.String()
}

func (a *Add) Sub(name string, value Expr) Expr {
	terms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.Sub(name, value)
	}
	return AddOf(terms...)
}

func (a *Add) Diff(name string) Expr {
	terms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.Diff(name)
	}
	return AddOf(terms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && equalAll(a.terms, o.terms)
}

// Mul is a product of factors. A numeric coefficient, when present, is
// always the first factor.
type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

func (m *Mul) Factors() []Expr { return m.factors }

// Simplify flattens nested products, folds numbers, adds exponents of
// equal bases and merges exp factors: exp(a)*exp(b) becomes exp(a + b).
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	coeff := N(1)
	var order []string
	bases := map[string]Expr{}
	exps := map[string][]Expr{}
	var expArgs []Expr
	for _, f := range flat {
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
			continue
		case *Func:
			if v.name == "exp" {
				expArgs = append(expArgs, v.arg)
				continue
			}
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := Key(base)
		if _, seen := bases[key]; !seen {
			order = append(order, key)
			bases[key] = base
		}
		exps[key] = append(exps[key], exp)
	}
	if coeff.IsZero() {
		return N(0)
	}

	var others []Expr
	absorb := func(e Expr) {
		switch v := e.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			for _, f := range v.factors {
				if n, ok := f.(*Num); ok {
					coeff = numMul(coeff, n)
				} else {
					others = append(others, f)
				}
			}
		default:
			others = append(others, e)
		}
	}
	for _, key := range order {
		exp := exps[key][0]
		if len(exps[key]) > 1 {
			exp = AddOf(exps[key]...)
		}
		absorb(PowOf(bases[key], exp))
	}
	if len(expArgs) > 0 {
		absorb(ExpOf(AddOf(expArgs...)))
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].key != ks[j].key {
			return ks[i].key < ks[j].key
		}
		return Key(ks[i].e) < Key(ks[j].e)
	})
	sorted := make([]Expr, 0, len(ks)+1)
	if !coeff.IsOne() {
		sorted = append(sorted, coeff)
	}
	for _, k := range ks {
		sorted = append(sorted, k.e)
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	return &Mul{factors: sorted}
}

// String writes factors with negative integer exponents as a quotient.
func (m *Mul) String() string {
	coeff, _ := splitCoeff(m)
	var num, den []string
	for _, f := range m.factors {
		if _, ok := f.(*Num); ok {
			continue
		}
		if p, ok := f.(*Pow); ok {
			if e, ok := p.exp.(*Num); ok && e.IsNegative() {
				den = append(den, wrapFactor(PowOf(p.base, numNeg(e))))
				continue
			}
		}
		num = append(num, wrapFactor(f))
	}

	var sb strings.Builder
	switch {
	case coeff.IsNegOne():
		sb.WriteString("-")
	case !coeff.IsOne():
		sb.WriteString(coeff.String())
		if len(num) > 0 {
			sb.WriteString("*")
		}
	}
	if len(num) == 0 && (coeff.IsOne() || coeff.IsNegOne()) {
		sb.WriteString("1")
	}
	sb.WriteString(strings.Join(num, "*"))
	if len(den) > 0 {
		sb.WriteString("/")
		if len(den) == 1 {
			sb.WriteString(den[0])
		} else {
			sb.WriteString("(" + strings.Join(den, "*") + ")")
		}
	}
	return sb.String()
}

func wrapFactor(e Expr) string {
	switch v := e.(type) {
	case *Add, *Mul:
		return "(" + v.String() + ")"
	case *Num:
		if !v.IsInteger() || v.IsNegative() {
			return "(" + v.String() + ")"
		}
	}
	return e.String()
}

func (m *Mul) Sub(name string, value Expr) Expr {
	factors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		factors[i] = f.Sub(name, value)
	}
	return MulOf(factors...)
}

func (m *Mul) Diff(name string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		rest := make([]Expr, 0, len(m.factors))
		rest = append(rest, fi.Diff(name))
		for j, fj := range m.factors {
			if j != i {
				rest = append(rest, fj)
			}
		}
		terms[i] = MulOf(rest...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && equalAll(m.factors, o.factors)
}

// Pow is base^exp.
type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Base() Expr     { return p.base }
func (p *Pow) Exponent() Expr { return p.exp }

const maxIntPower = 64

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}

	if bn, ok := base.(*Num); ok {
		if bn.IsZero() {
			// 0^-n stays unevaluated so that Float reports the domain error.
			if expIsNum && en.IsPositive() {
				return N(0)
			}
			return &Pow{base: base, exp: exp}
		}
		if bn.IsOne() {
			return N(1)
		}
		if expIsNum {
			if k, ok := en.smallInt(maxIntPower); ok {
				r := N(1)
				for i := int64(0); i < abs64(k); i++ {
					r = numMul(r, bn)
				}
				if k < 0 {
					return numRecip(r)
				}
				return r
			}
		}
	}

	if expIsNum && en.IsInteger() {
		switch b := base.(type) {
		case *Pow:
			return PowOf(b.base, MulOf(b.exp, en))
		case *Mul:
			factors := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				factors[i] = PowOf(f, en)
			}
			return MulOf(factors...)
		}
	}
	if f, ok := base.(*Func); ok && f.name == "exp" {
		return ExpOf(MulOf(f.arg, exp))
	}
	return &Pow{base: base, exp: exp}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (p *Pow) String() string {
	if e, ok := p.exp.(*Num); ok && e.IsNegative() {
		return "1/" + wrapFactor(PowOf(p.base, numNeg(e)))
	}

	base := p.base.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		base = "(" + base + ")"
	case *Num:
		if !b.IsInteger() || b.IsNegative() {
			base = "(" + base + ")"
		}
	}

	exp := p.exp.String()
	switch e := p.exp.(type) {
	case *Add, *Mul, *Pow:
		exp = "(" + exp + ")"
	case *Num:
		if !e.IsInteger() {
			exp = "(" + exp + ")"
		}
	}
	return base + "^" + exp
}

func (p *Pow) Sub(name string, value Expr) Expr {
	return PowOf(p.base.Sub(name, value), p.exp.Sub(name, value))
}

func (p *Pow) Diff(name string) Expr {
	if !Has(p.exp, name) {
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), p.base.Diff(name))
	}
	if !Has(p.base, name) {
		return MulOf(p, LnOf(p.base), p.exp.Diff(name))
	}
	// d(u^v) = u^v * (v' ln u + v u'/u)
	return MulOf(p, AddOf(
		MulOf(p.exp.Diff(name), LnOf(p.base)),
		MulOf(p.exp, p.base.Diff(name), PowOf(p.base, N(-1))),
	))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok := p.base.Eval()
	if !ok {
		return nil, false
	}
	e, ok := p.exp.Eval()
	if !ok {
		return nil, false
	}
	k, ok := e.smallInt(maxIntPower)
	if !ok || (b.IsZero() && k < 0) {
		return nil, false
	}
	r, _ := PowOf(b, N(k)).(*Num)
	return r, r != nil
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

const maxExpandPower = 8

// Expand distributes products over sums and expands small integer powers
// of sums.
func Expand(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = Expand(t)
		}
		return AddOf(terms...)
	case *Mul:
		acc := []Expr{N(1)}
		for _, f := range v.factors {
			acc = distribute(acc, Expand(f))
		}
		return AddOf(acc...)
	case *Pow:
		base := Expand(v.base)
		if en, ok := v.exp.(*Num); ok {
			if k, ok := en.smallInt(maxExpandPower); ok && k > 1 {
				if _, isAdd := base.(*Add); isAdd {
					acc := []Expr{N(1)}
					for i := int64(0); i < k; i++ {
						acc = distribute(acc, base)
					}
					return AddOf(acc...)
				}
			}
		}
		return PowOf(base, Expand(v.exp))
	case *Func:
		return funcOf(v.name, Expand(v.arg)).Simplify()
	}
	return e
}

func distribute(acc []Expr, f Expr) []Expr {
	terms := []Expr{f}
	if a, ok := f.(*Add); ok {
		terms = a.terms
	}
	out := make([]Expr, 0, len(acc)*len(terms))
	for _, x := range acc {
		for _, t := range terms {
			out = append(out, MulOf(x, t))
		}
	}
	return out
}
