package symbolic

import (
	"errors"
	"fmt"
	"math/big"
	"unicode"
)

// ErrSyntax indicates malformed expression text.
var ErrSyntax = errors.New("symbolic: syntax error")

// Parse reads an expression in the usual infix syntax:
//
//	x*exp(x)   1/(1 + x)   2*t + 1/t   x^2   x**2   -sin(pi/2)
//
// Decimal literals are exact: 0.1 parses as 1/10. The names pi and e are
// the constants; sqrt, log and the names listed by Functions are function
// calls. Every other identifier is a symbol.
func Parse(src string) (Expr, error) {
	p := &parser{src: src}
	p.next()
	e, err := p.sum()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
	return e, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
)

type token struct {
	kind tokKind
	text string
	pos  int
}

type parser struct {
	src string
	pos int
	tok token
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d in %q: %s", ErrSyntax, p.tok.pos, p.src, fmt.Sprintf(format, args...))
}

func (p *parser) next() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}

	c := p.src[p.pos]
	switch {
	case isDigit(c) || (c == '.' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1])):
		for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
			p.pos++
		}
		// 1e-3 is a literal; a bare trailing e is not part of the number.
		if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
			q := p.pos + 1
			if q < len(p.src) && (p.src[q] == '+' || p.src[q] == '-') {
				q++
			}
			if q < len(p.src) && isDigit(p.src[q]) {
				for q < len(p.src) && isDigit(p.src[q]) {
					q++
				}
				p.pos = q
			}
		}
		p.tok = token{kind: tokNum, text: p.src[start:p.pos], pos: start}
	case isIdentStart(c):
		for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.pos], pos: start}
	case c == '*' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '*':
		p.pos += 2
		p.tok = token{kind: tokOp, text: "^", pos: start}
	default:
		p.pos++
		p.tok = token{kind: tokOp, text: string(c), pos: start}
	}
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || unicode.IsLetter(rune(c)) }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }

func (p *parser) isOp(text string) bool {
	return p.tok.kind == tokOp && p.tok.text == text
}

// sum = product { ("+" | "-") product }
func (p *parser) sum() (Expr, error) {
	left, err := p.product()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.tok.text
		p.next()
		right, err := p.product()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			right = Neg(right)
		}
		left = AddOf(left, right)
	}
	return left, nil
}

// product = unary { ("*" | "/") unary }
func (p *parser) product() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") {
		op := p.tok.text
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == "/" {
			left = Div(left, right)
		} else {
			left = MulOf(left, right)
		}
	}
	return left, nil
}

// unary = ("-" | "+") unary | power
func (p *parser) unary() (Expr, error) {
	if p.isOp("-") || p.isOp("+") {
		neg := p.isOp("-")
		p.next()
		e, err := p.unary()
		if err != nil {
			return nil, err
		}
		if neg {
			return Neg(e), nil
		}
		return e, nil
	}
	return p.power()
}

// power = primary [ "^" unary ], right associative.
func (p *parser) power() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return PowOf(base, exp), nil
}

func (p *parser) primary() (Expr, error) {
	switch p.tok.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(p.tok.text)
		if !ok {
			return nil, p.errorf("bad number %q", p.tok.text)
		}
		p.next()
		return NRat(r), nil
	case tokIdent:
		name := p.tok.text
		p.next()
		if p.isOp("(") {
			p.next()
			arg, err := p.sum()
			if err != nil {
				return nil, err
			}
			if !p.isOp(")") {
				return nil, p.errorf("expected ) after %s argument", name)
			}
			p.next()
			e, ok := Apply(name, arg)
			if !ok {
				return nil, p.errorf("unknown function %q", name)
			}
			return e, nil
		}
		switch name {
		case "pi":
			return Pi, nil
		case "e":
			return E, nil
		}
		return S(name), nil
	case tokOp:
		if p.isOp("(") {
			p.next()
			e, err := p.sum()
			if err != nil {
				return nil, err
			}
			if !p.isOp(")") {
				return nil, p.errorf("expected )")
			}
			p.next()
			return e, nil
		}
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
	return nil, p.errorf("unexpected end of input")
}
