package symbolic_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slopefield/internal/symbolic"
)

func parse(src string) symbolic.Expr {
	GinkgoHelper()
	e, err := symbolic.Parse(src)
	Expect(err).NotTo(HaveOccurred())
	return e
}

func eval(e symbolic.Expr, x float64) float64 {
	GinkgoHelper()
	v, err := symbolic.Float(e, map[string]float64{"x": x})
	Expect(err).NotTo(HaveOccurred())
	return v
}

var _ = Describe("Simplification", func() {
	DescribeTable("canonical forms",
		func(src, expected string) {
			Expect(parse(src).String()).To(Equal(expected))
		},
		Entry("collects like terms", "2*x + 3*x", "5*x"),
		Entry("adds exponents", "x*x", "x^2"),
		Entry("cancels quotients", "x/x", "1"),
		Entry("merges exp factors", "exp(x)*exp(-x)", "1"),
		Entry("folds rationals", "1/4 + 7/4", "2"),
		Entry("keeps powers", "t^3", "t^3"),
		Entry("accepts **", "x**2", "x^2"),
		Entry("writes reciprocals as quotients", "1/(1 + x)", "1/(x + 1)"),
		Entry("writes subtraction", "x - 1", "x - 1"),
		Entry("exact decimals", "0.1 + 0.2", "3/10"),
		Entry("half-turn sine", "sin(pi/2)", "1"),
		Entry("half-turn cosine", "cos(pi/2)", "0"),
		Entry("full-turn cosine", "cos(pi)", "-1"),
		Entry("log of exp", "ln(exp(x))", "x"),
		Entry("abs of negative", "abs(-3)", "3"),
		Entry("log is ln", "log(1)", "0"),
	)

	It("is stable under print and re-parse", func() {
		for _, src := range []string{
			"1/4*t^4 + 7/4",
			"x*exp(x) - exp(x)",
			"ln(abs(x + 1))",
			"-cos(x) + 3",
			"t^2 + ln(abs(t)) + 1",
			"1/2*x^2*ln(x) - 1/4*x^2 + 13/4",
			"C1*exp(2*x)",
			"x^(1/2) + 2^x",
			"-1/x + 1/2/y",
			"(x + 1)^2*sin(3*x - 1)",
			"a - (b + 1)",
			"x - (x^2 + 1)",
			"ln(x + 1)*(x + 1) - (x + 1)",
			"-(x + 1)*y + 2",
		} {
			e := parse(src)
			again := parse(e.String())
			Expect(again.Equal(e)).To(BeTrue(), "%s printed as %s re-parsed as %s", src, e, again)
		}
	})

	It("prints negated sums in parentheses", func() {
		Expect(parse("a - (b + 1)").String()).To(Equal("a - (b + 1)"))
		Expect(parse("x - (x^2 + 1)").String()).To(Equal("x - (x^2 + 1)"))
	})

	It("does not merge terms that only print alike", func() {
		Expect(symbolic.Key(parse("a - (b + 1)"))).NotTo(Equal(symbolic.Key(parse("a - b + 1"))))

		e := parse("x*(a - (b + 1)) + x*(a - b + 1)")
		v, err := symbolic.Float(e, map[string]float64{"x": 1, "a": 1, "b": 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 0, 1e-12), "simplified to %s", e)

		v, err = symbolic.Float(e, map[string]float64{"x": 2, "a": 3, "b": 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 2*1+2*3, 1e-12), "simplified to %s", e)
	})

	It("still collects structurally equal terms", func() {
		Expect(parse("x*(a - (b + 1)) + 2*x*(a - (b + 1))").Equal(parse("3*x*(a - (b + 1))"))).To(BeTrue())
		Expect(parse("(x - (x^2 + 1))*(x - (x^2 + 1))").Equal(parse("(x - (x^2 + 1))^2"))).To(BeTrue())
	})

	It("leaves transcendental values symbolic", func() {
		Expect(parse("sin(1)").String()).To(Equal("sin(1)"))
		_, exact := parse("sin(1)").Eval()
		Expect(exact).To(BeFalse())
	})

	It("evaluates exact constants", func() {
		v, ok := parse("(1/2)^3 + 2^-1").Eval()
		Expect(ok).To(BeTrue())
		Expect(v.Equal(symbolic.F(5, 8))).To(BeTrue())
	})

	It("substitutes and simplifies", func() {
		e := parse("1/4*t^4 + C1").Sub("t", symbolic.N(1))
		Expect(e.String()).To(Equal("C1 + 1/4"))
		Expect(e.Sub("C1", symbolic.F(7, 4)).Equal(symbolic.N(2))).To(BeTrue())
	})

	It("expands products of sums", func() {
		Expect(symbolic.Expand(parse("(x + 1)*(x - 1)")).Equal(parse("x^2 - 1"))).To(BeTrue())
		Expect(symbolic.Expand(parse("(x + 1)^2")).Equal(parse("x^2 + 2*x + 1"))).To(BeTrue())
		Expect(symbolic.Expand(parse("exp(x)*(C1 - x*exp(-x))")).Equal(parse("C1*exp(x) - x"))).To(BeTrue())
	})

	It("reports free symbols", func() {
		Expect(symbolic.FreeSymbols(parse("C1*exp(x) + pi*y"))).To(Equal([]string{"C1", "x", "y"}))
		Expect(symbolic.Has(parse("sin(t) + 1"), "t")).To(BeTrue())
		Expect(symbolic.Has(parse("sin(t) + 1"), "x")).To(BeFalse())
	})
})

var _ = Describe("Differentiation", func() {
	DescribeTable("matches known derivatives",
		func(src, expected string) {
			Expect(parse(src).Diff("x").Equal(parse(expected))).To(BeTrue(),
				"d/dx %s = %s", src, parse(src).Diff("x"))
		},
		Entry("power", "x^3", "3*x^2"),
		Entry("sine", "sin(x)", "cos(x)"),
		Entry("cosine", "cos(2*x)", "-2*sin(2*x)"),
		Entry("exponential", "exp(3*x)", "3*exp(3*x)"),
		Entry("logarithm", "ln(x)", "1/x"),
		Entry("product", "x*exp(x)", "exp(x) + x*exp(x)"),
		Entry("constant", "C1 + pi", "0"),
	)

	It("differentiates abs as a sign", func() {
		d := parse("abs(x)").Diff("x")
		Expect(eval(d, -2)).To(BeNumerically("~", -1, 1e-12))
		Expect(eval(d, 3)).To(BeNumerically("~", 1, 1e-12))
	})
})

var _ = Describe("Evaluation", func() {
	It("agrees with the math package", func() {
		cases := []struct {
			src string
			fn  func(float64) float64
		}{
			{"1 - sin(x)", func(x float64) float64 { return 1 - math.Sin(x) }},
			{"x*(x - 2)*(x + 1)", func(x float64) float64 { return x * (x - 2) * (x + 1) }},
			{"x*exp(x)", func(x float64) float64 { return x * math.Exp(x) }},
			{"1/(1 + x)", func(x float64) float64 { return 1 / (1 + x) }},
			{"2*x + 1/x", func(x float64) float64 { return 2*x + 1/x }},
			{"x*ln(x)", func(x float64) float64 { return x * math.Log(x) }},
			{"sqrt(x) + atan(x)", func(x float64) float64 { return math.Sqrt(x) + math.Atan(x) }},
		}
		for _, c := range cases {
			e := parse(c.src)
			for _, x := range []float64{0.1, 0.5, 1, 2.5} {
				Expect(eval(e, x)).To(BeNumerically("~", c.fn(x), 1e-12), "%s at %v", c.src, x)
			}
		}
	})

	DescribeTable("reports domain errors",
		func(src string, x float64) {
			_, err := symbolic.Float(parse(src), map[string]float64{"x": x})
			Expect(err).To(MatchError(symbolic.ErrDomain))
		},
		Entry("log of zero", "ln(x)", 0.0),
		Entry("log of negative", "x*ln(x)", -1.0),
		Entry("reciprocal of zero", "2*x + 1/x", 0.0),
		Entry("root of negative", "sqrt(x)", -4.0),
		Entry("literal division by zero", "1/0 + x", 1.0),
	)

	It("reports unbound symbols", func() {
		_, err := symbolic.Float(parse("x + y"), map[string]float64{"x": 1})
		Expect(err).To(MatchError(symbolic.ErrUnbound))

		_, err = symbolic.Compile(parse("x + y"), "x")
		Expect(err).To(MatchError(symbolic.ErrUnbound))
	})

	It("compiles to positional closures", func() {
		f, err := symbolic.Compile(parse("y*(y - 2)*(y + 1) + t"), "y", "t")
		Expect(err).NotTo(HaveOccurred())
		v, err := f(3, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 12.5, 1e-12))

		_, err = f(1)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Parse", func() {
	DescribeTable("rejects malformed input",
		func(src string) {
			_, err := symbolic.Parse(src)
			Expect(err).To(MatchError(symbolic.ErrSyntax))
		},
		Entry("empty", ""),
		Entry("dangling operator", "x +"),
		Entry("unbalanced", "(x + 1"),
		Entry("unknown function", "gamma(x)"),
		Entry("stray character", "x $ y"),
		Entry("bad number", "1.2.3"),
		Entry("implicit product", "2 x"),
	)

	It("binds power tighter than unary minus", func() {
		Expect(eval(parse("-x^2"), 3)).To(Equal(-9.0))
		Expect(eval(parse("2^-1"), 0)).To(Equal(0.5))
		Expect(eval(parse("2^3^2"), 0)).To(Equal(512.0))
	})

	It("reads constants and exponent literals", func() {
		Expect(eval(parse("pi"), 0)).To(Equal(math.Pi))
		Expect(eval(parse("e"), 0)).To(Equal(math.E))
		Expect(parse("1e-3").Equal(symbolic.F(1, 1000))).To(BeTrue())
	})
})
