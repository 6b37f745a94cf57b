package symbolic_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/slopefield/internal/symbolic"
)

var _ = Describe("Integrate", func() {
	samples := []float64{0.2, 0.7, 1.3, 2.9}

	DescribeTable("differentiates back to the integrand",
		func(src string) {
			f := parse(src)
			F, err := symbolic.Integrate(f, "x")
			Expect(err).NotTo(HaveOccurred())

			dF := F.Diff("x")
			for _, x := range samples {
				Expect(eval(dF, x)).To(BeNumerically("~", eval(f, x), 1e-9),
					"∫%s = %s at x=%v", src, F, x)
			}
		},
		Entry("constant", "5"),
		Entry("monomial", "x^3"),
		Entry("polynomial", "3*x^2 - 2*x + 7"),
		Entry("product of sums", "(x + 1)*(x - 2)"),
		Entry("reciprocal", "1/x"),
		Entry("shifted reciprocal", "1/(1 + x)"),
		Entry("scaled reciprocal", "1/(2*x + 3)"),
		Entry("root", "sqrt(x)"),
		Entry("power of linear", "(3*x + 1)^4"),
		Entry("sine", "sin(x)"),
		Entry("cosine of linear", "cos(2*x + 1)"),
		Entry("exponential of linear", "exp(-3*x)"),
		Entry("hyperbolic", "sinh(x) + cosh(2*x)"),
		Entry("logarithm", "ln(x)"),
		Entry("exponential base", "2^x"),
		Entry("x times exp", "x*exp(x)"),
		Entry("cubic times exp", "x^3*exp(2*x)"),
		Entry("x times sine", "x*sin(x)"),
		Entry("square times cosine", "x^2*cos(3*x)"),
		Entry("x times log", "x*ln(x)"),
		Entry("square times log", "x^2*ln(x)"),
		Entry("mixed", "2*x + 1/x"),
		Entry("irrational coefficient", "3*exp(x) + pi*x"),
		Entry("exp of square times x", "x*exp(x^2)"),
		Entry("gaussian kernel", "-3*x*exp(-1/2*x^2)"),
		Entry("exp of cube times square", "x^2*exp(x^3)"),
		Entry("exp times sine", "exp(x)*sin(x)"),
		Entry("decaying cosine", "exp(-2*x)*cos(3*x)"),
		Entry("shifted arguments", "exp(x + 1)*cos(2*x + 1)"),
		Entry("log of shifted argument", "ln(x + 1)"),
	)

	It("produces the expected closed forms", func() {
		F, err := symbolic.Integrate(parse("t^3"), "t")
		Expect(err).NotTo(HaveOccurred())
		Expect(F.String()).To(Equal("1/4*t^4"))

		F, err = symbolic.Integrate(parse("1/(1 + x)"), "x")
		Expect(err).NotTo(HaveOccurred())
		Expect(F.String()).To(Equal("ln(abs(x + 1))"))

		F, err = symbolic.Integrate(parse("sin(x)"), "x")
		Expect(err).NotTo(HaveOccurred())
		Expect(F.Equal(parse("-cos(x)"))).To(BeTrue())

		F, err = symbolic.Integrate(parse("x*exp(x)"), "x")
		Expect(err).NotTo(HaveOccurred())
		Expect(F.Equal(parse("x*exp(x) - exp(x)"))).To(BeTrue())

		F, err = symbolic.Integrate(parse("x*exp(-x^2/2)"), "x")
		Expect(err).NotTo(HaveOccurred())
		Expect(F.Equal(parse("-exp(-1/2*x^2)"))).To(BeTrue(), "got %s", F)

		F, err = symbolic.Integrate(parse("exp(x)*sin(x)"), "x")
		Expect(err).NotTo(HaveOccurred())
		Expect(symbolic.Expand(F).Equal(parse("1/2*exp(x)*sin(x) - 1/2*exp(x)*cos(x)"))).To(BeTrue(), "got %s", F)
	})

	DescribeTable("reports integrands without a rule",
		func(src string) {
			_, err := symbolic.Integrate(parse(src), "x")
			Expect(err).To(MatchError(symbolic.ErrNotIntegrable))
		},
		Entry("gaussian", "exp(x^2)"),
		Entry("sine of square", "sin(x^2)"),
		Entry("rational", "1/(x^2 + 1)"),
		Entry("log of shifted argument times x", "x*ln(x + 1)"),
		Entry("tower", "x^x"),
		Entry("exp of square without its derivative", "x^2*exp(x^2)"),
		Entry("exp times sine of square", "exp(x)*sin(x^2)"),
	)
})
