// Package analysis classifies the qualitative behaviour of autonomous
// scalar equations dy/dt = g(y).
//
// The package includes:
//
//   - [FindEquilibria]: zeros of g with their stability
//   - [Classify]: whether an initial value sits on, converges to or escapes
//     past the equilibria
//   - [Window]: the integration window length for a regime
//
// # Window Policy
//
// Solutions that escape past every equilibrium may blow up in finite time,
// so they are integrated over a short window; everything else gets a long
// one:
//
//	eqs, _ := analysis.FindEquilibria(g, -5, 5, 400)
//	regime := analysis.Classify(g, y0, eqs)
//	length := analysis.Window(regime, 1, 25)
package analysis
