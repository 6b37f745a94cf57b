package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Regime is the long-run behaviour of a solution from one initial value.
type Regime int

const (
	// Fixed: the initial value is itself an equilibrium.
	Fixed Regime = iota
	// Bounded: the solution moves monotonically toward an equilibrium.
	Bounded
	// Diverging: no equilibrium lies in the direction of motion.
	Diverging
)

func (r Regime) String() string {
	switch r {
	case Fixed:
		return "equilibrium"
	case Bounded:
		return "bounded"
	case Diverging:
		return "diverging"
	}
	return fmt.Sprintf("Regime(%d)", int(r))
}

// ParseRegime accepts the names produced by Regime.String.
func ParseRegime(s string) (Regime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "equilibrium", "fixed":
		return Fixed, nil
	case "bounded", "stable":
		return Bounded, nil
	case "diverging", "unstable":
		return Diverging, nil
	}
	return 0, fmt.Errorf("unknown regime: %q", s)
}

// Classify places y0 relative to the equilibria of dy/dt = g(y). The
// equilibria must be sorted, as FindEquilibria returns them.
func Classify(g func(float64) float64, y0 float64, eqs []Equilibrium) Regime {
	for _, e := range eqs {
		if math.Abs(e.Value-y0) <= 1e-12*(1+math.Abs(y0)) {
			return Fixed
		}
	}

	v := g(y0)
	switch {
	case v == 0:
		return Fixed
	case v > 0:
		for _, e := range eqs {
			if e.Value > y0 {
				return Bounded
			}
		}
	case v < 0:
		for _, e := range eqs {
			if e.Value < y0 {
				return Bounded
			}
		}
	}
	return Diverging
}

// Window picks the integration window length for a regime.
func Window(r Regime, short, long float64) float64 {
	if r == Diverging {
		return short
	}
	return long
}
