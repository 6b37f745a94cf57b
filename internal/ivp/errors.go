package ivp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/slopefield/internal/symbolic"
)

var (
	// ErrInvalidODE indicates an equation that refers to unknown symbols.
	ErrInvalidODE = errors.New("ivp: invalid equation")

	// ErrNoClosedForm indicates the equation is outside the solvable classes
	// or needs an integral the rule set cannot do.
	ErrNoClosedForm = errors.New("ivp: no closed-form solution found")

	// ErrNoConstant indicates that no value of the constant satisfies the
	// initial condition.
	ErrNoConstant = errors.New("ivp: no constant satisfies the initial condition")

	// ErrAmbiguousConstant indicates more than one admissible constant.
	ErrAmbiguousConstant = errors.New("ivp: initial condition does not determine the constant")
)

// AmbiguityError lists the candidate constants. An empty list means every
// value satisfies the initial condition.
type AmbiguityError struct {
	Constant   string
	Candidates []symbolic.Expr
}

func (e *AmbiguityError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("%v: any %s works", ErrAmbiguousConstant, e.Constant)
	}
	parts := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%v: %s in {%s}", ErrAmbiguousConstant, e.Constant, strings.Join(parts, ", "))
}

func (e *AmbiguityError) Unwrap() error {
	return ErrAmbiguousConstant
}
