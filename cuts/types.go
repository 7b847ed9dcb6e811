package cuts

import (
	"gonum.org/v1/gonum/floats"

	"github.com/planmath/mip/core"
)

// Type labels the derivation family of a cut.
type Type int

const (
	// Gomory is a fractional cut from a simplex tableau row.
	Gomory Type = iota
	// MixedIntegerRounding is a MIR cut from a single ≤-row.
	MixedIntegerRounding
	// Cover is a minimal-cover cut from a knapsack row.
	Cover
	// Clique is a pairwise-conflict cut from a knapsack row.
	Clique
)

// String returns the conventional name of t.
func (t Type) String() string {
	switch t {
	case Gomory:
		return "gomory"
	case MixedIntegerRounding:
		return "mir"
	case Cover:
		return "cover"
	case Clique:
		return "clique"
	default:
		return "unknown"
	}
}

// Cut is a valid inequality in ≤-form: Coefficients·x ≤ RHS.
// SourceRow records the tableau or constraint row it was derived from
// (-1 when not applicable).
type Cut struct {
	Coefficients []float64
	RHS          float64
	Type         Type
	SourceRow    int
}

// Violation returns Coefficients·x − RHS: positive at points the cut
// separates.
func (c Cut) Violation(x []float64) float64 {
	return floats.Dot(c.Coefficients, x) - c.RHS
}

// AsConstraint adapts the cut into the solver constraint model.
// The coefficient vector is copied: adding a cut to one node must not
// alias another node's state.
func (c Cut) AsConstraint() core.Constraint {
	return core.LessEqual(append([]float64(nil), c.Coefficients...), c.RHS)
}
