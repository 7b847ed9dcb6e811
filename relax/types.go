package relax

import (
	"errors"

	"github.com/planmath/mip/core"
)

// Sentinel errors returned by relaxation backends.
var (
	// ErrNonlinearProblem indicates that a linear-only backend received a
	// nonlinear objective or constraint.
	ErrNonlinearProblem = errors.New("relax: problem is not linear")

	// ErrDimensionMismatch indicates inconsistent vector dimensions in
	// the supplied problem.
	ErrDimensionMismatch = errors.New("relax: dimension mismatch")

	// ErrNoConstraints indicates that a constrained backend received an
	// empty constraint set.
	ErrNoConstraints = errors.New("relax: no constraints supplied")
)

// Status classifies the outcome of a relaxation solve. The set is
// deliberately closed: the search engine switches on it exhaustively.
type Status int

const (
	// StatusOptimal means an optimal continuous solution was found.
	StatusOptimal Status = iota
	// StatusInfeasible means the constraint set admits no point.
	StatusInfeasible
	// StatusUnbounded means the objective is unbounded over the
	// feasible region.
	StatusUnbounded
)

// String returns a short label for s.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// SlackRow defines a slack column in terms of the original variables:
// s = RHS − Coeffs·x, with Coeffs over the ≤-normalized source row.
type SlackRow struct {
	Coeffs []float64
	RHS    float64
}

// Tableau is the optimal simplex tableau in standard-form coordinates.
// Row r encodes the canonical equation
//
//	x_Basis[r] + Σ_j Rows[r][j]·x_j = RHS[r]
//
// over the full standard-form column set: columns 0..NumOriginal-1 are
// the original variables, column NumOriginal+k is the slack defined by
// Slacks[k]. Consumers that need original-variable coordinates (the
// Gomory cut derivation) substitute slacks out via Slacks after taking
// whatever per-coefficient transform they need; substituting before
// that transform degenerates single-row information.
type Tableau struct {
	Basis       []int
	Rows        [][]float64
	RHS         []float64
	NumOriginal int
	Slacks      []SlackRow
}

// Result is the outcome of one relaxation solve. Solution is nil unless
// Status == StatusOptimal. Tableau is optional: backends that cannot
// produce one leave it nil.
type Result struct {
	Solution  []float64
	Objective float64
	Status    Status
	Tableau   *Tableau
}

// Solver is the contract the search engine consumes. Implementations
// must be safe for sequential reuse across many solves and must not
// retain the slices they are handed.
type Solver interface {
	// SolveRelaxation optimizes obj over the constraint set, starting
	// from initial (backends may ignore the hint), minimizing when
	// minimize is true and maximizing otherwise.
	SolveRelaxation(obj core.Objective, constraints []core.Constraint, initial []float64, minimize bool) (Result, error)
}
