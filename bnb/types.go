package bnb

import (
	"errors"
	"time"

	"github.com/planmath/mip/cuts"
)

var (
	// ErrToleranceOrder is returned when the configured tolerances do
	// not satisfy LPTolerance ≤ IntegralityTolerance ≤ CutTolerance.
	ErrToleranceOrder = errors.New("bnb: tolerances must satisfy lp ≤ integrality ≤ cut")

	// ErrInvalidOption is returned for out-of-domain option values,
	// such as a negative node limit or an unknown strategy.
	ErrInvalidOption = errors.New("bnb: invalid option value")

	// ErrNilObjective is returned when Solve receives a nil objective.
	ErrNilObjective = errors.New("bnb: objective is nil")
)

// Status is the terminal state of a search.
type Status int

const (
	// StatusOptimal proves the incumbent optimal within the gap
	// tolerance.
	StatusOptimal Status = iota
	// StatusFeasible returns an incumbent without an optimality proof.
	StatusFeasible
	// StatusInfeasible proves no integer-feasible point exists.
	StatusInfeasible
	// StatusNodeLimit reports exhaustion of the node limit.
	StatusNodeLimit
	// StatusTimeLimit reports exhaustion of the wall-clock limit.
	StatusTimeLimit
)

// String returns the conventional name of s.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusNodeLimit:
		return "nodeLimit"
	case StatusTimeLimit:
		return "timeLimit"
	default:
		return "unknown"
	}
}

// Result is the outcome of one search.
//
// Solution is nil when no incumbent was found. BestBound is the
// tightest proven bound on the optimum: the incumbent value itself
// when the tree was exhausted, +∞/−∞ (by direction) when the problem
// is infeasible. Verification lists post-solve consistency violations
// and search diagnostics; a non-empty list indicates a solver defect
// or an early stop, never a user-input error.
type Result struct {
	Solution      []float64
	Objective     float64
	BestBound     float64
	RelativeGap   float64
	NodesExplored int
	Status        Status
	SolveTime     time.Duration
	CutStats      *cuts.Statistics
	Verification  []string
}
