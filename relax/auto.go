package relax

import (
	"errors"

	"github.com/planmath/mip/core"
)

// AutoSolver routes each relaxation to the cheapest capable backend:
// the simplex adapter for purely linear problems, the penalty adapter
// otherwise. It is the default backend of the search engine.
type AutoSolver struct {
	Simplex *SimplexSolver
	Penalty *PenaltySolver
}

// NewAutoSolver wires the default simplex and penalty backends.
func NewAutoSolver() *AutoSolver {
	return &AutoSolver{Simplex: NewSimplexSolver(), Penalty: NewPenaltySolver()}
}

// SolveRelaxation implements Solver.
func (a *AutoSolver) SolveRelaxation(obj core.Objective, constraints []core.Constraint, initial []float64, minimize bool) (Result, error) {
	res, err := a.Simplex.SolveRelaxation(obj, constraints, initial, minimize)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, ErrNonlinearProblem) {
		return Result{}, err
	}

	return a.Penalty.SolveRelaxation(obj, constraints, initial, minimize)
}

// SolveLinearRelaxation forwards exact coefficients straight to the
// simplex backend.
func (a *AutoSolver) SolveLinearRelaxation(lf core.LinearFunction, constraints []core.Constraint, minimize bool) (Result, error) {
	return a.Simplex.SolveLinearRelaxation(lf, constraints, minimize)
}

// LinearSolver is implemented by backends that accept explicit linear
// coefficients, bypassing finite-difference extraction entirely.
type LinearSolver interface {
	SolveLinearRelaxation(lf core.LinearFunction, constraints []core.Constraint, minimize bool) (Result, error)
}
