package relax

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/planmath/mip/core"
)

const (
	// linearityTol bounds the probe error accepted when extracting
	// explicit coefficients from an opaque objective.
	linearityTol = 1e-7

	// basisTol separates basic from nonbasic columns at the optimum.
	basisTol = 1e-9

	// pivotTol is forwarded to lp.Simplex. Slightly wider than the
	// library default so degenerate bases from near-duplicate rows do
	// not cycle the pivot selection.
	pivotTol = 1e-9
)

// SimplexSolver solves purely linear relaxations through
// gonum's lp.Simplex over the standard form
//
//	minimize c·x  s.t.  A·x = b, x ≥ 0,
//
// built by normalizing every constraint to ≤-form and adding one slack
// variable per inequality. Maximization negates the objective.
//
// After an optimal solve the adapter recovers the optimal basis from
// the solution support and publishes the tableau rows B⁻¹A together
// with the slack definitions needed to express derived inequalities in
// original-variable coordinates. Basis recovery is best-effort: a
// degenerate or singular basis simply yields a nil tableau, which
// disables cutting-plane rounds for that node.
type SimplexSolver struct {
	// Tol is forwarded to lp.Simplex; 0 selects the library default.
	Tol float64

	// EmitTableau toggles optimal-basis recovery. Disabling it skips
	// the LU solves when cuts are not wanted.
	EmitTableau bool
}

// NewSimplexSolver returns a SimplexSolver with tableau recovery on.
func NewSimplexSolver() *SimplexSolver {
	return &SimplexSolver{Tol: pivotTol, EmitTableau: true}
}

// slackDef records the ≤-normalized row a slack variable belongs to:
// s = rhs − coeffs·x.
type slackDef struct {
	coeffs []float64
	rhs    float64
}

// SolveRelaxation implements Solver. The objective must be affine
// (verified by probing); constraints must all be linear. Returns
// ErrNonlinearProblem otherwise.
//
// Complexity: dominated by lp.Simplex; tableau recovery adds one m×m
// LU factorization and m×(n+s) solve.
func (s *SimplexSolver) SolveRelaxation(obj core.Objective, constraints []core.Constraint, initial []float64, minimize bool) (Result, error) {
	n, err := problemDimension(constraints, initial)
	if err != nil {
		return Result{}, err
	}
	lf, err := core.ExtractLinear(obj, n, linearityTol)
	if err != nil {
		if errors.Is(err, core.ErrNonlinearObjective) {
			return Result{}, ErrNonlinearProblem
		}

		return Result{}, err
	}

	return s.SolveLinearRelaxation(lf, constraints, minimize)
}

// SolveLinearRelaxation is the exact-coefficient entry point: no probing,
// no finite-difference noise.
func (s *SimplexSolver) SolveLinearRelaxation(lf core.LinearFunction, constraints []core.Constraint, minimize bool) (Result, error) {
	n := lf.Dim()
	if n == 0 {
		return Result{}, ErrDimensionMismatch
	}
	if len(constraints) == 0 {
		return Result{}, ErrNoConstraints
	}
	var c core.Constraint
	for _, c = range constraints {
		if !c.IsLinear() {
			return Result{}, ErrNonlinearProblem
		}
		if len(c.Coefficients) != n {
			return Result{}, ErrDimensionMismatch
		}
	}

	cStd, a, b, slacks := standardForm(lf.Coefficients, constraints, minimize)

	z, xStd, err := lp.Simplex(cStd, a, b, s.Tol, nil)
	switch {
	case err == nil:
		// fall through to result assembly
	case errors.Is(err, lp.ErrInfeasible):
		return Result{Status: StatusInfeasible}, nil
	case errors.Is(err, lp.ErrUnbounded):
		return Result{Status: StatusUnbounded}, nil
	default:
		return Result{}, err
	}

	x := append([]float64(nil), xStd[:n]...)
	objective := z + lf.Constant
	if !minimize {
		objective = -z + lf.Constant
	}

	res := Result{Solution: x, Objective: objective, Status: StatusOptimal}
	if s.EmitTableau {
		res.Tableau = recoverTableau(a, b, xStd, n, slacks)
	}

	return res, nil
}

// problemDimension infers n from the constraint set (or the initial
// guess) and validates consistency.
func problemDimension(constraints []core.Constraint, initial []float64) (int, error) {
	if len(constraints) == 0 {
		return 0, ErrNoConstraints
	}
	n := len(initial)
	var c core.Constraint
	for _, c = range constraints {
		if !c.IsLinear() {
			return 0, ErrNonlinearProblem
		}
		if n == 0 {
			n = len(c.Coefficients)
		}
		if len(c.Coefficients) != n {
			return 0, ErrDimensionMismatch
		}
	}
	if n == 0 {
		return 0, ErrDimensionMismatch
	}

	return n, nil
}

// standardForm normalizes constraints to equalities over non-negative
// variables: ≥-rows are negated into ≤-form, every inequality gains a
// unit slack column, equalities pass through. Maximization negates c.
func standardForm(c []float64, constraints []core.Constraint, minimize bool) (cStd []float64, a *mat.Dense, b []float64, slacks []slackDef) {
	n := len(c)
	m := len(constraints)

	nSlack := 0
	for _, cons := range constraints {
		if cons.Sense != core.Eq {
			nSlack++
		}
	}
	cols := n + nSlack

	cStd = make([]float64, cols)
	copy(cStd, c)
	if !minimize {
		for j := 0; j < n; j++ {
			cStd[j] = -cStd[j]
		}
	}

	a = mat.NewDense(m, cols, nil)
	b = make([]float64, m)
	slacks = make([]slackDef, 0, nSlack)

	var (
		i, j, k int
		sign    float64
	)
	for i = 0; i < m; i++ {
		cons := constraints[i]
		sign = 1
		if cons.Sense == core.GreaterEq {
			sign = -1
		}
		row := make([]float64, n)
		for j = 0; j < n; j++ {
			row[j] = sign * cons.Coefficients[j]
			a.Set(i, j, row[j])
		}
		b[i] = sign * cons.RHS
		if cons.Sense != core.Eq {
			a.Set(i, n+k, 1)
			slacks = append(slacks, slackDef{coeffs: row, rhs: b[i]})
			k++
		}
	}

	return cStd, a, b, slacks
}

// recoverTableau rebuilds the optimal-basis tableau from the solution
// support. Best-effort: any ambiguity (over-full support, singular
// basis) yields nil rather than an error, since the tableau only
// feeds optional cut generation.
func recoverTableau(a *mat.Dense, b []float64, xStd []float64, n int, slacks []slackDef) *Tableau {
	m, cols := a.Dims()

	// Basic candidates: the solution support, ascending.
	basis := make([]int, 0, m)
	inBasis := make([]bool, cols)
	var j int
	for j = 0; j < cols; j++ {
		if xStd[j] > basisTol {
			if len(basis) == m {
				return nil // degenerate support wider than the basis
			}
			basis = append(basis, j)
			inBasis[j] = true
		}
	}
	// Degenerate optimum: pad with remaining columns, slacks first.
	for j = n; j < cols && len(basis) < m; j++ {
		if !inBasis[j] {
			basis = append(basis, j)
			inBasis[j] = true
		}
	}
	for j = 0; j < n && len(basis) < m; j++ {
		if !inBasis[j] {
			basis = append(basis, j)
			inBasis[j] = true
		}
	}

	bMat := mat.NewDense(m, m, nil)
	var r, cIdx int
	for cIdx = 0; cIdx < m; cIdx++ {
		for r = 0; r < m; r++ {
			bMat.Set(r, cIdx, a.At(r, basis[cIdx]))
		}
	}

	var lu mat.LU
	lu.Factorize(bMat)

	var rows mat.Dense
	if err := lu.SolveTo(&rows, false, a); err != nil {
		return nil
	}
	var rhs mat.VecDense
	if err := lu.SolveVecTo(&rhs, false, mat.NewVecDense(m, b)); err != nil {
		return nil
	}

	tab := &Tableau{
		Basis:       append([]int(nil), basis...),
		Rows:        make([][]float64, m),
		RHS:         make([]float64, m),
		NumOriginal: n,
		Slacks:      make([]SlackRow, len(slacks)),
	}
	var k int
	for k = 0; k < len(slacks); k++ {
		tab.Slacks[k] = SlackRow{
			Coeffs: append([]float64(nil), slacks[k].coeffs...),
			RHS:    slacks[k].rhs,
		}
	}
	for r = 0; r < m; r++ {
		row := make([]float64, cols)
		for j = 0; j < cols; j++ {
			row[j] = rows.At(r, j)
		}
		tab.Rows[r] = row
		tab.RHS[r] = rhs.AtVec(r)
	}

	return tab
}
