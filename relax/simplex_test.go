// Package relax_test validates the simplex adapter: status mapping,
// objective direction handling, explicit-coefficient entry point, and
// optimal-basis tableau recovery.
package relax_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planmath/mip/core"
	"github.com/planmath/mip/relax"
)

func TestSimplexOptimal(t *testing.T) {
	t.Parallel()

	// minimize −x − 2y  s.t.  x+y ≤ 3, x ≤ 2, y ≤ 2  → x=1, y=2, z=−5.
	s := relax.NewSimplexSolver()
	lf := core.LinearFunction{Coefficients: []float64{-1, -2}}
	cons := []core.Constraint{
		core.LessEqual([]float64{1, 1}, 3),
		core.LessEqual([]float64{1, 0}, 2),
		core.LessEqual([]float64{0, 1}, 2),
	}

	res, err := s.SolveLinearRelaxation(lf, cons, true)
	require.NoError(t, err)
	require.Equal(t, relax.StatusOptimal, res.Status)
	require.InDelta(t, -5, res.Objective, 1e-9)
	require.InDelta(t, 1, res.Solution[0], 1e-9)
	require.InDelta(t, 2, res.Solution[1], 1e-9)
}

func TestSimplexMaximize(t *testing.T) {
	t.Parallel()

	// maximize 5x₁+4x₂+3x₃  s.t.  2x₁+3x₂+x₃ ≤ 4, x ≤ 1 → continuous
	// optimum x=(1, 1/3, 1), z = 5 + 4/3 + 3.
	s := relax.NewSimplexSolver()
	lf := core.LinearFunction{Coefficients: []float64{5, 4, 3}}
	cons := []core.Constraint{
		core.LessEqual([]float64{2, 3, 1}, 4),
		core.LessEqual([]float64{1, 0, 0}, 1),
		core.LessEqual([]float64{0, 1, 0}, 1),
		core.LessEqual([]float64{0, 0, 1}, 1),
	}

	res, err := s.SolveLinearRelaxation(lf, cons, false)
	require.NoError(t, err)
	require.Equal(t, relax.StatusOptimal, res.Status)
	require.InDelta(t, 5+4.0/3+3, res.Objective, 1e-9)
	require.InDelta(t, 1.0/3, res.Solution[1], 1e-9)
}

func TestSimplexInfeasible(t *testing.T) {
	t.Parallel()

	s := relax.NewSimplexSolver()
	lf := core.LinearFunction{Coefficients: []float64{1}}
	cons := []core.Constraint{
		core.GreaterEqual([]float64{1}, 5),
		core.LessEqual([]float64{1}, 2),
	}

	res, err := s.SolveLinearRelaxation(lf, cons, true)
	require.NoError(t, err)
	require.Equal(t, relax.StatusInfeasible, res.Status)
	require.Nil(t, res.Solution)
}

func TestSimplexUnbounded(t *testing.T) {
	t.Parallel()

	// maximize x over x ≥ 0 only.
	s := relax.NewSimplexSolver()
	lf := core.LinearFunction{Coefficients: []float64{1}}
	cons := []core.Constraint{core.GreaterEqual([]float64{1}, 0)}

	res, err := s.SolveLinearRelaxation(lf, cons, false)
	require.NoError(t, err)
	require.Equal(t, relax.StatusUnbounded, res.Status)
}

func TestSimplexRejectsNonlinear(t *testing.T) {
	t.Parallel()

	s := relax.NewSimplexSolver()

	t.Run("nonlinear constraint", func(t *testing.T) {
		_, err := s.SolveRelaxation(
			func(x []float64) float64 { return x[0] },
			[]core.Constraint{{Fn: func(x []float64) float64 { return x[0] * x[0] }, Sense: core.LessEq, RHS: 1}},
			[]float64{0},
			true,
		)
		require.True(t, errors.Is(err, relax.ErrNonlinearProblem))
	})

	t.Run("nonlinear objective", func(t *testing.T) {
		_, err := s.SolveRelaxation(
			func(x []float64) float64 { return x[0] * x[0] },
			[]core.Constraint{core.LessEqual([]float64{1}, 2)},
			nil,
			true,
		)
		require.True(t, errors.Is(err, relax.ErrNonlinearProblem))
	})

	t.Run("empty constraints", func(t *testing.T) {
		_, err := s.SolveRelaxation(func(x []float64) float64 { return x[0] }, nil, []float64{0}, true)
		require.True(t, errors.Is(err, relax.ErrNoConstraints))
	})
}

func TestSimplexTableauRecovery(t *testing.T) {
	t.Parallel()

	// minimize −x−y  s.t.  3x+2y ≤ 6, −3x+2y ≤ 0 → optimum (1, 1.5):
	// both structural variables basic, both slacks nonbasic at zero.
	s := relax.NewSimplexSolver()
	lf := core.LinearFunction{Coefficients: []float64{-1, -1}}
	cons := []core.Constraint{
		core.LessEqual([]float64{3, 2}, 6),
		core.LessEqual([]float64{-3, 2}, 0),
	}

	res, err := s.SolveLinearRelaxation(lf, cons, true)
	require.NoError(t, err)
	require.Equal(t, relax.StatusOptimal, res.Status)
	require.InDelta(t, 1, res.Solution[0], 1e-9)
	require.InDelta(t, 1.5, res.Solution[1], 1e-9)

	tab := res.Tableau
	require.NotNil(t, tab)
	require.Equal(t, 2, tab.NumOriginal)
	require.Len(t, tab.Slacks, 2)
	require.Equal(t, []int{0, 1}, tab.Basis)

	// Each tableau equation must hold at the optimum (slacks are zero).
	var r, j int
	for r = 0; r < len(tab.Rows); r++ {
		lhs := 0.0
		for j = 0; j < tab.NumOriginal; j++ {
			lhs += tab.Rows[r][j] * res.Solution[j]
		}
		require.InDelta(t, tab.RHS[r], lhs, 1e-9)
	}

	// The y-row carries the fractional RHS 1.5.
	require.InDelta(t, 1.5, tab.RHS[1], 1e-9)
}

func TestSimplexTableauDisabled(t *testing.T) {
	t.Parallel()

	s := &relax.SimplexSolver{EmitTableau: false}
	lf := core.LinearFunction{Coefficients: []float64{-1}}
	res, err := s.SolveLinearRelaxation(lf, []core.Constraint{core.LessEqual([]float64{1}, 2)}, true)
	require.NoError(t, err)
	require.Nil(t, res.Tableau)
}

func TestSimplexEqualityConstraint(t *testing.T) {
	t.Parallel()

	// minimize x+y  s.t.  x+y = 2, x ≤ 2, y ≤ 2 → z = 2.
	s := relax.NewSimplexSolver()
	lf := core.LinearFunction{Coefficients: []float64{1, 1}}
	cons := []core.Constraint{
		core.Equal([]float64{1, 1}, 2),
		core.LessEqual([]float64{1, 0}, 2),
		core.LessEqual([]float64{0, 1}, 2),
	}

	res, err := s.SolveLinearRelaxation(lf, cons, true)
	require.NoError(t, err)
	require.Equal(t, relax.StatusOptimal, res.Status)
	require.InDelta(t, 2, res.Objective, 1e-9)
	require.False(t, math.IsNaN(res.Solution[0]))
}
