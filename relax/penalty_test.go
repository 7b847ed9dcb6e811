package relax_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planmath/mip/core"
	"github.com/planmath/mip/relax"
)

func TestPenaltyLinearProblem(t *testing.T) {
	t.Parallel()

	// minimize (x−2)² with x ≤ 1 → optimum at the boundary x = 1.
	p := relax.NewPenaltySolver()
	obj := func(x []float64) float64 { return (x[0] - 2) * (x[0] - 2) }
	cons := []core.Constraint{core.LessEqual([]float64{1}, 1)}

	res, err := p.SolveRelaxation(obj, cons, []float64{0}, true)
	require.NoError(t, err)
	require.Equal(t, relax.StatusOptimal, res.Status)
	require.InDelta(t, 1, res.Solution[0], 1e-2)
	require.Nil(t, res.Tableau)
}

func TestPenaltyMaximize(t *testing.T) {
	t.Parallel()

	// maximize −(x−1)² → optimum x = 1, unconstrained interior point.
	p := relax.NewPenaltySolver()
	obj := func(x []float64) float64 { return -(x[0] - 1) * (x[0] - 1) }
	cons := []core.Constraint{core.LessEqual([]float64{1}, 10)}

	res, err := p.SolveRelaxation(obj, cons, []float64{4}, false)
	require.NoError(t, err)
	require.Equal(t, relax.StatusOptimal, res.Status)
	require.InDelta(t, 1, res.Solution[0], 1e-2)
	require.InDelta(t, 0, res.Objective, 1e-3)
}

func TestPenaltyInfeasible(t *testing.T) {
	t.Parallel()

	p := relax.NewPenaltySolver()
	obj := func(x []float64) float64 { return x[0] }
	cons := []core.Constraint{
		core.GreaterEqual([]float64{1}, 5),
		core.LessEqual([]float64{1}, 2),
	}

	res, err := p.SolveRelaxation(obj, cons, []float64{3}, true)
	require.NoError(t, err)
	require.Equal(t, relax.StatusInfeasible, res.Status)
	require.Nil(t, res.Solution)
}

func TestPenaltyInputValidation(t *testing.T) {
	t.Parallel()

	p := relax.NewPenaltySolver()

	_, err := p.SolveRelaxation(func(x []float64) float64 { return 0 }, nil, []float64{0}, true)
	require.True(t, errors.Is(err, relax.ErrNoConstraints))

	_, err = p.SolveRelaxation(func(x []float64) float64 { return 0 },
		[]core.Constraint{core.LessEqual([]float64{1}, 1)}, nil, true)
	require.True(t, errors.Is(err, relax.ErrDimensionMismatch))
}

func TestAutoSolverDispatch(t *testing.T) {
	t.Parallel()

	a := relax.NewAutoSolver()

	t.Run("linear goes to simplex", func(t *testing.T) {
		res, err := a.SolveRelaxation(
			func(x []float64) float64 { return -x[0] },
			[]core.Constraint{core.LessEqual([]float64{1}, 2)},
			nil, true,
		)
		require.NoError(t, err)
		require.Equal(t, relax.StatusOptimal, res.Status)
		require.InDelta(t, 2, res.Solution[0], 1e-9)
		require.NotNil(t, res.Tableau)
	})

	t.Run("nonlinear falls back to penalty", func(t *testing.T) {
		res, err := a.SolveRelaxation(
			func(x []float64) float64 { return (x[0] - 3) * (x[0] - 3) },
			[]core.Constraint{core.LessEqual([]float64{1}, 2)},
			[]float64{0}, true,
		)
		require.NoError(t, err)
		require.Equal(t, relax.StatusOptimal, res.Status)
		require.InDelta(t, 2, res.Solution[0], 1e-2)
		require.Nil(t, res.Tableau)
	})
}
