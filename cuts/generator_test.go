// Package cuts_test validates cut derivation: the Gomory fractional
// construction against a hand-worked tableau, cover/clique/MIR cuts on
// knapsack rows, the weakness filter, and cut validity over integer
// points.
package cuts_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planmath/mip/core"
	"github.com/planmath/mip/cuts"
	"github.com/planmath/mip/relax"
)

// workedTableau is the optimal tableau of
//
//	minimize −x−y  s.t.  3x+2y ≤ 6, −3x+2y ≤ 0, x,y ≥ 0
//
// at the fractional vertex (1, 1.5): basis {x, y},
// B⁻¹A = [[1,0,1/6,−1/6],[0,1,1/4,1/4]], B⁻¹b = [1, 1.5].
func workedTableau() *relax.Tableau {
	return &relax.Tableau{
		Basis: []int{0, 1},
		Rows: [][]float64{
			{1, 0, 1.0 / 6, -1.0 / 6},
			{0, 1, 0.25, 0.25},
		},
		RHS:         []float64{1, 1.5},
		NumOriginal: 2,
		Slacks: []relax.SlackRow{
			{Coeffs: []float64{3, 2}, RHS: 6},
			{Coeffs: []float64{-3, 2}, RHS: 0},
		},
	}
}

func TestGomoryFromTableau(t *testing.T) {
	t.Parallel()

	g := cuts.NewGenerator()
	got := g.GomoryFromTableau(workedTableau(), []int{0, 1})

	// Only the y-row is fractional; the classical derivation yields y ≤ 1.
	require.Len(t, got, 1)
	cut := got[0]
	require.Equal(t, cuts.Gomory, cut.Type)
	require.Equal(t, 1, cut.SourceRow)
	require.InDelta(t, 0, cut.Coefficients[0], 1e-9)
	require.InDelta(t, 1, cut.Coefficients[1], 1e-9)
	require.InDelta(t, 1, cut.RHS, 1e-9)

	// Separates the fractional optimum...
	require.Greater(t, cut.Violation([]float64{1, 1.5}), 0.0)

	// ...but no integer-feasible point of the source system.
	source := []core.Constraint{
		core.LessEqual([]float64{3, 2}, 6),
		core.LessEqual([]float64{-3, 2}, 0),
	}
	for x := 0.0; x <= 2; x++ {
		for y := 0.0; y <= 3; y++ {
			pt := []float64{x, y}
			feasible := true
			for _, c := range source {
				if c.Violation(pt) > 1e-9 {
					feasible = false
					break
				}
			}
			if feasible {
				require.LessOrEqualf(t, cut.Violation(pt), 1e-9,
					"cut separates integer point (%v,%v)", x, y)
			}
		}
	}
}

func TestGomoryEndToEnd(t *testing.T) {
	t.Parallel()

	// The same problem solved through the simplex adapter must yield a
	// tableau from which the same cut falls out.
	s := relax.NewSimplexSolver()
	lf := core.LinearFunction{Coefficients: []float64{-1, -1}}
	cons := []core.Constraint{
		core.LessEqual([]float64{3, 2}, 6),
		core.LessEqual([]float64{-3, 2}, 0),
	}
	res, err := s.SolveLinearRelaxation(lf, cons, true)
	require.NoError(t, err)
	require.NotNil(t, res.Tableau)

	g := cuts.NewGenerator()
	got := g.GomoryFromTableau(res.Tableau, []int{0, 1})
	require.NotEmpty(t, got)

	sel := cuts.SelectMostViolated(got, res.Solution)
	require.NotNil(t, sel)
	require.Greater(t, sel.Violation(res.Solution), 0.0)
}

func TestGomorySkipsIntegralRows(t *testing.T) {
	t.Parallel()

	g := cuts.NewGenerator()

	t.Run("nil tableau", func(t *testing.T) {
		require.Nil(t, g.GomoryFromTableau(nil, []int{0}))
	})

	t.Run("continuous basic variable", func(t *testing.T) {
		// y fractional but not integer-constrained: no cut.
		got := g.GomoryFromTableau(workedTableau(), []int{0})
		require.Empty(t, got)
	})
}

func TestCoverFromKnapsack(t *testing.T) {
	t.Parallel()

	g := cuts.NewGenerator()

	// Knapsack 2x₁+3x₂+x₃ ≤ 4 at LP optimum (1, 1/3, 1):
	// greedy cover {x₁,x₃,x₂} minimizes to {x₁,x₂} → x₁+x₂ ≤ 1.
	cut := g.CoverFromKnapsack([]float64{2, 3, 1}, 4, []float64{1, 1.0 / 3, 1})
	require.NotNil(t, cut)
	require.Equal(t, cuts.Cover, cut.Type)
	require.Equal(t, []float64{1, 1, 0}, cut.Coefficients)
	require.InDelta(t, 1, cut.RHS, 1e-12)

	// Valid for every feasible binary point.
	for mask := 0; mask < 8; mask++ {
		pt := []float64{float64(mask & 1), float64(mask >> 1 & 1), float64(mask >> 2 & 1)}
		if 2*pt[0]+3*pt[1]+pt[2] <= 4 {
			require.LessOrEqual(t, cut.Violation(pt), 0.0)
		}
	}
}

func TestCoverNotViolated(t *testing.T) {
	t.Parallel()

	g := cuts.NewGenerator()

	// Integral point: no violated cover exists.
	require.Nil(t, g.CoverFromKnapsack([]float64{2, 3, 1}, 4, []float64{1, 0, 1}))

	// Total weight under capacity: no cover at all.
	require.Nil(t, g.CoverFromKnapsack([]float64{1, 1}, 5, []float64{1, 1}))
}

func TestCliqueFromKnapsack(t *testing.T) {
	t.Parallel()

	g := cuts.NewGenerator()

	// Items 0 and 1 pairwise exceed the capacity.
	cut := g.CliqueFromKnapsack([]float64{3, 3, 1}, 4, []float64{0.8, 0.7, 0})
	require.NotNil(t, cut)
	require.Equal(t, cuts.Clique, cut.Type)
	require.Equal(t, []float64{1, 1, 0}, cut.Coefficients)
	require.InDelta(t, 1, cut.RHS, 1e-12)

	// Fewer than two conflicting items: nothing to emit.
	require.Nil(t, g.CliqueFromKnapsack([]float64{3, 1, 1}, 4, []float64{1, 1, 1}))

	// Not violated at an SOS-like integral point.
	require.Nil(t, g.CliqueFromKnapsack([]float64{3, 3, 1}, 4, []float64{1, 0, 0}))
}

func TestMIRFromRow(t *testing.T) {
	t.Parallel()

	g := cuts.NewGenerator()

	t.Run("integral coefficients round rhs", func(t *testing.T) {
		// 2x₁+3x₂ ≤ 6.5 → 2x₁+3x₂ ≤ 6.
		cut := g.MIRFromRow([]float64{2, 3}, 6.5, []float64{1, 1.55}, []int{0, 1})
		require.NotNil(t, cut)
		require.Equal(t, cuts.MixedIntegerRounding, cut.Type)
		require.Equal(t, []float64{2, 3}, cut.Coefficients)
		require.InDelta(t, 6, cut.RHS, 1e-12)
	})

	t.Run("fractional coefficient below f0 floors", func(t *testing.T) {
		// 1.5x ≤ 2.7 → x ≤ 2 (frac(1.5)=0.5 ≤ f₀=0.7).
		cut := g.MIRFromRow([]float64{1.5}, 2.7, []float64{2.2}, []int{0})
		require.NotNil(t, cut)
		require.InDelta(t, 1, cut.Coefficients[0], 1e-9)
		require.InDelta(t, 2, cut.RHS, 1e-9)
	})

	t.Run("rhs fraction near one produces nothing", func(t *testing.T) {
		// f₀ = 1 − 1e-7 would divide the coefficients by 1e-7.
		require.Nil(t, g.MIRFromRow([]float64{1.5}, 1.9999999, []float64{1.4}, []int{0}))
	})

	t.Run("integral rhs produces nothing", func(t *testing.T) {
		require.Nil(t, g.MIRFromRow([]float64{2, 3}, 6, []float64{1, 2}, []int{0, 1}))
	})

	t.Run("continuous variable disqualifies the row", func(t *testing.T) {
		require.Nil(t, g.MIRFromRow([]float64{2, 3}, 6.5, []float64{1, 1.55}, []int{0}))
	})
}

func TestSelectMostViolated(t *testing.T) {
	t.Parallel()

	cs := []cuts.Cut{
		{Coefficients: []float64{1, 0}, RHS: 5},  // slack at x
		{Coefficients: []float64{0, 1}, RHS: 1}, // violated by 0.5
		{Coefficients: []float64{1, 1}, RHS: 2}, // violated by 0.5
		{Coefficients: []float64{1, 1}, RHS: 1}, // violated by 1.5
	}
	x := []float64{1, 1.5}

	sel := cuts.SelectMostViolated(cs, x)
	require.NotNil(t, sel)
	require.InDelta(t, 1.5, sel.Violation(x), 1e-12)

	require.Nil(t, cuts.SelectMostViolated(cs[:1], x))
	require.Nil(t, cuts.SelectMostViolated(nil, x))
}

func TestWeakCutFilter(t *testing.T) {
	t.Parallel()

	// A tableau whose fractional row produces coefficients below the
	// threshold must yield nothing.
	g := &cuts.Generator{FracTolerance: 1e-6, CoefficientThreshold: 0.5}
	tab := &relax.Tableau{
		Basis:       []int{0},
		Rows:        [][]float64{{1, 0.1}},
		RHS:         []float64{1.5},
		NumOriginal: 2,
	}
	require.Empty(t, g.GomoryFromTableau(tab, []int{0, 1}))
}

func TestNormalizeCuts(t *testing.T) {
	t.Parallel()

	g := &cuts.Generator{FracTolerance: 1e-6, CoefficientThreshold: 1e-9, Normalize: true}
	got := g.GomoryFromTableau(workedTableau(), []int{0, 1})
	require.Len(t, got, 1)

	// Largest coefficient magnitude is scaled to 1.
	maxAbs := 0.0
	for _, v := range got[0].Coefficients {
		if v < 0 {
			v = -v
		}
		if v > maxAbs {
			maxAbs = v
		}
	}
	require.InDelta(t, 1, maxAbs, 1e-12)
}

func TestCutAsConstraintIndependence(t *testing.T) {
	t.Parallel()

	cut := cuts.Cut{Coefficients: []float64{1, 2}, RHS: 3}
	cons := cut.AsConstraint()
	cons.Coefficients[0] = 99
	require.Equal(t, 1.0, cut.Coefficients[0])
	require.Equal(t, core.LessEq, cons.Sense)
}
