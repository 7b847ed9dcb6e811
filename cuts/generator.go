package cuts

import (
	"math"
	"sort"

	"github.com/planmath/mip/relax"
)

const (
	// fracFuzz treats fractional parts this close to 0 or 1 as integral,
	// absorbing floating-point drift in tableau arithmetic.
	fracFuzz = 1e-9

	// rhsZeroTol is the "RHS near zero" weakness threshold.
	rhsZeroTol = 1e-12
)

// Generator derives cuts from fractional relaxation solutions.
// FracTolerance gates both row selection (frac(b) must exceed it) and
// violation checks; CoefficientThreshold rejects cuts whose largest
// coefficient magnitude falls below it; Normalize rescales accepted
// cuts by their largest coefficient magnitude.
type Generator struct {
	FracTolerance        float64
	CoefficientThreshold float64
	Normalize            bool
}

// NewGenerator returns a Generator with the conventional thresholds.
func NewGenerator() *Generator {
	return &Generator{FracTolerance: 1e-6, CoefficientThreshold: 1e-9}
}

// frac returns the fractional part a − ⌊a⌋ in [0, 1), snapping values
// within fracFuzz of an integer to zero.
func frac(a float64) float64 {
	f := a - math.Floor(a)
	if f < fracFuzz || f > 1-fracFuzz {
		return 0
	}

	return f
}

// GomoryFromTableau derives one Gomory fractional cut per tableau row
// whose basic variable is integer-constrained with a fractional value.
// From the canonical row x_B + Σ a_j x_j = b the cut is
// Σ frac(a_j)·x_j ≥ frac(b); slack columns are substituted out via the
// tableau's slack definitions and the result is stored in ≤-form
// −Σ frac(a_j)·x_j ≤ −frac(b) over original variables. Weak cuts are
// discarded.
//
// Complexity: O(m·(n+s)) over m rows and s slacks.
func (g *Generator) GomoryFromTableau(tab *relax.Tableau, integer []int) []Cut {
	if tab == nil {
		return nil
	}
	isInt := make(map[int]bool, len(integer))
	for _, idx := range integer {
		isInt[idx] = true
	}

	n := tab.NumOriginal
	var (
		out  []Cut
		r, j int
	)
	for r = 0; r < len(tab.Rows); r++ {
		basic := tab.Basis[r]
		if basic < 0 || basic >= n || !isInt[basic] {
			continue
		}
		f0 := frac(tab.RHS[r])
		if f0 < g.FracTolerance || f0 > 1-g.FracTolerance {
			continue
		}

		// Accumulate the ≥-form cut over original variables.
		coeffs := make([]float64, n)
		rhs := f0
		for j = 0; j < len(tab.Rows[r]); j++ {
			if j == basic {
				continue
			}
			fj := frac(tab.Rows[r][j])
			if fj == 0 {
				continue
			}
			if j < n {
				coeffs[j] += fj
			} else {
				// Substitute s_k = RHS − Coeffs·x.
				def := tab.Slacks[j-n]
				for i := 0; i < n; i++ {
					coeffs[i] -= fj * def.Coeffs[i]
				}
				rhs -= fj * def.RHS
			}
		}

		// Store in ≤-form.
		for j = 0; j < n; j++ {
			coeffs[j] = -coeffs[j]
		}
		cut := Cut{Coefficients: coeffs, RHS: -rhs, Type: Gomory, SourceRow: r}
		if g.accept(&cut) {
			out = append(out, cut)
		}
	}

	return out
}

// MIRFromRow derives a mixed-integer-rounding cut from a single ≤-row
// Σ a_j x_j ≤ b over integer-constrained variables only: any variable
// with a nonzero coefficient outside the integer set disqualifies the
// row. The cut
//
//	Σ (⌊a_j⌋ + max(frac(a_j)−f₀, 0)/(1−f₀))·x_j ≤ ⌊b⌋,  f₀ = frac(b),
//
// is emitted only when x violates it by more than FracTolerance.
func (g *Generator) MIRFromRow(coeffs []float64, rhs float64, x []float64, integer []int) *Cut {
	f0 := frac(rhs)
	if f0 < g.FracTolerance || f0 > 1-g.FracTolerance {
		// f₀ near 1 makes 1−f₀ a division hazard.
		return nil
	}
	isInt := make(map[int]bool, len(integer))
	for _, idx := range integer {
		isInt[idx] = true
	}
	var j int
	for j = 0; j < len(coeffs); j++ {
		if coeffs[j] != 0 && !isInt[j] {
			return nil
		}
	}

	mir := make([]float64, len(coeffs))
	for j = 0; j < len(coeffs); j++ {
		fj := frac(coeffs[j])
		mir[j] = math.Floor(coeffs[j])
		if fj > f0 {
			mir[j] += (fj - f0) / (1 - f0)
		}
	}
	cut := Cut{Coefficients: mir, RHS: math.Floor(rhs), Type: MixedIntegerRounding, SourceRow: -1}
	if !g.accept(&cut) || cut.Violation(x) <= g.FracTolerance {
		return nil
	}

	return &cut
}

// CoverFromKnapsack builds a minimal cover cut for the knapsack row
// weights·x ≤ capacity over binary variables: items are added greedily
// by highest current value until the accumulated weight exceeds the
// capacity, the cover is minimized by dropping items whose removal
// still leaves the weight above capacity, and Σ_{cover} x_i ≤ |cover|−1
// is emitted only if x violates it by more than FracTolerance.
func (g *Generator) CoverFromKnapsack(weights []float64, capacity float64, x []float64) *Cut {
	n := len(weights)
	order := make([]int, 0, n)
	var i int
	for i = 0; i < n; i++ {
		if weights[i] > 0 {
			order = append(order, i)
		}
	}
	// Highest current value first; index ascending on ties.
	sort.SliceStable(order, func(a, b int) bool { return x[order[a]] > x[order[b]] })

	var (
		weight float64
		cover  []int
	)
	for _, i = range order {
		cover = append(cover, i)
		weight += weights[i]
		if weight > capacity {
			break
		}
	}
	if weight <= capacity {
		return nil
	}

	// Minimize: drop any item whose removal keeps the cover covering.
	minimal := cover[:0]
	for _, i = range cover {
		if weight-weights[i] > capacity {
			weight -= weights[i]
			continue
		}
		minimal = append(minimal, i)
	}
	if len(minimal) < 2 {
		return nil
	}

	coeffs := make([]float64, n)
	for _, i = range minimal {
		coeffs[i] = 1
	}
	cut := Cut{Coefficients: coeffs, RHS: float64(len(minimal) - 1), Type: Cover, SourceRow: -1}
	if cut.Violation(x) <= g.FracTolerance {
		return nil
	}

	return &cut
}

// CliqueFromKnapsack emits Σ x_i ≤ 1 over the items whose weights
// pairwise exceed the capacity (equivalently, every item heavier than
// half the capacity), when x violates it by more than FracTolerance.
func (g *Generator) CliqueFromKnapsack(weights []float64, capacity float64, x []float64) *Cut {
	n := len(weights)
	coeffs := make([]float64, n)
	count := 0
	var i int
	for i = 0; i < n; i++ {
		if weights[i] > capacity/2 {
			coeffs[i] = 1
			count++
		}
	}
	if count < 2 {
		return nil
	}
	cut := Cut{Coefficients: coeffs, RHS: 1, Type: Clique, SourceRow: -1}
	if cut.Violation(x) <= g.FracTolerance {
		return nil
	}

	return &cut
}

// SelectMostViolated returns the cut with maximal positive violation at
// x, or nil when no cut is violated. Ties keep the earliest cut.
func SelectMostViolated(cs []Cut, x []float64) *Cut {
	best := -1
	bestViol := 0.0
	var i int
	for i = range cs {
		if v := cs[i].Violation(x); v > bestViol {
			bestViol = v
			best = i
		}
	}
	if best < 0 {
		return nil
	}

	return &cs[best]
}

// accept applies the weakness filter and optional normalization.
func (g *Generator) accept(c *Cut) bool {
	maxAbs := 0.0
	for _, v := range c.Coefficients {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs < g.CoefficientThreshold {
		return false
	}
	if math.Abs(c.RHS) < rhsZeroTol {
		return false
	}
	if g.Normalize && maxAbs > 0 {
		for i := range c.Coefficients {
			c.Coefficients[i] /= maxAbs
		}
		c.RHS /= maxAbs
	}

	return true
}
