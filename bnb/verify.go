package bnb

import (
	"fmt"
	"math"

	"github.com/planmath/mip/core"
	"github.com/planmath/mip/ipspec"
)

// verifySolution independently re-checks an incumbent: integrality of
// every constrained coordinate, constraint residuals within the LP
// tolerance, and agreement between the reported objective and a fresh
// evaluation. Violations indicate an internal defect, not a user-input
// error; they are reported, never fatal.
func verifySolution(eval func([]float64) float64, constraints []core.Constraint, spec ipspec.Specification, x []float64, objective, lpTol, intTol float64) []string {
	var out []string

	for _, idx := range spec.AllIntegers() {
		if d := math.Abs(x[idx] - math.Round(x[idx])); d > intTol {
			out = append(out, fmt.Sprintf("variable %d = %g is %g from integral", idx, x[idx], d))
		}
	}
	if !spec.IsIntegerFeasible(x, intTol) && len(out) == 0 {
		out = append(out, "special ordered set structure violated")
	}

	for i, cons := range constraints {
		if v := cons.Violation(x); v > lpTol {
			out = append(out, fmt.Sprintf("constraint %d violated by %g", i, v))
		}
	}

	if got := eval(x); math.Abs(got-objective) > lpTol*math.Max(1, math.Abs(objective)) {
		out = append(out, fmt.Sprintf("objective mismatch: reported %g, recomputed %g", objective, got))
	}

	return out
}
