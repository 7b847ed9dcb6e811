package bnb

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/planmath/mip/core"
	"github.com/planmath/mip/cuts"
	"github.com/planmath/mip/ipspec"
	"github.com/planmath/mip/relax"
)

// parallelCos rejects a candidate cut whose row direction is nearly
// collinear with an existing constraint row. Appending such a row
// makes the re-solved basis degenerate and can cycle the pivoting.
const parallelCos = 1 - 1e-6

// strengthen runs up to MaxCuttingRounds cutting-plane rounds on one
// node's relaxation: generate candidate cuts at the fractional point,
// append the most violated one as a constraint and re-solve. Returns
// the extended constraint list and the final relaxation. A round that
// yields no violated cut, or whose re-solve is not optimal, ends the
// strengthening.
//
// global marks cuts valid for the whole problem. Only the root
// relaxation is global: Gomory cuts read from a child tableau carry
// that child's branch bounds and hold only inside its subtree, so
// they are applied locally and never enter the shared pool. Row cuts
// (MIR, cover, clique) derive from the original system and are pooled
// everywhere.
func (s *Solver) strengthen(constraints []core.Constraint, res relax.Result, spec ipspec.Specification, solve relaxFunc, global bool) ([]core.Constraint, relax.Result) {
	integer := spec.AllIntegers()
	binary := make(map[int]bool, len(spec.Binary))
	for _, idx := range spec.Binary {
		binary[idx] = true
	}

	var round int
	for round = 0; round < s.opts.MaxCuttingRounds; round++ {
		if res.Status != relax.StatusOptimal {
			break
		}
		x := res.Solution
		local := s.generateCuts(constraints, res, x, integer, binary, global)

		candidates := s.pool.Violated(x, s.opts.CutTolerance)
		var c cuts.Cut
		for _, c = range local {
			if c.Violation(x) > s.opts.CutTolerance {
				candidates = append(candidates, c)
			}
		}
		s.pool.Tick(x)

		best := cuts.SelectMostViolated(dropParallel(candidates, constraints), x)
		if best == nil {
			break
		}

		next := append(core.CloneConstraints(constraints), best.AsConstraint())
		nextRes := solve(next)
		if nextRes.Status != relax.StatusOptimal {
			break
		}
		s.tracker.Applied(best.Violation(x))
		constraints = next
		res = nextRes
	}

	return constraints, res
}

// generateCuts derives Gomory cuts from the tableau and MIR, cover and
// clique cuts from eligible rows of the original system, recording
// them in the statistics tracker. Row cuts are pooled; Gomory cuts
// are pooled when global and returned for local use otherwise.
func (s *Solver) generateCuts(constraints []core.Constraint, res relax.Result, x []float64, integer []int, binary map[int]bool, global bool) []cuts.Cut {
	gomory := s.gen.GomoryFromTableau(res.Tableau, integer)
	s.tracker.Generated(cuts.Gomory, len(gomory))
	var local []cuts.Cut
	for _, c := range gomory {
		if global {
			s.poolCut(c)
		} else {
			local = append(local, c)
		}
	}

	rows := constraints
	if s.nBase > 0 && s.nBase < len(rows) {
		rows = rows[:s.nBase]
	}
	for _, cons := range rows {
		if !cons.IsLinear() || cons.Sense != core.LessEq {
			continue
		}
		if c := s.gen.MIRFromRow(cons.Coefficients, cons.RHS, x, integer); c != nil {
			s.tracker.Generated(cuts.MixedIntegerRounding, 1)
			s.poolCut(*c)
		}
		if !binaryKnapsack(cons, binary) {
			continue
		}
		if c := s.gen.CoverFromKnapsack(cons.Coefficients, cons.RHS, x); c != nil {
			s.tracker.Generated(cuts.Cover, 1)
			s.poolCut(*c)
		}
		if c := s.gen.CliqueFromKnapsack(cons.Coefficients, cons.RHS, x); c != nil {
			s.tracker.Generated(cuts.Clique, 1)
			s.poolCut(*c)
		}
	}

	return local
}

// poolCut inserts c and records whether the pool kept it.
func (s *Solver) poolCut(c cuts.Cut) {
	if s.pool.Add(c) {
		s.tracker.Accepted()
	} else {
		s.tracker.Rejected()
	}
}

// dropParallel filters out cuts nearly collinear with an existing
// linear constraint row.
func dropParallel(candidates []cuts.Cut, constraints []core.Constraint) []cuts.Cut {
	out := make([]cuts.Cut, 0, len(candidates))
	var (
		c    cuts.Cut
		cons core.Constraint
		keep bool
	)
	for _, c = range candidates {
		keep = true
		for _, cons = range constraints {
			if cons.IsLinear() && nearlyParallel(cons.Coefficients, c.Coefficients) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}

	return out
}

// nearlyParallel reports whether a and b point in (anti)parallel
// directions up to parallelCos.
func nearlyParallel(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return false
	}

	return math.Abs(floats.Dot(a, b)) >= parallelCos*na*nb
}

// binaryKnapsack reports whether cons is a knapsack row eligible for
// cover and clique derivation: non-negative coefficients with positive
// capacity, every participating variable binary.
func binaryKnapsack(cons core.Constraint, binary map[int]bool) bool {
	if cons.RHS <= 0 {
		return false
	}
	for idx, w := range cons.Coefficients {
		if w < 0 {
			return false
		}
		if w > 0 && !binary[idx] {
			return false
		}
	}

	return true
}
