package bnb

import (
	"math"
	"sort"

	"github.com/planmath/mip/core"
	"github.com/planmath/mip/ipspec"
	"github.com/planmath/mip/relax"
)

const (
	// strongBranchLimit caps the trial relaxations per branching
	// decision.
	strongBranchLimit = 5

	// strongBranchEpsilon keeps the degrade product positive so a
	// zero-degrade direction does not erase the other direction's
	// signal.
	strongBranchEpsilon = 1e-6
)

// relaxFunc solves the relaxation of one constraint set. Failures are
// flattened into a non-optimal Status by the caller.
type relaxFunc func(constraints []core.Constraint) relax.Result

// fracPart returns the fractional part of v and whether it exceeds tol
// on both sides.
func fracPart(v, tol float64) (frac float64, fractional bool) {
	frac = v - math.Floor(v)

	return frac, frac > tol && frac < 1-tol
}

// branchBounds builds the floor and ceiling bounds for branching on
// variable idx at fractional value v. Together the children cover
// every integer value of the variable; no integer satisfies both.
func branchBounds(n, idx int, v float64) (down, up core.Constraint) {
	return core.BoundAbove(n, idx, math.Floor(v)), core.BoundBelow(n, idx, math.Ceil(v))
}

// fractionalCandidates lists the integer-constrained variables still
// fractional at x, ascending by index.
func fractionalCandidates(x []float64, spec ipspec.Specification, tol float64) []int {
	var out []int
	for _, idx := range spec.AllIntegers() {
		if _, ok := fracPart(x[idx], tol); ok {
			out = append(out, idx)
		}
	}

	return out
}

// chooseBranchVariable picks the branching variable for node under the
// configured rule. ok is false when no integer variable is fractional.
func (s *Solver) chooseBranchVariable(node *Node, x []float64, spec ipspec.Specification, solve relaxFunc, minimize bool) (int, bool) {
	switch s.opts.Branching {
	case PseudoCost:
		return s.pseudoCostBranch(x, spec)
	case StrongBranching:
		return s.strongBranch(node, x, spec, solve, minimize)
	default:
		return spec.MostFractional(x, s.opts.IntegralityTolerance)
	}
}

// pseudoCostBranch scores each fractional candidate from tracked
// history, falling back to plain fractional closeness to one half for
// variables never branched on.
func (s *Solver) pseudoCostBranch(x []float64, spec ipspec.Specification) (int, bool) {
	candidates := fractionalCandidates(x, spec, s.opts.IntegralityTolerance)
	if len(candidates) == 0 {
		return 0, false
	}

	best := -1
	bestScore := math.Inf(-1)
	for _, idx := range candidates {
		frac, _ := fracPart(x[idx], s.opts.IntegralityTolerance)
		score, ok := s.pseudo.Score(idx, frac)
		if !ok {
			score = math.Min(frac, 1-frac)
		}
		if score > bestScore {
			bestScore = score
			best = idx
		}
	}

	return best, true
}

// strongBranch probes up to strongBranchLimit candidates closest to
// one half with trial floor and ceiling relaxations. The score is
// (downDegrade+ε)·(upDegrade+ε) where degrade is the bound worsening
// relative to the parent; an infeasible trial scores as infinite
// degrade, biasing selection toward variables that close off the most
// search space.
func (s *Solver) strongBranch(node *Node, x []float64, spec ipspec.Specification, solve relaxFunc, minimize bool) (int, bool) {
	candidates := fractionalCandidates(x, spec, s.opts.IntegralityTolerance)
	if len(candidates) == 0 {
		return 0, false
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		fa, _ := fracPart(x[candidates[a]], 0)
		fb, _ := fracPart(x[candidates[b]], 0)

		return math.Abs(fa-0.5) < math.Abs(fb-0.5)
	})
	if len(candidates) > strongBranchLimit {
		candidates = candidates[:strongBranchLimit]
	}

	n := len(x)
	best := candidates[0]
	bestScore := math.Inf(-1)
	var idx int
	for _, idx = range candidates {
		down := s.trialDegrade(node, solve, core.BoundAbove(n, idx, math.Floor(x[idx])), minimize)
		up := s.trialDegrade(node, solve, core.BoundBelow(n, idx, math.Ceil(x[idx])), minimize)
		score := (down + strongBranchEpsilon) * (up + strongBranchEpsilon)
		if score > bestScore || score == bestScore && idx < best {
			bestScore = score
			best = idx
		}
	}

	return best, true
}

// trialDegrade solves the node's relaxation with one extra bound and
// returns the bound worsening relative to the parent, +Inf when the
// trial is infeasible.
func (s *Solver) trialDegrade(node *Node, solve relaxFunc, bound core.Constraint, minimize bool) float64 {
	trial := append(core.CloneConstraints(node.Constraints), bound)
	res := solve(trial)
	if res.Status != relax.StatusOptimal {
		return math.Inf(1)
	}

	degrade := res.Objective - node.Bound
	if !minimize {
		degrade = -degrade
	}
	if degrade < 0 {
		degrade = 0
	}

	return degrade
}
