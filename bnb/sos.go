package bnb

import (
	"math"

	"github.com/planmath/mip/core"
	"github.com/planmath/mip/ipspec"
)

// sosBranches builds the two children of an SOS dichotomy for the
// first violated special ordered set at x: each child fixes a subset
// of the group to zero so that together they cover every feasible
// support pattern. ok is false when all groups are satisfied.
//
// SOS1 groups split off the member carrying the largest value: one
// child keeps only it free, the other forbids it. SOS2 groups split
// at the largest member's position so each child keeps one contiguous
// half free.
func sosBranches(x []float64, spec ipspec.Specification, n int, tol float64) (children [2][]core.Constraint, ok bool) {
	for _, group := range spec.SOS1 {
		if countActive(x, group, tol) <= 1 {
			continue
		}
		lead := largestMember(x, group)
		var keep, drop []core.Constraint
		for _, idx := range group {
			if idx != lead {
				keep = append(keep, pinZero(n, idx))
			}
		}
		drop = append(drop, pinZero(n, lead))

		return [2][]core.Constraint{keep, drop}, true
	}

	for _, group := range spec.SOS2 {
		if sos2Satisfied(x, group, tol) {
			continue
		}
		// Split position clamped so both halves shed at least one
		// member.
		split := 0
		for pos, idx := range group {
			if math.Abs(x[idx]) > math.Abs(x[group[split]]) {
				split = pos
			}
		}
		if split < 1 {
			split = 1
		}
		if split > len(group)-2 {
			split = len(group) - 2
		}
		var low, high []core.Constraint
		for pos, idx := range group {
			if pos > split {
				low = append(low, pinZero(n, idx))
			}
			if pos < split {
				high = append(high, pinZero(n, idx))
			}
		}

		return [2][]core.Constraint{low, high}, true
	}

	return children, false
}

// countActive counts group members with magnitude above tol at x.
func countActive(x []float64, group []int, tol float64) int {
	count := 0
	for _, idx := range group {
		if math.Abs(x[idx]) > tol {
			count++
		}
	}

	return count
}

// largestMember returns the group member with the largest magnitude,
// lowest index on ties.
func largestMember(x []float64, group []int) int {
	best := group[0]
	for _, idx := range group[1:] {
		if math.Abs(x[idx]) > math.Abs(x[best]) {
			best = idx
		}
	}

	return best
}

// sos2Satisfied reports whether at most two adjacent members of group
// are active at x.
func sos2Satisfied(x []float64, group []int, tol float64) bool {
	first, last, count := -1, -1, 0
	for pos, idx := range group {
		if math.Abs(x[idx]) > tol {
			count++
			if first < 0 {
				first = pos
			}
			last = pos
		}
	}
	if count > 2 {
		return false
	}

	return count < 2 || last-first == 1
}

// pinZero fixes variable i to zero as an equality. Backends without
// an implicit non-negative domain could otherwise push a "dropped"
// member negative and re-trigger the same dichotomy.
func pinZero(n, i int) core.Constraint {
	row := make([]float64, n)
	row[i] = 1

	return core.Equal(row, 0)
}
