package ipspec

import (
	"errors"
	"math"
	"sort"
)

// Sentinel errors returned by Specification validation.
var (
	// ErrIndexOutOfRange indicates a variable index outside [0, n).
	ErrIndexOutOfRange = errors.New("ipspec: variable index out of range")

	// ErrDuplicateIndex indicates a repeated index inside one SOS group.
	ErrDuplicateIndex = errors.New("ipspec: duplicate index in SOS group")

	// ErrEmptyGroup indicates an SOS group with no members.
	ErrEmptyGroup = errors.New("ipspec: empty SOS group")
)

// Specification declares the integrality structure of a problem:
// Integer and Binary list constrained coordinate indices (Binary is
// implicitly integer); SOS1 and SOS2 are ordered index groups with the
// usual "at most one nonzero" / "at most two adjacent nonzero"
// invariants.
type Specification struct {
	Integer []int
	Binary  []int
	SOS1    [][]int
	SOS2    [][]int
}

// NewIntegerSpec declares plain integer variables.
func NewIntegerSpec(indices ...int) Specification {
	return Specification{Integer: indices}
}

// NewBinarySpec declares binary variables.
func NewBinarySpec(indices ...int) Specification {
	return Specification{Binary: indices}
}

// AllIntegers returns the union of Integer and Binary indices in
// ascending order, deduplicated.
func (s Specification) AllIntegers() []int {
	seen := make(map[int]struct{}, len(s.Integer)+len(s.Binary))
	out := make([]int, 0, len(s.Integer)+len(s.Binary))
	var idx int
	for _, idx = range s.Integer {
		if _, ok := seen[idx]; !ok {
			seen[idx] = struct{}{}
			out = append(out, idx)
		}
	}
	for _, idx = range s.Binary {
		if _, ok := seen[idx]; !ok {
			seen[idx] = struct{}{}
			out = append(out, idx)
		}
	}
	sort.Ints(out)

	return out
}

// HasIntegrality reports whether any coordinate is constrained at all.
func (s Specification) HasIntegrality() bool {
	return len(s.Integer) > 0 || len(s.Binary) > 0 || len(s.SOS1) > 0 || len(s.SOS2) > 0
}

// Validate checks every declared index against dimension n and every
// SOS group for emptiness and duplicates.
//
// Complexity: O(k log k) over k declared indices.
func (s Specification) Validate(n int) error {
	var idx int
	for _, idx = range s.Integer {
		if idx < 0 || idx >= n {
			return ErrIndexOutOfRange
		}
	}
	for _, idx = range s.Binary {
		if idx < 0 || idx >= n {
			return ErrIndexOutOfRange
		}
	}
	var group []int
	for _, group = range append(append([][]int{}, s.SOS1...), s.SOS2...) {
		if len(group) == 0 {
			return ErrEmptyGroup
		}
		seen := make(map[int]struct{}, len(group))
		for _, idx = range group {
			if idx < 0 || idx >= n {
				return ErrIndexOutOfRange
			}
			if _, ok := seen[idx]; ok {
				return ErrDuplicateIndex
			}
			seen[idx] = struct{}{}
		}
	}

	return nil
}

// IsIntegerFeasible reports whether x satisfies every integrality
// condition within tol: integer coordinates within tol of their
// rounding, binary coordinates within tol of {0,1}, SOS1 groups with
// at most one entry of magnitude above tol, SOS2 groups with at most
// two such entries at adjacent positions in group order.
//
// Complexity: O(k) over declared indices.
func (s Specification) IsIntegerFeasible(x []float64, tol float64) bool {
	var idx int
	for _, idx = range s.Integer {
		if idx >= len(x) {
			return false
		}
		if math.Abs(x[idx]-math.Round(x[idx])) > tol {
			return false
		}
	}
	for _, idx = range s.Binary {
		if idx >= len(x) {
			return false
		}
		if math.Abs(x[idx]) > tol && math.Abs(x[idx]-1) > tol {
			return false
		}
	}
	var group []int
	for _, group = range s.SOS1 {
		if countNonzero(x, group, tol) > 1 {
			return false
		}
	}
	for _, group = range s.SOS2 {
		if !sos2Feasible(x, group, tol) {
			return false
		}
	}

	return true
}

// Round snaps every integer coordinate of x to its nearest integer and
// clamps binary coordinates to [0,1] after rounding. Unconstrained
// coordinates pass through unchanged; x itself is not mutated.
func (s Specification) Round(x []float64) []float64 {
	out := append([]float64(nil), x...)
	var idx int
	for _, idx = range s.Integer {
		if idx < len(out) {
			out[idx] = math.Round(out[idx])
		}
	}
	for _, idx = range s.Binary {
		if idx < len(out) {
			v := math.Round(out[idx])
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			out[idx] = v
		}
	}

	return out
}

// MostFractional returns the integer-constrained index whose fractional
// part is closest to 0.5, skipping coordinates already within tol of an
// integer. Ties break toward the lowest index (iteration order of
// AllIntegers). ok is false when every constrained coordinate is
// integral within tol.
func (s Specification) MostFractional(x []float64, tol float64) (index int, ok bool) {
	best := -1.0
	index = -1
	var (
		idx  int
		dist float64
	)
	for _, idx = range s.AllIntegers() {
		if idx >= len(x) {
			continue
		}
		frac := math.Abs(x[idx] - math.Round(x[idx]))
		if frac <= tol {
			continue
		}
		// Score by closeness to the half-integer point.
		dist = 0.5 - math.Abs(frac-0.5)
		if dist > best {
			best = dist
			index = idx
		}
	}

	return index, index >= 0
}

// Fractionality returns the summed distance of all integer-constrained
// coordinates from their roundings — a cheap progress measure.
func (s Specification) Fractionality(x []float64) float64 {
	total := 0.0
	var idx int
	for _, idx = range s.AllIntegers() {
		if idx < len(x) {
			total += math.Abs(x[idx] - math.Round(x[idx]))
		}
	}

	return total
}

// countNonzero counts group members with |x_i| > tol.
func countNonzero(x []float64, group []int, tol float64) int {
	count := 0
	var idx int
	for _, idx = range group {
		if idx < len(x) && math.Abs(x[idx]) > tol {
			count++
		}
	}

	return count
}

// sos2Feasible allows at most two nonzero members, and only at adjacent
// positions within the group's declared order.
func sos2Feasible(x []float64, group []int, tol float64) bool {
	first := -1
	count := 0
	var pos, idx int
	for pos, idx = range group {
		if idx < len(x) && math.Abs(x[idx]) > tol {
			count++
			if count == 1 {
				first = pos
			} else if count == 2 {
				if pos != first+1 {
					return false
				}
			} else {
				return false
			}
		}
	}

	return true
}
