package core

import "gonum.org/v1/gonum/floats"

// VariableShift translates a problem whose variables carry negative
// lower bounds into the non-negative domain y = x − shift required by
// the relaxation backends. The shift for variable i is its most
// negative detected single-variable lower bound, or 0.
//
// Only linear constraints can be shifted symbolically: a constraint
// c·x ⋈ rhs becomes c·y ⋈ (rhs − c·shift) with unchanged coefficients.
// A problem containing nonlinear constraints rejects shifting with
// ErrNonlinearShift.
type VariableShift struct {
	shift []float64
}

// DetectShift scans the linear inequality constraints for
// single-variable lower bounds x_i ≥ b with b < 0 and records the most
// negative bound per variable. Constraints that touch more than one
// variable are ignored. Returns a no-op shift when nothing is detected.
//
// Complexity: O(m·n) over m constraints in dimension n.
func DetectShift(constraints []Constraint, n int) VariableShift {
	shift := make([]float64, n)
	var (
		c   Constraint
		idx int
		j   int
	)
	for _, c = range constraints {
		if !c.IsLinear() || c.Sense != GreaterEq {
			continue
		}
		// A single-variable bound has exactly one nonzero coefficient.
		idx = -1
		for j = 0; j < len(c.Coefficients) && j < n; j++ {
			if c.Coefficients[j] != 0 {
				if idx >= 0 {
					idx = -1
					break
				}
				idx = j
			}
		}
		if idx < 0 || c.Coefficients[idx] <= 0 {
			continue
		}
		if b := c.RHS / c.Coefficients[idx]; b < shift[idx] {
			shift[idx] = b
		}
	}

	return VariableShift{shift: shift}
}

// NewVariableShift builds a shift from an explicit per-variable
// vector. Callers that must preserve integrality round the entries of
// integer-constrained variables before constructing the shift.
func NewVariableShift(shift []float64) VariableShift {
	return VariableShift{shift: append([]float64(nil), shift...)}
}

// IsZero reports whether the shift is a no-op.
func (v VariableShift) IsZero() bool {
	for _, s := range v.shift {
		if s != 0 {
			return false
		}
	}

	return true
}

// Shift returns a copy of the per-variable shift vector.
func (v VariableShift) Shift() []float64 {
	return append([]float64(nil), v.shift...)
}

// Apply rewrites every linear constraint into shifted coordinates.
// Returns ErrNonlinearShift if any constraint is nonlinear, and
// ErrDimensionMismatch if a coefficient vector disagrees with the
// shift dimension.
func (v VariableShift) Apply(constraints []Constraint) ([]Constraint, error) {
	out := make([]Constraint, len(constraints))
	var i int
	for i = range constraints {
		c := constraints[i]
		if !c.IsLinear() {
			return nil, ErrNonlinearShift
		}
		if len(c.Coefficients) != len(v.shift) {
			return nil, ErrDimensionMismatch
		}
		out[i] = c
		out[i].Coefficients = append([]float64(nil), c.Coefficients...)
		out[i].RHS = c.RHS - floats.Dot(c.Coefficients, v.shift)
	}

	return out, nil
}

// ToShifted maps an original-space point into shifted coordinates:
// y = x − shift.
func (v VariableShift) ToShifted(x []float64) []float64 {
	y := make([]float64, len(x))
	var i int
	for i = range x {
		y[i] = x[i] - v.shift[i]
	}

	return y
}

// FromShifted maps a shifted-space point back: x = y + shift.
func (v VariableShift) FromShifted(y []float64) []float64 {
	x := make([]float64, len(y))
	var i int
	for i = range y {
		x[i] = y[i] + v.shift[i]
	}

	return x
}

// WrapObjective adapts an objective to shifted coordinates:
// g(y) = f(y + shift). Linear objectives keep their argmin location.
func (v VariableShift) WrapObjective(f Objective) Objective {
	return func(y []float64) float64 { return f(v.FromShifted(y)) }
}
