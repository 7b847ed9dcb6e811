package core

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Sentinel errors returned by the core problem model.
var (
	// ErrDimensionMismatch indicates that a vector length does not match
	// the dimension implied by the constraint or function it is applied to.
	ErrDimensionMismatch = errors.New("core: dimension mismatch")

	// ErrNoConstraints indicates that a constrained operation received an
	// empty constraint set where at least one constraint is required.
	ErrNoConstraints = errors.New("core: no constraints supplied")

	// ErrNilConstraint indicates a constraint with neither explicit
	// coefficients nor an evaluation function.
	ErrNilConstraint = errors.New("core: constraint has no body")

	// ErrNonlinearShift indicates that variable shifting was requested for
	// a problem containing nonlinear constraints, which cannot be shifted
	// symbolically.
	ErrNonlinearShift = errors.New("core: cannot shift nonlinear constraints")

	// ErrNonlinearObjective indicates that a linear coefficient extraction
	// was attempted on an objective that is not affine.
	ErrNonlinearObjective = errors.New("core: objective is not linear")
)

// Objective is a scalar objective function over ℝⁿ.
type Objective func(x []float64) float64

// Sense is the comparison direction of a constraint.
type Sense int

const (
	// LessEq is lhs ≤ rhs.
	LessEq Sense = iota
	// GreaterEq is lhs ≥ rhs.
	GreaterEq
	// Eq is lhs = rhs.
	Eq
)

// String returns the conventional operator spelling of s.
func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Eq:
		return "=="
	default:
		return "?"
	}
}

// LinearFunction is an affine function with explicit coefficients:
// f(x) = Coefficients·x + Constant. Carrying coefficients explicitly
// lets linear backends consume them exactly instead of re-extracting
// them through finite differences.
type LinearFunction struct {
	Coefficients []float64
	Constant     float64
}

// Evaluate computes Coefficients·x + Constant.
// The vector must have the same length as Coefficients.
func (f LinearFunction) Evaluate(x []float64) float64 {
	return floats.Dot(f.Coefficients, x) + f.Constant
}

// AsObjective adapts f to the generic Objective signature.
func (f LinearFunction) AsObjective() Objective {
	return func(x []float64) float64 { return f.Evaluate(x) }
}

// Dim returns the dimension of f's domain.
func (f LinearFunction) Dim() int { return len(f.Coefficients) }

// Constraint compares a left-hand side against RHS under Sense.
// Exactly one of Coefficients or Fn must be set; Coefficients != nil
// marks the constraint as linear.
type Constraint struct {
	Coefficients []float64
	Fn           func(x []float64) float64
	Sense        Sense
	RHS          float64
}

// IsLinear reports whether c carries explicit linear coefficients.
func (c Constraint) IsLinear() bool { return c.Coefficients != nil }

// Evaluate computes the left-hand side of c at x.
func (c Constraint) Evaluate(x []float64) float64 {
	if c.Coefficients != nil {
		return floats.Dot(c.Coefficients, x)
	}

	return c.Fn(x)
}

// Violation reports how far x is from satisfying c, normalized to
// ≤-form: a feasible point yields a value ≤ 0 regardless of Sense.
// For Eq the violation is |lhs − rhs|.
func (c Constraint) Violation(x []float64) float64 {
	lhs := c.Evaluate(x)
	switch c.Sense {
	case LessEq:
		return lhs - c.RHS
	case GreaterEq:
		return c.RHS - lhs
	default:
		return math.Abs(lhs - c.RHS)
	}
}

// Validate checks that c has a body and, when linear, that its
// coefficient vector matches dimension n.
func (c Constraint) Validate(n int) error {
	if c.Coefficients == nil && c.Fn == nil {
		return ErrNilConstraint
	}
	if c.Coefficients != nil && len(c.Coefficients) != n {
		return ErrDimensionMismatch
	}

	return nil
}

// LessEqual builds the linear constraint coeffs·x ≤ rhs.
func LessEqual(coeffs []float64, rhs float64) Constraint {
	return Constraint{Coefficients: coeffs, Sense: LessEq, RHS: rhs}
}

// GreaterEqual builds the linear constraint coeffs·x ≥ rhs.
func GreaterEqual(coeffs []float64, rhs float64) Constraint {
	return Constraint{Coefficients: coeffs, Sense: GreaterEq, RHS: rhs}
}

// Equal builds the linear constraint coeffs·x = rhs.
func Equal(coeffs []float64, rhs float64) Constraint {
	return Constraint{Coefficients: coeffs, Sense: Eq, RHS: rhs}
}

// BoundAbove builds the single-variable bound x_i ≤ bound in dimension n.
func BoundAbove(n, i int, bound float64) Constraint {
	coeffs := make([]float64, n)
	coeffs[i] = 1

	return Constraint{Coefficients: coeffs, Sense: LessEq, RHS: bound}
}

// BoundBelow builds the single-variable bound x_i ≥ bound in dimension n.
func BoundBelow(n, i int, bound float64) Constraint {
	coeffs := make([]float64, n)
	coeffs[i] = 1

	return Constraint{Coefficients: coeffs, Sense: GreaterEq, RHS: bound}
}

// CloneConstraints returns a deep copy of cs: coefficient vectors are
// duplicated so the copy shares no mutable state with the original.
// Function bodies are immutable by convention and copied by reference.
func CloneConstraints(cs []Constraint) []Constraint {
	out := make([]Constraint, len(cs))
	var i int
	for i = range cs {
		out[i] = cs[i]
		if cs[i].Coefficients != nil {
			out[i].Coefficients = append([]float64(nil), cs[i].Coefficients...)
		}
	}

	return out
}

// ExtractLinear recovers the explicit form of an affine objective by
// probing it at the origin and at unit vectors: c_i = f(e_i) − f(0).
// The extraction is verified at the all-ones point; if the probe does
// not reproduce f there within tol, ErrNonlinearObjective is returned.
//
// Complexity: n+2 objective evaluations, O(n) space.
func ExtractLinear(f Objective, n int, tol float64) (LinearFunction, error) {
	if n <= 0 {
		return LinearFunction{}, ErrDimensionMismatch
	}
	x := make([]float64, n)
	constant := f(x)

	coeffs := make([]float64, n)
	var i int
	for i = 0; i < n; i++ {
		x[i] = 1
		coeffs[i] = f(x) - constant
		x[i] = 0
	}

	// Affinity check at two probe points. A single point is not enough:
	// in one dimension x² agrees with its secant through 0 and 1.
	lf := LinearFunction{Coefficients: coeffs, Constant: constant}
	probe := make([]float64, n)
	var scale float64
	for _, scale = range []float64{1, 2} {
		for i = 0; i < n; i++ {
			probe[i] = scale
		}
		want := f(probe)
		if math.Abs(lf.Evaluate(probe)-want) > tol*math.Max(1, math.Abs(want)) {
			return LinearFunction{}, ErrNonlinearObjective
		}
	}

	return lf, nil
}
