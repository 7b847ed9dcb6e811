// Package core defines the problem model shared by every solver in this
// module: scalar objectives, explicit-coefficient linear functions,
// linear and nonlinear constraints, and the variable-shift transform
// that maps problems with negative lower bounds into the non-negative
// domain the relaxation backends require.
//
// Conventions:
//
//   - A problem lives in ℝⁿ; vectors are plain []float64 of length n.
//   - Constraints compare a left-hand side against a right-hand side
//     under a Sense (≤, ≥, =). A constraint is linear iff it carries an
//     explicit coefficient vector; otherwise it evaluates an opaque
//     function. Violation is always reported in ≤-normalized form, so
//     a feasible point yields Violation(x) ≤ 0 for every sense.
//   - Constraints are value types: cloning a []Constraint produces
//     fully independent state. Branch-and-bound nodes rely on this to
//     own their constraint lists without aliasing siblings.
//
// Design principles:
//   - Deterministic, side-effect free evaluation helpers.
//   - No logging, no panics on user input — only sentinel errors.
//   - No hidden allocations on the evaluation hot path.
package core
