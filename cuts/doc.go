// Package cuts derives valid inequalities from fractional relaxation
// solutions and manages their lifecycle.
//
// Four cut families are produced:
//
//   - Gomory fractional cuts, from simplex tableau rows whose basic
//     variable is integer-constrained and fractional;
//   - mixed-integer-rounding (MIR) cuts, from a single ≤-row;
//   - knapsack cover cuts, from a greedy minimal cover of a capacity
//     row;
//   - clique cuts, from items that pairwise exceed the capacity.
//
// Every accepted cut must be valid: it may not separate any point that
// satisfies both the source constraints and integrality. Cuts that
// cannot cut anything off (all coefficients under a numeric threshold,
// or a near-zero right-hand side) are discarded as weak before they
// reach the pool.
//
// The Pool is a bounded aging store: cuts earn activity when they are
// tight or violated at the points the search visits, and the lowest
// activity/(age+1) scores are evicted first. Tracker aggregates
// per-type generation statistics for reporting. Both serialize their
// mutations so that concurrent node evaluation can be added without
// redesign.
package cuts
