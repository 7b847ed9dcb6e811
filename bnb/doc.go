// Package bnb implements branch-and-bound and branch-and-cut search
// for mixed-integer linear and nonlinear programs.
//
// A solve request (objective, constraints, integrality specification,
// direction) enters Solver.Solve. The root relaxation is obtained from
// a pluggable relax.Solver and optionally tightened by cutting-plane
// rounds, then the search loop repeatedly dequeues the best node from
// a strategy-ordered priority queue, prunes it by bound or
// infeasibility, accepts it as incumbent when integer-feasible, tries
// a rounding heuristic, and otherwise branches on a fractional
// variable into floor and ceiling children. Each child owns its full
// constraint list by value; no node ever aliases or mutates another
// node's state.
//
// Contract highlights:
//   - The search never expands a node whose bound cannot beat the
//     incumbent by more than the LP tolerance.
//   - The best bound is recomputed after every queue change; the
//     relative gap |incumbent − bestBound| / max(|incumbent|, 1) is
//     non-increasing over accepted incumbents.
//   - Tolerances must satisfy LPTolerance ≤ IntegralityTolerance ≤
//     CutTolerance; orderings that do not are rejected before any
//     search begins with ErrToleranceOrder.
//   - Node-local relaxation failures (infeasible, unbounded, solver
//     errors) fathom the node with a pessimistic bound; they never
//     abort the search.
//   - Node and time limits are polled cooperatively at the top of
//     each iteration and return whatever incumbent exists.
//
// The loop is single-threaded and synchronous. The two shared
// trackers (pseudo-costs and the cut pool) are rebuilt for every
// solve, since their contents are valid only for the problem they
// were derived from, and serialize their own mutations so that
// parallel node evaluation stays possible without redesign.
package bnb
