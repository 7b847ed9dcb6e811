// Package relax defines the continuous-relaxation contract consumed by
// the branch-and-bound engine, together with two backends:
//
//   - SimplexSolver — purely linear problems, delegated to
//     gonum.org/v1/gonum/optimize/convex/lp. After a successful solve
//     it recovers the optimal basis with dense LU factorizations
//     (gonum/mat) and publishes the simplex tableau plus slack
//     definitions; the cutting-plane generator derives Gomory cuts
//     from that tableau.
//
//   - PenaltySolver — nonlinear problems, solved as a sequence of
//     unconstrained minimizations of f(x) + μ·Σ violation(x)² with an
//     escalating penalty weight μ, delegated to gonum/optimize
//     (Nelder–Mead; gradient-free). It publishes no tableau, which
//     silently disables cutting-plane rounds for this backend.
//
// AutoSolver dispatches between the two: simplex first, penalty as the
// fallback when the problem is not linear.
//
// Failure semantics: infeasible and unbounded relaxations are statuses,
// not errors. A Go error escapes a backend only for malformed inputs or
// internal numerical breakdown; the search engine maps any such error
// to an infeasible node with a pessimistic bound, so one bad inner
// solve can never abort an outer search.
package relax
