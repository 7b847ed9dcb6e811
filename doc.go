// Package mip is a mixed-integer programming toolkit: model a problem
// with linear (or black-box nonlinear) constraints, mark variables as
// integer, binary or members of special ordered sets, and solve it by
// branch-and-bound or branch-and-cut over a pluggable continuous
// relaxation.
//
// 🚀 What is planmath/mip?
//
//	A small, composable solver stack:
//		• Modeling primitives: linear functions, constraints, variable shifts
//		• Integrality specifications: integer, binary, SOS1/SOS2 groups
//		• Relaxation backends: simplex (gonum), penalty descent, auto dispatch
//		• Cutting planes: Gomory, MIR, cover and clique cuts with a managed pool
//		• Search: strategy-ordered node queue, pseudo-cost and strong branching,
//		  rounding heuristics, bound/gap termination, post-solve verification
//
// ✨ Design principles
//
//   - Explicit errors – sentinel errors for every failure class, no panics
//     on user input
//   - Deterministic search – tie-breaks are always by lowest index or node id
//   - Value-owned nodes – no search node ever aliases another's constraints
//   - Pluggable backends – any relax.Solver drives the same search loop
//
// Everything is organized under five subpackages:
//
//	core/   — objectives, constraints, linear functions, variable shifting
//	ipspec/ — integrality specifications and fractionality queries
//	relax/  — continuous relaxation solvers and the simplex tableau
//	cuts/   — cutting-plane generation, pooling and statistics
//	bnb/    — the branch-and-bound / branch-and-cut engine
//
// Start with bnb.New (or bnb.NewCutSolver) and bnb.Solver.SolveLinear.
package mip
