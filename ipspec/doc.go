// Package ipspec declares which coordinates of an optimization problem
// are integrality-constrained and answers the three questions the
// search engine asks about a candidate point:
//
//   - is it integer-feasible within a tolerance (including binary and
//     SOS1/SOS2 group conditions)?
//   - what does it round to (binary coordinates clamped to [0,1])?
//   - which integer coordinate is most fractional (the default
//     branching rule)?
//
// A Specification is immutable for the duration of a solve. Index
// iteration is deterministic: ties in fractionality break toward the
// lowest variable index.
package ipspec
