package bnb

// CutSolver is branch-and-cut: a Solver with cutting planes forced on.
// It exists so callers who want cuts do not have to remember the
// option pair; everything else, including the CutStats on the result,
// is the embedded Solver's behavior.
type CutSolver struct {
	*Solver
}

// NewCutSolver returns a branch-and-cut solver. Options apply over
// DefaultOptions; EnableCuttingPlanes cannot be switched back off.
func NewCutSolver(opts ...Option) *CutSolver {
	forced := append(opts, func(o *Options) {
		o.EnableCuttingPlanes = true
		if o.MaxCuttingRounds < 1 {
			o.MaxCuttingRounds = DefaultOptions().MaxCuttingRounds
		}
	})

	return &CutSolver{Solver: New(forced...)}
}
