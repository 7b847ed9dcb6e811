package bnb

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/planmath/mip/core"
	"github.com/planmath/mip/cuts"
	"github.com/planmath/mip/ipspec"
	"github.com/planmath/mip/relax"
)

const (
	// cutPoolSize and cutPoolAge bound the shared cut pool.
	cutPoolSize = 256
	cutPoolAge  = 12

	// stagnationWindow is the number of consecutive no-progress
	// iterations that triggers the stagnation stop.
	stagnationWindow = 25
)

// Solver runs branch-and-bound (and, with cutting planes enabled,
// branch-and-cut) search. A Solver is reusable across unrelated
// problems: pseudo-cost history, the cut pool and the statistics
// tracker are scoped to one solve and rebuilt when the next search
// starts, since cuts and branching history are valid only for the
// problem they were derived from.
type Solver struct {
	opts    Options
	pseudo  *PseudoCosts
	pool    *cuts.Pool
	tracker *cuts.Tracker
	gen     *cuts.Generator

	// nBase counts the rows of the original system for the running
	// solve. Only those rows seed row-derived cuts; everything past
	// them is an applied cut or a branch bound.
	nBase int
}

// New returns a Solver configured by opts applied over
// DefaultOptions.
func New(opts ...Option) *Solver {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Solver{
		opts:    o,
		pseudo:  NewPseudoCosts(),
		pool:    cuts.NewPool(cutPoolSize, cutPoolAge),
		tracker: cuts.NewTracker(),
		gen: &cuts.Generator{
			FracTolerance:        o.CutTolerance,
			CoefficientThreshold: o.CutCoefficientThreshold,
			Normalize:            o.NormalizeCuts,
		},
	}
}

// Solve searches for the best integer-feasible minimizer (or
// maximizer) of obj subject to constraints and the integrality
// specification. initial seeds nonlinear relaxations and fixes the
// problem dimension when no linear constraint does.
//
// Configuration errors (tolerance ordering, malformed constraints,
// shifting a nonlinear system) are returned before any search begins.
// Search-exhaustion outcomes are statuses on the Result, not errors.
func (s *Solver) Solve(obj core.Objective, initial []float64, constraints []core.Constraint, spec ipspec.Specification, minimize bool) (Result, error) {
	if obj == nil {
		return Result{}, ErrNilObjective
	}
	n, err := dimension(constraints, initial)
	if err != nil {
		return Result{}, err
	}
	if err = s.prepare(constraints, n, spec); err != nil {
		return Result{}, err
	}

	shift, shifted, err := s.applyShift(constraints, spec, n)
	if err != nil {
		return Result{}, err
	}
	if !shift.IsZero() {
		obj = shift.WrapObjective(obj)
		if len(initial) == n {
			initial = shift.ToShifted(initial)
		}
	}

	backend := s.backend()
	solve := func(cons []core.Constraint) relax.Result {
		r, solveErr := backend.SolveRelaxation(obj, cons, initial, minimize)
		if solveErr != nil {
			return relax.Result{Status: relax.StatusInfeasible}
		}

		return r
	}

	res := s.search(obj, solve, shifted, spec, minimize, n)
	if !shift.IsZero() && res.Solution != nil {
		res.Solution = shift.FromShifted(res.Solution)
	}

	return res, nil
}

// SolveLinear is the explicit-coefficient overload for purely linear
// objectives: no finite-difference extraction, and the linear backend
// is used directly when the relaxation solver provides one.
func (s *Solver) SolveLinear(lf core.LinearFunction, constraints []core.Constraint, spec ipspec.Specification, minimize bool) (Result, error) {
	n := lf.Dim()
	if n == 0 {
		return Result{}, core.ErrDimensionMismatch
	}
	if err := s.prepare(constraints, n, spec); err != nil {
		return Result{}, err
	}

	shift, shifted, err := s.applyShift(constraints, spec, n)
	if err != nil {
		return Result{}, err
	}
	if !shift.IsZero() {
		// c·x = c·y + c·shift: fold the offset into the constant so
		// objective values stay in original terms.
		lf.Constant += floats.Dot(lf.Coefficients, shift.Shift())
	}

	backend := s.backend()
	var solve relaxFunc
	if linear, ok := backend.(relax.LinearSolver); ok {
		solve = func(cons []core.Constraint) relax.Result {
			r, solveErr := linear.SolveLinearRelaxation(lf, cons, minimize)
			if solveErr != nil {
				return relax.Result{Status: relax.StatusInfeasible}
			}

			return r
		}
	} else {
		obj := lf.AsObjective()
		solve = func(cons []core.Constraint) relax.Result {
			r, solveErr := backend.SolveRelaxation(obj, cons, nil, minimize)
			if solveErr != nil {
				return relax.Result{Status: relax.StatusInfeasible}
			}

			return r
		}
	}

	res := s.search(lf.Evaluate, solve, shifted, spec, minimize, n)
	if !shift.IsZero() && res.Solution != nil {
		res.Solution = shift.FromShifted(res.Solution)
	}

	return res, nil
}

// prepare validates configuration and inputs before any search work.
func (s *Solver) prepare(constraints []core.Constraint, n int, spec ipspec.Specification) error {
	if err := s.opts.validate(); err != nil {
		return err
	}
	if len(constraints) == 0 {
		return core.ErrNoConstraints
	}
	for _, c := range constraints {
		if err := c.Validate(n); err != nil {
			return err
		}
	}

	return spec.Validate(n)
}

// backend returns the configured relaxation solver, defaulting to the
// linear-with-penalty-fallback auto solver.
func (s *Solver) backend() relax.Solver {
	if s.opts.Relaxation != nil {
		return s.opts.Relaxation
	}

	return relax.NewAutoSolver()
}

// applyShift detects and applies the negative-lower-bound translation
// when enabled. Shifts of integer-constrained variables are floored so
// integrality survives the change of coordinates.
func (s *Solver) applyShift(constraints []core.Constraint, spec ipspec.Specification, n int) (core.VariableShift, []core.Constraint, error) {
	if !s.opts.EnableVariableShifting {
		return core.VariableShift{}, constraints, nil
	}
	shift := core.DetectShift(constraints, n)
	if shift.IsZero() {
		return core.VariableShift{}, constraints, nil
	}

	vec := shift.Shift()
	for _, idx := range spec.AllIntegers() {
		vec[idx] = math.Floor(vec[idx])
	}
	shift = core.NewVariableShift(vec)

	shifted, err := shift.Apply(constraints)
	if err != nil {
		return core.VariableShift{}, nil, err
	}

	return shift, shifted, nil
}

// branchSig identifies one branching decision for cycling detection.
type branchSig struct {
	variable int
	depth    int
}

// search is the main loop shared by both entry points. eval evaluates
// the objective at a candidate point; solve runs one relaxation. Both
// operate in the (possibly shifted) search coordinates.
func (s *Solver) search(eval func([]float64) float64, solve relaxFunc, constraints []core.Constraint, spec ipspec.Specification, minimize bool, n int) Result {
	start := time.Now()
	base := core.CloneConstraints(constraints)
	queue := NewNodeQueue(s.opts.NodeSelection, minimize)

	// Per-solve state: pooled cuts and branching history from an
	// earlier problem must not leak into this one.
	s.pseudo = NewPseudoCosts()
	s.pool = cuts.NewPool(cutPoolSize, cutPoolAge)
	s.tracker = cuts.NewTracker()
	s.nBase = len(constraints)

	res := solve(constraints)
	if s.opts.EnableCuttingPlanes {
		constraints, res = s.strengthen(constraints, res, spec, solve, true)
	}
	root := &Node{ID: 0, ParentID: -1, Constraints: constraints, BranchVar: -1, Bound: pessimisticBound(minimize)}
	if res.Status == relax.StatusOptimal {
		root.Bound = res.Objective
		root.Solution = append([]float64(nil), res.Solution...)
	}
	queue.Push(root)
	nextID := 1

	var (
		incumbent    []float64
		incumbentVal float64
		have         bool
		nodes        int
		stagnant     int
		diag         []string
		sigs         []branchSig
	)
	lastBound := root.Bound

	// currentBound is the tightest proven bound: the best open node,
	// the incumbent once the tree is exhausted, or the directional
	// infinity when nothing is feasible.
	currentBound := func() float64 {
		if b, ok := queue.Best(); ok {
			return b
		}
		if have {
			return incumbentVal
		}

		return pessimisticBound(minimize)
	}

	gapAt := func() float64 {
		if !have {
			return math.Inf(1)
		}
		b := currentBound()
		if math.IsInf(b, 0) {
			return math.Inf(1)
		}

		return math.Abs(incumbentVal-b) / math.Max(math.Abs(incumbentVal), 1)
	}

	// accept installs a strictly better (or first) incumbent and
	// reports whether the gap now proves optimality.
	accept := func(x []float64, val float64) bool {
		if !have || minimize && val < incumbentVal || !minimize && val > incumbentVal {
			incumbent = append([]float64(nil), x...)
			incumbentVal = val
			have = true
		}

		return gapAt() < s.opts.RelativeGapTolerance
	}

	status, stopped := StatusOptimal, false
	for queue.Len() > 0 {
		if s.opts.MaxNodes > 0 && nodes >= s.opts.MaxNodes {
			status, stopped = StatusNodeLimit, true
			break
		}
		if s.opts.TimeLimit > 0 && time.Since(start) >= s.opts.TimeLimit {
			status, stopped = StatusTimeLimit, true
			break
		}

		node, _ := queue.Pop()
		nodes++
		prevHave, prevVal := have, incumbentVal

		switch {
		case node.Solution == nil:
			// Fathomed by infeasibility.
		case have && !beats(node.Bound, incumbentVal, minimize, s.opts.LPTolerance):
			// Fathomed by bound.
		case spec.IsIntegerFeasible(node.Solution, s.opts.IntegralityTolerance):
			if accept(node.Solution, node.Bound) {
				status, stopped = StatusOptimal, true
			}
		default:
			if xr := spec.Round(node.Solution); roundingFeasible(node.Constraints, spec, xr, s.opts.LPTolerance, s.opts.IntegralityTolerance) {
				if accept(xr, eval(xr)) {
					status, stopped = StatusOptimal, true
				}
				break
			}
			s.branch(queue, node, spec, solve, minimize, n, &nextID, &sigs)
		}
		if stopped {
			break
		}

		b := currentBound()
		moved := math.Abs(b-lastBound) > s.opts.StagnationTolerance ||
			have != prevHave ||
			have && math.Abs(incumbentVal-prevVal) > s.opts.StagnationTolerance
		lastBound = b
		if moved {
			stagnant = 0
		} else {
			stagnant++
		}
		if s.opts.DetectStagnation && have && stagnant >= stagnationWindow {
			status, stopped = StatusFeasible, true
			diag = append(diag, fmt.Sprintf("stopped after %d iterations without progress", stagnant))
			break
		}
	}
	if !stopped && !have {
		status = StatusInfeasible
	}

	finalBound := currentBound()
	out := Result{
		BestBound:     finalBound,
		NodesExplored: nodes,
		Status:        status,
		SolveTime:     time.Since(start),
		Verification:  diag,
	}
	if have {
		out.Solution = incumbent
		out.Objective = incumbentVal
		if math.IsInf(finalBound, 0) {
			out.RelativeGap = math.Inf(1)
		} else {
			out.RelativeGap = math.Abs(incumbentVal-finalBound) / math.Max(math.Abs(incumbentVal), 1)
		}
		out.Verification = append(verifySolution(eval, base, spec, incumbent, incumbentVal, s.opts.LPTolerance, s.opts.IntegralityTolerance), diag...)
	} else if status != StatusInfeasible {
		out.RelativeGap = math.Inf(1)
	}
	if s.opts.EnableCuttingPlanes {
		st := s.tracker.Snapshot()
		out.CutStats = &st
	}

	return out
}

// branch expands node: floor and ceiling children on a fractional
// integer variable, or an SOS dichotomy when the point is integral but
// violates a special ordered set. A node with nothing to branch on is
// silently fathomed.
func (s *Solver) branch(queue *NodeQueue, node *Node, spec ipspec.Specification, solve relaxFunc, minimize bool, n int, nextID *int, sigs *[]branchSig) {
	x := node.Solution
	idx, ok := s.chooseBranchVariable(node, x, spec, solve, minimize)
	if !ok {
		children, sosOK := sosBranches(x, spec, n, s.opts.IntegralityTolerance)
		if !sosOK {
			return
		}
		for _, extra := range children {
			s.pushChild(queue, node, -1, extra, 0, false, spec, solve, minimize, nextID)
		}

		return
	}

	if s.opts.DetectCycling {
		sig := branchSig{variable: idx, depth: node.Depth}
		if seenSig(*sigs, sig) {
			if alt, altOK := spec.MostFractional(x, s.opts.IntegralityTolerance); altOK {
				idx = alt
			}
		}
		*sigs = append(*sigs, branchSig{variable: idx, depth: node.Depth})
		if len(*sigs) > s.opts.CyclingWindowSize {
			*sigs = (*sigs)[1:]
		}
	}

	frac := x[idx] - math.Floor(x[idx])
	down, up := branchBounds(n, idx, x[idx])
	s.pushChild(queue, node, idx, []core.Constraint{down}, frac, false, spec, solve, minimize, nextID)
	s.pushChild(queue, node, idx, []core.Constraint{up}, 1-frac, true, spec, solve, minimize, nextID)
}

// pushChild re-solves the child's relaxation, optionally strengthens
// it with cuts, records pseudo-cost history and enqueues the node.
// Children inherit a deep copy of the parent's constraints.
func (s *Solver) pushChild(queue *NodeQueue, parent *Node, branchVar int, extra []core.Constraint, fracClosed float64, up bool, spec ipspec.Specification, solve relaxFunc, minimize bool, nextID *int) {
	cons := append(core.CloneConstraints(parent.Constraints), extra...)
	res := solve(cons)
	if s.opts.EnableCuttingPlanes && !s.opts.RootOnlyCuts {
		cons, res = s.strengthen(cons, res, spec, solve, false)
	}

	child := &Node{
		ID:          *nextID,
		Depth:       parent.Depth + 1,
		ParentID:    parent.ID,
		Constraints: cons,
		BranchVar:   branchVar,
		Bound:       pessimisticBound(minimize),
	}
	*nextID++
	if res.Status == relax.StatusOptimal {
		child.Bound = res.Objective
		child.Solution = append([]float64(nil), res.Solution...)
		if branchVar >= 0 {
			degrade := res.Objective - parent.Bound
			if !minimize {
				degrade = -degrade
			}
			s.pseudo.Record(branchVar, up, degrade, fracClosed)
		}
	}
	queue.Push(child)
}

// beats reports whether bound can still improve on the incumbent by
// more than tol.
func beats(bound, incumbent float64, minimize bool, tol float64) bool {
	if minimize {
		return bound < incumbent-tol
	}

	return bound > incumbent+tol
}

// roundingFeasible checks a rounded candidate: integrality structure
// holds and every constraint is satisfied within the LP tolerance.
func roundingFeasible(constraints []core.Constraint, spec ipspec.Specification, xr []float64, lpTol, intTol float64) bool {
	if !spec.IsIntegerFeasible(xr, intTol) {
		return false
	}
	for _, c := range constraints {
		if c.Violation(xr) > lpTol {
			return false
		}
	}

	return true
}

// seenSig reports whether sig occurs in the recent window.
func seenSig(sigs []branchSig, sig branchSig) bool {
	for _, s := range sigs {
		if s == sig {
			return true
		}
	}

	return false
}

// dimension infers the variable count from the initial point or the
// widest linear constraint.
func dimension(constraints []core.Constraint, initial []float64) (int, error) {
	if len(initial) > 0 {
		return len(initial), nil
	}
	n := 0
	for _, c := range constraints {
		if c.IsLinear() && len(c.Coefficients) > n {
			n = len(c.Coefficients)
		}
	}
	if n == 0 {
		return 0, core.ErrDimensionMismatch
	}

	return n, nil
}
