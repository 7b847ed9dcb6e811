package bnb

import (
	"fmt"
	"time"

	"github.com/planmath/mip/relax"
)

// SelectionStrategy orders the node queue.
type SelectionStrategy int

const (
	// BestBound expands the node with the tightest relaxation bound.
	BestBound SelectionStrategy = iota
	// DepthFirst expands the deepest node, reaching incumbents early.
	DepthFirst
	// BreadthFirst expands the shallowest node.
	BreadthFirst
	// BestEstimate currently degenerates to BestBound.
	BestEstimate
)

// BranchingRule selects the variable to branch on.
type BranchingRule int

const (
	// MostFractional branches on the variable closest to half-integral.
	MostFractional BranchingRule = iota
	// PseudoCost scores variables by historical bound improvement.
	PseudoCost
	// StrongBranching probes candidate branches with trial relaxations.
	StrongBranching
)

// Options configures a Solver. The zero value is not usable; start
// from DefaultOptions.
type Options struct {
	// MaxNodes caps tree exploration; 0 means unlimited.
	MaxNodes int
	// TimeLimit is the wall-clock cutoff; 0 means unlimited.
	TimeLimit time.Duration
	// RelativeGapTolerance stops the search once
	// |incumbent − bestBound| / max(|incumbent|, 1) drops below it.
	RelativeGapTolerance float64

	NodeSelection SelectionStrategy
	Branching     BranchingRule

	// LPTolerance ≤ IntegralityTolerance ≤ CutTolerance, validated
	// before any search begins.
	LPTolerance          float64
	IntegralityTolerance float64
	CutTolerance         float64

	// EnableCuttingPlanes turns on cut generation; MaxCuttingRounds
	// bounds the strengthening rounds per node. RootOnlyCuts restricts
	// generation to the root relaxation.
	EnableCuttingPlanes     bool
	MaxCuttingRounds        int
	RootOnlyCuts            bool
	NormalizeCuts           bool
	CutCoefficientThreshold float64

	// DetectStagnation stops with StatusFeasible when neither the
	// incumbent nor the bound moved by more than StagnationTolerance
	// over a window of iterations.
	DetectStagnation    bool
	StagnationTolerance float64

	// DetectCycling falls back to most-fractional branching when a
	// (variable, depth) branching signature repeats within the last
	// CyclingWindowSize decisions.
	DetectCycling     bool
	CyclingWindowSize int

	// EnableVariableShifting translates variables with detected
	// negative lower bounds into the non-negative domain around the
	// search and maps the incumbent back.
	EnableVariableShifting bool

	// Relaxation is the pluggable continuous backend; nil selects
	// relax.NewAutoSolver.
	Relaxation relax.Solver
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the conventional configuration: best-bound
// node selection, most-fractional branching, cuts disabled but
// normalized when enabled.
func DefaultOptions() Options {
	return Options{
		MaxNodes:                10_000,
		RelativeGapTolerance:    1e-6,
		NodeSelection:           BestBound,
		Branching:               MostFractional,
		LPTolerance:             1e-7,
		IntegralityTolerance:    1e-6,
		CutTolerance:            1e-6,
		MaxCuttingRounds:        5,
		NormalizeCuts:           true,
		CutCoefficientThreshold: 1e-9,
		StagnationTolerance:     1e-9,
		CyclingWindowSize:       16,
	}
}

// WithMaxNodes caps the number of explored nodes (0 = unlimited).
func WithMaxNodes(n int) Option {
	return func(o *Options) { o.MaxNodes = n }
}

// WithTimeLimit sets the wall-clock cutoff (0 = unlimited).
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) { o.TimeLimit = d }
}

// WithRelativeGap sets the early-stop optimality gap.
func WithRelativeGap(gap float64) Option {
	return func(o *Options) { o.RelativeGapTolerance = gap }
}

// WithNodeSelection sets the queue ordering strategy.
func WithNodeSelection(s SelectionStrategy) Option {
	return func(o *Options) { o.NodeSelection = s }
}

// WithBranching sets the branching-variable rule.
func WithBranching(r BranchingRule) Option {
	return func(o *Options) { o.Branching = r }
}

// WithTolerances sets the lp ≤ integrality ≤ cut hierarchy.
func WithTolerances(lp, integrality, cut float64) Option {
	return func(o *Options) {
		o.LPTolerance = lp
		o.IntegralityTolerance = integrality
		o.CutTolerance = cut
	}
}

// WithCuttingPlanes enables cut generation with the given number of
// strengthening rounds per node.
func WithCuttingPlanes(rounds int) Option {
	return func(o *Options) {
		o.EnableCuttingPlanes = true
		o.MaxCuttingRounds = rounds
	}
}

// WithRootOnlyCuts restricts cut generation to the root relaxation.
func WithRootOnlyCuts() Option {
	return func(o *Options) { o.RootOnlyCuts = true }
}

// WithNormalizedCuts rescales generated cuts by their largest
// coefficient magnitude.
func WithNormalizedCuts() Option {
	return func(o *Options) { o.NormalizeCuts = true }
}

// WithCutCoefficientThreshold sets the weak-cut rejection threshold.
func WithCutCoefficientThreshold(t float64) Option {
	return func(o *Options) { o.CutCoefficientThreshold = t }
}

// WithStagnationDetection stops early with the current incumbent when
// the search makes no progress beyond tol over a window.
func WithStagnationDetection(tol float64) Option {
	return func(o *Options) {
		o.DetectStagnation = true
		o.StagnationTolerance = tol
	}
}

// WithCyclingDetection guards branching against repeated
// (variable, depth) signatures within the given window.
func WithCyclingDetection(window int) Option {
	return func(o *Options) {
		o.DetectCycling = true
		o.CyclingWindowSize = window
	}
}

// WithVariableShifting enables the negative-lower-bound translation.
func WithVariableShifting() Option {
	return func(o *Options) { o.EnableVariableShifting = true }
}

// WithRelaxationSolver plugs in the continuous backend.
func WithRelaxationSolver(s relax.Solver) Option {
	return func(o *Options) { o.Relaxation = s }
}

// validate rejects unusable configurations before any search begins.
func (o Options) validate() error {
	if o.LPTolerance < 0 || o.IntegralityTolerance < 0 || o.CutTolerance < 0 {
		return fmt.Errorf("%w: negative tolerance", ErrInvalidOption)
	}
	if o.LPTolerance > o.IntegralityTolerance || o.IntegralityTolerance > o.CutTolerance {
		return ErrToleranceOrder
	}
	if o.MaxNodes < 0 || o.TimeLimit < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidOption)
	}
	if o.RelativeGapTolerance < 0 {
		return fmt.Errorf("%w: negative gap tolerance", ErrInvalidOption)
	}
	if o.NodeSelection < BestBound || o.NodeSelection > BestEstimate {
		return fmt.Errorf("%w: unknown node selection strategy", ErrInvalidOption)
	}
	if o.Branching < MostFractional || o.Branching > StrongBranching {
		return fmt.Errorf("%w: unknown branching rule", ErrInvalidOption)
	}
	if o.EnableCuttingPlanes && o.MaxCuttingRounds < 1 {
		return fmt.Errorf("%w: cutting planes need at least one round", ErrInvalidOption)
	}
	if o.DetectCycling && o.CyclingWindowSize < 1 {
		return fmt.Errorf("%w: cycling window must be positive", ErrInvalidOption)
	}

	return nil
}
