package cuts

import (
	"math"
	"sort"
	"sync"
)

const duplicateTol = 1e-9

// ManagedCut is a pooled cut with its aging bookkeeping. Age counts
// pool ticks since insertion; Activity accumulates credit whenever the
// cut is tight or violated at a visited point; TimesViolated counts
// strict violations.
type ManagedCut struct {
	Cut           Cut
	Age           int
	Activity      float64
	TimesViolated int
}

// score orders eviction: lowest activity per unit age goes first.
func (m ManagedCut) score() float64 {
	return m.Activity / float64(m.Age+1)
}

// Pool is a bounded, aging store of generated cuts. MaxSize bounds the
// population (lowest-scoring cuts are evicted on overflow); cuts older
// than MaxAge with negligible activity are dropped on every Tick.
//
// All mutations are serialized internally so the pool can be shared
// across concurrently evaluated nodes without external locking.
type Pool struct {
	MaxSize int
	MaxAge  int

	mu   sync.Mutex
	cuts []ManagedCut
}

// NewPool returns a Pool with the given bounds.
func NewPool(maxSize, maxAge int) *Pool {
	return &Pool{MaxSize: maxSize, MaxAge: maxAge}
}

// Add inserts c unless an equivalent cut (coefficients and RHS within
// duplicateTol) is already pooled. Returns whether the cut was added.
func (p *Pool) Add(c Cut) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.cuts {
		if sameCut(p.cuts[i].Cut, c) {
			return false
		}
	}
	p.cuts = append(p.cuts, ManagedCut{Cut: c})
	if p.MaxSize > 0 && len(p.cuts) > p.MaxSize {
		p.evictLocked()
	}

	return true
}

// Tick ages every cut by one round, credits activity for cuts that are
// tight or violated at x, and drops cuts past MaxAge with negligible
// activity.
func (p *Pool) Tick(x []float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.cuts[:0]
	for i := range p.cuts {
		m := p.cuts[i]
		m.Age++
		v := m.Cut.Violation(x)
		if v > 0 {
			m.TimesViolated++
			m.Activity += v
		} else if v > -duplicateTol {
			m.Activity += duplicateTol // tight counts as active
		}
		if p.MaxAge > 0 && m.Age > p.MaxAge && m.Activity <= duplicateTol {
			continue
		}
		kept = append(kept, m)
	}
	p.cuts = kept
}

// Violated returns copies of all pooled cuts violated at x by more
// than tol, most violated first.
func (p *Pool) Violated(x []float64, tol float64) []Cut {
	p.mu.Lock()
	defer p.mu.Unlock()

	type scored struct {
		cut  Cut
		viol float64
	}
	var hits []scored
	for i := range p.cuts {
		if v := p.cuts[i].Cut.Violation(x); v > tol {
			hits = append(hits, scored{cut: p.cuts[i].Cut, viol: v})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].viol > hits[b].viol })

	out := make([]Cut, len(hits))
	for i := range hits {
		out[i] = hits[i].cut
	}

	return out
}

// Len returns the current population.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.cuts)
}

// Snapshot returns a copy of the managed population, for reporting.
func (p *Pool) Snapshot() []ManagedCut {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]ManagedCut(nil), p.cuts...)
}

// evictLocked removes the lowest-scoring cuts until the pool fits.
// Caller holds p.mu.
func (p *Pool) evictLocked() {
	sort.SliceStable(p.cuts, func(a, b int) bool { return p.cuts[a].score() > p.cuts[b].score() })
	p.cuts = p.cuts[:p.MaxSize]
}

// sameCut reports coefficient-wise equality within duplicateTol.
func sameCut(a, b Cut) bool {
	if len(a.Coefficients) != len(b.Coefficients) {
		return false
	}
	if math.Abs(a.RHS-b.RHS) > duplicateTol {
		return false
	}
	for i := range a.Coefficients {
		if math.Abs(a.Coefficients[i]-b.Coefficients[i]) > duplicateTol {
			return false
		}
	}

	return true
}
