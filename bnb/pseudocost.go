package bnb

import "sync"

// minFracChange floors the normalizing fractional change so that a
// near-integral branch cannot produce an unbounded cost estimate.
const minFracChange = 1e-6

type costEntry struct {
	sum   float64
	count int
}

func (e costEntry) average() float64 {
	if e.count == 0 {
		return 0
	}

	return e.sum / float64(e.count)
}

// PseudoCosts tracks historical bound improvement per variable and
// branch direction, normalized by the fractional change the branch
// induced. Mutations are serialized so the tracker can be shared by
// concurrently evaluated nodes.
type PseudoCosts struct {
	mu   sync.Mutex
	up   map[int]costEntry
	down map[int]costEntry
}

// NewPseudoCosts returns an empty tracker.
func NewPseudoCosts() *PseudoCosts {
	return &PseudoCosts{up: make(map[int]costEntry), down: make(map[int]costEntry)}
}

// Record accumulates the observed bound degradation of one branch on
// variable idx. improvement is the child bound worsening relative to
// the parent; fracChange is the fractional distance the branch closed.
func (p *PseudoCosts) Record(idx int, up bool, improvement, fracChange float64) {
	if improvement < 0 {
		improvement = 0
	}
	if fracChange < minFracChange {
		fracChange = minFracChange
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	side := p.down
	if up {
		side = p.up
	}
	e := side[idx]
	e.sum += improvement / fracChange
	e.count++
	side[idx] = e
}

// Score estimates the value of branching on idx at fractional part
// frac as min(upAvg·frac, downAvg·(1−frac)). ok is false when no
// history exists for the variable in either direction; callers fall
// back to plain fractionality.
func (p *PseudoCosts) Score(idx int, frac float64) (score float64, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	upEntry, downEntry := p.up[idx], p.down[idx]
	if upEntry.count == 0 && downEntry.count == 0 {
		return 0, false
	}
	upScore := upEntry.average() * frac
	downScore := downEntry.average() * (1 - frac)
	if upScore < downScore {
		return upScore, true
	}

	return downScore, true
}
