package cuts

import "sync"

// Statistics is an immutable snapshot of cut-generation activity for
// one solve, suitable for embedding in a result.
type Statistics struct {
	GeneratedByType map[Type]int
	Accepted        int
	Rejected        int
	Applied         int
	TotalViolation  float64
}

// Generated returns the total number of generated cuts across types.
func (s Statistics) Generated() int {
	total := 0
	for _, n := range s.GeneratedByType {
		total += n
	}

	return total
}

// Tracker aggregates cut statistics. Mutations are serialized so the
// tracker can be shared by concurrently evaluated nodes.
type Tracker struct {
	mu    sync.Mutex
	stats Statistics
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{stats: Statistics{GeneratedByType: make(map[Type]int)}}
}

// Generated records n generated cuts of type t.
func (t *Tracker) Generated(tp Type, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.GeneratedByType[tp] += n
}

// Accepted records a cut that passed filtering into the pool.
func (t *Tracker) Accepted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Accepted++
}

// Rejected records a cut dropped as weak or duplicate.
func (t *Tracker) Rejected() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Rejected++
}

// Applied records a cut appended to a node's constraint set, with the
// violation it closed.
func (t *Tracker) Applied(violation float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Applied++
	t.stats.TotalViolation += violation
}

// Snapshot returns a copy of the accumulated statistics.
func (t *Tracker) Snapshot() Statistics {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := t.stats
	out.GeneratedByType = make(map[Type]int, len(t.stats.GeneratedByType))
	for k, v := range t.stats.GeneratedByType {
		out.GeneratedByType[k] = v
	}

	return out
}
