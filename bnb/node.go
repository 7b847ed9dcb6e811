package bnb

import (
	"container/heap"
	"math"

	"github.com/planmath/mip/core"
)

// Node is one vertex of the search tree. It owns its full constraint
// list by value: children receive a deep copy of the parent's list
// plus one branching bound, so no node ever mutates another's state.
// Solution is nil when the node's relaxation was infeasible, unbounded
// or failed; such nodes are fathomed on dequeue and Bound holds the
// pessimistic value for the search direction.
type Node struct {
	ID          int
	Depth       int
	ParentID    int
	Constraints []core.Constraint
	Bound       float64
	Solution    []float64
	BranchVar   int
}

// NodeQueue is a strategy-ordered priority queue of open nodes.
// Push and Pop are O(log n); Best is O(n).
type NodeQueue struct {
	h nodeHeap
}

// NewNodeQueue returns an empty queue ordered by strategy for the
// given search direction.
func NewNodeQueue(strategy SelectionStrategy, minimize bool) *NodeQueue {
	return &NodeQueue{h: nodeHeap{strategy: strategy, minimize: minimize}}
}

// Push inserts n.
func (q *NodeQueue) Push(n *Node) {
	heap.Push(&q.h, n)
}

// Pop removes and returns the best open node.
func (q *NodeQueue) Pop() (*Node, bool) {
	if len(q.h.items) == 0 {
		return nil, false
	}

	return heap.Pop(&q.h).(*Node), true
}

// Len returns the number of open nodes.
func (q *NodeQueue) Len() int { return len(q.h.items) }

// Best returns the tightest bound among open nodes, regardless of the
// queue's ordering strategy. ok is false when the queue is empty.
func (q *NodeQueue) Best() (bound float64, ok bool) {
	if len(q.h.items) == 0 {
		return 0, false
	}
	bound = q.h.items[0].Bound
	for _, n := range q.h.items[1:] {
		if q.h.minimize && n.Bound < bound || !q.h.minimize && n.Bound > bound {
			bound = n.Bound
		}
	}

	return bound, true
}

// nodeHeap implements heap.Interface with the strategy comparator.
type nodeHeap struct {
	strategy SelectionStrategy
	minimize bool
	items    []*Node
}

func (h *nodeHeap) Len() int { return len(h.items) }

// Less reports whether items[i] should be expanded before items[j].
// Ties break on the lower node ID for deterministic exploration.
func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	switch h.strategy {
	case DepthFirst:
		if a.Depth != b.Depth {
			return a.Depth > b.Depth
		}
	case BreadthFirst:
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
	default: // BestBound, BestEstimate
		if a.Bound != b.Bound {
			if h.minimize {
				return a.Bound < b.Bound
			}

			return a.Bound > b.Bound
		}
	}

	return a.ID < b.ID
}

func (h *nodeHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *nodeHeap) Push(x any) {
	h.items = append(h.items, x.(*Node))
}

func (h *nodeHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	h.items = old[:n-1]

	return item
}

// pessimisticBound is the fathoming bound for a failed relaxation:
// the worst possible value for the search direction, so the node can
// never displace anything.
func pessimisticBound(minimize bool) float64 {
	if minimize {
		return math.Inf(1)
	}

	return math.Inf(-1)
}
