package astar

import (
	"container/heap"

	"github.com/matzehuels/astargrid/pkg/grid"
)

// entry is one queued cell. f and seq are fixed at insertion; seq breaks ties
// between equal f-scores in favor of the earlier insertion.
type entry struct {
	pos grid.Pos
	f   int
	seq uint64
}

// queue implements heap.Interface ordered by (f, seq).
type queue []*entry

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) {
	*q = append(*q, x.(*entry))
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// frontier pairs the priority queue with its membership index. A position is
// in members iff it is currently queued.
type frontier struct {
	q       queue
	members map[grid.Pos]*entry
	nextSeq uint64
}

func newFrontier() *frontier {
	return &frontier{members: make(map[grid.Pos]*entry)}
}

func (f *frontier) Len() int { return f.q.Len() }

func (f *frontier) Contains(p grid.Pos) bool {
	_, ok := f.members[p]
	return ok
}

// Push enqueues p with the next sequence number.
func (f *frontier) Push(p grid.Pos, score int) {
	e := &entry{pos: p, f: score, seq: f.nextSeq}
	f.nextSeq++
	heap.Push(&f.q, e)
	f.members[p] = e
}

// Pop removes and returns the minimum (f, seq) entry.
func (f *frontier) Pop() grid.Pos {
	e := heap.Pop(&f.q).(*entry)
	delete(f.members, e.pos)
	return e.pos
}
