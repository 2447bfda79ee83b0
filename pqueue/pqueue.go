// Package pqueue implements the chromosome-aware priority queue that
// coordinates the "other" stream cursors behind the intersection engine:
// a bounded min-heap of heap entries ordered by (chromosome rank, start,
// stop).
package pqueue

import (
	"container/heap"

	"github.com/grailbio/bedder/chromorder"
	"github.com/grailbio/bedder/position"
)

// Entry wraps one live head from an other stream: the position itself,
// the index of the stream it came from (1..k, 0 is reserved for the base
// stream and never appears in the queue), and the order table used to
// rank it. rank is resolved once, at Push time, so that Less never needs
// to fail.
type Entry struct {
	Position position.Positioned
	Source   int

	table *chromorder.Table
	rank  int
}

// Rank returns the chromosome rank this entry was pushed with, resolved
// once against the order table at Push time.
func (e *Entry) Rank() int { return e.rank }

type heapSlice []*Entry

func (h heapSlice) Len() int { return len(h) }

func (h heapSlice) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	if as, bs := a.Position.Start(), b.Position.Start(); as != bs {
		return as < bs
	}
	return a.Position.Stop() < b.Position.Stop()
}

func (h heapSlice) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *heapSlice) Push(x interface{}) { *h = append(*h, x.(*Entry)) }

func (h *heapSlice) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Queue is a bounded min-heap of Entry, keyed by (chromosome rank, start,
// stop) ascending. At most one Entry per other stream is ever present at
// a time; the intersection engine enforces that invariant by refilling
// from the same stream immediately after every Pop.
type Queue struct {
	table   *chromorder.Table
	entries heapSlice
}

// New creates an empty Queue keyed against table.
func New(table *chromorder.Table) *Queue {
	return &Queue{table: table}
}

// Len returns the number of live entries in the queue. This is bounded by
// the number of non-exhausted other streams (spec §5's memory bound).
func (q *Queue) Len() int { return len(q.entries) }

// Push resolves p's chromosome rank against the queue's order table and
// inserts a new entry for it. It returns chromorder.UnknownChromosomeError
// if p's chromosome was never declared in the table.
func (q *Queue) Push(p position.Positioned, source int, streamName string) error {
	rank, ok := q.table.Rank(p.Chromosome())
	if !ok {
		return chromorder.UnknownChromosomeError(p.Chromosome(), streamName)
	}
	heap.Push(&q.entries, &Entry{Position: p, Source: source, table: q.table, rank: rank})
	return nil
}

// Peek returns the smallest live entry without removing it.
func (q *Queue) Peek() (*Entry, bool) {
	if len(q.entries) == 0 {
		return nil, false
	}
	return q.entries[0], true
}

// Pop removes and returns the smallest live entry.
func (q *Queue) Pop() (*Entry, bool) {
	if len(q.entries) == 0 {
		return nil, false
	}
	e := heap.Pop(&q.entries).(*Entry)
	return e, true
}
