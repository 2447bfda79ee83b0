// Package intersection implements the core of bedder: a k-way sorted
// merge, with a sliding overlap window, of one base stream of genomic
// intervals against one or more other streams. See the package's Iterator
// for the algorithm.
package intersection

import (
	"github.com/grailbio/base/errors"

	"github.com/grailbio/bedder/chromorder"
	"github.com/grailbio/bedder/pqueue"
	"github.com/grailbio/bedder/position"
)

// Overlap pairs a Positioned with the index (1..k) of the other stream it
// came from.
type Overlap struct {
	Source   int
	Position position.Positioned
}

// Intersection is one emitted result: a base interval plus every
// other-stream interval that overlaps it, in the order they were drained
// from the priority queue (ascending start, then stop).
type Intersection struct {
	Base        position.Positioned
	Overlapping []Overlap
}

// Iterator drives a base PositionedIterator against one or more other
// PositionedIterators, emitting one Intersection per base interval, in
// base order, in constant memory per base interval: at most one live head
// per other stream plus the overlaps collected for the interval currently
// being emitted.
//
// The base stream is never primed ahead of time; it is pulled exactly
// once per call to Next. Every other stream has its first value pulled
// and queued during New, keeping the smallest live value from each other
// stream immediately inspectable.
type Iterator struct {
	base   position.PositionedIterator
	others []position.PositionedIterator
	table  *chromorder.Table
	queue  *pqueue.Queue

	done      bool
	lastBase  position.Positioned
	lastOther []position.Positioned // indexed by source-1
}

// New constructs an Iterator over base and others, ranking chromosomes
// with table. others is indexed 1..k in Overlap.Source, matching the
// order the caller supplied them.
//
// New primes the queue by pulling one value from every other stream; a
// stream that is already empty simply contributes nothing. It returns an
// error if any primed value names a chromosome absent from table, or if
// any other stream errors on its first pull.
func New(base position.PositionedIterator, others []position.PositionedIterator, table *chromorder.Table) (*Iterator, error) {
	it := &Iterator{
		base:      base,
		others:    others,
		table:     table,
		queue:     pqueue.New(table),
		lastOther: make([]position.Positioned, len(others)),
	}
	for i, other := range others {
		source := i + 1
		p, err := other.NextPosition(nil)
		if err != nil {
			return nil, errors.E(err, "intersection: priming stream", other.Name())
		}
		if p == nil {
			continue
		}
		if err := it.pushOther(source, p); err != nil {
			return nil, err
		}
	}
	return it, nil
}

// pushOther validates p's monotonicity against the last value seen from
// this source before queuing it (spec §7.3); chromosome-rank validation
// happens inside queue.Push (spec §7.2).
func (it *Iterator) pushOther(source int, p position.Positioned) error {
	stream := it.others[source-1]
	if last := it.lastOther[source-1]; last != nil {
		if cmp, ok := compareKeys(it.table, p, last); ok && cmp < 0 {
			return outOfOrderError(stream.Name(), last, p)
		}
	}
	it.lastOther[source-1] = p
	return it.queue.Push(p, source, stream.Name())
}

// refill pulls the next value from others[source-1] and, if one is
// available, pushes it onto the queue. It restores the invariant that the
// stream's head is live in the queue after an entry from it is consumed.
func (it *Iterator) refill(source int) error {
	stream := it.others[source-1]
	p, err := stream.NextPosition(nil)
	if err != nil {
		return errors.E(err, "intersection: reading stream", stream.Name())
	}
	if p == nil {
		return nil
	}
	return it.pushOther(source, p)
}

// Next pulls the next base interval and drains every queued other-stream
// entry that lies on an earlier chromosome or starts at or before the
// base's stop on the same chromosome, classifying each drained entry as
// stale or overlapping along the way (spec §4.5). A drained entry is
// reported under the current base only; it is not retained for later
// bases. It returns (nil, nil) once the base stream is
// exhausted.
func (it *Iterator) Next() (*Intersection, error) {
	if it.done {
		return nil, nil
	}
	base, err := it.base.NextPosition(nil)
	if err != nil {
		return nil, errors.E(err, "intersection: reading base stream", it.base.Name())
	}
	if base == nil {
		it.done = true
		return nil, nil
	}

	baseRank, ok := it.table.Rank(base.Chromosome())
	if !ok {
		return nil, chromorder.UnknownChromosomeError(base.Chromosome(), it.base.Name())
	}
	if it.lastBase != nil {
		if cmp, ok := compareKeys(it.table, base, it.lastBase); ok && cmp < 0 {
			return nil, outOfOrderError(it.base.Name(), it.lastBase, base)
		}
	}
	it.lastBase = base

	var overlapping []Overlap
	for {
		top, ok := it.queue.Peek()
		if !ok {
			break
		}
		p := top.Position

		switch {
		case top.Rank() < baseRank:
			// Behind the base on chromosome order: can never overlap base
			// or any later base on base's chromosome.
			it.queue.Pop()
			if err := it.refill(top.Source); err != nil {
				return nil, err
			}

		case top.Rank() == baseRank && p.Stop() <= base.Start():
			// Behind on the same chromosome by position.
			it.queue.Pop()
			if err := it.refill(top.Source); err != nil {
				return nil, err
			}

		case top.Rank() == baseRank && p.Start() <= base.Stop():
			// Candidate window: pop, refill, then test the full
			// half-open overlap predicate.
			it.queue.Pop()
			source := top.Source
			if err := it.refill(source); err != nil {
				return nil, err
			}
			if position.Overlaps(p, base) {
				overlapping = append(overlapping, Overlap{Source: source, Position: p})
			}

		default:
			// Ahead of the base: leave it in the queue for a later base.
			return &Intersection{Base: base, Overlapping: overlapping}, nil
		}
	}
	return &Intersection{Base: base, Overlapping: overlapping}, nil
}
