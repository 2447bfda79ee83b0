package intersection

import (
	"strconv"

	"github.com/grailbio/base/errors"

	"github.com/grailbio/bedder/chromorder"
	"github.com/grailbio/bedder/position"
)

// compareKeys orders a and b by the composite (chrom rank, start, stop)
// key (spec §3's per-stream invariant), returning ok=false if either
// chromosome is absent from table — that condition is reported
// separately, as an unknown-chromosome error, by the caller that already
// resolves ranks for the priority queue.
func compareKeys(table *chromorder.Table, a, b position.Positioned) (cmp int, ok bool) {
	ar, ok1 := table.Rank(a.Chromosome())
	br, ok2 := table.Rank(b.Chromosome())
	if !ok1 || !ok2 {
		return 0, false
	}
	if ar != br {
		return ar - br, true
	}
	if a.Start() != b.Start() {
		if a.Start() < b.Start() {
			return -1, true
		}
		return 1, true
	}
	switch {
	case a.Stop() < b.Stop():
		return -1, true
	case a.Stop() > b.Stop():
		return 1, true
	default:
		return 0, true
	}
}

// outOfOrderError reports that stream yielded cur strictly before prev in
// composite-key order (spec §7.3). Equal keys are allowed; this fires
// only on a strict decrease.
func outOfOrderError(stream string, prev, cur position.Positioned) error {
	return errors.E("intersection: out-of-order input on stream", stream,
		"previous", formatPosition(prev), "got", formatPosition(cur))
}

func formatPosition(p position.Positioned) string {
	return p.Chromosome() + ":" + strconv.FormatUint(p.Start(), 10) + "-" + strconv.FormatUint(p.Stop(), 10)
}
