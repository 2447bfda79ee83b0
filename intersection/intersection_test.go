package intersection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/bedder/chromorder"
	"github.com/grailbio/bedder/intersection"
	"github.com/grailbio/bedder/position"
)

type interval struct {
	chrom      string
	start, end uint64
}

func (iv interval) Chromosome() string { return iv.chrom }
func (iv interval) Start() uint64      { return iv.start }
func (iv interval) Stop() uint64       { return iv.end }
func (iv interval) Value(f position.Field) (position.Value, error) {
	return position.Value{}, position.InvalidFieldError("interval", f)
}

// sliceIterator turns a slice of Positioned into a
// position.PositionedIterator, pulling left to right and never honoring
// the hint (as spec §4.1 requires implementations to remain correct
// without one).
type sliceIterator struct {
	name  string
	items []interval
	pos   int
}

func newSliceIterator(name string, items ...interval) *sliceIterator {
	return &sliceIterator{name: name, items: items}
}

func (s *sliceIterator) NextPosition(hint position.Positioned) (position.Positioned, error) {
	if s.pos >= len(s.items) {
		return nil, nil
	}
	v := s.items[s.pos]
	s.pos++
	return v, nil
}

func (s *sliceIterator) Name() string { return s.name }

func drain(t *testing.T, it *intersection.Iterator) []*intersection.Intersection {
	t.Helper()
	var out []*intersection.Intersection
	for {
		next, err := it.Next()
		require.NoError(t, err)
		if next == nil {
			break
		}
		out = append(out, next)
	}
	return out
}

func TestBasicOverlapCount(t *testing.T) {
	table := chromorder.FromNames([]string{"chr1", "chr2"})
	base := newSliceIterator("base", interval{"chr1", 20, 30}, interval{"chr1", 21, 33})
	other := newSliceIterator("other", interval{"chr1", 21, 30}, interval{"chr1", 22, 33})

	it, err := intersection.New(base, []position.PositionedIterator{other}, table)
	require.NoError(t, err)

	results := drain(t, it)
	require.Len(t, results, 2)
	assert.Len(t, results[0].Overlapping, 2)
	assert.Len(t, results[1].Overlapping, 2)
}

func TestTouchingBoundariesDoNotOverlap(t *testing.T) {
	table := chromorder.FromNames([]string{"chr1"})
	base := newSliceIterator("base", interval{"chr1", 10, 20})
	other := newSliceIterator("other", interval{"chr1", 20, 30})

	it, err := intersection.New(base, []position.PositionedIterator{other}, table)
	require.NoError(t, err)

	results := drain(t, it)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Overlapping)
}

func TestChromosomeSwitch(t *testing.T) {
	table := chromorder.FromNames([]string{"chr1", "chr2"})
	base := newSliceIterator("base", interval{"chr1", 0, 10}, interval{"chr2", 0, 10})
	other := newSliceIterator("other", interval{"chr1", 5, 15}, interval{"chr2", 0, 5})

	it, err := intersection.New(base, []position.PositionedIterator{other}, table)
	require.NoError(t, err)

	results := drain(t, it)
	require.Len(t, results, 2)
	assert.Len(t, results[0].Overlapping, 1)
	assert.Len(t, results[1].Overlapping, 1)
}

func TestMultipleOtherStreams(t *testing.T) {
	table := chromorder.FromNames([]string{"chr1"})
	base := newSliceIterator("base", interval{"chr1", 100, 200})
	o1 := newSliceIterator("o1", interval{"chr1", 150, 160})
	o2 := newSliceIterator("o2", interval{"chr1", 190, 210})

	it, err := intersection.New(base, []position.PositionedIterator{o1, o2}, table)
	require.NoError(t, err)

	results := drain(t, it)
	require.Len(t, results, 1)
	require.Len(t, results[0].Overlapping, 2)
	sources := map[int]bool{}
	for _, o := range results[0].Overlapping {
		sources[o.Source] = true
	}
	assert.True(t, sources[1])
	assert.True(t, sources[2])
}

func TestOtherStreamExhaustedBeforeBase(t *testing.T) {
	table := chromorder.FromNames([]string{"chr1"})
	base := newSliceIterator("base", interval{"chr1", 0, 10}, interval{"chr1", 20, 30})
	other := newSliceIterator("other", interval{"chr1", 0, 5})

	it, err := intersection.New(base, []position.PositionedIterator{other}, table)
	require.NoError(t, err)

	results := drain(t, it)
	require.Len(t, results, 2)
	assert.Len(t, results[0].Overlapping, 1)
	assert.Empty(t, results[1].Overlapping)
}

func TestUnknownChromosomeIsFatal(t *testing.T) {
	table := chromorder.FromNames([]string{"chr1"})
	base := newSliceIterator("base", interval{"chrZ", 0, 10})

	it, err := intersection.New(base, nil, table)
	require.NoError(t, err)

	_, err = it.Next()
	assert.Error(t, err)
}

func TestOutOfOrderBaseIsFatal(t *testing.T) {
	table := chromorder.FromNames([]string{"chr1"})
	base := newSliceIterator("base", interval{"chr1", 20, 30}, interval{"chr1", 10, 15})

	it, err := intersection.New(base, nil, table)
	require.NoError(t, err)

	_, err = it.Next()
	require.NoError(t, err)
	_, err = it.Next()
	assert.Error(t, err)
}

func TestEmptyBaseYieldsNoEmissions(t *testing.T) {
	table := chromorder.FromNames([]string{"chr1"})
	base := newSliceIterator("base")
	other := newSliceIterator("other", interval{"chr1", 0, 10})

	it, err := intersection.New(base, []position.PositionedIterator{other}, table)
	require.NoError(t, err)

	results := drain(t, it)
	assert.Empty(t, results)
}

func TestEmptyOtherStreamsYieldOneRecordPerBaseWithNoOverlaps(t *testing.T) {
	table := chromorder.FromNames([]string{"chr1"})
	base := newSliceIterator("base", interval{"chr1", 0, 10}, interval{"chr1", 20, 30})

	it, err := intersection.New(base, nil, table)
	require.NoError(t, err)

	results := drain(t, it)
	require.Len(t, results, 2)
	assert.Empty(t, results[0].Overlapping)
	assert.Empty(t, results[1].Overlapping)
}

func TestDuplicatedBaseAsOtherOverlapsExactlyItself(t *testing.T) {
	table := chromorder.FromNames([]string{"chr1", "chr2"})
	items := []interval{{"chr1", 0, 10}, {"chr1", 20, 25}, {"chr2", 5, 12}}
	base := newSliceIterator("base", items...)
	other := newSliceIterator("other", items...)

	it, err := intersection.New(base, []position.PositionedIterator{other}, table)
	require.NoError(t, err)

	results := drain(t, it)
	require.Len(t, results, len(items))
	for _, r := range results {
		require.Len(t, r.Overlapping, 1)
		assert.Equal(t, r.Base.Start(), r.Overlapping[0].Position.Start())
		assert.Equal(t, r.Base.Stop(), r.Overlapping[0].Position.Stop())
	}
}

// Forward-pass exclusivity (spec §8): each other-stream value is reported
// under at most one base, even when it would also overlap a later base.
func TestForwardPassExclusivity(t *testing.T) {
	table := chromorder.FromNames([]string{"chr1"})
	base := newSliceIterator("base", interval{"chr1", 0, 20}, interval{"chr1", 15, 35})
	other := newSliceIterator("other", interval{"chr1", 10, 30}) // overlaps both bases

	it, err := intersection.New(base, []position.PositionedIterator{other}, table)
	require.NoError(t, err)

	results := drain(t, it)
	require.Len(t, results, 2)
	assert.Len(t, results[0].Overlapping, 1)
	assert.Empty(t, results[1].Overlapping)
}

func TestAllOtherStreamHeadsDrainIntoOneWideBase(t *testing.T) {
	table := chromorder.FromNames([]string{"chr1"})
	base := newSliceIterator("base", interval{"chr1", 0, 1000})
	o1 := newSliceIterator("o1", interval{"chr1", 0, 5}, interval{"chr1", 6, 10})
	o2 := newSliceIterator("o2", interval{"chr1", 1, 6}, interval{"chr1", 7, 11})
	o3 := newSliceIterator("o3", interval{"chr1", 2, 7})

	it, err := intersection.New(base, []position.PositionedIterator{o1, o2, o3}, table)
	require.NoError(t, err)

	// Every interval of all three other streams overlaps the single base,
	// so each stream is refilled until exhausted and all five intervals
	// are reported against it.
	result, err := it.Next()
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Overlapping, 5)
}
