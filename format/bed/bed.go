// Package bed implements a position.PositionedIterator over BED3 files:
// whitespace-delimited tabular text with (at least) chromosome, start,
// stop in the first three columns, zero-based half-open, one record per
// line. Comment lines ('#') and blank lines are skipped.
package bed

import (
	"bufio"
	"context"
	"strconv"

	"github.com/grailbio/base/errors"

	"github.com/grailbio/bedder/ioutil"
	"github.com/grailbio/bedder/position"
)

// Record is a BED3 Positioned value: chromosome, start, stop, plus
// whatever extra whitespace-delimited fields the line carried, accessible
// by index only (BED has no declared column names; format/tabular is the
// named-column counterpart).
type Record struct {
	chrom      string
	start, end uint64
	extra      []string
}

var _ position.Positioned = Record{}

func (r Record) Chromosome() string { return r.chrom }
func (r Record) Start() uint64      { return r.start }
func (r Record) Stop() uint64       { return r.end }

// Value implements position.Positioned.Value. Index 0/1/2 are the
// conventional chromosome/start/stop; index 3+ addresses extra columns,
// if the line had any. BED has no named columns, so ByName always fails.
func (r Record) Value(f position.Field) (position.Value, error) {
	if f.Name != "" {
		return position.Value{}, position.InvalidFieldError("bed.Record", f)
	}
	switch f.Index {
	case 0:
		return position.ScalarString(r.chrom), nil
	case 1:
		return position.ScalarInt(int64(r.start)), nil
	case 2:
		return position.ScalarInt(int64(r.end)), nil
	default:
		i := f.Index - 3
		if i < 0 || i >= len(r.extra) {
			return position.Value{}, position.InvalidFieldError("bed.Record", f)
		}
		return position.ScalarString(r.extra[i]), nil
	}
}

// Iterator reads BED3 records from a single file, in the order they
// appear. It is a position.PositionedIterator: a hint is accepted but
// ignored, since a plain text stream offers nothing cheaper than reading
// forward.
type Iterator struct {
	name       string
	closer     interface{ Close() error }
	scanner    *bufio.Scanner
	lineNumber int
	err        error
}

// Open opens path (local or a grailbio/base/file-supported remote URL),
// transparently gunzipping it if it looks gzip-compressed, and returns a
// BED3 Iterator over it.
func Open(ctx context.Context, path string) (*Iterator, error) {
	r, err := ioutil.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "bed: opening", path)
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024*64)
	return &Iterator{name: path, closer: r, scanner: scanner}, nil
}

// Name implements position.PositionedIterator.Name.
func (it *Iterator) Name() string {
	return "bed:" + it.name + ":" + strconv.Itoa(it.lineNumber)
}

// Close releases the underlying file handle.
func (it *Iterator) Close() error { return it.closer.Close() }

// NextPosition implements position.PositionedIterator.NextPosition. hint
// is accepted for interface conformance but ignored.
func (it *Iterator) NextPosition(hint position.Positioned) (position.Positioned, error) {
	if it.err != nil {
		return nil, it.err
	}
	for it.scanner.Scan() {
		it.lineNumber++
		line := it.scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		fields := splitFields(line)
		if len(fields) < 3 {
			it.err = errors.E("bed: line has fewer than 3 fields", it.Name())
			return nil, it.err
		}
		start, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			it.err = errors.E(err, "bed: invalid start coordinate", it.Name())
			return nil, it.err
		}
		stop, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			it.err = errors.E(err, "bed: invalid stop coordinate", it.Name())
			return nil, it.err
		}
		if start > stop {
			it.err = errors.E("bed: start > stop", it.Name())
			return nil, it.err
		}
		var extra []string
		if len(fields) > 3 {
			extra = fields[3:]
		}
		return Record{chrom: fields[0], start: start, end: stop, extra: extra}, nil
	}
	if err := it.scanner.Err(); err != nil {
		it.err = errors.E(err, "bed: reading", it.Name())
		return nil, it.err
	}
	return nil, nil
}

// splitFields tokenizes a line on runs of whitespace, in the style of
// interval/bedunion.go's getTokens: any byte <= ' ' is a delimiter. Unlike
// getTokens, this returns every token rather than a fixed-size prefix,
// since BED lines can carry an arbitrary number of extra columns.
func splitFields(line string) []string {
	var fields []string
	n := len(line)
	pos := 0
	for pos < n {
		for pos < n && line[pos] <= ' ' {
			pos++
		}
		if pos >= n {
			break
		}
		start := pos
		for pos < n && line[pos] > ' ' {
			pos++
		}
		fields = append(fields, line[start:pos])
	}
	return fields
}
