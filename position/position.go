// Package position defines the minimal interval abstraction the
// intersection engine operates on: a chromosome-qualified half-open range
// plus an optional accessor for extra, format-specific fields.
package position

import (
	"strconv"

	"github.com/pkg/errors"
)

// Field selects a value from a Positioned, either by its conventional
// index (0 = chromosome, 1 = start, 2 = stop, 3+ = format-specific) or by
// name, for formats that declare named columns.
type Field struct {
	Index int
	Name  string
}

// ByIndex selects a field by its positional index.
func ByIndex(i int) Field { return Field{Index: i, Name: ""} }

// ByName selects a field by its declared name.
func ByName(name string) Field { return Field{Index: -1, Name: name} }

func (f Field) String() string {
	if f.Name != "" {
		return f.Name
	}
	return "#" + strconv.Itoa(f.Index)
}

// Value is the result of a field lookup: either a scalar or a vector of
// strings or integers. Exactly one of Strings/Ints is populated.
type Value struct {
	Strings []string
	Ints    []int64
}

// ScalarString builds a single-element string Value.
func ScalarString(s string) Value { return Value{Strings: []string{s}} }

// ScalarInt builds a single-element integer Value.
func ScalarInt(v int64) Value { return Value{Ints: []int64{v}} }

// IsInt reports whether the value is integer-typed.
func (v Value) IsInt() bool { return v.Ints != nil }

// InvalidFieldError reports that a Positioned has no such field. It is
// never fatal to a merge in progress; it is returned to whichever caller
// asked for the field.
func InvalidFieldError(name string, field Field) error {
	return errors.Errorf("%s: invalid field %s", name, field)
}

// Positioned is a half-open interval [Start, Stop) on a named chromosome,
// with an optional accessor for additional, format-specific fields.
// Implementations must be safe to read concurrently with other Positioned
// values (they never hold a lock), but need not be safe to mutate.
type Positioned interface {
	// Chromosome names the sequence the interval lies on.
	Chromosome() string
	// Start is the zero-based inclusive start of the interval.
	Start() uint64
	// Stop is the zero-based exclusive end of the interval; Start <= Stop.
	Stop() uint64
	// Value looks up a field by index or name. Indices 0, 1, 2 always
	// resolve to Chromosome, Start, Stop respectively. Implementations
	// return InvalidFieldError for anything they don't recognize.
	Value(field Field) (Value, error)
}

// Overlaps reports the half-open overlap predicate between two intervals
// already known to share a chromosome: a.Start < b.Stop && a.Stop > b.Start.
// An empty interval (Start == Stop) overlaps nothing.
func Overlaps(a, b Positioned) bool {
	if a.Start() >= a.Stop() || b.Start() >= b.Stop() {
		return false
	}
	return a.Start() < b.Stop() && a.Stop() > b.Start()
}

// PositionedIterator is a pull source of Positioned values, already
// sorted by the caller's composite key. A nil, nil return is clean
// end-of-stream; a non-nil error is terminal for the stream.
type PositionedIterator interface {
	// NextPosition pulls the next value. hint is an advisory "you will
	// not need anything before this point" signal; implementations may
	// use it to skip ahead, but must produce correct output if it is
	// ignored entirely (including when hint is nil).
	NextPosition(hint Positioned) (Positioned, error)
	// Name identifies this stream for diagnostics, e.g. "bed:1532".
	Name() string
}
