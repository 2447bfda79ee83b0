// bedder-intersect intersects a base interval file against one or more
// other interval files, emitting one line per base interval in base
// order: either a bare overlap count (the default, matching the count
// collaborator sketched in spec §6) or, with -full, every overlapping
// interval.
//
// Usage:
//
//	bedder-intersect -g genome.fai -b other.bed base.bed
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"

	"github.com/grailbio/bedder/chromorder"
	"github.com/grailbio/bedder/format/bed"
	"github.com/grailbio/bedder/format/tabular"
	"github.com/grailbio/bedder/intersection"
	"github.com/grailbio/bedder/position"
)

// stringList collects repeated -b flags into an ordered slice, the same
// way k other streams are specified (spec §1: "one or more other
// streams").
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

var (
	otherFiles stringList
	orderFile  = flag.String("g", "", "chromosome order file: one chromosome name per line, line number is its rank (e.g. a samtools .fai index)")
	format     = flag.String("format", "bed", "input format for all files: 'bed' (BED3 plus unnamed extra columns) or 'tabular' (header-declared named columns)")
	full       = flag.Bool("full", false, "print every overlapping interval instead of just a count")
	oneBased   = flag.Bool("one-based", false, "treat -format=tabular coordinates as 1-based inclusive (GFF/GTF-style) and convert to 0-based half-open; has no effect on -format=bed, which is already 0-based")
)

func init() {
	flag.Var(&otherFiles, "b", "other interval file to intersect against the base file; repeat for a k-way intersection")
}

func openStream(ctx context.Context, path string) (position.PositionedIterator, error) {
	switch *format {
	case "bed":
		return bed.Open(ctx, path)
	case "tabular":
		return tabular.OpenOpts(ctx, path, tabular.Opts{OneBased: *oneBased})
	default:
		return nil, errors.E("bedder-intersect: unknown -format", *format)
	}
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: bedder-intersect -g chrom.order -b other.bed [-b other2.bed ...] base.bed")
	}
	if *orderFile == "" {
		log.Fatalf("bedder-intersect: -g is required")
	}
	if len(otherFiles) == 0 {
		log.Fatalf("bedder-intersect: at least one -b is required")
	}

	ctx := vcontext.Background()

	table, err := chromorder.FromFAI(ctx, *orderFile)
	if err != nil {
		log.Fatalf("%v", err)
	}

	base, err := openStream(ctx, flag.Arg(0))
	if err != nil {
		log.Fatalf("%v", err)
	}

	others := make([]position.PositionedIterator, len(otherFiles))
	for i, path := range otherFiles {
		other, err := openStream(ctx, path)
		if err != nil {
			log.Fatalf("%v", err)
		}
		others[i] = other
	}

	it, err := intersection.New(base, others, table)
	if err != nil {
		log.Fatalf("%v", err)
	}

	w := tsv.NewWriter(os.Stdout)
	for {
		result, err := it.Next()
		if err != nil {
			log.Fatalf("%v", err)
		}
		if result == nil {
			break
		}
		if err := writeResult(w, result, *full); err != nil {
			log.Fatalf("bedder-intersect: writing output: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("bedder-intersect: flushing output: %v", err)
	}
}

// writeResult emits one tab-separated output line per spec §6's CLI
// surface: "chrom TAB start TAB stop TAB count_of_overlaps" by default,
// or with -full, the overlapping intervals themselves in place of the
// count.
func writeResult(w *tsv.Writer, result *intersection.Intersection, full bool) error {
	w.WriteString(result.Base.Chromosome())
	w.WriteInt64(int64(result.Base.Start()))
	w.WriteInt64(int64(result.Base.Stop()))
	if !full {
		w.WriteInt64(int64(len(result.Overlapping)))
		return w.EndLine()
	}
	parts := make([]string, len(result.Overlapping))
	for i, o := range result.Overlapping {
		parts[i] = fmt.Sprintf("%d:%s:%s-%s", o.Source, o.Position.Chromosome(),
			strconv.FormatUint(o.Position.Start(), 10), strconv.FormatUint(o.Position.Stop(), 10))
	}
	w.WriteString(strings.Join(parts, ","))
	return w.EndLine()
}
