// Package chromorder supplies the dense chromosome-rank lookup the
// intersection engine uses as its primary sort key. A Table is the sole
// definition of chromosome order for a merge; lexicographic ordering of
// chromosome names is never used.
package chromorder

import (
	"bufio"
	"context"
	"strings"

	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/errors"

	"github.com/grailbio/bedder/ioutil"
)

// Table maps chromosome name to a dense, caller-defined rank. It is
// read-only once built and is shared by every heap entry for the life of
// a merge.
type Table struct {
	ranks map[string]int
}

// Rank returns the rank of chrom, or false if chrom was never declared.
func (t *Table) Rank(chrom string) (int, bool) {
	r, ok := t.ranks[chrom]
	return r, ok
}

// Len returns the number of distinct chromosomes in the table.
func (t *Table) Len() int { return len(t.ranks) }

// FromNames builds a Table ranking names in the order given; duplicate
// names keep their first rank. Useful for tests and for callers that
// already have an ordered chromosome list in memory.
func FromNames(names []string) *Table {
	ranks := make(map[string]int, len(names))
	for i, name := range names {
		if _, ok := ranks[name]; !ok {
			ranks[name] = i
		}
	}
	return &Table{ranks: ranks}
}

// FromSAMHeader ranks chromosomes in the order they appear in a BAM/SAM
// header's reference dictionary, the same ordering @SQ-sorted BAM/CRAM
// files already use.
func FromSAMHeader(h *sam.Header) *Table {
	refs := h.Refs()
	ranks := make(map[string]int, len(refs))
	for i, ref := range refs {
		ranks[ref.Name()] = i
	}
	return &Table{ranks: ranks}
}

// FromFAI builds a Table from a file with one chromosome name per line
// (the first whitespace-delimited field of each line, as in a samtools
// .fai index or a plain text chromosome list); line number is rank.
// Comment lines (leading '#') and blank lines are skipped and do not
// consume a rank.
func FromFAI(ctx context.Context, path string) (*Table, error) {
	r, err := ioutil.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "chromorder: opening order file", path)
	}
	defer r.Close()

	ranks := make(map[string]int)
	n := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		if _, ok := ranks[name]; !ok {
			ranks[name] = n
			n++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "chromorder: reading order file", path)
	}
	if len(ranks) == 0 {
		return nil, errors.E("chromorder: empty order file", path)
	}
	return &Table{ranks: ranks}, nil
}

// UnknownChromosomeError reports that stream yielded chrom, which is
// absent from the order table. This is fatal to the merge (spec §7.2).
func UnknownChromosomeError(chrom, stream string) error {
	return errors.E("chromorder: unknown chromosome", chrom, "from stream", stream)
}
