package chromorder_test

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/bedder/chromorder"
)

func TestFromNames(t *testing.T) {
	table := chromorder.FromNames([]string{"chr1", "chr2", "chrX"})
	r, ok := table.Rank("chr2")
	require.True(t, ok)
	assert.Equal(t, 1, r)

	_, ok = table.Rank("chrZ")
	assert.False(t, ok)
	assert.Equal(t, 3, table.Len())
}

func TestFromSAMHeader(t *testing.T) {
	r1, err := sam.NewReference("chr1", "", "", 100, nil, nil)
	require.NoError(t, err)
	r2, err := sam.NewReference("chr2", "", "", 200, nil, nil)
	require.NoError(t, err)
	h, err := sam.NewHeader(nil, []*sam.Reference{r1, r2})
	require.NoError(t, err)

	table := chromorder.FromSAMHeader(h)
	rank1, ok := table.Rank("chr1")
	require.True(t, ok)
	rank2, ok := table.Rank("chr2")
	require.True(t, ok)
	assert.True(t, rank1 < rank2)
}

func TestFromFAI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genome.fai")
	contents := "chr1\t248956422\t6\t60\t61\nchr2\t242193529\t253404232\t60\t61\n# trailing comment\n\n"
	require.NoError(t, ioutil.WriteFile(path, []byte(contents), 0o644))

	table, err := chromorder.FromFAI(context.Background(), path)
	require.NoError(t, err)
	r1, ok := table.Rank("chr1")
	require.True(t, ok)
	assert.Equal(t, 0, r1)
	r2, ok := table.Rank("chr2")
	require.True(t, ok)
	assert.Equal(t, 1, r2)
}

func TestFromFAIEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.fai")
	require.NoError(t, ioutil.WriteFile(path, []byte("# only a comment\n"), 0o644))

	_, err := chromorder.FromFAI(context.Background(), path)
	assert.Error(t, err)
}
