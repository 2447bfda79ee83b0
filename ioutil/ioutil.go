// Package ioutil opens interval-file inputs the way the rest of the
// genomics stack does: through grailbio/base/file (so a path may be a
// local file or a supported cloud URL) with transparent gzip detection,
// exactly as pileup's FASTA loader does for .fa/.fa.gz.
package ioutil

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
)

// Open opens path for reading, transparently decompressing it if
// fileio.DetermineType identifies it as gzip (e.g. a ".bed.gz" input).
// The returned ReadCloser's Close also closes the underlying file handle.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "ioutil: opening", path)
	}
	var r io.Reader = f.Reader(ctx)
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, err := gzip.NewReader(r)
		if err != nil {
			_ = f.Close(ctx)
			return nil, errors.E(err, "ioutil: opening gzip stream", path)
		}
		return &gzipReadCloser{gz: gz, f: f, ctx: ctx}, nil
	}
	return &fileReadCloser{r: r, f: f, ctx: ctx}, nil
}

type fileReadCloser struct {
	r   io.Reader
	f   file.File
	ctx context.Context
}

func (c *fileReadCloser) Read(p []byte) (int, error) { return c.r.Read(p) }
func (c *fileReadCloser) Close() error                { return c.f.Close(c.ctx) }

type gzipReadCloser struct {
	gz  *gzip.Reader
	f   file.File
	ctx context.Context
}

func (c *gzipReadCloser) Read(p []byte) (int, error) { return c.gz.Read(p) }

func (c *gzipReadCloser) Close() error {
	if err := c.gz.Close(); err != nil {
		_ = c.f.Close(c.ctx)
		return err
	}
	return c.f.Close(c.ctx)
}
