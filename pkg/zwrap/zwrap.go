// Package zwrap takes a file pointer and, if the contents are gzipped,
// wraps it so reads go through the decompressor. Upon calling Close,
// the decompressor will be closed, followed by the underlying file.
// Segment files for a whole chromosome are big and usually compressed.

package zwrap

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/andrew-torda/epilogos/pkg/common"
)

var gzMagic = []byte{0x1f, 0x8b}

// FpGzip is what we return. zrdr is nil for plain input.
type FpGzip struct {
	fp   io.ReadCloser
	br   *bufio.Reader // sits on fp so we can peek at the magic number
	zrdr *gzip.Reader
}

// Close closes the decompressor, then the underlying backing readCloser.
func (fc *FpGzip) Close() error {
	var zerr error
	if fc.zrdr != nil {
		zerr = fc.zrdr.Close()
	}
	return errors.Join(zerr, fc.fp.Close())
}

// Read makes sure we read from the compressed stream and
// not the underlying file stream.
func (fc *FpGzip) Read(p []byte) (int, error) {
	if fc.zrdr != nil {
		return fc.zrdr.Read(p)
	}
	return fc.br.Read(p)
}

// Gzipped says whether we are decompressing.
func (fc *FpGzip) Gzipped() bool { return fc.zrdr != nil }

// WrapMaybe looks at the first two bytes. If they are the gzip magic
// number, reads are decompressed. Anything else is passed through.
// Unlike seeking back to the start, this works on pipes.
func WrapMaybe(fp io.ReadCloser) (*FpGzip, error) {
	fc := &FpGzip{fp: fp, br: bufio.NewReader(fp)}
	head, err := fc.br.Peek(len(gzMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if bytes.Equal(head, gzMagic) {
		if fc.zrdr, err = gzip.NewReader(fc.br); err != nil {
			return nil, fmt.Errorf("%w: gzip header: %v", common.ErrFormat, err)
		}
	}
	return fc, nil
}

// Open opens a file for reading, decompressing if necessary.
func Open(fname string) (*FpGzip, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("%w \"%s\" for reading: %v", common.ErrFileOpen, fname, err)
	}
	fc, err := WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return fc, nil
}
