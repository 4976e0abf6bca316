// brokenio is a wrapper around an io.Reader which lets us make reads
// fail. Typical use: you have a file pointer, perhaps behind a
// decompressor. You write
// reader = brokenio.NewReader(reader) to wrap the old reader. Everything
// then functions as before, but with artificial errors, so we can check
// that a run stops and says why.

package brokenio

import (
	"errors"
	"io"
	"math/rand"
)

// ErrBroken is what a read returns once it has been made to fail.
var ErrBroken = errors.New("brokenio: artificial read failure")

// BrknRdr passes reads through to the wrapped reader until it is time
// to fail. After the first failure, every read fails.
type BrknRdr struct {
	rdrOrig   io.Reader
	failAfter int        // fail once this many bytes have gone through, -1 for never
	probFail  float32    // chance of failing on any read
	rnd       *rand.Rand // only set if probFail is
	nByte     int
	broken    bool
}

// NewReader returns a new Reader - a wrapper around the old one.
// It does not fail until told to.
func NewReader(rIn io.Reader) *BrknRdr {
	return &BrknRdr{rdrOrig: rIn, failAfter: -1}
}

// SetFailAfter makes reads fail once n bytes have been delivered.
// The read that crosses n is cut short at n.
func (r *BrknRdr) SetFailAfter(n int) { r.failAfter = n }

// SetProbFail sets the probability of a read failing. It must be
// between zero and 1. The seed makes runs repeatable.
func (r *BrknRdr) SetProbFail(prob float32, seed int64) {
	r.probFail = prob
	r.rnd = rand.New(rand.NewSource(seed))
}

// NByte is the number of bytes delivered so far.
func (r *BrknRdr) NByte() int { return r.nByte }

// Read wraps the original reader and sums up the amount of data that
// has gone through.
func (r *BrknRdr) Read(p []byte) (n int, err error) {
	if r.broken {
		return 0, ErrBroken
	}
	if r.rnd != nil && r.rnd.Float32() < r.probFail {
		r.broken = true
		return 0, ErrBroken
	}
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			r.broken = true
			return 0, ErrBroken
		}
		if len(p) > left {
			p = p[:left]
		}
	}
	n, err = r.rdrOrig.Read(p)
	r.nByte += n
	return n, err
}
