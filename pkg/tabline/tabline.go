// 19 Oct 2026

// Package tabline reads lines of tab-delimited non-negative integers.
// Runs of tabs count as one separator and a trailing carriage return is
// ignored, so files written on other systems still read.
package tabline

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/andrew-torda/epilogos/pkg/common"
)

// MaxLine is the longest line we will accept. A line with a few
// thousand epigenome pairs is well under a megabyte.
const MaxLine = 64 * 1024 * 1024

const maxVal = int(^uint(0) >> 2)

// Scanner hands back one line at a time, split into integers.
type Scanner struct {
	sc    *bufio.Scanner
	fname string
	n     int   // line number
	vals  []int // re-used on each line
	err   error
}

// NewScanner wraps a reader. fname is only used in error messages.
func NewScanner(rdr io.Reader, fname string) *Scanner {
	sc := bufio.NewScanner(rdr)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLine)
	return &Scanner{sc: sc, fname: fname}
}

// Scan reads the next line and splits it. It returns false at the end
// of input or on the first error, which is then available from Err.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				err = fmt.Errorf("%w: line longer than %d bytes", common.ErrFormat, MaxLine)
			}
			s.err = &common.LineError{Fname: s.fname, N: s.n + 1, Err: err}
		}
		return false
	}
	s.n++
	s.vals, s.err = s.split(s.sc.Bytes(), s.vals[:0])
	return s.err == nil
}

// split breaks a line at tabs and converts each piece.
func (s *Scanner) split(line []byte, dst []int) ([]int, error) {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	col := 0
	for len(line) > 0 {
		var tok []byte
		if i := bytes.IndexByte(line, '\t'); i == -1 {
			tok, line = line, nil
		} else {
			tok, line = line[:i], line[i+1:]
		}
		if len(tok) == 0 {
			continue
		}
		col++
		v, ok := atoi(tok)
		if !ok {
			err := fmt.Errorf("%w: %q is not a non-negative integer", common.ErrFormat, tok)
			return dst, &common.LineError{Fname: s.fname, N: s.n, Col: col, Inline: s.Text(), Err: err}
		}
		dst = append(dst, v)
	}
	return dst, nil
}

// atoi only takes digits, no signs.
func atoi(b []byte) (int, bool) {
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		if n > maxVal/10 {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// Vals are the integers on the current line. The slice is over-written
// by the next call to Scan.
func (s *Scanner) Vals() []int { return s.vals }

// Line is the number of the current line, counting from 1.
func (s *Scanner) Line() int { return s.n }

// Text is the current line, for error messages.
func (s *Scanner) Text() string { return s.sc.Text() }

// Fname is the name given to NewScanner.
func (s *Scanner) Fname() string { return s.fname }

// Err is the first error seen, or nil at a clean end of input.
func (s *Scanner) Err() error { return s.err }
