// 19 Oct 2026

package kl

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/andrew-torda/epilogos/pkg/pairndx"
)

// Record is the result for one segment. Beg and End are -1 when
// calculating nulls. Pair and PairScore are only set for S2 and S3.
// Scores is nil for nulls.
type Record struct {
	Beg, End   int
	State      int     // 1-based state contributing most
	StateScore float64 // and its signed contribution
	Pair       pairndx.Pair
	PairScore  float64
	Total      float64   // the metric
	Scores     []float64 // signed contribution of each state
}

// Writer sends records to the observations and scores streams, or in
// the case of nulls, just the totals to the null stream.
type Writer struct {
	chrom  string
	pairs  bool
	obs    *bufio.Writer
	scores *bufio.Writer
	nulls  *bufio.Writer
}

// NewWriter is for normal runs.
func NewWriter(kind Kind, chrom string, obs, scores io.Writer) *Writer {
	return &Writer{
		chrom:  chrom,
		pairs:  kind.pairs(),
		obs:    bufio.NewWriter(obs),
		scores: bufio.NewWriter(scores),
	}
}

// NewNullWriter is for runs that only want the total for each line.
func NewNullWriter(nulls io.Writer) *Writer {
	return &Writer{nulls: bufio.NewWriter(nulls)}
}

// sign is 1 if group 1 dominates and -1 otherwise.
func sign(x float64) string {
	if x > 0 {
		return "1"
	}
	return "-1"
}

// Write formats one record. Floats get six significant digits, scores
// four.
func (w *Writer) Write(rec *Record) error {
	if w.nulls != nil {
		_, err := fmt.Fprintf(w.nulls, "%.6g\n", rec.Total)
		return err
	}
	fmt.Fprintf(w.obs, "%s\t%d\t%d\t%d\t%.6g\t%s\t", w.chrom, rec.Beg, rec.End,
		rec.State, math.Abs(rec.StateScore), sign(rec.StateScore))
	if w.pairs {
		fmt.Fprintf(w.obs, "(%d,%d)\t%.6g\t%s\t", rec.Pair.S1, rec.Pair.S2,
			math.Abs(rec.PairScore), sign(rec.PairScore))
	}
	if _, err := fmt.Fprintf(w.obs, "%.6g\n", rec.Total); err != nil {
		return err
	}

	fmt.Fprintf(w.scores, "%s\t%d\t%d", w.chrom, rec.Beg, rec.End)
	for _, s := range rec.Scores {
		fmt.Fprintf(w.scores, "\t%.4g", s)
	}
	_, err := fmt.Fprintln(w.scores)
	return err
}

// Flush pushes out whatever is buffered. Call it before closing the
// underlying files, whether or not the run succeeded.
func (w *Writer) Flush() error {
	for _, b := range []*bufio.Writer{w.obs, w.scores, w.nulls} {
		if b == nil {
			continue
		}
		if err := b.Flush(); err != nil {
			return err
		}
	}
	return nil
}
