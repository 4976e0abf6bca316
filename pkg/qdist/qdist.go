// 19 Oct 2026

// Package qdist reads genome-wide background tallies (Q, Q* and Q**)
// and turns them into the log-domain terms used by the metric.
//
// The sum of the tallies in a Q file is the number of sites times the
// number of epigenomes (Q) or of epigenome pairs (Q*). We never store
// that factor since Q only enters the metric through the ratio P/Q,
// where it cancels.
package qdist

import (
	"fmt"
	"io"
	"math"

	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/epilogos/pkg/common"
	"github.com/andrew-torda/epilogos/pkg/pairndx"
	"github.com/andrew-torda/epilogos/pkg/tabline"
)

// Stand-ins for log(0). Q and Q* hold a negative value which is later
// negated for a second group. Q** is already divided out per cell and
// is simply added or subtracted, so it carries the opposite sign.
const (
	Missing     = -999999.
	MissingPair = 999999.
)

// IsMissing says whether a Q or Q* term is the zero-tally stand-in.
func IsMissing(x float64) bool { return x < -999. }

const (
	ln2    = math.Ln2
	tolGrp = 0.01 // allowed slack when recovering a group size
)

// Vec is Q or Q*: one term per state or per unordered state pair.
type Vec struct {
	Contrib []float64 // log(Nsites) - log(tally), or Missing
	NState  int
	GrpSize int // number of epigenomes behind the tallies
	Sum     int // sum of tallies
}

// Mat is Q**: one term per ordered state pair and epigenome pair.
type Mat struct {
	Contrib  *matrix.FMatrix2d // Mat[ordered pair id - 1][epigenome pair]
	NState   int
	GrpSize  int
	NEpiPair int
}

// At returns the term for a 1-based ordered pair id and a 0-based
// epigenome pair.
func (m *Mat) At(id, epiPair int) float64 { return float64(m.Contrib.Mat[id-1][epiPair]) }

func formatErr(fname, format string, a ...interface{}) error {
	return fmt.Errorf("%w: file %s: %s", common.ErrFormat, fname, fmt.Sprintf(format, a...))
}

// oneLine gets the only line of data from a Q or Q* file.
// Blank lines are not data and are skipped.
func oneLine(rdr io.Reader, fname string) ([]int, error) {
	var tallies []int
	sc := tabline.NewScanner(rdr, fname)
	for sc.Scan() {
		if len(sc.Vals()) == 0 {
			continue
		}
		if tallies != nil {
			return nil, formatErr(fname, "contains multiple lines of data; "+
				"it should contain a single line of tab-delimited tallies")
		}
		tallies = append([]int{}, sc.Vals()...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if tallies == nil {
		return nil, formatErr(fname, "is empty")
	}
	return tallies, nil
}

// contribs converts tallies to log(Nsites) - log(tally).
func contribs(tallies []int, nsites int) (c []float64, sum int) {
	logNsites := math.Log(float64(nsites))
	c = make([]float64, len(tallies))
	for i, t := range tallies {
		sum += t
		if t == 0 {
			c[i] = Missing
		} else {
			c[i] = logNsites - math.Log(float64(t))
		}
	}
	return c, sum
}

func checkNsites(nsites int) error {
	if nsites <= 0 {
		return fmt.Errorf("%w: number of sites must be positive, got %d", common.ErrArgument, nsites)
	}
	return nil
}

// ReadVec reads Q, a single line with one tally per state.
func ReadVec(rdr io.Reader, fname string, nsites int) (*Vec, error) {
	if err := checkNsites(nsites); err != nil {
		return nil, err
	}
	tallies, err := oneLine(rdr, fname)
	if err != nil {
		return nil, err
	}
	v := &Vec{NState: len(tallies)}
	v.Contrib, v.Sum = contribs(tallies, nsites)

	perSite := float64(v.Sum) / float64(nsites)
	v.GrpSize = int(math.Floor(perSite + tolGrp))
	if v.GrpSize < 1 || math.Abs(perSite-float64(v.GrpSize)) > tolGrp {
		return nil, formatErr(fname, "tallies sum to %d, which is not a whole number "+
			"of epigenomes times %d sites", v.Sum, nsites)
	}
	return v, nil
}

// ReadTri reads Q*, a single line with one tally per unordered state
// pair. With n states there are n(n+1)/2 of them (yes, +1, not -1).
func ReadTri(rdr io.Reader, fname string, nsites int) (*Vec, error) {
	if err := checkNsites(nsites); err != nil {
		return nil, err
	}
	tallies, err := oneLine(rdr, fname)
	if err != nil {
		return nil, err
	}
	nstate, ok := pairndx.NStateFromNPair(len(tallies))
	if !ok {
		return nil, formatErr(fname, "has %d tallies, which is not n(n+1)/2 "+
			"for any number of states n", len(tallies))
	}
	v := &Vec{NState: nstate}
	v.Contrib, v.Sum = contribs(tallies, nsites)

	// Sum/Nsites is the number of epigenome pairs, g(g-1)/2.
	perSite := float64(v.Sum) / float64(nsites)
	v.GrpSize = int(math.Floor((math.Sqrt(1+8*perSite)+1)/2 + tolGrp))
	if v.GrpSize < 2 || math.Abs(perSite-float64(pairndx.NEpiPair(v.GrpSize))) > tolGrp {
		return nil, formatErr(fname, "tallies sum to %d, which is not a whole number "+
			"of epigenome pairs times %d sites", v.Sum, nsites)
	}
	return v, nil
}

// ReadMat reads Q**, one row per epigenome pair and one column per
// ordered state pair. All rows must be the same length and the length
// must be the square of the number of states.
func ReadMat(rdr io.Reader, fname string, nsites int) (*Mat, error) {
	if err := checkNsites(nsites); err != nil {
		return nil, err
	}
	var rows [][]int
	var ncol int
	sc := tabline.NewScanner(rdr, fname)
	for sc.Scan() {
		vals := sc.Vals()
		if len(vals) == 0 {
			continue
		}
		if rows == nil {
			ncol = len(vals)
		} else if len(vals) != ncol {
			return nil, formatErr(fname, "found %d columns on the first line but %d on line %d. "+
				"Each row must have the same number of columns, the number of possible state pairs",
				ncol, len(vals), sc.Line())
		}
		rows = append(rows, append([]int{}, vals...))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if rows == nil {
		return nil, formatErr(fname, "is empty")
	}

	m := &Mat{NState: int(math.Floor(math.Sqrt(float64(ncol)) + 0.01))}
	if m.NState*m.NState != ncol {
		return nil, formatErr(fname, "has %d columns, which is not the square of a number of states", ncol)
	}
	var ok bool
	m.NEpiPair = len(rows)
	if m.GrpSize, ok = pairndx.NFromNEpiPair(m.NEpiPair); !ok {
		return nil, formatErr(fname, "has %d rows, which is not n(n-1)/2 "+
			"for any number of epigenomes n", m.NEpiPair)
	}

	// Transpose while filling. Rows of Contrib are state pairs.
	logNsites := math.Log(float64(nsites))
	denom := ln2 * float64(m.NEpiPair)
	m.Contrib = matrix.NewFMatrix2d(ncol, m.NEpiPair)
	for r, row := range rows {
		for c, t := range row {
			if t == 0 {
				m.Contrib.Mat[c][r] = MissingPair
			} else {
				m.Contrib.Mat[c][r] = float32((logNsites - math.Log(float64(t))) / denom)
			}
		}
	}
	return m, nil
}
