// 19 Oct 2026

// Package kl calculates, for each genomic segment, the Kullback-Leibler
// divergence between the chromatin states seen in a group of epigenomes
// and a genome-wide background. Given a second group, it measures the
// difference between the groups instead.
//
// There are three flavours, see Kind. Each keeps its own state, but all
// are driven the same way:
//
//	m, _ := kl.New(kl.KL, false)
//	m.Build(q1, "q1.txt", nsites)   // group 1 background
//	m.Build(q2, "q2.txt", nsites)   // optional, group 2
//	for each line {
//	    for each integer v { m.Consume(v) }
//	    rec := m.Evaluate()
//	}
package kl

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/andrew-torda/epilogos/pkg/common"
	"github.com/andrew-torda/epilogos/pkg/logtab"
)

const unset = -1 // position not yet read on this line

// ops are the four things each flavour has to know how to do.
// They must not call the Model methods below, which go through the table.
type ops struct {
	build    func(m *Model, rdr io.Reader, fname string, nsites int) error
	consume  func(m *Model, v int) error
	evaluate func(m *Model, rec *Record)
	reset    func(m *Model)
}

var dispatch = [...]ops{
	KL:   {buildVec, consumeVec, evaluateVec, resetVec},
	KLs:  {buildVec, consumeVec, evaluateVec, resetVec},
	KLss: {buildMat, consumeMat, evaluateMat, resetMat},
}

// Model holds the background for one or two groups and the
// observations for the current line. Exactly one of vec and mat is set.
type Model struct {
	kind    Kind
	nulls   bool // only the total is wanted, no breakdown by state
	nstate  int
	nGrp    int       // number of backgrounds loaded
	fnames  [2]string // background file names, for messages
	grpSize [2]int    // epigenomes in each group
	perGrp  [2]int    // values expected per line for each group
	nVal    [2]int    // values seen so far on this line
	begPos  int
	endPos  int
	logs    logtab.Table
	terms   []float64 // one per identifier on this line
	contrib []float64 // one per state
	vec     *vecModel // KL and KLs
	mat     *matModel // KLss
}

// New gives a model with no background. If nulls is set, lines carry
// no coordinates and only the total of the metric is calculated.
func New(kind Kind, nulls bool) (*Model, error) {
	m := &Model{kind: kind, nulls: nulls, begPos: unset, endPos: unset}
	switch kind {
	case KL, KLs:
		m.vec = new(vecModel)
	case KLss:
		m.mat = newMatModel()
	default:
		return nil, fmt.Errorf("%w: unknown metric kind %d", common.ErrArgument, kind)
	}
	return m, nil
}

// Build reads a background. The first call is for group 1, a second
// call for group 2. Both must imply the same number of states.
func (m *Model) Build(rdr io.Reader, fname string, nsites int) error {
	if m.nGrp == 2 {
		return errors.New("background already loaded for two groups")
	}
	if err := dispatch[m.kind].build(m, rdr, fname, nsites); err != nil {
		return err
	}
	m.fnames[m.nGrp] = fname
	m.nGrp++
	return nil
}

// Consume takes the next integer from the current line.
func (m *Model) Consume(v int) error {
	if m.nGrp == 0 {
		return errors.New("no background loaded")
	}
	return dispatch[m.kind].consume(m, v)
}

// Evaluate calculates the metric for the current line and gets ready
// for the next one. Scores in the record are over-written by the
// next call.
func (m *Model) Evaluate() Record {
	rec := Record{Beg: m.begPos, End: m.endPos}
	dispatch[m.kind].evaluate(m, &rec)
	m.Reset()
	return rec
}

// Reset throws away whatever has been read from the current line.
func (m *Model) Reset() {
	m.nVal = [2]int{}
	m.begPos, m.endPos = unset, unset
	dispatch[m.kind].reset(m)
}

// Kind is the flavour of metric.
func (m *Model) Kind() Kind { return m.kind }

// Nulls says whether only totals are being calculated.
func (m *Model) Nulls() bool { return m.nulls }

// NState is the number of chromatin states, known after Build.
func (m *Model) NState() int { return m.nstate }

// NGrp is the number of groups with a background.
func (m *Model) NGrp() int { return m.nGrp }

// GrpSize is the number of epigenomes in group i (0 or 1).
func (m *Model) GrpSize(i int) int { return m.grpSize[i] }

// Size is the number of observations expected on each line.
func (m *Model) Size() int { return m.perGrp[0] + m.perGrp[1] }

// Expected is the number of integers expected on each line,
// including the two coordinates when they are present.
func (m *Model) Expected() int {
	if m.nulls {
		return m.Size()
	}
	return m.Size() + 2
}

// takePos stores the first two values of a line as begin and end
// positions. It returns false if v is an observation.
func (m *Model) takePos(v int) bool {
	if m.nulls || m.nVal[0] != 0 {
		return false
	}
	if m.begPos == unset {
		m.begPos = v
		return true
	}
	if m.endPos == unset {
		m.endPos = v
		return true
	}
	return false
}

// grp says which group the next observation belongs to. Group 2
// starts once group 1 is full. Anything after that is too much.
func (m *Model) grp() (int, error) {
	if m.nVal[0] < m.perGrp[0] {
		return 0, nil
	}
	if m.nGrp == 2 && m.nVal[1] < m.perGrp[1] {
		return 1, nil
	}
	return 0, fmt.Errorf("%w: found excess columns in a line of input; expected %d",
		common.ErrColumnCount, m.Expected())
}

// checkNState compares the number of states from a group 2 background
// with the one from group 1.
func (m *Model) checkNState(nstate int, fname string) error {
	if m.nGrp == 0 || nstate == m.nstate {
		return nil
	}
	return fmt.Errorf("%w: the file containing tallies for group 1 (%s) implies there are "+
		"%d possible states, but file %s (for group 2) implies there are %d",
		common.ErrFormat, m.fnames[0], m.nstate, fname, nstate)
}

// dominant finds the state with the biggest contribution in absolute
// terms. Ties go to the lowest state.
func dominant(contrib []float64) (state int, score float64) {
	best := 0
	for i, c := range contrib {
		if math.Abs(c) > math.Abs(contrib[best]) {
			best = i
		}
	}
	return best + 1, contrib[best]
}
