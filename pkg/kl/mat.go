// 19 Oct 2026

package kl

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/andrew-torda/epilogos/pkg/common"
	"github.com/andrew-torda/epilogos/pkg/pairndx"
	"github.com/andrew-torda/epilogos/pkg/qdist"
)

// matModel serves S3. Each value on a line is the ordered state pair
// seen in one epigenome pair. Pairs (a,b) and (b,a) are collected in
// one group named after the upper triangle member.
type matModel struct {
	q    [2]*qdist.Mat
	obs  map[int]*pairGroup // keyed by group id
	keys []int              // sorted group ids, re-used
}

// pairGroup lists the epigenome pairs that showed a state pair group.
// seen[g][0] is for the upper triangle id, seen[g][1] for its mirror.
type pairGroup struct {
	seen [2][2][]int
}

func newMatModel() *matModel { return &matModel{obs: make(map[int]*pairGroup)} }

func buildMat(m *Model, rdr io.Reader, fname string, nsites int) error {
	q, err := qdist.ReadMat(rdr, fname, nsites)
	if err != nil {
		return err
	}
	if err := m.checkNState(q.NState, fname); err != nil {
		return err
	}
	g := m.nGrp
	m.mat.q[g] = q
	m.grpSize[g] = q.GrpSize
	m.perGrp[g] = q.NEpiPair
	if g == 0 {
		m.nstate = q.NState
		m.contrib = make([]float64, m.nstate)
	}
	return nil
}

func consumeMat(m *Model, id int) error {
	if m.takePos(id) {
		return nil
	}
	g, err := m.grp()
	if err != nil {
		return err
	}
	n := m.nstate
	if id < 1 || id > n*n {
		return fmt.Errorf("%w: state pair %d is not between 1 and %d", common.ErrFormat, id, n*n)
	}
	grpID := pairndx.Reflect(id, n)
	pg := m.mat.obs[grpID]
	if pg == nil {
		pg = new(pairGroup)
		m.mat.obs[grpID] = pg
	}
	side := 0
	if id != grpID {
		side = 1
	}
	pg.seen[g][side] = append(pg.seen[g][side], m.nVal[g])
	m.nVal[g]++
	return nil
}

// term adds up the background terms for everything seen in a group,
// group 1 positive and group 2 negative. The upper triangle id comes
// before its mirror.
func (mm *matModel) term(grpID, nstate int, pg *pairGroup) float64 {
	row, col := pairndx.RowCol(grpID, nstate)
	ids := [2]int{grpID, pairndx.OrderedID(col, row, nstate)}
	var term float64
	for g, sign := range [2]float64{1, -1} {
		for side, id := range ids {
			for _, e := range pg.seen[g][side] {
				term += sign * mm.q[g].At(id, e)
			}
		}
	}
	return term
}

func evaluateMat(m *Model, rec *Record) {
	mm := m.mat
	mm.keys = mm.keys[:0]
	for k := range mm.obs {
		mm.keys = append(mm.keys, k)
	}
	slices.Sort(mm.keys)

	m.terms = m.terms[:0]
	for _, grpID := range mm.keys {
		m.terms = append(m.terms, mm.term(grpID, m.nstate, mm.obs[grpID]))
	}
	rec.Total = total(m)
	if m.nulls {
		return
	}

	clear(m.contrib)
	best := 0
	for i, grpID := range mm.keys {
		term := m.terms[i]
		if math.Abs(term) > math.Abs(m.terms[best]) {
			best = i
		}
		row, col := pairndx.RowCol(grpID, m.nstate)
		m.contrib[row-1] += 0.5 * term
		m.contrib[col-1] += 0.5 * term
	}
	if len(mm.keys) > 0 {
		rec.Pair.S1, rec.Pair.S2 = pairndx.RowCol(mm.keys[best], m.nstate)
		rec.PairScore = m.terms[best]
	}
	rec.State, rec.StateScore = dominant(m.contrib)
	rec.Scores = m.contrib
}

func resetMat(m *Model) {
	clear(m.mat.obs)
}
