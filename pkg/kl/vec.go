// 19 Oct 2026

package kl

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/andrew-torda/epilogos/pkg/common"
	"github.com/andrew-torda/epilogos/pkg/pairndx"
	"github.com/andrew-torda/epilogos/pkg/qdist"
)

// vecModel serves S1 and S2. Identifiers are states (S1) or unordered
// state pairs (S2) and each line gives a tally for every identifier.
type vecModel struct {
	q        [2]*qdist.Vec
	p        [2][]int       // observed tallies on this line
	maxTally [2]int         // epigenomes (S1) or epigenome pairs (S2)
	denom    [2]float64     // ln 2 times maxTally
	decomp   []pairndx.Pair // S2 only
}

func buildVec(m *Model, rdr io.Reader, fname string, nsites int) error {
	read := qdist.ReadVec
	if m.kind == KLs {
		read = qdist.ReadTri
	}
	q, err := read(rdr, fname, nsites)
	if err != nil {
		return err
	}
	if err := m.checkNState(q.NState, fname); err != nil {
		return err
	}
	g := m.nGrp
	v := m.vec
	v.q[g] = q
	v.p[g] = make([]int, len(q.Contrib))
	m.grpSize[g] = q.GrpSize
	m.perGrp[g] = len(q.Contrib)

	// A tally at a site is at most the number of epigenomes (S1) or
	// epigenome pairs (S2).
	maxTally := q.GrpSize
	if m.kind == KLs {
		maxTally = pairndx.NEpiPair(q.GrpSize)
	}
	v.maxTally[g] = maxTally
	v.denom[g] = math.Ln2 * float64(maxTally)
	m.logs.Grow(maxTally)

	if g == 0 {
		m.nstate = q.NState
		m.terms = make([]float64, len(q.Contrib))
		m.contrib = make([]float64, m.nstate)
		if m.kind == KLs {
			v.decomp = pairndx.Decompose(m.nstate)
		}
	}
	return nil
}

func consumeVec(m *Model, tally int) error {
	if m.takePos(tally) {
		return nil
	}
	g, err := m.grp()
	if err != nil {
		return err
	}
	if tally > m.vec.maxTally[g] {
		return fmt.Errorf("%w: tally %d is more than the %d possible for group %d",
			common.ErrFormat, tally, m.vec.maxTally[g], g+1)
	}
	m.vec.p[g][m.nVal[g]] = tally
	m.nVal[g]++
	return nil
}

// term is the signed contribution of identifier i. A tally seen at a
// site but never in the background swamps everything else, and a
// group 2 sighting of that kind wins over group 1.
func (v *vecModel) term(m *Model, i int) float64 {
	var term float64
	if p := v.p[0][i]; p != 0 {
		q := v.q[0].Contrib[i]
		if qdist.IsMissing(q) {
			term = q
		} else {
			term += float64(p) / v.denom[0] * (m.logs.Log(p) + q)
		}
	}
	if m.nGrp == 2 {
		if p := v.p[1][i]; p != 0 {
			q := v.q[1].Contrib[i]
			if qdist.IsMissing(q) {
				term = -q
			} else {
				term -= float64(p) / v.denom[1] * (m.logs.Log(p) + q)
			}
		}
	}
	return term
}

func evaluateVec(m *Model, rec *Record) {
	v := m.vec
	for i := range m.terms {
		m.terms[i] = v.term(m, i)
	}
	rec.Total = total(m)
	if m.nulls {
		return
	}

	clear(m.contrib)
	if m.kind == KL {
		copy(m.contrib, m.terms)
	} else {
		best := 0
		for i, term := range m.terms {
			if math.Abs(term) > math.Abs(m.terms[best]) {
				best = i
			}
			pr := v.decomp[i]
			m.contrib[pr.S1-1] += 0.5 * term
			m.contrib[pr.S2-1] += 0.5 * term
		}
		rec.Pair = v.decomp[best]
		rec.PairScore = m.terms[best]
	}
	rec.State, rec.StateScore = dominant(m.contrib)
	rec.Scores = m.contrib
}

func resetVec(m *Model) {
	clear(m.vec.p[0])
	clear(m.vec.p[1])
}

// total is the sum of the terms for one group. For two groups, terms of
// either sign count towards the distance, so add absolute values.
func total(m *Model) float64 {
	if m.nGrp == 1 {
		return floats.Sum(m.terms)
	}
	return floats.Norm(m.terms, 1)
}
