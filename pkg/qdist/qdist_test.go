package qdist_test

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/andrew-torda/epilogos/pkg/common"
	"github.com/andrew-torda/epilogos/pkg/pairndx"
	. "github.com/andrew-torda/epilogos/pkg/qdist"
)

func approxEqual(x, y float64) bool {
	const eps = 0.000001
	d := x - y
	return d < eps && d > -eps
}

// tabs joins integers with tabs
func tabs(v []int) string {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = fmt.Sprint(x)
	}
	return strings.Join(s, "\t")
}

func TestVecSmall(t *testing.T) {
	v, err := ReadVec(strings.NewReader("4\t0\t6\n"), "q", 5)
	if err != nil {
		t.Fatal(err)
	}
	if v.NState != 3 || v.GrpSize != 2 || v.Sum != 10 {
		t.Fatal("got nstate", v.NState, "group size", v.GrpSize, "sum", v.Sum)
	}
	if v.Contrib[1] != Missing {
		t.Fatal("zero tally gave", v.Contrib[1])
	}
	if !approxEqual(v.Contrib[0], math.Log(5)-math.Log(4)) ||
		!approxEqual(v.Contrib[2], math.Log(5)-math.Log(6)) {
		t.Fatal("contributions", v.Contrib)
	}
}

func TestNoMissing(t *testing.T) {
	v, err := ReadVec(strings.NewReader("3\t3\t3\t3"), "q", 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range v.Contrib {
		if IsMissing(c) {
			t.Fatal("state", i+1, "marked missing")
		}
	}
}

func TestVecErrors(t *testing.T) {
	cases := []struct {
		in     string
		nsites int
		want   error
	}{
		{"", 5, common.ErrFormat},
		{"\n\n", 5, common.ErrFormat},
		{"4\t0\t6\n1\t2\t3\n", 5, common.ErrFormat},
		{"4\t0\t7\n", 5, common.ErrFormat}, // 11/5 is not whole
		{"1\t1\n", 5, common.ErrFormat},    // less than one epigenome
		{"4\tx\t6\n", 5, common.ErrFormat},
		{"4\t0\t6\n", 0, common.ErrArgument},
	}
	for _, c := range cases {
		if _, err := ReadVec(strings.NewReader(c.in), "q", c.nsites); !errors.Is(err, c.want) {
			t.Errorf("input %q: wanted %v, got %v", c.in, c.want, err)
		}
	}
	if _, err := ReadVec(strings.NewReader("4\t0\t6\n\n"), "q", 5); err != nil {
		t.Fatal("trailing blank line rejected", err)
	}
}

// TestGrpRoundTrip builds backgrounds for known group sizes and checks
// we get the size back.
func TestGrpRoundTrip(t *testing.T) {
	const nsites = 1000
	for g := 2; g < 40; g++ {
		// Q: three states. Spread g*nsites unevenly.
		total := g * nsites
		q := []int{total / 2, total / 3}
		q = append(q, total-q[0]-q[1])
		v, err := ReadVec(strings.NewReader(tabs(q)), "q", nsites)
		if err != nil {
			t.Fatal(err)
		}
		if v.GrpSize != g {
			t.Fatal("Q: wanted group size", g, "got", v.GrpSize)
		}

		// Q*: four states, ten unordered pairs.
		total = pairndx.NEpiPair(g) * nsites
		qs := make([]int, pairndx.NPair(4))
		for i := range qs {
			qs[i] = total / len(qs)
		}
		qs[0] += total - (total/len(qs))*len(qs)
		vs, err := ReadTri(strings.NewReader(tabs(qs)), "qs", nsites)
		if err != nil {
			t.Fatal(err)
		}
		if vs.GrpSize != g || vs.NState != 4 {
			t.Fatal("Q*: wanted", g, 4, "got", vs.GrpSize, vs.NState)
		}

		// Q**: one row per epigenome pair.
		var sb strings.Builder
		for r := 0; r < pairndx.NEpiPair(g); r++ {
			sb.WriteString("1\t2\t3\t4\n")
		}
		m, err := ReadMat(strings.NewReader(sb.String()), "qss", nsites)
		if err != nil {
			t.Fatal(err)
		}
		if m.GrpSize != g || m.NState != 2 || m.NEpiPair != pairndx.NEpiPair(g) {
			t.Fatal("Q**: wanted", g, "got", m.GrpSize, m.NState, m.NEpiPair)
		}
	}
}

func TestTriErrors(t *testing.T) {
	if _, err := ReadTri(strings.NewReader("1\t2\t3\t4"), "qs", 5); !errors.Is(err, common.ErrFormat) {
		t.Fatal("4 tallies should not give a number of states", err)
	}
	// 3 tallies means 2 states. Sum 5 over 5 sites is 1 epigenome pair, so 2 epigenomes.
	v, err := ReadTri(strings.NewReader("2\t0\t3"), "qs", 5)
	if err != nil {
		t.Fatal(err)
	}
	if v.NState != 2 || v.GrpSize != 2 || v.Contrib[1] != Missing {
		t.Fatal("got", v)
	}
	// 1 epigenome has no pairs
	if _, err := ReadTri(strings.NewReader("0\t0\t0"), "qs", 5); !errors.Is(err, common.ErrFormat) {
		t.Fatal("empty tallies accepted")
	}
}

func TestMat(t *testing.T) {
	// 3 epigenomes, 3 epigenome pairs, 2 states so 4 ordered pairs.
	in := "1\t2\t3\t4\n" +
		"5\t0\t7\t8\n" +
		"9\t10\t11\t12\n"
	const nsites = 20
	m, err := ReadMat(strings.NewReader(in), "qss", nsites)
	if err != nil {
		t.Fatal(err)
	}
	if m.NState != 2 || m.GrpSize != 3 || m.NEpiPair != 3 {
		t.Fatal("got", m.NState, m.GrpSize, m.NEpiPair)
	}
	if m.At(2, 1) != MissingPair {
		t.Fatal("zero tally gave", m.At(2, 1))
	}
	denom := math.Ln2 * 3
	want := (math.Log(nsites) - math.Log(7)) / denom
	if got := m.At(3, 1); !approxEqual(got, want) {
		t.Fatal("Q**(3, 1) got", got, "want", want)
	}
	want = (math.Log(nsites) - math.Log(9)) / denom
	if got := m.At(1, 2); !approxEqual(got, want) {
		t.Fatal("Q**(1, 2) got", got, "want", want)
	}
}

func TestMatErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"1\t2\t3\t4\n5\t6\t7\n9\t10\t11\t12\n",    // short row
		"1\t2\t3\t4\n5\t6\t7\t8\t9\n1\t1\t1\t1\n", // long row
		"1\t2\t3\n4\t5\t6\n7\t8\t9\n",             // 3 is not a square
		"1\t2\t3\t4\n5\t6\t7\t8\n",                // 2 rows is not n(n-1)/2
	} {
		if _, err := ReadMat(strings.NewReader(in), "qss", 10); !errors.Is(err, common.ErrFormat) {
			t.Errorf("%q: wanted format error, got %v", in, err)
		}
	}
}
