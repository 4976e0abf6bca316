package pairndx_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/andrew-torda/epilogos/pkg/pairndx"
)

func TestDecompose3(t *testing.T) {
	want := []Pair{{1, 1}, {1, 2}, {1, 3}, {2, 2}, {2, 3}, {3, 3}}
	if diff := cmp.Diff(want, Decompose(3)); diff != "" {
		t.Fatal("decomposition of 3 states (-want +got)\n", diff)
	}
}

// TestBijection checks every id maps to a distinct (i,j) with i <= j
// and that every such pair is hit.
func TestBijection(t *testing.T) {
	for _, nstate := range []int{1, 2, 3, 15, 25, 120, 300} {
		tab := Decompose(nstate)
		if len(tab) != NPair(nstate) {
			t.Fatal("nstate", nstate, "table length", len(tab))
		}
		seen := make(map[Pair]bool)
		for id, p := range tab {
			if p.S1 < 1 || p.S1 > p.S2 || p.S2 > nstate {
				t.Fatalf("nstate %d id %d gave bad pair %v", nstate, id, p)
			}
			if seen[p] {
				t.Fatalf("nstate %d pair %v appears twice", nstate, p)
			}
			seen[p] = true
		}
		if tab[len(tab)-1] != (Pair{nstate, nstate}) {
			t.Fatal("last id should be the bottom right corner")
		}
	}
}

func TestTriRoot(t *testing.T) {
	for k := 0; k < 3000; k++ {
		tk := k * (k + 1) / 2
		if got := TriRoot(tk); got != k {
			t.Fatalf("TriRoot(%d) got %d want %d", tk, got, k)
		}
		if k > 0 {
			if got := TriRoot(tk - 1); got != k-1 {
				t.Fatalf("TriRoot(%d) got %d want %d", tk-1, got, k-1)
			}
		}
	}
}

func TestInverses(t *testing.T) {
	for n := 1; n < 200; n++ {
		if got, ok := NStateFromNPair(NPair(n)); !ok || got != n {
			t.Fatal("NStateFromNPair round trip broke at", n)
		}
	}
	for n := 2; n < 200; n++ {
		if got, ok := NFromNEpiPair(NEpiPair(n)); !ok || got != n {
			t.Fatal("NFromNEpiPair round trip broke at", n)
		}
	}
	if _, ok := NStateFromNPair(4); ok {
		t.Fatal("4 is not triangular")
	}
	if _, ok := NFromNEpiPair(2); ok {
		t.Fatal("2 is not n(n-1)/2")
	}
	if _, ok := NFromNEpiPair(0); ok {
		t.Fatal("0 epigenome pairs accepted")
	}
}

func TestRowColReflect(t *testing.T) {
	const nstate = 4
	for row := 1; row <= nstate; row++ {
		for col := 1; col <= nstate; col++ {
			id := OrderedID(row, col, nstate)
			if r, c := RowCol(id, nstate); r != row || c != col {
				t.Fatalf("id %d gave (%d,%d) want (%d,%d)", id, r, c, row, col)
			}
			grp := Reflect(id, nstate)
			lo, hi := row, col
			if lo > hi {
				lo, hi = hi, lo
			}
			if want := OrderedID(lo, hi, nstate); grp != want {
				t.Fatalf("(%d,%d) reflected to %d want %d", row, col, grp, want)
			}
			if Reflect(OrderedID(col, row, nstate), nstate) != grp {
				t.Fatalf("(%d,%d) and its mirror in different groups", row, col)
			}
		}
	}
}
