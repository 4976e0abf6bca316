// 19 Oct 2026

// Package pairndx converts between linear identifiers and pairs of
// states. Two numbering schemes are used.
//
// Unordered pairs (S2) count from 0 along the rows of the upper triangle
// of an nstate x nstate matrix, diagonal included, so with three states
//   0:(1,1) 1:(1,2) 2:(1,3) 3:(2,2) 4:(2,3) 5:(3,3)
//
// Ordered pairs (S3) count from 1 along the rows of the full matrix,
// id = (row-1)*nstate + column, so (1,1) is 1 and (nstate,nstate) is nstate^2.
// Each ordered pair belongs to a group named after whichever of (a,b)
// and (b,a) lies in the upper triangle.
package pairndx

import "math"

// Pair holds two 1-based states.
type Pair struct {
	S1, S2 int
}

// NPair is the number of unordered state pairs, including (a,a).
func NPair(nstate int) int { return nstate * (nstate + 1) / 2 }

// NEpiPair is the number of distinct pairs drawn from n epigenomes.
func NEpiPair(n int) int { return n * (n - 1) / 2 }

// TriRoot returns the largest k with k(k+1)/2 <= x.
// The float estimate is fixed up with integers, since for big x
// sqrt() can land on the wrong side of a triangular number.
func TriRoot(x int) int {
	if x <= 0 {
		return 0
	}
	k := int((math.Sqrt(1+8*float64(x)) - 1) / 2)
	for k*(k+1)/2 > x {
		k--
	}
	for (k+1)*(k+2)/2 <= x {
		k++
	}
	return k
}

// NStateFromNPair inverts NPair. ok is false if npair is not triangular.
func NStateFromNPair(npair int) (nstate int, ok bool) {
	nstate = TriRoot(npair)
	return nstate, NPair(nstate) == npair
}

// NFromNEpiPair inverts NEpiPair. ok is false unless nEpiPair is n(n-1)/2
// for some n >= 2.
func NFromNEpiPair(nEpiPair int) (n int, ok bool) {
	if nEpiPair <= 0 {
		return 0, false
	}
	n = TriRoot(nEpiPair) + 1
	return n, NEpiPair(n) == nEpiPair
}

// Decompose builds the table from unordered pair id to its states.
// Walk backwards from the bottom right corner of the triangle. A step
// of delta from the last id moves up delta_row rows and left
// delta_column columns.
func Decompose(nstate int) []Pair {
	if nstate <= 0 {
		return nil
	}
	maxID := NPair(nstate) - 1
	tab := make([]Pair, maxID+1)
	for delta := 0; delta <= maxID; delta++ {
		dRow := TriRoot(delta)
		dCol := delta - dRow*(dRow+1)/2
		tab[maxID-delta] = Pair{nstate - dRow, nstate - dCol}
	}
	return tab
}

// RowCol splits a 1-based ordered pair id into its two 1-based states.
func RowCol(id, nstate int) (row, col int) {
	col = id % nstate
	row = id/nstate + 1
	if col == 0 {
		col = nstate
		row--
	}
	return row, col
}

// OrderedID is the inverse of RowCol.
func OrderedID(row, col, nstate int) int { return (row-1)*nstate + col }

// Reflect maps an ordered pair id onto its group. Ids below the
// diagonal are mirrored into the upper triangle, the rest are unchanged.
func Reflect(id, nstate int) int {
	rem := id % nstate
	if rem == 0 { // last column, never below the diagonal
		return id
	}
	if row := id/nstate + 1; row > rem {
		return nstate*(rem-1) + row
	}
	return id
}
