// 19 Oct 2026

// Package logtab keeps natural logarithms of small non-negative integers.
// At any site the number of times a state or state pair is seen is
// between zero and the number of epigenomes (or epigenome pairs), so the
// same few logarithms are needed millions of times.
package logtab

import "math"

// Table holds log(0..n). log(0) is stored as 0 and never used.
// The zero value is ready to use. A table only grows, and only
// through Grow.
type Table struct {
	logs []float64
}

// Grow makes sure log(k) is cached for all k <= n.
func (t *Table) Grow(n int) {
	if len(t.logs) == 0 {
		t.logs = append(t.logs, 0) // unused
	}
	for i := len(t.logs); i <= n; i++ {
		t.logs = append(t.logs, math.Log(float64(i)))
	}
}

// Len is the number of cached entries, including the unused log(0).
func (t *Table) Len() int { return len(t.logs) }

// Log returns the natural log of k. The table is not grown here, so
// k must be no more than the last n given to Grow.
func (t *Table) Log(k int) float64 { return t.logs[k] }
