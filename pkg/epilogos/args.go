// 19 Oct 2026

package epilogos

import (
	"fmt"
	"strconv"

	"github.com/andrew-torda/epilogos/pkg/common"
	"github.com/andrew-torda/epilogos/pkg/kl"
)

// Args are the positional arguments. There are two ways to call us:
//
//	infile metric Nsites infileQ outfileObs outfileScores chrom [infileQ2]
//	infile metric Nsites infileQ1 infileQ2 outfileNulls
//
// The second form writes only the metric for each line of permuted
// input, for building a null distribution.
type Args struct {
	Infile     string
	Kind       kl.Kind
	Nsites     int
	Q1, Q2     string // Q2 is empty for a single group
	ObsFile    string
	ScoresFile string
	NullsFile  string
	Chrom      string
}

// Nulls says if we are writing null values rather than observations.
func (a *Args) Nulls() bool { return a.NullsFile != "" }

// ParseArgs sorts out the positional arguments.
func ParseArgs(s []string) (*Args, error) {
	if len(s) < 6 || len(s) > 8 {
		return nil, fmt.Errorf("%w: got %d arguments, expected 6, 7 or 8", common.ErrArgument, len(s))
	}
	var err error
	a := &Args{Infile: s[0], Q1: s[3]}
	if a.Kind, err = kl.ParseKind(s[1]); err != nil {
		return nil, err
	}
	if a.Nsites, err = strconv.Atoi(s[2]); err != nil || a.Nsites <= 0 {
		return nil, fmt.Errorf("%w: number of sites must be a positive integer, got \"%s\"",
			common.ErrArgument, s[2])
	}
	if len(s) == 6 {
		a.Q2, a.NullsFile = s[4], s[5]
		return a, nil
	}
	a.ObsFile, a.ScoresFile, a.Chrom = s[4], s[5], s[6]
	if len(s) == 8 {
		a.Q2 = s[7]
	}
	return a, nil
}
