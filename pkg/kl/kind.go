// 19 Oct 2026

package kl

import (
	"fmt"
	"strconv"

	"github.com/andrew-torda/epilogos/pkg/common"
)

// Kind says which distribution is compared against the background.
type Kind int

const (
	KL   Kind = iota + 1 // S1, states
	KLs                  // S2, tallies of unordered state pairs
	KLss                 // S3, state pairs of individual epigenome pairs
)

// ParseKind reads the metric code used on the command line.
func ParseKind(s string) (Kind, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < int(KL) || i > int(KLss) {
		return 0, fmt.Errorf("%w: invalid metric %q. The valid options are "+
			"1 (to use S1), 2 (to use S2), and 3 (to use S3)", common.ErrArgument, s)
	}
	return Kind(i), nil
}

func (k Kind) String() string {
	switch k {
	case KL:
		return "S1"
	case KLs:
		return "S2"
	case KLss:
		return "S3"
	}
	return "S?(" + strconv.Itoa(int(k)) + ")"
}

// pairs is true if output includes a dominant state pair.
func (k Kind) pairs() bool { return k == KLs || k == KLss }
