// 19 Oct 2026

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path"

	. "github.com/andrew-torda/epilogos/pkg/common"
	"github.com/andrew-torda/epilogos/pkg/epilogos"
)

// usage
func usage() int {
	b := path.Base(os.Args[0])
	fmt.Fprintln(os.Stderr, "usage:", b, "[opts] infile metric Nsites infileQ outfileObs outfileScores chrom [infileQ2]")
	fmt.Fprintln(os.Stderr, "   or:", b, "[opts] infile metric Nsites infileQ1 infileQ2 outfileNulls")
	fmt.Fprintln(os.Stderr, "metric is 1 (KL), 2 (KL*) or 3 (KL**)")
	flag.PrintDefaults()
	return (ExitUsageError)
}

// main
func main() {
	var flags epilogos.CmdFlag
	flag.BoolVar(&flags.Time, "t", false, "print out timing")
	flag.BoolVar(&flags.Verbose, "v", false, "verbose")
	flag.BoolVar(&flags.Warn, "w", false, "warn when overwriting output files")
	flag.Parse()

	args, err := epilogos.ParseArgs(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(usage())
	}
	if err := epilogos.Mymain(&flags, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, ErrArgument) {
			os.Exit(ExitUsageError)
		}
		os.Exit(ExitFailure)
	} else {
		os.Exit(ExitSuccess)
	}
}
