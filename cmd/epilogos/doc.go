// 19 Oct 2026
/*

epilogos reads segments of a chromosome and, for each one, says how far
the chromatin states seen across a set of epigenomes are from the
genome-wide background. With two groups of epigenomes, it says how the
groups differ from each other.

Usage:
 epilogos [options] infile metric Nsites infileQ outfileObs outfileScores chrom [infileQ2]
 epilogos [options] infile metric Nsites infileQ1 infileQ2 outfileNulls

Flags:
  -t	print out the time taken
  -v	verbose, say what is being done
  -w	warn before overwriting an output file

metric is 1 for per-state tallies (KL), 2 for tallies of unordered
state pairs (KLs) or 3 for state pairs between epigenome pairs (KLss).

Nsites is the number of sites in the genome used for the background.
infileQ holds the background tallies, as written by the preprocessing
step. For metric 3 it has one row per epigenome pair and one column per
ordered state pair, so numStates squared columns.

Each line of infile has begin and end coordinates, then the tallies
(metrics 1 and 2) or pair identifiers (metric 3) for group 1, then those
for group 2. The input may be gzipped.

outfileObs gets one line per segment with the dominant state, its score
and sign, then the total. For metrics 2 and 3 the dominant state pair
follows the dominant state. outfileScores gets the score for every
state.

In the second form, input lines carry no coordinates and only the total
for each line is written to outfileNulls. It is for building a null
distribution from permuted input.

*/
package main
