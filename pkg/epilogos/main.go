// 19 Oct 2026

// Package epilogos reads segments of a chromosome, each with the states
// or state pairs seen across epigenomes, and writes the divergence of
// each segment from the genome-wide background.
package epilogos

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/edsrzf/mmap-go"
	log "github.com/sirupsen/logrus"

	"github.com/andrew-torda/epilogos/pkg/common"
	"github.com/andrew-torda/epilogos/pkg/kl"
	"github.com/andrew-torda/epilogos/pkg/tabline"
	"github.com/andrew-torda/epilogos/pkg/zwrap"
)

// CmdFlag is literally command line flags after parsing
type CmdFlag struct {
	Verbose bool // Say what we are doing
	Time    bool // do we want to print out run time ?
	Warn    bool // Warn if output files will be trashed
}

// warnExists checks if a filename exists and prints a warning
// if we will trash a file. It does not return an error.
func warnExists(fname string) {
	if _, err := os.Stat(fname); err == nil {
		log.Warnln("trashing old version of", fname)
	}
}

// loadQ maps a background file into memory and hands it to the model.
// mmap does not like zero length files, so check first.
func loadQ(m *kl.Model, fname string, nsites int) error {
	fp, err := os.Open(fname)
	if err != nil {
		return fmt.Errorf("%w \"%s\" for reading: %v", common.ErrFileOpen, fname, err)
	}
	defer fp.Close()
	fi, err := fp.Stat()
	if err != nil {
		return err
	}
	if fi.Size() == 0 {
		return fmt.Errorf("%w: file %s is empty", common.ErrFormat, fname)
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("mapping %s: %w", fname, err)
	}
	defer mm.Unmap()
	return m.Build(bytes.NewReader(mm), fname, nsites)
}

// outFiles are whatever we are writing to.
type outFiles struct {
	fps []*os.File
}

func (o *outFiles) create(fname string, warn bool) (*os.File, error) {
	if warn {
		warnExists(fname)
	}
	fp, err := os.Create(fname)
	if err != nil {
		return nil, fmt.Errorf("%w \"%s\" for writing: %v", common.ErrFileOpen, fname, err)
	}
	o.fps = append(o.fps, fp)
	return fp, nil
}

func (o *outFiles) close() error {
	var errs []error
	for _, fp := range o.fps {
		errs = append(errs, fp.Close())
	}
	return errors.Join(errs...)
}

// newWriter opens the output files for the kind of run we are doing.
func newWriter(args *Args, m *kl.Model, o *outFiles, warn bool) (*kl.Writer, error) {
	if args.Nulls() {
		fp, err := o.create(args.NullsFile, warn)
		if err != nil {
			return nil, err
		}
		return kl.NewNullWriter(fp), nil
	}
	obs, err := o.create(args.ObsFile, warn)
	if err != nil {
		return nil, err
	}
	scores, err := o.create(args.ScoresFile, warn)
	if err != nil {
		return nil, err
	}
	return kl.NewWriter(m.Kind(), args.Chrom, obs, scores), nil
}

// stream reads every line, feeds it to the model and writes the result.
// It returns the number of lines written. Lines written before an
// error stay written.
func stream(sc *tabline.Scanner, m *kl.Model, w *kl.Writer) (int, error) {
	nExpect := m.Expected()
	nLine := 0
	for sc.Scan() {
		vals := sc.Vals()
		for i, v := range vals {
			if err := m.Consume(v); err != nil {
				return nLine, &common.LineError{Fname: sc.Fname(), N: sc.Line(), Col: i + 1,
					Inline: sc.Text(), Err: err}
			}
		}
		if len(vals) != nExpect {
			err := fmt.Errorf("%w: expected to find %d columns of integers, but instead found %d",
				common.ErrColumnCount, nExpect, len(vals))
			return nLine, &common.LineError{Fname: sc.Fname(), N: sc.Line(), Inline: sc.Text(), Err: err}
		}
		rec := m.Evaluate()
		if err := w.Write(&rec); err != nil {
			return nLine, err
		}
		nLine++
	}
	return nLine, sc.Err()
}

// Mymain is the main function. It loads the background for one or two
// groups, then goes through the input a line at a time.
func Mymain(flags *CmdFlag, args *Args) (err error) {
	if flags.Verbose {
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	if flags.Time {
		startTime := time.Now()
		end := func() { // Wrapping in a closure is helpful. Gives the right time.
			fmt.Println("finished after", time.Since(startTime).Milliseconds(), "ms")
		}
		defer end()
	}

	infile, err := zwrap.Open(args.Infile)
	if err != nil {
		return err
	}
	defer infile.Close()

	m, err := kl.New(args.Kind, args.Nulls())
	if err != nil {
		return err
	}
	for _, q := range []string{args.Q1, args.Q2} {
		if q == "" {
			continue
		}
		if err := loadQ(m, q, args.Nsites); err != nil {
			return err
		}
	}
	log.WithFields(log.Fields{
		"metric":  m.Kind(),
		"states":  m.NState(),
		"group1":  m.GrpSize(0),
		"group2":  m.GrpSize(1),
		"columns": m.Expected(),
	}).Info("background loaded")

	var o outFiles
	defer func() {
		if e := o.close(); err == nil {
			err = e
		}
	}()
	w, err := newWriter(args, m, &o, flags.Warn)
	if err != nil {
		return err
	}
	defer func() {
		if e := w.Flush(); err == nil {
			err = e
		}
	}()

	sc := tabline.NewScanner(infile, args.Infile)
	nLine, err := stream(sc, m, w)
	log.Infof("%s: %d lines written", args.Infile, nLine)
	return err
}
