// 19 Oct 2026

// Package common has the exit codes, error kinds and small helpers
// shared by the epilogos packages.
package common

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// Kinds of failure. Everything is fatal, so callers only need these
// to decide what to print and which exit code to use.
var (
	ErrArgument    = errors.New("invalid argument")
	ErrFileOpen    = errors.New("unable to open file")
	ErrFormat      = errors.New("format error")
	ErrColumnCount = errors.New("wrong number of columns")
)

const maxMsgLen = 70

// LineError says where in a file we were when something broke.
// Line and column count from 1. A zero column means the whole line.
type LineError struct {
	Fname  string
	N      int    // line number
	Col    int    // column (token) number
	Inline string // The line that provoked the error, may be empty
	Err    error
}

func firstPart(s string) string {
	if len(s) > maxMsgLen {
		return s[:maxMsgLen]
	}
	return s
}

// Error gives file, line and column followed by the cause.
func (e *LineError) Error() string {
	errmsg := e.Fname + ": line " + strconv.Itoa(e.N)
	if e.Col != 0 {
		errmsg += " column " + strconv.Itoa(e.Col)
	}
	errmsg += ": " + e.Err.Error()
	if e.Inline != "" {
		errmsg += "\nLine starting with\n" + firstPart(e.Inline)
	}
	return errmsg
}

func (e *LineError) Unwrap() error { return e.Err }

// WrtTemp writes a string to a temporary file and returns
// the filename. It is used all over the place in testing.
func WrtTemp(s string) (string, error) {
	f_tmp, err := os.CreateTemp("", "_del_me_testing")
	if err != nil {
		return "", fmt.Errorf("tempfile fail")
	}

	if _, err := io.WriteString(f_tmp, s); err != nil {
		return "", fmt.Errorf("writing string to temp file %v", f_tmp.Name())
	}
	name := f_tmp.Name()
	f_tmp.Close()
	return name, nil
}
