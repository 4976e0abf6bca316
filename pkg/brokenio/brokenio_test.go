package brokenio_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/andrew-torda/epilogos/pkg/brokenio"
)

const src = "abcdefghijklmnopqrstuvwxyz"

func TestPassThrough(t *testing.T) {
	r := brokenio.NewReader(strings.NewReader(src))
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != src || r.NByte() != len(src) {
		t.Fatal("got", string(b), r.NByte())
	}
}

func TestFailAfter(t *testing.T) {
	for _, n := range []int{0, 1, 10, 25} {
		r := brokenio.NewReader(strings.NewReader(src))
		r.SetFailAfter(n)
		b, err := io.ReadAll(r)
		if !errors.Is(err, brokenio.ErrBroken) {
			t.Fatal("fail after", n, "gave", err)
		}
		if string(b) != src[:n] {
			t.Fatalf("fail after %d delivered %q", n, b)
		}
		if _, err := r.Read(make([]byte, 4)); !errors.Is(err, brokenio.ErrBroken) {
			t.Fatal("reader recovered after failing")
		}
	}
}

func TestProbFail(t *testing.T) {
	r := brokenio.NewReader(strings.NewReader(strings.Repeat(src, 1000)))
	r.SetProbFail(1, 1)
	if _, err := r.Read(make([]byte, 8)); !errors.Is(err, brokenio.ErrBroken) {
		t.Fatal("probability 1 did not fail")
	}
	r = brokenio.NewReader(strings.NewReader(src))
	r.SetProbFail(0, 1)
	if _, err := io.ReadAll(r); err != nil {
		t.Fatal("probability 0 failed", err)
	}
}
