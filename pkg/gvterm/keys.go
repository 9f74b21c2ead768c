package gvterm

import (
	"io"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// ErrRawMode is returned when the terminal mode cannot be queried, set or
// restored. It is fatal to the reader that hit it.
var ErrRawMode = errors.New("terminal raw mode")

// KeyReader reads single keystrokes.
// This interface allows replacing the terminal with scripted input in tests.
type KeyReader interface {
	// ReadKey blocks until one character is available and returns it.
	ReadKey() (rune, error)
}

// RawKeyReader reads one character at a time from a terminal. Raw mode is
// held only for the duration of a single read; the previous mode is
// restored before ReadKey returns, on every path.
type RawKeyReader struct {
	fd int
	in io.Reader

	makeRaw func(fd int) (*term.State, error)
	restore func(fd int, state *term.State) error
}

// NewRawKeyReader creates a RawKeyReader for f (normally os.Stdin)
func NewRawKeyReader(f *os.File) *RawKeyReader {
	return &RawKeyReader{
		fd:      int(f.Fd()),
		in:      f,
		makeRaw: term.MakeRaw,
		restore: term.Restore,
	}
}

// ReadKey implements KeyReader.
func (r *RawKeyReader) ReadKey() (key rune, err error) {
	old, err := r.makeRaw(r.fd)
	if err != nil {
		return 0, errors.Wrapf(ErrRawMode, "enter raw mode on fd %d: %v", r.fd, err)
	}
	defer func() {
		if rerr := r.restore(r.fd, old); rerr != nil && err == nil {
			err = errors.Wrapf(ErrRawMode, "restore mode on fd %d: %v", r.fd, rerr)
		}
	}()

	return readRune(r.in)
}

// readRune reads exactly one UTF-8 encoded character from in. Bytes that do
// not form a valid sequence decode to utf8.RuneError.
func readRune(in io.Reader) (rune, error) {
	var buf [utf8.UTFMax]byte
	if _, err := io.ReadFull(in, buf[:1]); err != nil {
		return 0, err
	}
	if buf[0] < utf8.RuneSelf {
		return rune(buf[0]), nil
	}

	n := 1
	for n < utf8.UTFMax && !utf8.FullRune(buf[:n]) {
		if _, err := io.ReadFull(in, buf[n:n+1]); err != nil {
			return utf8.RuneError, err
		}
		n++
	}
	r, _ := utf8.DecodeRune(buf[:n])
	return r, nil
}

// IsTerminal reports whether fd refers to a terminal
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}
