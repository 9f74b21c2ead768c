package gvsnap

import (
	"io"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	// ChunkSize caps how much of the shared file is read per poll
	ChunkSize = 2048

	// LineStride is the fixed number of bytes each logical line occupies
	// in the shared file
	LineStride = 192

	// MaxLines is the number of display lines a snapshot can carry
	MaxLines = 20
)

var (
	// ErrNoData means the read would block: the producer has nothing
	// available right now. Callers back off and poll again.
	ErrNoData = errors.New("no snapshot data available")

	// ErrEndOfStream means the read returned zero bytes
	ErrEndOfStream = errors.New("snapshot stream ended")

	// ErrDecode means the chunk was not valid UTF-8. Only the current poll
	// is affected.
	ErrDecode = errors.New("snapshot is not valid UTF-8")
)

// descriptor is the file handle the Reader polls
type descriptor interface {
	Seek(offset int64, whence int) (int64, error)
	Read(p []byte) (int, error)
	Close() error
}

// Reader polls the shared snapshot file through a single non-blocking
// descriptor that stays open for the whole session.
type Reader struct {
	path string
	fd   descriptor
	buf  []byte

	closeOnce sync.Once
	closeErr  error
}

func newReader(path string, fd descriptor) *Reader {
	return &Reader{
		path: path,
		fd:   fd,
		buf:  make([]byte, ChunkSize),
	}
}

// Path returns the file the reader was opened on
func (r *Reader) Path() string {
	return r.path
}

// Poll rewinds to the start of the file and reads one chunk.
// It returns ErrNoData when the read would block, ErrEndOfStream on a
// zero-byte read, and an error wrapping ErrDecode for non UTF-8 input.
func (r *Reader) Poll() ([]string, error) {
	if _, err := r.fd.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "rewind %s", r.path)
	}

	n, err := r.fd.Read(r.buf)
	if err != nil {
		if isWouldBlock(err) {
			return nil, ErrNoData
		}
		if errors.Is(err, io.EOF) {
			return nil, ErrEndOfStream
		}
		return nil, errors.Wrapf(err, "read %s", r.path)
	}
	if n == 0 {
		return nil, ErrEndOfStream
	}

	chunk := r.buf[:n]
	if n == len(r.buf) {
		chunk = trimPartialRune(chunk)
	}
	return Decode(chunk)
}

// Seek moves the file cursor. The renderer uses it to keep the cursor at
// the stride of the line being drawn.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	pos, err := r.fd.Seek(offset, whence)
	return pos, errors.Wrapf(err, "seek %s to %d", r.path, offset)
}

// Close releases the descriptor. Calling it more than once is safe.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = errors.Wrapf(r.fd.Close(), "close %s", r.path)
	})
	return r.closeErr
}

// Decode turns a raw chunk into display lines: trailing whitespace (and
// NUL padding) is dropped, the text is split on newlines and capped at
// MaxLines.
func Decode(chunk []byte) ([]string, error) {
	if !utf8.Valid(chunk) {
		return nil, errors.Wrapf(ErrDecode, "%d byte chunk", len(chunk))
	}

	text := strings.TrimRightFunc(string(chunk), func(r rune) bool {
		return r == 0 || unicode.IsSpace(r)
	})
	lines := strings.Split(text, "\n")
	if len(lines) > MaxLines {
		lines = lines[:MaxLines]
	}
	return lines, nil
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off by the chunk
// size limit.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		if !utf8.RuneStart(b[len(b)-i]) {
			continue
		}
		if !utf8.FullRune(b[len(b)-i:]) {
			return b[:len(b)-i]
		}
		return b
	}
	return b
}
