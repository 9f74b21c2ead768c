package gvterm

import (
	"bufio"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Terminal writes cursor-control primitives to an output stream.
// Writes are buffered until Flush so a whole frame reaches the terminal
// in one write. Safe for use by the listener and the driver at once.
type Terminal struct {
	mu  sync.Mutex
	out *bufio.Writer
}

// New creates a Terminal writing to w
func New(w io.Writer) *Terminal {
	return &Terminal{out: bufio.NewWriterSize(w, 8192)}
}

// MoveUp moves the cursor up n rows
func (t *Terminal) MoveUp(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	writeCursorMove(t.out, n, 'A')
}

// MoveDown moves the cursor down n rows
func (t *Terminal) MoveDown(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	writeCursorMove(t.out, n, 'B')
}

// MoveRight moves the cursor right n columns
func (t *Terminal) MoveRight(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	writeCursorMove(t.out, n, 'C')
}

// SaveCursor stores the cursor position in the terminal's single save slot.
// A later save overwrites an earlier one.
func (t *Terminal) SaveCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out.Write(seqSaveCursor)
}

// RestoreCursor moves the cursor back to the last saved position
func (t *Terminal) RestoreCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out.Write(seqRestore)
}

// RewriteLine returns to column 0, erases the row and prints text
func (t *Terminal) RewriteLine(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out.WriteByte('\r')
	t.out.Write(seqEraseLine)
	t.out.WriteString(text)
}

// ClearScreen resets the terminal to its initial state
func (t *Terminal) ClearScreen() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out.Write(seqRIS)
}

// Print writes text at the cursor
func (t *Terminal) Print(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out.WriteString(text)
}

// Newline advances the cursor one row
func (t *Terminal) Newline() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out.WriteByte('\n')
}

// Flush sends buffered output to the underlying writer
func (t *Terminal) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return errors.Wrap(t.out.Flush(), "flush terminal output")
}
