package gvterm

import (
	"bufio"
)

// Escape sequences used by the in-place renderer. Relative cursor movement
// only; the viewer never addresses absolute rows.
var (
	csi           = []byte("\x1b[")
	seqSaveCursor = []byte("\x1b[s")
	seqRestore    = []byte("\x1b[u")
	seqEraseLine  = []byte("\x1b[K")
	seqRIS        = []byte("\x1bc") // Reset to Initial State
)

// writeInt writes a non-negative integer without allocation
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	w.Write(buf[i:])
}

// writeCursorMove writes CSI n <dir>. Zero or negative n writes nothing,
// since most terminals treat a count of 0 as 1.
func writeCursorMove(w *bufio.Writer, n int, dir byte) {
	if n <= 0 {
		return
	}
	w.Write(csi)
	writeInt(w, n)
	w.WriteByte(dir)
}
