package gvkeys

import (
	"sync"
	"unicode"
)

// ctrlC arrives as a plain byte while the terminal is in raw mode
const ctrlC = 0x03

// Keystroke is a single character read from the keyboard
type Keystroke struct {
	Key rune
	Seq uint64 // arrival order, starting at 1
}

// IsQuit reports whether the keystroke ends the session
func (k Keystroke) IsQuit() bool {
	return IsQuit(k.Key)
}

// IsQuit reports whether r is a quit key: 'q' in either case, or Ctrl-C
func IsQuit(r rune) bool {
	return unicode.ToLower(r) == 'q' || r == ctrlC
}

// Queue is a thread-safe FIFO of keystrokes shared by the listener
// (producer) and the session driver (consumer). Each keystroke is handed
// out at most once.
type Queue struct {
	mu      sync.Mutex
	items   []Keystroke
	nextSeq uint64
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{items: make([]Keystroke, 0, 8)}
}

// Push appends a key and returns the stored keystroke
func (q *Queue) Push(key rune) Keystroke {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextSeq++
	ks := Keystroke{Key: key, Seq: q.nextSeq}
	q.items = append(q.items, ks)
	return ks
}

// TryPop removes the oldest keystroke without blocking.
// The boolean is false when the queue is empty.
func (q *Queue) TryPop() (Keystroke, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Keystroke{}, false
	}
	ks := q.items[0]
	q.items[0] = Keystroke{}
	q.items = q.items[1:]
	return ks, true
}

// Len returns the number of pending keystrokes
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
