package gvkeys

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/txn2/gefview/pkg/gvterm"
)

func waitDone(t *testing.T, l *Listener) {
	t.Helper()
	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Listener did not exit")
	}
}

func TestListener_StopsAfterQuitKey(t *testing.T) {
	q := NewQueue()
	keys := gvterm.NewMockKeyReader('a', 'Q', 'z')

	l := NewListener(ListenerOpts{Keys: keys, Queue: q})
	l.Start()
	waitDone(t, l)

	if err := l.Wait(); err != nil {
		t.Errorf("Expected nil error after quit key, got %v", err)
	}
	if keys.GetCallCount() != 2 {
		t.Errorf("Expected listener to stop reading after quit, read %d keys", keys.GetCallCount())
	}
	if q.Len() != 2 {
		t.Fatalf("Expected 2 queued keys, got %d", q.Len())
	}
	first, _ := q.TryPop()
	second, _ := q.TryPop()
	if first.Key != 'a' || second.Key != 'Q' {
		t.Errorf("Unexpected queue contents %q, %q", first.Key, second.Key)
	}
}

func TestListener_ReadErrorTerminatesListenerOnly(t *testing.T) {
	q := NewQueue()
	keys := gvterm.NewMockKeyReader()
	keys.Err = pkgerrors.Wrap(gvterm.ErrRawMode, "enter raw mode")

	l := NewListener(ListenerOpts{Keys: keys, Queue: q})
	l.Start()
	waitDone(t, l)

	err := l.Wait()
	if !pkgerrors.Is(err, gvterm.ErrRawMode) {
		t.Errorf("Expected ErrRawMode, got %v", err)
	}
	if l.Err() == nil {
		t.Error("Err() should report the terminating error after Done")
	}
	if q.Len() != 0 {
		t.Errorf("Expected nothing queued, got %d", q.Len())
	}
}

func TestListener_EOFOnInput(t *testing.T) {
	l := NewListener(ListenerOpts{Keys: gvterm.NewMockKeyReader('x'), Queue: NewQueue()})
	l.Start()
	if err := l.Wait(); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestListener_DrawsPromptBelowAnchor(t *testing.T) {
	var buf bytes.Buffer
	term := gvterm.New(&buf)

	l := NewListener(ListenerOpts{
		Terminal: term,
		Keys:     gvterm.NewMockKeyReader('q'),
		Queue:    NewQueue(),
		Prompt:   "Press 'q' to exit: ",
	})
	l.Start()
	waitDone(t, l)

	want := "\x1b[9B" + "Press 'q' to exit: " + "\x1b[s" + "\x1b[10A"
	if got := buf.String(); got != want {
		t.Errorf("prompt output = %q, want %q", got, want)
	}
}

func TestListener_StartIsIdempotent(t *testing.T) {
	keys := gvterm.NewMockKeyReader('q')
	l := NewListener(ListenerOpts{Keys: keys, Queue: NewQueue()})
	l.Start()
	l.Start()
	waitDone(t, l)

	if keys.GetCallCount() != 1 {
		t.Errorf("Expected a single read loop, got %d reads", keys.GetCallCount())
	}
}

func TestListener_DelayBetweenKeys(t *testing.T) {
	delay := 30 * time.Millisecond
	l := NewListener(ListenerOpts{
		Keys:  gvterm.NewMockKeyReader('a', 'b', 'q'),
		Queue: NewQueue(),
		Delay: delay,
	})

	start := time.Now()
	l.Start()
	waitDone(t, l)

	if elapsed := time.Since(start); elapsed < 2*delay {
		t.Errorf("Expected at least %s between three keys, took %s", 2*delay, elapsed)
	}
}

func TestListener_ErrBeforeDone(t *testing.T) {
	l := NewListener(ListenerOpts{Keys: gvterm.NewMockKeyReader(), Queue: NewQueue()})
	if l.Err() != nil {
		t.Error("Err() should be nil before the listener exits")
	}
}
