package gvkeys

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/gefview/pkg/gvterm"
)

// PromptOffset is how many rows below the render anchor the prompt sits
const PromptOffset = 9

// ListenerOpts configures a Listener
type ListenerOpts struct {
	Terminal *gvterm.Terminal
	Keys     gvterm.KeyReader
	Queue    *Queue
	Prompt   string
	Delay    time.Duration
}

// Listener reads keystrokes in the background and pushes them onto a Queue.
// It stops on its own after pushing a quit key or when a read fails; there
// is no way to cancel it from outside.
type Listener struct {
	term   *gvterm.Terminal
	keys   gvterm.KeyReader
	queue  *Queue
	prompt string
	delay  time.Duration

	startOnce sync.Once
	doneChan  chan struct{}
	err       error
}

// NewListener creates a listener; call Start to run it
func NewListener(opts ListenerOpts) *Listener {
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	return &Listener{
		term:     opts.Terminal,
		keys:     opts.Keys,
		queue:    opts.Queue,
		prompt:   opts.Prompt,
		delay:    opts.Delay,
		doneChan: make(chan struct{}),
	}
}

// Start draws the prompt and launches the read loop.
// The prompt is drawn synchronously so the terminal is free for the
// driver as soon as Start returns.
func (l *Listener) Start() {
	l.startOnce.Do(func() {
		l.drawPrompt()
		go l.run()
	})
}

// drawPrompt prints the prompt PromptOffset rows below the anchor, saves
// that spot as the prompt anchor, and moves back up to the render anchor.
func (l *Listener) drawPrompt() {
	if l.term == nil {
		return
	}
	l.term.MoveDown(PromptOffset)
	l.term.Print(l.prompt)
	l.term.SaveCursor()
	l.term.MoveUp(PromptOffset + 1)
	if err := l.term.Flush(); err != nil {
		log.Warnf("Failed to draw prompt: %s", err)
	}
}

func (l *Listener) run() {
	defer close(l.doneChan)

	for {
		key, err := l.keys.ReadKey()
		if err != nil {
			l.err = errors.Wrap(err, "keystroke listener stopped")
			log.Debugf("%s", l.err)
			return
		}

		ks := l.queue.Push(key)
		log.Debugf("Keystroke #%d %q queued", ks.Seq, ks.Key)
		if ks.IsQuit() {
			return
		}

		if l.delay > 0 {
			time.Sleep(l.delay)
		}
	}
}

// Done is closed once the read loop has exited
func (l *Listener) Done() <-chan struct{} {
	return l.doneChan
}

// Wait blocks until the listener exits and returns the error that stopped
// it, or nil when it stopped on a quit key.
func (l *Listener) Wait() error {
	<-l.doneChan
	return l.err
}

// Err returns the terminating error once Done is closed
func (l *Listener) Err() error {
	select {
	case <-l.doneChan:
		return l.err
	default:
		return nil
	}
}
