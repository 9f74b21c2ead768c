package gvsession

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/gefview/pkg/gvcfg"
	"github.com/txn2/gefview/pkg/gvkeys"
	"github.com/txn2/gefview/pkg/gvrender"
	"github.com/txn2/gefview/pkg/gvsnap"
	"github.com/txn2/gefview/pkg/gvterm"
)

// ErrWaitTimeout is returned when the snapshot file did not appear within
// the configured wait timeout
var ErrWaitTimeout = errors.New("timed out waiting for snapshot file")

// Source is an open snapshot file. *gvsnap.Reader satisfies it.
type Source interface {
	io.Seeker
	Poll() ([]string, error)
	Close() error
}

// Opener opens the snapshot file at path
type Opener func(path string) (Source, error)

// Notifier wakes the driver early when the snapshot file changes
type Notifier interface {
	Wake() <-chan struct{}
}

// Waiter is anything the driver can join at shutdown
type Waiter interface {
	Wait() error
}

// Opts configures a Driver
type Opts struct {
	Config   *gvcfg.Config
	Terminal *gvterm.Terminal
	Queue    *gvkeys.Queue
	Open     Opener   // defaults to gvsnap.Open
	Notifier Notifier // optional
}

// Result is the outcome of Run
type Result struct {
	State    State
	Stats    Stats
	Snapshot gvrender.Snapshot
}

// Driver runs one viewing session: wait for the snapshot file, then poll,
// render and check for quit until the session ends.
type Driver struct {
	cfg      *gvcfg.Config
	term     *gvterm.Terminal
	queue    *gvkeys.Queue
	open     Opener
	notifier Notifier

	state    atomic.Int32
	stats    statsCounter
	snapshot *gvrender.Snapshot

	runOnce sync.Once
}

// New creates a Driver
func New(opts Opts) *Driver {
	cfg := opts.Config
	if cfg == nil {
		cfg = gvcfg.Default()
	}
	open := opts.Open
	if open == nil {
		open = func(path string) (Source, error) {
			return gvsnap.Open(path)
		}
	}
	queue := opts.Queue
	if queue == nil {
		queue = gvkeys.NewQueue()
	}
	term := opts.Terminal
	if term == nil {
		term = gvterm.New(io.Discard)
	}

	d := &Driver{
		cfg:      cfg,
		term:     term,
		queue:    queue,
		open:     open,
		notifier: opts.Notifier,
		snapshot: gvrender.NewSnapshot(),
	}
	d.state.Store(int32(StateWaitingForFile))
	return d
}

// State returns the current state. Safe to call from any goroutine.
func (d *Driver) State() State {
	return State(d.state.Load())
}

// Stats returns the counters so far. Safe to call from any goroutine.
func (d *Driver) Stats() Stats {
	return d.stats.snapshot()
}

func (d *Driver) setState(s State) {
	old := State(d.state.Swap(int32(s)))
	if old != s {
		log.Debugf("Session %s -> %s", old, s)
	}
}

// Run drives the session until it reaches a terminal state. The snapshot
// file is closed before Run returns. Run may only be called once.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	var (
		final State
		err   error
	)
	ran := false
	d.runOnce.Do(func() {
		ran = true
		final, err = d.run(ctx)
		d.setState(final)
	})
	if !ran {
		return d.result(), errors.New("session already ran")
	}

	res := d.result()
	log.Infof("Session ended in %s: %s", res.State, res.Stats)
	return res, err
}

func (d *Driver) result() Result {
	return Result{
		State:    d.State(),
		Stats:    d.Stats(),
		Snapshot: *d.snapshot,
	}
}

func (d *Driver) run(ctx context.Context) (State, error) {
	d.setState(StateWaitingForFile)
	if next, err := d.waitForFile(ctx); next != StateStreaming {
		return next, err
	}

	src, err := d.open(d.cfg.SnapshotPath)
	if err != nil {
		return StateFailed, errors.Wrap(err, "open snapshot")
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			log.Warnf("Failed to close snapshot file: %s", cerr)
		}
	}()

	d.setState(StateStreaming)
	return d.stream(ctx, src)
}

// waitForFile checks for the snapshot file every FileWaitInterval until it
// exists, the optional timeout passes, quit is pressed or ctx ends.
func (d *Driver) waitForFile(ctx context.Context) (State, error) {
	path := d.cfg.SnapshotPath

	var deadline <-chan time.Time
	if d.cfg.WaitTimeout > 0 {
		timer := time.NewTimer(d.cfg.WaitTimeout)
		defer timer.Stop()
		deadline = timer.C
	}

	logged := false
	for {
		_, err := os.Stat(path)
		if err == nil {
			return StateStreaming, nil
		}
		if !os.IsNotExist(err) {
			log.Debugf("Stat %s: %s", path, err)
		}
		if !logged {
			log.Infof("Waiting for snapshot file %s", path)
			logged = true
		}

		if d.quitRequested() {
			return StateQuit, nil
		}

		timer := time.NewTimer(d.cfg.FileWaitInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return StateCancelled, nil
		case <-deadline:
			timer.Stop()
			return StateWaitTimeout, errors.Wrapf(ErrWaitTimeout, "%s after %s", path, d.cfg.WaitTimeout)
		case <-d.wake():
			timer.Stop()
		case <-timer.C:
		}
	}
}

// stream is the poll, diff, render, check-quit loop
func (d *Driver) stream(ctx context.Context, src Source) (State, error) {
	renderer := gvrender.New(d.term, src, gvrender.WithBlankStale(d.cfg.BlankStale))

	// reserve the display region below the anchor
	d.term.Print(strings.Repeat("\n", gvrender.SlotCount))
	if err := d.term.Flush(); err != nil {
		return StateFailed, err
	}

	for {
		if ctx.Err() != nil {
			return StateCancelled, nil
		}

		lines, err := src.Poll()
		d.stats.update(func(s *Stats) { s.Polls++ })

		switch {
		case errors.Is(err, gvsnap.ErrNoData):
			d.stats.update(func(s *Stats) { s.NoData++ })
			if d.quitRequested() {
				return StateQuit, nil
			}
			if !d.sleep(ctx, d.cfg.NoDataBackoff) {
				return StateCancelled, nil
			}
			continue

		case errors.Is(err, gvsnap.ErrEndOfStream):
			log.Infof("Snapshot stream ended")
			return StateEndOfStream, nil

		case errors.Is(err, gvsnap.ErrDecode):
			d.stats.update(func(s *Stats) { s.DecodeErrors++ })
			log.Warnf("Skipping frame: %s", err)

		case err != nil:
			return StateFailed, errors.Wrap(err, "poll snapshot")

		default:
			changed, err := renderer.Render(lines, d.snapshot)
			d.stats.update(func(s *Stats) {
				s.Frames++
				s.ChangedSlots += uint64(changed)
			})
			if err != nil {
				return StateFailed, err
			}
		}

		if d.quitRequested() {
			return StateQuit, nil
		}
		if !d.sleep(ctx, d.cfg.PollInterval) {
			return StateCancelled, nil
		}
	}
}

// quitRequested drains every pending keystroke and reports whether any of
// them was a quit key.
func (d *Driver) quitRequested() bool {
	quit := false
	for {
		ks, ok := d.queue.TryPop()
		if !ok {
			return quit
		}
		d.stats.update(func(s *Stats) { s.KeysConsumed++ })
		if ks.IsQuit() {
			log.Debugf("Quit key #%d received", ks.Seq)
			quit = true
		}
	}
}

// sleep waits for dur, an early wake from the notifier, or ctx.
// It returns false when ctx ended.
func (d *Driver) sleep(ctx context.Context, dur time.Duration) bool {
	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-d.wake():
	case <-timer.C:
	}
	return true
}

// wake returns the notifier channel, or nil (never ready) without one
func (d *Driver) wake() <-chan struct{} {
	if d.notifier == nil {
		return nil
	}
	return d.notifier.Wake()
}

// Finish moves the cursor back to the prompt, ends the line and joins
// the listener. The join is unconditional: a listener that never sees a
// quit key keeps Finish from returning.
func (d *Driver) Finish(listener Waiter) error {
	d.term.RestoreCursor()
	d.term.Print("\r\n")
	if err := d.term.Flush(); err != nil {
		log.Warnf("Failed to restore cursor: %s", err)
	}
	if listener == nil {
		return nil
	}
	log.Debugf("Waiting for keystroke listener")
	return listener.Wait()
}
