package gvsession

import (
	"fmt"
	"sync"
)

// Stats counts what happened during a session
type Stats struct {
	Polls        uint64 // completed poll attempts
	Frames       uint64 // snapshots rendered
	NoData       uint64 // polls that would have blocked
	DecodeErrors uint64 // chunks skipped as invalid UTF-8
	ChangedSlots uint64 // stored slot updates across all frames
	KeysConsumed uint64 // keystrokes taken off the queue
}

// String returns a one-line summary for logs
func (s Stats) String() string {
	return fmt.Sprintf("polls=%d frames=%d no-data=%d decode-errors=%d changed-slots=%d keys=%d",
		s.Polls, s.Frames, s.NoData, s.DecodeErrors, s.ChangedSlots, s.KeysConsumed)
}

// statsCounter guards Stats for readers outside the driver goroutine
type statsCounter struct {
	mu    sync.RWMutex
	stats Stats
}

func (c *statsCounter) update(fn func(*Stats)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.stats)
}

func (c *statsCounter) snapshot() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}
