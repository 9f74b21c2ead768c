package gvrender

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/gefview/pkg/gvsnap"
)

// SlotCount is the fixed number of display rows
const SlotCount = gvsnap.MaxLines

// Snapshot holds the last rendered text of every display row
type Snapshot [SlotCount]string

// NewSnapshot returns a snapshot with all slots empty
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Screen is the subset of terminal control the renderer draws with.
// *gvterm.Terminal satisfies it.
type Screen interface {
	MoveUp(n int)
	RewriteLine(text string)
	Newline()
	RestoreCursor()
	Flush() error
}

// Option configures a Renderer
type Option func(*Renderer)

// WithBlankStale clears rows the latest read did not reach instead of
// leaving their previous text on screen.
func WithBlankStale(blank bool) Option {
	return func(r *Renderer) {
		r.blankStale = blank
	}
}

// Renderer repaints the display region in place
type Renderer struct {
	screen     Screen
	seeker     io.Seeker
	blankStale bool
}

// New creates a Renderer drawing to screen. seeker is the snapshot
// reader; it is moved to each line's stride as that line is drawn.
func New(screen Screen, seeker io.Seeker, opts ...Option) *Renderer {
	r := &Renderer{screen: screen, seeker: seeker}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws lines over the display region and updates snap in place.
//
// The cursor is moved up SlotCount rows, every received line is rewritten
// (changed or not) and the cursor is restored to the saved anchor. Only
// slots whose text differs are stored; the return value counts them.
// Lines past SlotCount are ignored.
func (r *Renderer) Render(lines []string, snap *Snapshot) (int, error) {
	if len(lines) > SlotCount {
		lines = lines[:SlotCount]
	}

	rows := len(lines)
	if r.blankStale {
		rows = SlotCount
	}

	changed := 0
	r.screen.MoveUp(SlotCount)
	for i := 0; i < rows; i++ {
		if i < len(lines) {
			r.seek(i)
			if lines[i] != snap[i] {
				snap[i] = lines[i]
				changed++
			}
		} else if snap[i] != "" {
			snap[i] = ""
			changed++
		}
		r.screen.RewriteLine(snap[i])

		if i < rows-1 {
			r.screen.Newline()
		}
	}
	r.screen.RestoreCursor()

	if err := r.screen.Flush(); err != nil {
		return changed, errors.Wrap(err, "render snapshot")
	}
	return changed, nil
}

// seek keeps the file cursor at line i's stride. The position is
// bookkeeping only, so failures are logged and drawing continues.
func (r *Renderer) seek(i int) {
	if r.seeker == nil {
		return
	}
	if _, err := r.seeker.Seek(int64(i)*gvsnap.LineStride, io.SeekStart); err != nil {
		log.Debugf("Stride seek for line %d failed: %s", i, err)
	}
}
