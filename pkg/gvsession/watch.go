package gvsession

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultWatchQuiet is how long a burst of file events must settle before
// the driver is woken
const DefaultWatchQuiet = 50 * time.Millisecond

// FileWatcher wakes the driver when the snapshot file is created or
// written. It watches the parent directory so the file may appear after
// the watch starts. The driver's fixed intervals still apply; a wake only
// cuts the current sleep short.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	target   string
	wakeChan chan struct{}
	debounce func(f func())

	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewFileWatcher starts watching path's directory. quiet <= 0 uses
// DefaultWatchQuiet.
func NewFileWatcher(path string, quiet time.Duration) (*FileWatcher, error) {
	if quiet <= 0 {
		quiet = DefaultWatchQuiet
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create file watcher")
	}

	target := filepath.Clean(path)
	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "watch %s", dir)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		target:   target,
		wakeChan: make(chan struct{}, 1),
		debounce: debounce.New(quiet),
		stopChan: make(chan struct{}),
	}

	fw.wg.Add(1)
	go fw.loop()

	log.Debugf("Watching %s for changes to %s", dir, filepath.Base(target))
	return fw, nil
}

// Wake implements Notifier.
func (fw *FileWatcher) Wake() <-chan struct{} {
	return fw.wakeChan
}

func (fw *FileWatcher) loop() {
	defer fw.wg.Done()
	for {
		select {
		case <-fw.stopChan:
			return
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				fw.debounce(fw.signal)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("File watcher error: %s", err)
		}
	}
}

// signal is non-blocking; one pending wake is enough
func (fw *FileWatcher) signal() {
	select {
	case fw.wakeChan <- struct{}{}:
	default:
	}
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.stopChan)
		err = fw.watcher.Close()
		fw.wg.Wait()
	})
	return errors.Wrap(err, "close file watcher")
}
