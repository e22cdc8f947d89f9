package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a fixed set of files. It watches the parent
// directories so editors that replace files on save are still seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	logger   *zap.Logger
	files    map[string]bool
	debounce time.Duration
	changes  chan string
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewWatcher starts watching the given files.
func NewWatcher(logger *zap.Logger, debounce time.Duration, paths ...string) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		logger:   logger,
		files:    make(map[string]bool, len(paths)),
		debounce: debounce,
		changes:  make(chan string, 1),
		stopCh:   make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		logger.Debug("watching directory", zap.String("dir", dir))
	}

	go w.loop()
	return w, nil
}

// Changes delivers the path of a changed file after the debounce delay.
// Bursts of changes collapse into one notification.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var pending string
	fire := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}

			w.logger.Debug("file changed",
				zap.String("file", abs),
				zap.String("operation", event.Op.String()),
			)
			pending = abs
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			select {
			case w.changes <- pending:
			default:
				// A notification is already queued; the reader will reload anyway.
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))

		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
