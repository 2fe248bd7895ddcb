package app

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/andyrewlee/marquee/internal/logging"
)

// configWatcher reports debounced changes to a single config file. It watches
// the parent directory so editors that replace the file by rename are seen.
type configWatcher struct {
	watcher *fsnotify.Watcher

	path string
	dir  string

	onChanged func(path string)
	debounce  time.Duration

	mu        sync.Mutex
	timer     *time.Timer
	closed    bool
	closeOnce sync.Once
}

func newConfigWatcher(path string, onChanged func(path string)) (*configWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	cw := &configWatcher{
		watcher:   watcher,
		path:      filepath.Clean(path),
		onChanged: onChanged,
		debounce:  configWatcherDebounce,
	}
	cw.dir = filepath.Dir(cw.path)
	if err := watcher.Add(cw.dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return cw, nil
}

func (cw *configWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if cw.isConfigEvent(event) {
				cw.scheduleNotify()
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Debug("config watcher: %v", err)
		}
	}
}

func (cw *configWatcher) Close() error {
	var err error
	cw.closeOnce.Do(func() {
		cw.mu.Lock()
		cw.closed = true
		if cw.timer != nil {
			cw.timer.Stop()
			cw.timer = nil
		}
		cw.mu.Unlock()
		if cw.watcher != nil {
			err = cw.watcher.Close()
		}
	})
	return err
}

func (cw *configWatcher) isConfigEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != cw.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (cw *configWatcher) scheduleNotify() {
	if cw.onChanged == nil {
		return
	}
	cw.mu.Lock()
	if cw.closed {
		cw.mu.Unlock()
		return
	}
	if cw.timer == nil {
		cw.timer = time.AfterFunc(cw.debounce, cw.fire)
	} else {
		cw.timer.Reset(cw.debounce)
	}
	cw.mu.Unlock()
}

func (cw *configWatcher) fire() {
	cw.mu.Lock()
	if cw.closed {
		cw.mu.Unlock()
		return
	}
	cw.timer = nil
	cw.mu.Unlock()

	cw.onChanged(cw.path)
}
