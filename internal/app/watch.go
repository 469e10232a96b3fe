package app

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/scened/internal/logger"
)

// sceneWatcher reports changes to the scene file made by other programs.
// It watches the parent directory because saves replace the file by rename.
type sceneWatcher struct {
	watcher *fsnotify.Watcher
	name    string
	changed chan struct{}
	done    chan struct{}
	log     *zap.Logger

	// Events before this UnixNano instant are dropped.
	ignoreUntil atomic.Int64
}

func newSceneWatcher(path string) (*sceneWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve scene path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &sceneWatcher{
		watcher: fw,
		name:    filepath.Clean(abs),
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     logger.Named("watch"),
	}
	go w.run()

	w.log.Info("watching scene file", zap.String("path", w.name))
	return w, nil
}

func (w *sceneWatcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if time.Now().UnixNano() < w.ignoreUntil.Load() {
				continue
			}
			w.log.Debug("scene file changed", zap.Stringer("op", ev.Op))
			// Coalesce: one pending notification is enough.
			select {
			case w.changed <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// Changed delivers a value after the file changes. Drain it from the frame loop.
func (w *sceneWatcher) Changed() <-chan struct{} {
	return w.changed
}

// Suppress drops events for d, covering the editor's own saves.
func (w *sceneWatcher) Suppress(d time.Duration) {
	w.ignoreUntil.Store(time.Now().Add(d).UnixNano())
}

func (w *sceneWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
